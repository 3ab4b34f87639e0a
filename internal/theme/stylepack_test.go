package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFallsBackOnNewerSchemaVersion(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	sp := &StylePack{Version: SchemaVersion + 1, BaseTheme: Dark}
	square := BorderSquare
	sp.Overrides = &Overrides{BorderStyle: &square}

	got := Resolve(Dark, sp, "")
	want := base(Dark)
	assert.Equal(t, want.BorderSet, got.BorderSet, "newer schema version must fall back to base theme unchanged")
}

func TestResolveAppliesOverrideOrder(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	square := BorderSquare
	idle := "Z"
	sp := &StylePack{
		Version:   SchemaVersion,
		BaseTheme: Dark,
		Overrides: &Overrides{
			BorderStyle: &square,
			Indicators:  &Indicators{Idle: &idle},
		},
	}
	got := Resolve(Dark, sp, "")
	assert.Equal(t, borderChars(BorderSquare), got.BorderSet)
	assert.Equal(t, "Z", got.IndicatorIdle)
}

func TestResolveComponentOverrideTakesPrecedence(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	global := BorderSquare
	component := BorderThick
	sp := &StylePack{
		Version:   SchemaVersion,
		BaseTheme: Dark,
		Overrides: &Overrides{BorderStyle: &global},
		Components: map[string]Overrides{
			"overlay": {BorderStyle: &component},
		},
	}
	got := Resolve(Dark, sp, "overlay")
	assert.Equal(t, borderChars(BorderThick), got.BorderSet)
}

func TestResolveNoColorCollapsesToNonePalette(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	got := Resolve(Dark, nil, "")
	assert.Equal(t, "", got.Recording)
	assert.Equal(t, "", got.Error)
}

func TestApplyOverrideThenRevertReproducesOriginal(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	before := base(Dark)

	square := BorderSquare
	sp := &StylePack{Version: SchemaVersion, BaseTheme: Dark, Overrides: &Overrides{BorderStyle: &square}}
	after := Resolve(Dark, sp, "")
	require.NotEqual(t, before.BorderSet, after.BorderSet)

	// "Undo" by reverting to an empty style pack — must reproduce the
	// original base theme byte-for-byte.
	reverted := Resolve(Dark, nil, "")
	assert.Equal(t, before, reverted)
}

func TestParseStylePackRejectsMalformedJSON(t *testing.T) {
	_, err := ParseStylePack([]byte("{not json"))
	require.Error(t, err)
}
