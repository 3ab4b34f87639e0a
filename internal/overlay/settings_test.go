package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsToggleFlipsValueUnderCursor(t *testing.T) {
	s := NewSettings(map[SettingKey]bool{SettingAutoVoice: false}, 10)
	require.Equal(t, "off", s.Panel().Items[0].Detail)

	s.Toggle()
	assert.True(t, s.Values[SettingAutoVoice])
	assert.Equal(t, "on", s.Panel().Items[0].Detail)
}

func TestSettingsMovePreservesCursorAcrossRebuild(t *testing.T) {
	s := NewSettings(map[SettingKey]bool{}, 10)
	s.Move(1)
	assert.Equal(t, 1, s.Panel().Cursor)

	s.Toggle()
	assert.Equal(t, 1, s.Panel().Cursor)
}
