package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csheth/voiceterm/internal/theme"
)

func TestThemePickerMoveCyclesThroughOrder(t *testing.T) {
	p := NewThemePicker(theme.Dark)
	p.Move(1)
	assert.Equal(t, theme.Light, p.Selected)
	p.Move(-1)
	assert.Equal(t, theme.Dark, p.Selected)
}

func TestThemePickerPanelHighlightsSelected(t *testing.T) {
	p := NewThemePicker(theme.Mono)
	panel := p.Panel(10)
	assert.Equal(t, string(theme.Mono), panel.Items[panel.Cursor].Label)
}
