package overlay

import "github.com/csheth/voiceterm/internal/theme"

// themeOrder is the cyclic order theme picker/studio navigation steps
// through.
var themeOrder = []theme.Name{theme.Dark, theme.Light, theme.Mono, theme.NoColor}

// ThemePicker tracks the currently highlighted theme while the picker panel
// is open; nothing is applied until Enter is pressed in the picker.
type ThemePicker struct {
	Selected theme.Name
}

// NewThemePicker opens the picker with current highlighted.
func NewThemePicker(current theme.Name) *ThemePicker {
	return &ThemePicker{Selected: current}
}

// Move cycles the highlighted theme by direction.
func (p *ThemePicker) Move(direction int) {
	p.Selected = CycleOption(themeOrder, p.Selected, direction)
}

// Panel renders the picker as a list-style Panel for the shared chrome
// renderer.
func (p *ThemePicker) Panel(visibleRows int) *Panel {
	items := make([]Action, len(themeOrder))
	for i, n := range themeOrder {
		items[i] = Action{Label: string(n), Enabled: true}
	}
	pnl := NewPanel(KindThemePicker, items, visibleRows)
	for i, n := range themeOrder {
		if n == p.Selected {
			pnl.Cursor = i
			break
		}
	}
	return pnl
}
