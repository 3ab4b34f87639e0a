package overlay

// ActionKind names a quick-action entry in the ActionCenter overlay: a
// compact launcher for the most common toggles and commands, distinct
// from the full scrollable Settings menu.
type ActionKind string

const (
	ActionToggleAutoVoice ActionKind = "toggle_auto_voice"
	ActionToggleWakeWord  ActionKind = "toggle_wake_word"
	ActionOpenThemePicker ActionKind = "open_theme_picker"
	ActionOpenSettings    ActionKind = "open_settings"
	ActionCaptureImage    ActionKind = "capture_image"
)

var actionCenterOrder = []ActionKind{
	ActionToggleAutoVoice,
	ActionToggleWakeWord,
	ActionOpenThemePicker,
	ActionOpenSettings,
	ActionCaptureImage,
}

var actionCenterLabels = map[ActionKind]string{
	ActionToggleAutoVoice: "Toggle auto-voice",
	ActionToggleWakeWord:  "Toggle wake word",
	ActionOpenThemePicker: "Open theme picker",
	ActionOpenSettings:    "Open settings",
	ActionCaptureImage:    "Capture image",
}

// ActionCenter is a compact launcher panel over a fixed set of quick
// actions, reusing the shared list-style Panel for navigation.
type ActionCenter struct {
	panel *Panel
}

// NewActionCenter opens the action center.
func NewActionCenter(visibleRows int) *ActionCenter {
	items := make([]Action, len(actionCenterOrder))
	for i, k := range actionCenterOrder {
		items[i] = Action{Label: actionCenterLabels[k], Enabled: true}
	}
	return &ActionCenter{panel: NewPanel(KindActionCenter, items, visibleRows)}
}

// Move advances the cursor.
func (a *ActionCenter) Move(direction int) { a.panel.Move(direction) }

// Panel exposes the shared list-style Panel.
func (a *ActionCenter) Panel() *Panel { return a.panel }

// Selected returns the ActionKind under the cursor.
func (a *ActionCenter) Selected() (ActionKind, bool) {
	if a.panel.Cursor < 0 || a.panel.Cursor >= len(actionCenterOrder) {
		return "", false
	}
	return actionCenterOrder[a.panel.Cursor], true
}
