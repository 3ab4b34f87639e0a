package overlay

// SettingKey identifies one toggleable Settings overlay field: the
// Settings overlay is a scrollable menu of toggleable options bound to
// overlay config fields.
type SettingKey string

const (
	SettingAutoVoice      SettingKey = "auto_voice"
	SettingWakeWord       SettingKey = "wake_word"
	SettingHudRightPanel  SettingKey = "hud_right_panel"
	SettingLatencyDisplay SettingKey = "latency_display"
	SettingDevMode        SettingKey = "dev_mode"
)

// settingOrder is the fixed display order of Settings rows.
var settingOrder = []SettingKey{
	SettingAutoVoice,
	SettingWakeWord,
	SettingHudRightPanel,
	SettingLatencyDisplay,
	SettingDevMode,
}

// settingLabels gives each key its HUD label.
var settingLabels = map[SettingKey]string{
	SettingAutoVoice:      "Auto-voice",
	SettingWakeWord:       "Wake word",
	SettingHudRightPanel:  "Right panel",
	SettingLatencyDisplay: "Latency display",
	SettingDevMode:        "Dev mode",
}

// Settings is the scrollable toggle-menu overlay state.
type Settings struct {
	Values map[SettingKey]bool
	panel  *Panel
}

// NewSettings opens the Settings overlay seeded from the current config
// flags ("bound to overlay config fields").
func NewSettings(values map[SettingKey]bool, visibleRows int) *Settings {
	s := &Settings{Values: values}
	s.rebuild(visibleRows)
	return s
}

func (s *Settings) rebuild(visibleRows int) {
	items := make([]Action, len(settingOrder))
	for i, k := range settingOrder {
		items[i] = Action{Label: settingLabels[k], Detail: onOff(s.Values[k]), Enabled: true}
	}
	if s.panel == nil {
		s.panel = NewPanel(KindSettings, items, visibleRows)
		return
	}
	cursor := s.panel.Cursor
	scroll := s.panel.ScrollTop
	s.panel = NewPanel(KindSettings, items, visibleRows)
	s.panel.Cursor = cursor
	s.panel.ScrollTop = scroll
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Move advances the cursor.
func (s *Settings) Move(direction int) { s.panel.Move(direction) }

// Toggle flips the value under the cursor and rebuilds the displayed
// Detail column.
func (s *Settings) Toggle() {
	if s.panel == nil || len(settingOrder) == 0 {
		return
	}
	key := settingOrder[s.panel.Cursor]
	s.Values[key] = !s.Values[key]
	s.rebuild(s.panel.VisibleRows)
}

// Panel exposes the shared list-style Panel for chrome rendering.
func (s *Settings) Panel() *Panel { return s.panel }
