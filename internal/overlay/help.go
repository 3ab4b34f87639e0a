package overlay

// helpEntries is the fixed set of key-binding rows the Help overlay shows.
// Help is read-only with no mutable state: opening it is just
// constructing this Panel, and no navigation beyond scrolling is possible.
var helpEntries = []Action{
	{Label: "Voice", Detail: "Armed by auto-voice or the wake word; no key arms a manual capture", Enabled: true},
	{Label: "Esc", Detail: "Close overlay", Enabled: true},
	{Label: "Tab", Detail: "Cycle theme studio pages", Enabled: true},
	{Label: "Up/Down", Detail: "Navigate lists", Enabled: true},
	{Label: "Enter", Detail: "Confirm selection / replay transcript", Enabled: true},
	{Label: "Ctrl-C", Detail: "Cancel recording, or exit", Enabled: true},
}

// NewHelp opens the read-only Help panel.
func NewHelp(visibleRows int) *Panel {
	return NewPanel(KindHelp, helpEntries, visibleRows)
}
