package eventloop

import (
	"fmt"

	"github.com/csheth/voiceterm/internal/devbroker"
	"github.com/csheth/voiceterm/internal/overlay"
)

// themeStudioPanel renders the current page of a ThemeStudio as a
// list-style Panel so it can share the generic overlay chrome, rather than
// giving ThemeStudio its own Panel method (it has no fixed item list —
// each page's field set differs).
func themeStudioPanel(t *overlay.ThemeStudio, visibleRows int) *overlay.Panel {
	if t == nil {
		return nil
	}
	var items []overlay.Action
	switch t.Page {
	case overlay.PageHome:
		items = []overlay.Action{{Label: "Edit colors", Enabled: true}, {Label: "Edit borders", Enabled: true}, {Label: "Edit components", Enabled: true}, {Label: "Preview", Enabled: true}, {Label: "Export", Enabled: true}}
	case overlay.PageColors:
		items = []overlay.Action{{Label: "Recording", Enabled: true}, {Label: "Processing", Enabled: true}, {Label: "Success", Enabled: true}, {Label: "Warning", Enabled: true}, {Label: "Error", Enabled: true}}
	case overlay.PageBorders:
		items = []overlay.Action{{Label: "Rounded", Enabled: true}, {Label: "Square", Enabled: true}, {Label: "Thick", Enabled: true}, {Label: "None", Enabled: true}}
	case overlay.PageComponents:
		items = []overlay.Action{{Label: "Overlay border", Enabled: true}, {Label: "Status indicators", Enabled: true}}
	case overlay.PagePreview:
		items = []overlay.Action{{Label: "Preview current pack", Enabled: true}}
	case overlay.PageExport:
		items = []overlay.Action{{Label: "Export to style pack JSON", Enabled: true}}
	}
	p := overlay.NewPanel(overlay.KindThemeStudio, items, visibleRows)
	p.Cursor = t.Cursor()
	return p
}

// devPanelPanel renders a DevPanel's command list plus lifecycle status as
// a list-style Panel. DevPanel has no Panel method of its own since its
// display mixes a fixed command list with live per-request state.
func devPanelPanel(d *overlay.DevPanel) *overlay.Panel {
	if d == nil {
		return nil
	}
	items := make([]overlay.Action, len(devbroker.AllCommands))
	for i, kind := range devbroker.AllCommands {
		detail := ""
		if kind.Mutating() {
			detail = "confirm"
		}
		items[i] = overlay.Action{Label: kind.String(), Detail: detail, Enabled: true}
	}
	items = append(items, overlay.Action{
		Label:  "Last",
		Detail: d.LastSummary(),
	})
	items = append(items, overlay.Action{
		Label:  "Active",
		Detail: fmt.Sprintf("%d running", d.ActiveCount()),
	})
	p := overlay.NewPanel(overlay.KindDevPanel, items, len(items))
	p.Cursor = d.Cursor
	return p
}
