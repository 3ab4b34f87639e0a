package overlay

import "github.com/csheth/voiceterm/internal/theme"

// StudioPage names one page of the multi-page ThemeStudio editor:
// Home/Colors/Borders/Components/Preview/Export.
type StudioPage int

const (
	PageHome StudioPage = iota
	PageColors
	PageBorders
	PageComponents
	PagePreview
	PageExport
)

var studioPageOrder = []StudioPage{PageHome, PageColors, PageBorders, PageComponents, PagePreview, PageExport}

func (p StudioPage) String() string {
	switch p {
	case PageHome:
		return "Home"
	case PageColors:
		return "Colors"
	case PageBorders:
		return "Borders"
	case PageComponents:
		return "Components"
	case PagePreview:
		return "Preview"
	case PageExport:
		return "Export"
	default:
		return "Home"
	}
}

// studioSnapshot captures the override set at a point in time, for
// undo/redo: the undo/redo stacks hold prior runtime override snapshots.
type studioSnapshot struct {
	pack *theme.StylePack
}

// ThemeStudio is the multi-page editor's navigation and history state. It
// holds only indices, cursors, and snapshot copies — never a live
// reference into the resolver's process-wide cell.
type ThemeStudio struct {
	Page       StudioPage
	cursors    map[StudioPage]int
	undoStack  []studioSnapshot
	redoStack  []studioSnapshot
	current    *theme.StylePack
}

// NewThemeStudio opens the studio seeded with the currently active style
// pack (may be nil, meaning "no overrides installed").
func NewThemeStudio(active *theme.StylePack) *ThemeStudio {
	return &ThemeStudio{
		Page:    PageHome,
		cursors: make(map[StudioPage]int),
		current: active,
	}
}

// CyclePage advances the active page with wraparound (Tab/Shift-Tab
// cycle pages).
func (t *ThemeStudio) CyclePage(direction int) {
	t.Page = CycleOption(studioPageOrder, t.Page, direction)
}

// Cursor returns the per-page selection cursor; each page holds its own.
func (t *ThemeStudio) Cursor() int { return t.cursors[t.Page] }

// MoveCursor adjusts the active page's cursor by direction within [0, len).
func (t *ThemeStudio) MoveCursor(direction, length int) {
	t.cursors[t.Page] = CycleIndex(t.cursors[t.Page], length, direction)
}

// Apply records the pre-change state on the undo stack, clears any redo
// history (a fresh edit invalidates it), and installs next as the current
// override set.
func (t *ThemeStudio) Apply(next *theme.StylePack) {
	t.undoStack = append(t.undoStack, studioSnapshot{pack: t.current})
	t.redoStack = nil
	t.current = next
}

// Undo reverts to the previous snapshot, pushing the current one onto
// redo. No-op if there is nothing to undo.
func (t *ThemeStudio) Undo() {
	if len(t.undoStack) == 0 {
		return
	}
	prev := t.undoStack[len(t.undoStack)-1]
	t.undoStack = t.undoStack[:len(t.undoStack)-1]
	t.redoStack = append(t.redoStack, studioSnapshot{pack: t.current})
	t.current = prev.pack
}

// Redo reapplies the most recently undone snapshot, pushing the current
// one back onto undo. No-op if there is nothing to redo. Undo followed by
// Redo reproduces the prior style pack byte-for-byte, since Apply/Undo/Redo
// only ever swap whole *theme.StylePack pointers, never mutate one in place.
func (t *ThemeStudio) Redo() {
	if len(t.redoStack) == 0 {
		return
	}
	next := t.redoStack[len(t.redoStack)-1]
	t.redoStack = t.redoStack[:len(t.redoStack)-1]
	t.undoStack = append(t.undoStack, studioSnapshot{pack: t.current})
	t.current = next.pack
}

// Current returns the style pack the Export page would serialize.
func (t *ThemeStudio) Current() *theme.StylePack { return t.current }
