package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/voiceterm/internal/theme"
)

func TestThemeStudioCyclePageWraps(t *testing.T) {
	s := NewThemeStudio(nil)
	assert.Equal(t, PageHome, s.Page)
	s.CyclePage(-1)
	assert.Equal(t, PageExport, s.Page)
}

func TestThemeStudioPerPageCursor(t *testing.T) {
	s := NewThemeStudio(nil)
	s.MoveCursor(1, 5)
	assert.Equal(t, 1, s.Cursor())

	s.CyclePage(1)
	assert.Equal(t, 0, s.Cursor(), "a freshly visited page has its own cursor")
}

func TestThemeStudioUndoRedoRoundTrips(t *testing.T) {
	original := &theme.StylePack{Version: 1}
	s := NewThemeStudio(original)

	next := &theme.StylePack{Version: 2}
	s.Apply(next)
	assert.Same(t, next, s.Current())

	s.Undo()
	assert.Same(t, original, s.Current())

	s.Redo()
	assert.Same(t, next, s.Current())
}

func TestThemeStudioUndoOnEmptyStackIsNoop(t *testing.T) {
	s := NewThemeStudio(nil)
	s.Undo()
	assert.Nil(t, s.Current())
}

func TestThemeStudioApplyClearsRedoStack(t *testing.T) {
	s := NewThemeStudio(nil)
	a := &theme.StylePack{Version: 1}
	b := &theme.StylePack{Version: 2}
	c := &theme.StylePack{Version: 3}

	s.Apply(a)
	s.Undo()
	require.NotNil(t, s)

	s.Apply(b)
	s.Apply(c)
	s.Redo() // nothing to redo: Apply(b) cleared the redo stack from Undo
	assert.Same(t, c, s.Current())
}
