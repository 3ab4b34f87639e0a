package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCycleIndexWrapsForwardAndBackward(t *testing.T) {
	assert.Equal(t, 1, CycleIndex(0, 3, 1))
	assert.Equal(t, 0, CycleIndex(2, 3, 1))
	assert.Equal(t, 2, CycleIndex(0, 3, -1))
}

func TestCycleIndexHandlesEmpty(t *testing.T) {
	assert.Equal(t, 0, CycleIndex(4, 0, 1))
}

func TestCycleOptionTreatsMissingCurrentAsIndexZero(t *testing.T) {
	options := []int{10, 20, 30}
	assert.Equal(t, 20, CycleOption(options, 99, 1))
}

func TestPanelMoveWrapsAndClampsScroll(t *testing.T) {
	items := []Action{{Label: "a"}, {Label: "b"}, {Label: "c"}, {Label: "d"}}
	p := NewPanel(KindHelp, items, 2)

	p.Move(1)
	assert.Equal(t, 1, p.Cursor)
	p.Move(1)
	p.Move(1)
	assert.Equal(t, 3, p.Cursor)
	assert.Equal(t, 2, p.ScrollTop)

	p.Move(1)
	assert.Equal(t, 0, p.Cursor)
	assert.Equal(t, 0, p.ScrollTop)
}

func TestStackPushPopTop(t *testing.T) {
	var s Stack
	assert.True(t, s.Empty())

	s.Push(NewPanel(KindHelp, nil, 4))
	s.Push(NewPanel(KindSettings, nil, 4))
	top, ok := s.Top()
	a := assert.New(t)
	a.True(ok)
	a.Equal(KindSettings, top.Kind)

	popped, ok := s.Pop()
	a.True(ok)
	a.Equal(KindSettings, popped.Kind)
	a.Equal(1, s.Depth())
}
