package eventloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/voiceterm/internal/overlay"
	"github.com/csheth/voiceterm/internal/prompt"
	"github.com/csheth/voiceterm/internal/ptysession"
	"github.com/csheth/voiceterm/internal/transcript"
	"github.com/csheth/voiceterm/internal/writer"
)

func newTestLoop() (*Loop, chan writer.Message) {
	msgs := make(chan writer.Message, 8)
	l := &Loop{
		Session:   ptysession.New(ptysession.Config{Command: "/bin/true", Rows: 24, Cols: 80}),
		WriterMsg: msgs,
		Prompt:    prompt.New(prompt.Config{}),
		Queue:     transcript.NewQueue(8),
		Overlays:  &overlay.Stack{},
		OpenHelp:  func() *overlay.Panel { return overlay.NewHelp(10) },
	}
	l.totalRows, l.totalCols = 24, 80
	return l, msgs
}

func drainLatest(msgs chan writer.Message) (writer.Message, bool) {
	var last writer.Message
	found := false
	for {
		select {
		case m := <-msgs:
			last = m
			found = true
		default:
			return last, found
		}
	}
}

func TestOpenOverlaySendsShowOverlayWithComposedRows(t *testing.T) {
	l, msgs := newTestLoop()

	l.openOverlay(overlay.KindHelp)

	last, ok := drainLatest(msgs)
	require.True(t, ok)
	assert.Equal(t, writer.MsgShowOverlay, last.Kind)
	require.NotEmpty(t, last.OverlayLines)
	assert.Contains(t, last.OverlayLines[0], "Help")
	assert.Equal(t, overlay.KindHelp.ReservedRows(), last.OverlayHeight)
}

func TestCloseOverlaySendsClearOverlay(t *testing.T) {
	l, msgs := newTestLoop()

	l.openOverlay(overlay.KindHelp)
	drainLatest(msgs)

	l.closeOverlay()

	last, ok := drainLatest(msgs)
	require.True(t, ok)
	assert.Equal(t, writer.MsgClearOverlay, last.Kind)
}

func TestRefreshWriterOverlayNoActivePanelClearsOverlay(t *testing.T) {
	l, msgs := newTestLoop()

	l.refreshWriterOverlay()

	last, ok := drainLatest(msgs)
	require.True(t, ok)
	assert.Equal(t, writer.MsgClearOverlay, last.Kind)
}
