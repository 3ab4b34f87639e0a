package writer

import (
	"bytes"
	"time"

	"github.com/csheth/voiceterm/internal/ptysession"
)

// MessageKind discriminates the Writer's bounded message stream.
type MessageKind int

const (
	MsgPtyOutput MessageKind = iota
	MsgStatus
	MsgClearStatus
	MsgShowOverlay
	MsgClearOverlay
	MsgResize
	MsgBell
	MsgShutdown
)

// Message is one instruction to the dedicated writer thread.
// PtyOutput bytes are not carried here — the PTY reader tees output
// directly into the shared midterm.Terminal buffer Run renders from, so a
// PtyOutput message only needs to signal "redraw" under a
// VT-mirror-then-repaint model rather than a literal byte pass-through.
type Message struct {
	Kind MessageKind

	Status string

	OverlayLines  []string
	OverlayHeight int

	Rows, Cols, ChildRows int

	BellCount int
}

// statusIdleWindow and statusHardCeiling implement the status-redraw
// debounce policy: a status-only redraw is delayed while PTY output is
// bursting, but never delayed past the hard ceiling.
const (
	statusIdleWindow  = 50 * time.Millisecond
	statusHardCeiling = 500 * time.Millisecond
)

// Run is the writer's dedicated goroutine: it owns all mutable render
// state (status text, overlay content, terminal dimensions) and is the
// sole caller of RenderFrame, so redraws never interleave.
// It returns when msgs is closed or a Shutdown message arrives.
func (w *Writer) Run(session *ptysession.Session, msgs <-chan Message) {
	var (
		childRows     int
		cols          int
		cursorVisible = true
		statusText    string
		overlayLines  []string
		overlayHeight int

		lastPtyOutputAt time.Time
		pendingStatus   *string
		pendingSince    time.Time
	)

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	redraw := func() {
		overlay := composeOverlay(overlayLines, overlayHeight, statusText, cols)
		w.RenderFrame(session, 0, childRows, cols, overlay, cursorVisible)
	}

	flushPendingStatus := func() {
		if pendingStatus == nil {
			return
		}
		statusText = *pendingStatus
		pendingStatus = nil
		redraw()
	}

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			switch msg.Kind {
			case MsgShutdown:
				return
			case MsgPtyOutput:
				lastPtyOutputAt = time.Now()
				redraw()
			case MsgStatus:
				if msg.Status == statusText {
					continue // consecutive duplicate status never redraws
				}
				now := time.Now()
				if pendingStatus == nil {
					pendingSince = now
				}
				pendingStatus = &msg.Status
				if now.Sub(lastPtyOutputAt) >= statusIdleWindow {
					flushPendingStatus()
				}
			case MsgClearStatus:
				if statusText == "" && pendingStatus == nil {
					continue
				}
				pendingStatus = nil
				statusText = ""
				redraw()
			case MsgShowOverlay:
				overlayLines = msg.OverlayLines
				overlayHeight = msg.OverlayHeight
				redraw()
			case MsgClearOverlay:
				overlayLines = nil
				overlayHeight = 0
				redraw()
			case MsgResize:
				childRows = msg.ChildRows
				cols = msg.Cols
				redraw()
			case MsgBell:
				w.WriteRaw(bytes.Repeat([]byte{0x07}, msg.BellCount))
			}
		case <-ticker.C:
			if pendingStatus == nil {
				continue
			}
			now := time.Now()
			idleLongEnough := now.Sub(lastPtyOutputAt) >= statusIdleWindow
			pastCeiling := now.Sub(pendingSince) >= statusHardCeiling
			if idleLongEnough || pastCeiling {
				flushPendingStatus()
			}
		}
	}
}

// composeOverlay lays the status line out as the final row of the reserved
// region, beneath overlayLines: overlay content first, status line last.
// Both are clamped to cols so nothing overruns into the child's columns.
func composeOverlay(overlayLines []string, overlayHeight int, status string, cols int) []string {
	out := make([]string, 0, overlayHeight+1)
	for i := 0; i < overlayHeight && i < len(overlayLines); i++ {
		out = append(out, TruncateANSI(overlayLines[i], cols))
	}
	out = append(out, TruncateANSI(SanitizeStatus(status), cols))
	return out
}
