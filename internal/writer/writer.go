// Package writer renders the PTY's virtual terminal buffer plus the active
// overlay's reserved rows to the real terminal, using save/restore-cursor
// escapes so redraws never disturb where the child expects its cursor to be.
package writer

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/vito/midterm"

	"github.com/csheth/voiceterm/internal/ptysession"
)

// Writer owns the real stdout handle and the mutex serializing writes to
// it, so the PTY output pump and the periodic status-bar ticker never
// interleave escape sequences: a single writer owns the terminal.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// New wraps out (typically os.Stdout).
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// RenderFrame draws childRows rows of session's virtual terminal starting
// at startRow, followed by an overlay region (already fully composed text,
// one string per row, truncated to cols), and restores the outer cursor
// position with DECSC/DECRC so neither the child nor a human typing in the
// input bar notices the redraw.
func (w *Writer) RenderFrame(session *ptysession.Session, startRow, childRows, cols int, overlayRows []string, cursorVisible bool) {
	var buf bytes.Buffer
	buf.WriteString("\0337") // DECSC

	session.VTMu.Lock()
	for i := 0; i < childRows; i++ {
		fmt.Fprintf(&buf, "\033[%d;1H", i+1)
		RenderLineFrom(&buf, session.VT, startRow+i)
		buf.WriteString("\033[0m\033[K")
	}
	session.VTMu.Unlock()

	for i, line := range overlayRows {
		fmt.Fprintf(&buf, "\033[%d;1H", childRows+i+1)
		buf.WriteString(TruncateANSI(line, cols))
		buf.WriteString("\033[0m\033[K")
	}

	buf.WriteString("\0338") // DECRC
	if cursorVisible {
		buf.WriteString("\033[?25h")
	}

	w.mu.Lock()
	w.out.Write(buf.Bytes())
	w.mu.Unlock()
}

// RenderLineFrom writes row of vt to buf, preserving per-cell SGR formatting
// by only re-emitting escape codes when the format changes between runs
// (mirrors midterm's Format.Regions iteration).
func RenderLineFrom(buf *bytes.Buffer, vt *midterm.Terminal, row int) {
	if row < 0 || row >= len(vt.Content) {
		return
	}
	line := vt.Content[row]
	var pos int
	var lastFormat midterm.Format
	first := true
	for region := range vt.Format.Regions(row) {
		f := region.F
		if first || f != lastFormat {
			buf.WriteString("\033[0m")
			buf.WriteString(f.Render())
			lastFormat = f
			first = false
		}
		end := pos + region.Size
		if pos < len(line) {
			contentEnd := end
			if contentEnd > len(line) {
				contentEnd = len(line)
			}
			buf.WriteString(string(line[pos:contentEnd]))
		}
		pos = end
	}
	buf.WriteString("\033[0m")
}

// WriteRaw writes p directly to the terminal under the same lock used by
// RenderFrame, for one-off escape sequences (mouse tracking enable/disable,
// clear screen on resize).
func (w *Writer) WriteRaw(p []byte) {
	w.mu.Lock()
	w.out.Write(p)
	w.mu.Unlock()
}
