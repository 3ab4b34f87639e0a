package writer

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// RestoreGuard puts the controlling terminal into raw mode and guarantees
// it is restored exactly once, even if multiple shutdown paths (signal
// handler, normal exit, panic recover) all attempt cleanup: the outer
// terminal must never be left in raw mode when the process exits.
type RestoreGuard struct {
	fd       int
	state    *term.State
	once     sync.Once
	restored bool
}

// NewRestoreGuard enters raw mode on fd (typically os.Stdin.Fd()).
func NewRestoreGuard(fd int) (*RestoreGuard, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &RestoreGuard{fd: fd, state: state}, nil
}

// Restore returns the terminal to its original mode. Safe to call more
// than once or concurrently; only the first call has effect.
func (g *RestoreGuard) Restore() {
	g.once.Do(func() {
		if g.state != nil {
			term.Restore(g.fd, g.state)
		}
		g.restored = true
	})
}

// Restored reports whether Restore has run.
func (g *RestoreGuard) Restored() bool { return g.restored }

// FinalSequence is written once after Restore to leave the outer terminal
// in a sane state: disable SGR mouse tracking, show the cursor, reset SGR,
// and move to a fresh line.
const FinalSequence = "\033[?1000l\033[?1006l\033[?25h\033[0m\r\n"

// MouseTrackingOn enables SGR extended mouse reporting for scroll-wheel
// support in the overlay.
const MouseTrackingOn = "\033[?1000h\033[?1006h"

// Stdout is the writer's underlying file handle, exposed for callers that
// need to send FinalSequence/MouseTrackingOn directly during setup/teardown
// before a Writer exists.
var Stdout = os.Stdout
