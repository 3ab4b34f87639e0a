// Package ptysession implements the PTY multiplexer: it spawns
// the wrapped CLI inside a pseudo-terminal, owns the master side, tees
// output to interested observers, and enforces the reserved-rows winsize
// invariant (child rows = terminal rows - reserved rows for the active
// overlay).
package ptysession

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/vito/midterm"
)

// ErrWriteTimeout is returned by Write when the child is not reading its
// stdin within the deadline (the kernel PTY buffer is full).
var ErrWriteTimeout = errors.New("pty write timed out")

// Session owns the PTY lifecycle, child process, and virtual terminal
// buffer for the wrapped CLI. Exactly one Session is alive between
// startup and teardown.
type Session struct {
	mu sync.Mutex

	Command string
	Args    []string
	Dir     string
	Env     map[string]string

	ptm *os.File
	cmd *exec.Cmd

	// VT is the virtual terminal buffer mirroring the child's screen.
	VT *midterm.Terminal

	// VTMu guards every read and write of VT: PipeOutput and Resize write
	// under it from their own goroutines, and the writer goroutine locks it
	// for the duration of a frame read. midterm.Terminal has no internal
	// synchronization of its own.
	VTMu sync.Mutex

	Rows, Cols int // total terminal dimensions
	ChildRows  int // rows - reserved rows for the active overlay

	lastOutputAt time.Time

	Exited    bool
	ExitError error

	// pendingCap bounds the backpressure queue used when the child is not
	// reading stdin fast enough.
	pendingCap int
	pending    [][]byte
}

// Config configures a new Session.
type Config struct {
	Command    string
	Args       []string
	Dir        string
	Env        map[string]string
	Rows, Cols int
	PendingCap int // default 64
}

// New constructs a Session without starting the child process.
func New(cfg Config) *Session {
	cap := cfg.PendingCap
	if cap <= 0 {
		cap = 64
	}
	rows, cols := cfg.Rows, cfg.Cols
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}
	return &Session{
		Command:    cfg.Command,
		Args:       cfg.Args,
		Dir:        cfg.Dir,
		Env:        cfg.Env,
		Rows:       rows,
		Cols:       cols,
		ChildRows:  rows,
		pendingCap: cap,
	}
}

// Start forks the wrapped CLI with its controlling terminal set to a
// freshly allocated PTY: a new session, the slave end as stdio, Dir applied,
// and TERM passed through.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cmd = exec.Command(s.Command, s.Args...)
	s.cmd.Dir = s.Dir
	s.cmd.Env = mergeEnv(os.Environ(), s.Env)

	var err error
	s.ptm, err = pty.StartWithSize(s.cmd, &pty.Winsize{
		Rows: uint16(s.ChildRows),
		Cols: uint16(s.Cols),
	})
	if err != nil {
		return fmt.Errorf("start command: %w", err)
	}
	s.VT = midterm.NewTerminal(s.ChildRows, s.Cols)
	s.lastOutputAt = time.Now()
	s.Exited = false
	s.ExitError = nil
	return nil
}

func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(extra))
	for _, e := range base {
		key := e
		if idx := strings.Index(e, "="); idx >= 0 {
			key = e[:idx]
		}
		if _, override := extra[key]; !override {
			out = append(out, e)
		}
	}
	for k, v := range extra {
		out = append(out, k+"="+v)
	}
	return out
}

// PipeOutput reads child PTY output in a loop, writing each chunk into VT
// and invoking onChunk (tee to the writer, the event loop, and optionally a
// session-memory logger). Returns when the PTY read side reaches EOF.
func (s *Session) PipeOutput(onChunk func(chunk []byte)) {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptm.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			s.mu.Lock()
			s.lastOutputAt = time.Now()
			s.mu.Unlock()

			s.VTMu.Lock()
			s.VT.Write(chunk)
			s.VTMu.Unlock()

			onChunk(chunk)
		}
		if err != nil {
			return
		}
	}
}

// Write sends bytes to the child PTY with backpressure: if the write does
// not complete within timeout, p is recorded in a pending queue bounded by
// pendingCap (the oldest entry is dropped when it is full) and ok=false is
// returned. The timed-out write keeps running in the background; Session
// does not re-send queued entries.
func (s *Session) Write(p []byte, timeout time.Duration) (ok bool, err error) {
	n, werr := s.writeWithTimeout(p, timeout)
	if werr == nil && n == len(p) {
		return true, nil
	}
	if errors.Is(werr, ErrWriteTimeout) {
		s.mu.Lock()
		if len(s.pending) >= s.pendingCap {
			s.pending = s.pending[1:]
		}
		s.pending = append(s.pending, p)
		s.mu.Unlock()
		return false, nil
	}
	return false, werr
}

// writeWithTimeout writes p to the PTY master, giving up after timeout so a
// hung child (not reading stdin) cannot block the caller indefinitely.
func (s *Session) writeWithTimeout(p []byte, timeout time.Duration) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := s.ptm.Write(p)
		ch <- result{n, err}
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.n, r.err
	case <-timer.C:
		return 0, ErrWriteTimeout
	}
}

// Resize sets the terminal dimensions; childRows is expected to already be
// totalRows - reservedRows for the active overlay, clamped to a minimum
// of 1.
func (s *Session) Resize(totalRows, cols, childRows int) {
	if childRows < 1 {
		childRows = 1
	}
	s.mu.Lock()
	s.Rows, s.Cols, s.ChildRows = totalRows, cols, childRows
	s.mu.Unlock()

	if s.VT != nil {
		s.VTMu.Lock()
		s.VT.Resize(childRows, cols)
		s.VTMu.Unlock()
	}
	if s.ptm != nil {
		pty.Setsize(s.ptm, &pty.Winsize{Rows: uint16(childRows), Cols: uint16(cols)})
	}
}

// IsIdle reports whether the child has produced no output for at least
// threshold. It is false while no output time has been recorded.
func (s *Session) IsIdle(threshold time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.lastOutputAt.IsZero() && time.Since(s.lastOutputAt) > threshold
}

// TryWait performs a non-blocking liveness check, returning (exited, err).
func (s *Session) TryWait() (exited bool, err error) {
	if s.cmd == nil || s.cmd.Process == nil {
		return true, nil
	}
	proc, perr := os.FindProcess(s.cmd.Process.Pid)
	if perr != nil {
		return true, perr
	}
	serr := proc.Signal(syscall.Signal(0))
	return serr != nil, nil
}

// Probe writes a benign carriage return and waits up to window for new
// output, used during startup and by the persistent-backend health check.
// The ceiling is set by the caller via window.
func (s *Session) Probe(window time.Duration) bool {
	s.mu.Lock()
	before := s.lastOutputAt
	s.mu.Unlock()

	s.ptm.Write([]byte{0x0D})

	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		changed := s.lastOutputAt.After(before)
		s.mu.Unlock()
		if changed {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

// Wait blocks until the child exits and records exit state.
func (s *Session) Wait() error {
	err := s.cmd.Wait()
	s.mu.Lock()
	s.Exited = true
	s.ExitError = err
	s.mu.Unlock()
	return err
}

// Quit requests graceful termination: SIGTERM, then SIGKILL if the process
// has not exited within grace. Signals the whole process group so a
// persistent backend's children are reached too.
func (s *Session) Quit(grace time.Duration) {
	if s.cmd == nil || s.cmd.Process == nil {
		return
	}
	pgid, err := syscall.Getpgid(s.cmd.Process.Pid)
	if err != nil {
		pgid = s.cmd.Process.Pid
	}
	syscall.Kill(-pgid, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		s.cmd.Process.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		syscall.Kill(-pgid, syscall.SIGKILL)
	}
}

// Kill immediately sends SIGKILL, used when the child is hung and not
// responding to normal signals.
func (s *Session) Kill() {
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
}

// Close releases the PTY master file descriptor.
func (s *Session) Close() error {
	if s.ptm == nil {
		return nil
	}
	return s.ptm.Close()
}

// Master exposes the PTY master as an io.Writer for direct delivery paths
// (e.g. the transcript delivery policy), routing all writes through one
// owner.
func (s *Session) Master() io.Writer { return s.ptm }
