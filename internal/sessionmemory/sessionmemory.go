// Package sessionmemory implements the optional append-only markdown
// session log kept at a user-chosen path: newline-delimited user input and
// sanitized backend output, each capped at a bounded line length.
package sessionmemory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxLineRunes caps a single markdown entry at 2000 runes, truncated with
// a trailing marker when it would run longer.
const MaxLineRunes = 2000

const truncatedMarker = "…[truncated]"

// Logger appends "- [role] text" entries to a markdown file, buffering
// partial lines per role until a newline or carriage return completes them.
type Logger struct {
	path string
	file *os.File

	pendingUser      strings.Builder
	pendingAssistant strings.Builder
}

// New opens (or creates) the markdown log at path, writing a header on a
// fresh file and a session banner on every open.
func New(path, backendLabel, workingDir string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("session memory dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open session memory: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		fmt.Fprintln(f, "# VoiceTerm Session Memory")
		fmt.Fprintln(f)
	}
	fmt.Fprintf(f, "## Session %d\n", time.Now().Unix())
	fmt.Fprintf(f, "- backend: %s\n", backendLabel)
	fmt.Fprintf(f, "- cwd: %s\n\n", workingDir)
	f.Sync()

	return &Logger{path: path, file: f}, nil
}

// Path returns the underlying file path.
func (l *Logger) Path() string { return l.path }

// RecordUserInput feeds raw bytes typed/delivered to the PTY as pending
// user-role text, flushing completed lines. A chunk containing ESC is
// assumed to be a control sequence rather than literal text and dropped
// wholesale.
func (l *Logger) RecordUserInput(b []byte) {
	if len(b) == 0 {
		return
	}
	for _, c := range b {
		if c == 0x1b {
			return
		}
	}
	l.feed(&l.pendingUser, "user", b)
}

// RecordBackendOutput feeds sanitized backend PTY output bytes as pending
// assistant-role text.
func (l *Logger) RecordBackendOutput(b []byte) {
	l.feed(&l.pendingAssistant, "assistant", b)
}

func (l *Logger) feed(buf *strings.Builder, role string, b []byte) {
	for _, c := range b {
		switch c {
		case '\r', '\n':
			l.flushOne(buf, role)
		case 0x7f, 0x08:
			s := buf.String()
			if len(s) > 0 {
				buf.Reset()
				buf.WriteString(s[:len(s)-1])
			}
		case '\t':
			buf.WriteByte(' ')
		default:
			if c >= 0x20 && c < 0x7f {
				buf.WriteByte(c)
			}
		}
	}
}

func (l *Logger) flushOne(buf *strings.Builder, role string) {
	line := buf.String()
	buf.Reset()
	l.writeEntry(role, line)
}

// FlushPending writes out any partially buffered lines for both roles,
// used before the overlay exits so the last unterminated line isn't lost.
func (l *Logger) FlushPending() {
	if l.pendingUser.Len() > 0 {
		l.flushOne(&l.pendingUser, "user")
	}
	if l.pendingAssistant.Len() > 0 {
		l.flushOne(&l.pendingAssistant, "assistant")
	}
	l.file.Sync()
}

func (l *Logger) writeEntry(role, line string) {
	sanitized := Sanitize(line)
	if sanitized == "" {
		return
	}
	fmt.Fprintf(l.file, "- [%s] %s\n", role, sanitized)
	l.file.Sync()
}

// Sanitize strips control characters and caps the line to MaxLineRunes
// runes, appending a truncation marker when it does.
func Sanitize(line string) string {
	var b strings.Builder
	count := 0
	truncated := false
	for _, r := range line {
		if r < 0x20 || r == 0x7f {
			continue
		}
		if count >= MaxLineRunes {
			truncated = true
			break
		}
		b.WriteRune(r)
		count++
	}
	out := strings.TrimSpace(b.String())
	if truncated {
		out += " " + truncatedMarker
	}
	return out
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	l.FlushPending()
	return l.file.Close()
}
