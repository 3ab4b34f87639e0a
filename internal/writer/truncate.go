package writer

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// SanitizeStatus replaces control characters (other than ESC, which may
// begin a legitimate SGR color sequence from the theme) with spaces.
// Sanitization is idempotent.
func SanitizeStatus(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == 0x1b {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TruncateANSI truncates s to width printable columns, preserving any ANSI
// SGR sequences it contains (overlay rows carry theme colors). A
// non-positive width means there are no columns to draw into, so the
// result is empty rather than the line unchanged. When truncation actually
// occurs, a reset sequence is appended so a subsequent erase-to-end-of-line
// doesn't inherit colors; this also makes the function idempotent, since
// re-truncating an already-reset, already-short string is a no-op.
func TruncateANSI(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.PrintableRuneWidth(s) <= width {
		return s
	}
	return truncate.String(s, uint(width)) + "\033[0m"
}
