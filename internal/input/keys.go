// Package input decodes raw stdin bytes read off the controlling terminal
// into typed events: plain runes destined for the child, recognized
// control keys (escape, arrows, enter, tab, backspace, Ctrl-C/Ctrl-D), and
// SGR mouse reports used
// for scroll-wheel navigation.
package input

import (
	"strconv"
	"strings"
)

// Key names a recognized non-printable key chord.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlD
)

// Event is one decoded unit of input: either a Key, a rune destined for the
// pass-through child, or a MouseEvent.
type Event struct {
	Key   Key
	Rune  rune
	Mouse *MouseEvent
}

// MouseButton identifies the SGR mouse button/wheel code.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseWheelUp
	MouseWheelDown
	MouseOther
)

// MouseEvent is a decoded SGR mouse report. Only the SGR encoding is
// decoded; legacy X10 and URXVT reports are not recognized as mouse events.
type MouseEvent struct {
	Button  MouseButton
	Col, Row int
	Pressed bool
}

// Decode consumes one event starting at buf[i], returning the event and the
// index of the next unconsumed byte, in a byte-at-a-time dispatch loop
// (`for i := 0; i < n; { i = handle(...) }`).
func Decode(buf []byte, i, n int) (Event, int) {
	b := buf[i]

	if b == 0x1b {
		if ev, next, ok := decodeEscape(buf, i, n); ok {
			return ev, next
		}
		return Event{Key: KeyEscape}, i + 1
	}

	switch b {
	case 0x03:
		return Event{Key: KeyCtrlC}, i + 1
	case 0x04:
		return Event{Key: KeyCtrlD}, i + 1
	case '\r', '\n':
		return Event{Key: KeyEnter}, i + 1
	case '\t':
		return Event{Key: KeyTab}, i + 1
	case 0x7f, 0x08:
		return Event{Key: KeyBackspace}, i + 1
	}

	return Event{Rune: rune(b)}, i + 1
}

// decodeEscape attempts to parse an ESC-prefixed sequence: CSI arrow keys
// and SGR mouse reports (`ESC[<b;x;yM` / `m`). Returns ok=false if the
// bytes don't (yet) form a recognized sequence, in which case the caller
// treats it as a bare Escape key.
func decodeEscape(buf []byte, i, n int) (Event, int, bool) {
	if i+1 >= n || buf[i+1] != '[' {
		return Event{}, 0, false
	}
	if i+2 < n && buf[i+2] == '<' {
		return decodeSGRMouse(buf, i, n)
	}
	if i+2 < n {
		switch buf[i+2] {
		case 'A':
			return Event{Key: KeyUp}, i + 3, true
		case 'B':
			return Event{Key: KeyDown}, i + 3, true
		case 'C':
			return Event{Key: KeyRight}, i + 3, true
		case 'D':
			return Event{Key: KeyLeft}, i + 3, true
		}
	}
	return Event{}, 0, false
}

// decodeSGRMouse parses `ESC[<Cb;Cx;Cy(M|m)`. On malformed params it falls
// back to treating the input as a bare Escape; malformed mouse reports
// must never crash the input reader.
func decodeSGRMouse(buf []byte, i, n int) (Event, int, bool) {
	end := -1
	for j := i + 3; j < n; j++ {
		if buf[j] == 'M' || buf[j] == 'm' {
			end = j
			break
		}
	}
	if end == -1 {
		return Event{}, 0, false
	}
	payload := string(buf[i+3 : end])
	parts := strings.Split(payload, ";")
	if len(parts) != 3 {
		return Event{Key: KeyEscape}, end + 1, true
	}
	code, err1 := strconv.Atoi(parts[0])
	col, err2 := strconv.Atoi(parts[1])
	row, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Event{Key: KeyEscape}, end + 1, true
	}

	me := &MouseEvent{Col: col, Row: row, Pressed: buf[end] == 'M'}
	switch code {
	case 64:
		me.Button = MouseWheelUp
	case 65:
		me.Button = MouseWheelDown
	case 0:
		me.Button = MouseLeft
	default:
		me.Button = MouseOther
	}
	return Event{Mouse: me}, end + 1, true
}
