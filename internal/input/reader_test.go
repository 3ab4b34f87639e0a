package input

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderDecodesPlainRunes(t *testing.T) {
	r := NewReader(strings.NewReader("hi"), 8)
	go r.Run()

	var got []rune
	for ev := range r.Events() {
		got = append(got, ev.Rune)
	}
	assert.Equal(t, []rune{'h', 'i'}, got)
}

func TestReaderDecodesCtrlC(t *testing.T) {
	r := NewReader(strings.NewReader("\x03"), 8)
	go r.Run()

	ev, ok := recvWithin(t, r.Events(), time.Second)
	require.True(t, ok)
	assert.Equal(t, KeyCtrlC, ev.Key)
}

func TestReaderHandlesSplitEscapeSequence(t *testing.T) {
	r := NewReader(&slowReader{chunks: [][]byte{{0x1b}, {'[', 'A'}}}, 8)
	go r.Run()

	ev, ok := recvWithin(t, r.Events(), time.Second)
	require.True(t, ok)
	assert.Equal(t, KeyUp, ev.Key)
}

func TestReaderHandlesSplitSGRMouse(t *testing.T) {
	r := NewReader(&slowReader{chunks: [][]byte{
		[]byte("\x1b[<64;"),
		[]byte("10;20M"),
	}}, 8)
	go r.Run()

	ev, ok := recvWithin(t, r.Events(), time.Second)
	require.True(t, ok)
	require.NotNil(t, ev.Mouse)
	assert.Equal(t, MouseWheelUp, ev.Mouse.Button)
}

func recvWithin(t *testing.T, ch <-chan Event, timeout time.Duration) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-ch:
		return ev, ok
	case <-time.After(timeout):
		return Event{}, false
	}
}

// slowReader yields chunks one Read() call at a time, simulating a PTY
// delivering a CSI sequence split across two reads.
type slowReader struct {
	chunks [][]byte
	idx    int
}

func (s *slowReader) Read(p []byte) (int, error) {
	if s.idx >= len(s.chunks) {
		return 0, io.EOF
	}
	n := copy(p, s.chunks[s.idx])
	s.idx++
	return n, nil
}
