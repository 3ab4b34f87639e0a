package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlainRune(t *testing.T) {
	ev, next := Decode([]byte("a"), 0, 1)
	assert.Equal(t, 'a', ev.Rune)
	assert.Equal(t, 1, next)
}

func TestDecodeCtrlC(t *testing.T) {
	ev, next := Decode([]byte{0x03}, 0, 1)
	assert.Equal(t, KeyCtrlC, ev.Key)
	assert.Equal(t, 1, next)
}

func TestDecodeArrowUp(t *testing.T) {
	buf := []byte("\x1b[A")
	ev, next := Decode(buf, 0, len(buf))
	assert.Equal(t, KeyUp, ev.Key)
	assert.Equal(t, 3, next)
}

func TestDecodeBareEscape(t *testing.T) {
	buf := []byte{0x1b}
	ev, next := Decode(buf, 0, 1)
	assert.Equal(t, KeyEscape, ev.Key)
	assert.Equal(t, 1, next)
}

func TestDecodeSGRMouseWheelUp(t *testing.T) {
	buf := []byte("\x1b[<64;10;5M")
	ev, next := Decode(buf, 0, len(buf))
	require.NotNil(t, ev.Mouse)
	assert.Equal(t, MouseWheelUp, ev.Mouse.Button)
	assert.Equal(t, 10, ev.Mouse.Col)
	assert.Equal(t, 5, ev.Mouse.Row)
	assert.True(t, ev.Mouse.Pressed)
	assert.Equal(t, len(buf), next)
}

func TestDecodeSGRMouseWheelDown(t *testing.T) {
	buf := []byte("\x1b[<65;1;1M")
	ev, _ := Decode(buf, 0, len(buf))
	require.NotNil(t, ev.Mouse)
	assert.Equal(t, MouseWheelDown, ev.Mouse.Button)
}

func TestDecodeMalformedMouseParamsFallsBackToEscape(t *testing.T) {
	buf := []byte("\x1b[<64;1M")
	ev, next := Decode(buf, 0, len(buf))
	assert.Equal(t, KeyEscape, ev.Key)
	assert.Equal(t, len(buf), next)
}

func TestDecodeEnterAndBackspace(t *testing.T) {
	ev, _ := Decode([]byte{'\r'}, 0, 1)
	assert.Equal(t, KeyEnter, ev.Key)

	ev, _ = Decode([]byte{0x7f}, 0, 1)
	assert.Equal(t, KeyBackspace, ev.Key)
}
