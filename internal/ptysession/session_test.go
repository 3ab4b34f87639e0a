package ptysession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetsChildRowsToTotalRows(t *testing.T) {
	s := New(Config{Command: "cat", Rows: 24, Cols: 80})
	require.Equal(t, 24, s.ChildRows)
}

func TestResizeClampsChildRowsToOne(t *testing.T) {
	s := New(Config{Command: "cat", Rows: 24, Cols: 80})
	s.ptm = nil
	s.VT = nil
	s.Resize(24, 80, 0)
	assert.Equal(t, 1, s.ChildRows)
}

func TestResizeUpdatesDimensionsWithoutPTM(t *testing.T) {
	s := New(Config{Command: "cat", Rows: 24, Cols: 80})
	s.Resize(30, 100, 20)
	assert.Equal(t, 30, s.Rows)
	assert.Equal(t, 100, s.Cols)
	assert.Equal(t, 20, s.ChildRows)
}

func TestIsIdleFalseBeforeAnyOutput(t *testing.T) {
	s := New(Config{Command: "cat"})
	assert.False(t, s.IsIdle(time.Millisecond))
}

func TestIsIdleTrueAfterThresholdElapsed(t *testing.T) {
	s := New(Config{Command: "cat"})
	s.lastOutputAt = time.Now().Add(-time.Second)
	assert.True(t, s.IsIdle(10*time.Millisecond))
}

func TestMergeEnvOverridesBaseKey(t *testing.T) {
	base := []string{"FOO=base", "BAR=keep"}
	out := mergeEnv(base, map[string]string{"FOO": "override"})
	assert.Contains(t, out, "BAR=keep")
	assert.Contains(t, out, "FOO=override")
	assert.NotContains(t, out, "FOO=base")
}
