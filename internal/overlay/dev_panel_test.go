package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/voiceterm/internal/devbroker"
)

func TestDevPanelNonMutatingRunsImmediately(t *testing.T) {
	d := NewDevPanel()
	kind, run := d.HandleEnter(time.Now())
	require.True(t, run)
	assert.Equal(t, devbroker.CommandStatus, kind)
}

func TestDevPanelMutatingRequiresSecondEnter(t *testing.T) {
	d := NewDevPanel()
	d.Move(1) // CommandSync, mutating
	now := time.Now()

	_, run := d.HandleEnter(now)
	assert.False(t, run)

	kind, run := d.HandleEnter(now.Add(time.Second))
	require.True(t, run)
	assert.Equal(t, devbroker.CommandSync, kind)
}

func TestDevPanelConfirmationExpires(t *testing.T) {
	d := NewDevPanel()
	d.Move(1)
	now := time.Now()
	d.HandleEnter(now)

	_, ok := d.PendingConfirmation(now.Add(10 * time.Second))
	assert.False(t, ok)
}

func TestDevPanelApplyUpdateLifecycle(t *testing.T) {
	d := NewDevPanel()
	d.RecordStart("req-1", devbroker.CommandStatus, time.Now())
	assert.Equal(t, 1, d.ActiveCount())

	d.ApplyUpdate(devbroker.Update{RequestID: "req-1", Kind: devbroker.UpdateCompleted, Output: "ok", At: time.Now()})
	assert.Equal(t, 0, d.ActiveCount())
	assert.Equal(t, "status completed", d.LastSummary())
}

func TestDevPanelLastSummaryNoneInitially(t *testing.T) {
	d := NewDevPanel()
	assert.Equal(t, "none", d.LastSummary())
}
