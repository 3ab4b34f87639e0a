package overlay

import (
	"time"

	"github.com/csheth/voiceterm/internal/devbroker"
)

// confirmWindow is how long a pending confirmation remains valid before it
// expires and a fresh Enter is required: a second Enter within this
// window confirms a mutating command.
const confirmWindow = 3 * time.Second

// devRequest tracks one in-flight or completed broker request for display.
type devRequest struct {
	ID        devbroker.RequestID
	Kind      devbroker.CommandKind
	Running   bool
	Completed bool
	Cancelled bool
	Output    string
	Err       error
	StartedAt time.Time
	EndedAt   time.Time
}

// DevPanel is the dev-tools overlay's command selection, two-Enter
// confirmation gate, and broker request lifecycle tracking.
type DevPanel struct {
	Cursor int

	pendingConfirm    devbroker.CommandKind
	hasPendingConfirm bool
	pendingSince      time.Time

	active map[devbroker.RequestID]*devRequest
	last   *devRequest
}

// NewDevPanel opens the dev panel.
func NewDevPanel() *DevPanel {
	return &DevPanel{active: make(map[devbroker.RequestID]*devRequest)}
}

// Move cycles the command cursor.
func (d *DevPanel) Move(direction int) {
	d.Cursor = CycleIndex(d.Cursor, len(devbroker.AllCommands), direction)
}

// Selected returns the command under the cursor.
func (d *DevPanel) Selected() devbroker.CommandKind {
	return devbroker.AllCommands[d.Cursor]
}

// PendingConfirmation reports the command awaiting a second Enter, if any
// and not yet expired.
func (d *DevPanel) PendingConfirmation(now time.Time) (devbroker.CommandKind, bool) {
	if !d.hasPendingConfirm {
		return 0, false
	}
	if now.Sub(d.pendingSince) > confirmWindow {
		return 0, false
	}
	return d.pendingConfirm, true
}

// ClearPendingConfirmation cancels any outstanding confirmation.
func (d *DevPanel) ClearPendingConfirmation() {
	d.hasPendingConfirm = false
}

// HandleEnter implements the two-Enter confirmation gate: a non-mutating
// command runs immediately; a mutating one needs a second Enter within
// confirmWindow. Returns the command to actually run, if any.
func (d *DevPanel) HandleEnter(now time.Time) (kind devbroker.CommandKind, run bool) {
	selected := d.Selected()
	if !selected.Mutating() {
		return selected, true
	}
	if pending, ok := d.PendingConfirmation(now); ok && pending == selected {
		d.ClearPendingConfirmation()
		return selected, true
	}
	d.pendingConfirm = selected
	d.hasPendingConfirm = true
	d.pendingSince = now
	return 0, false
}

// RecordStart tracks a newly-issued request as running.
func (d *DevPanel) RecordStart(id devbroker.RequestID, kind devbroker.CommandKind, now time.Time) {
	req := &devRequest{ID: id, Kind: kind, Running: true, StartedAt: now}
	d.active[id] = req
}

// ApplyUpdate folds a devbroker.Update into the tracked request's lifecycle.
func (d *DevPanel) ApplyUpdate(u devbroker.Update) {
	req, ok := d.active[u.RequestID]
	if !ok {
		return
	}
	switch u.Kind {
	case devbroker.UpdateCompleted:
		req.Running, req.Completed = false, true
		req.Output = u.Output
		req.EndedAt = u.At
		delete(d.active, u.RequestID)
		d.last = req
	case devbroker.UpdateCancelled:
		req.Running, req.Cancelled = false, true
		req.EndedAt = u.At
		delete(d.active, u.RequestID)
		d.last = req
	case devbroker.UpdateFailed:
		req.Running = false
		req.Err = u.Err
		req.Output = u.Output
		req.EndedAt = u.At
		delete(d.active, u.RequestID)
		d.last = req
	}
}

// ActiveCount reports how many requests are currently running.
func (d *DevPanel) ActiveCount() int { return len(d.active) }

// LastSummary describes the most recently finished request, for the panel
// render's "Last" row.
func (d *DevPanel) LastSummary() string {
	if d.last == nil {
		return "none"
	}
	switch {
	case d.last.Completed:
		return d.last.Kind.String() + " completed"
	case d.last.Cancelled:
		return d.last.Kind.String() + " cancelled"
	case d.last.Err != nil:
		return d.last.Kind.String() + " failed"
	default:
		return d.last.Kind.String()
	}
}
