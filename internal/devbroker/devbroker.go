// Package devbroker implements the devtool subprocess broker contract: a
// narrow request/update interface the DevPanel overlay polls, plus a
// default local-process implementation.
package devbroker

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/google/shlex"
	"github.com/google/uuid"
)

// CommandKind names a built-in dev command. Mutating commands require
// two-Enter confirmation in the DevPanel.
type CommandKind int

const (
	CommandStatus CommandKind = iota
	CommandSync
	CommandReset
)

// Mutating reports whether a command changes state and therefore requires
// confirmation before running.
func (k CommandKind) Mutating() bool {
	switch k {
	case CommandSync, CommandReset:
		return true
	default:
		return false
	}
}

func (k CommandKind) String() string {
	switch k {
	case CommandStatus:
		return "status"
	case CommandSync:
		return "sync"
	case CommandReset:
		return "reset"
	default:
		return "unknown"
	}
}

// AllCommands lists every CommandKind the DevPanel renders, in display order.
var AllCommands = []CommandKind{CommandStatus, CommandSync, CommandReset}

// RequestID identifies one broker request for cancellation and lifecycle
// tracking.
type RequestID string

// UpdateKind names a lifecycle transition for a broker request.
type UpdateKind int

const (
	UpdateRunning UpdateKind = iota
	UpdateCompleted
	UpdateCancelled
	UpdateFailed
)

// Update is one lifecycle event for a request, delivered over the broker's
// update channel: the DevPanel polls it and renders request snapshots.
type Update struct {
	RequestID RequestID
	Kind      UpdateKind
	Output    string
	Err       error
	At        time.Time
}

// Broker is the narrow contract the DevPanel depends on. A real
// implementation shells out to devtool commands; tests can substitute a
// fake.
type Broker interface {
	// Run starts kind asynchronously, returning its RequestID immediately.
	Run(kind CommandKind) (RequestID, error)
	// Cancel requests that id stop; cancellation is best-effort.
	Cancel(id RequestID)
	// Updates exposes the lifecycle event stream.
	Updates() <-chan Update
}

// commandLines maps a CommandKind to the shell command line run for it.
// VOICETERM_DEV_PACKET_AUTOSEND gates whether the Sync command's
// packet is auto-sent; callers read that env var themselves before
// invoking Run for CommandSync if they want to suppress it.
var commandLines = map[CommandKind]string{
	CommandStatus: "true",
	CommandSync:   "true",
	CommandReset:  "true",
}

// LocalBroker runs dev commands as local subprocesses (the default
// implementation behind the Broker contract).
type LocalBroker struct {
	mu      sync.Mutex
	cancels map[RequestID]context.CancelFunc
	updates chan Update
}

// NewLocalBroker constructs a LocalBroker with a bounded update channel.
func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		cancels: make(map[RequestID]context.CancelFunc),
		updates: make(chan Update, 32),
	}
}

// Updates implements Broker.
func (b *LocalBroker) Updates() <-chan Update { return b.updates }

// Run implements Broker: spawns the command line for kind, tracked by a
// fresh RequestID, and reports Running immediately followed eventually by
// Completed/Cancelled/Failed.
func (b *LocalBroker) Run(kind CommandKind) (RequestID, error) {
	line, ok := commandLines[kind]
	if !ok {
		line = "true"
	}
	argv, err := shlex.Split(line)
	if err != nil || len(argv) == 0 {
		argv = []string{"true"}
	}

	id := RequestID(uuid.New().String())
	ctx, cancel := context.WithCancel(context.Background())

	b.mu.Lock()
	b.cancels[id] = cancel
	b.mu.Unlock()

	b.emit(Update{RequestID: id, Kind: UpdateRunning, At: time.Now()})

	go func() {
		defer func() {
			b.mu.Lock()
			delete(b.cancels, id)
			b.mu.Unlock()
		}()

		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		out, runErr := cmd.CombinedOutput()

		switch {
		case ctx.Err() == context.Canceled:
			b.emit(Update{RequestID: id, Kind: UpdateCancelled, At: time.Now()})
		case runErr != nil:
			b.emit(Update{RequestID: id, Kind: UpdateFailed, Err: runErr, Output: string(out), At: time.Now()})
		default:
			b.emit(Update{RequestID: id, Kind: UpdateCompleted, Output: string(out), At: time.Now()})
		}
	}()

	return id, nil
}

// Cancel implements Broker.
func (b *LocalBroker) Cancel(id RequestID) {
	b.mu.Lock()
	cancel, ok := b.cancels[id]
	b.mu.Unlock()
	if ok {
		cancel()
	}
}

func (b *LocalBroker) emit(u Update) {
	select {
	case b.updates <- u:
	default:
		// Drop on a saturated channel rather than block the worker goroutine.
	}
}
