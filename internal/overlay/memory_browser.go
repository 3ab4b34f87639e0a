package overlay

import (
	"github.com/lestrrat-go/strftime"

	"github.com/csheth/voiceterm/internal/memory"
)

// timestampLayout renders each event's clock time for the list, omitting
// the date: the browser only ever holds one project's worth of history.
var timestampLayout = mustStrftime("%H:%M:%S")

func mustStrftime(pattern string) *strftime.Strftime {
	f, err := strftime.New(pattern)
	if err != nil {
		panic(err)
	}
	return f
}

// MemoryBrowser presents the append-only action-audit log for browsing. It
// reads a snapshot of events handed to it — the event log itself lives in
// internal/memory and is never mutated by the overlay.
type MemoryBrowser struct {
	events []memory.Event
	panel  *Panel
}

// NewMemoryBrowser opens the browser over a snapshot of events, listed
// newest first.
func NewMemoryBrowser(events []memory.Event, visibleRows int) *MemoryBrowser {
	b := &MemoryBrowser{events: events}
	items := make([]Action, len(events))
	for i := range events {
		e := events[len(events)-1-i]
		items[i] = Action{
			Label:   timestampLayout.FormatString(e.Timestamp) + " " + string(e.Type),
			Detail:  e.Text,
			Enabled: true,
		}
	}
	b.panel = NewPanel(KindMemoryBrowser, items, visibleRows)
	return b
}

// Move advances the selection cursor.
func (b *MemoryBrowser) Move(direction int) { b.panel.Move(direction) }

// Panel exposes the shared list-style Panel.
func (b *MemoryBrowser) Panel() *Panel { return b.panel }
