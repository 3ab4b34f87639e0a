package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/voiceterm/internal/memory"
)

func TestNewMemoryBrowserOrdersNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	events := []memory.Event{
		{EventID: "1", Type: memory.EventTranscript, Text: "first", Timestamp: base},
		{EventID: "2", Type: memory.EventAction, Text: "second", Timestamp: base.Add(time.Minute)},
	}

	b := NewMemoryBrowser(events, 10)
	require.Len(t, b.Panel().Items, 2)
	assert.Equal(t, "second", b.Panel().Items[0].Detail)
	assert.Equal(t, "first", b.Panel().Items[1].Detail)
	assert.Contains(t, b.Panel().Items[0].Label, "12:01:00")
}

func TestNewMemoryBrowserEmptySnapshot(t *testing.T) {
	b := NewMemoryBrowser(nil, 10)
	assert.Empty(t, b.Panel().Items)
}
