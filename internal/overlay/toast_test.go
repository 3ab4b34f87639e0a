package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastHistoryEvictsOldestAtCapacity(t *testing.T) {
	h := NewToastHistory(2)
	now := time.Now()
	h.Record(now, "first")
	h.Record(now.Add(time.Second), "second")
	h.Record(now.Add(2*time.Second), "third")

	all := h.All()
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Text)
	assert.Equal(t, "third", all[1].Text)
}

func TestToastHistoryLatest(t *testing.T) {
	h := NewToastHistory(4)
	_, ok := h.Latest()
	assert.False(t, ok)

	h.Record(time.Now(), "only")
	latest, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, "only", latest.Text)
}

func TestToastHistoryPanelNewestFirst(t *testing.T) {
	h := NewToastHistory(4)
	now := time.Now()
	h.Record(now, "first")
	h.Record(now.Add(time.Second), "second")

	p := h.Panel(4)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "second", p.Items[0].Detail)
	assert.Equal(t, "first", p.Items[1].Detail)
}
