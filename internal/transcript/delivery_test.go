package transcript

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTracker struct{ ready bool }

func (f fakeTracker) IsReady(time.Time) bool { return f.ready }

func TestDeliverAutoSendsTrailingCR(t *testing.T) {
	var buf bytes.Buffer
	sentCR, err := Deliver(&buf, Pending{Text: "hello world", SendMode: Auto})
	require.NoError(t, err)
	assert.True(t, sentCR)
	assert.Equal(t, "hello world\r", buf.String())
}

func TestDeliverInsertSendsNoCR(t *testing.T) {
	var buf bytes.Buffer
	sentCR, err := Deliver(&buf, Pending{Text: "hello world", SendMode: Insert})
	require.NoError(t, err)
	assert.False(t, sentCR)
	assert.Equal(t, "hello world", buf.String())
}

func TestTryFlushDeliversImmediatelyWhenReady(t *testing.T) {
	q := NewQueue(4)
	q.Push(Pending{Text: "hi", SendMode: Auto})
	var buf bytes.Buffer
	var statuses []string
	status := func(s string) { statuses = append(statuses, s) }

	now := time.Now()
	_, delivered := TryFlush(q, fakeTracker{ready: true}, now, time.Second, 100*time.Millisecond, time.Time{}, &buf, status)

	assert.True(t, delivered)
	assert.Equal(t, "hi\r", buf.String())
	assert.True(t, q.Empty())
	require.Len(t, statuses, 1)
}

func TestTryFlushLeavesEntryWhenNotReadyAndNotIdleEnough(t *testing.T) {
	q := NewQueue(4)
	q.Push(Pending{Text: "hi", SendMode: Auto})
	var buf bytes.Buffer
	now := time.Now()
	_, delivered := TryFlush(q, fakeTracker{ready: false}, now, time.Hour, 50*time.Millisecond, now, &buf, nil)

	assert.False(t, delivered)
	assert.Equal(t, 1, q.Len())
}

func TestExpandMacroRewritesOnce(t *testing.T) {
	autoMode := Auto
	table := MacroTable{
		"ship it": {Trigger: "ship it", Text: "git push", SendMode: &autoMode},
	}
	out := ExpandMacro(table, Pending{Text: "Ship It", SendMode: Insert})
	assert.Equal(t, "git push", out.Text)
	assert.Equal(t, Auto, out.SendMode)
}

func TestRecognizeNav(t *testing.T) {
	action, ok := RecognizeNav("Send it")
	require.True(t, ok)
	assert.Equal(t, NavSend, action)

	_, ok = RecognizeNav("hello world")
	assert.False(t, ok)
}

func TestPushPendingReportsDropStatus(t *testing.T) {
	q := NewQueue(1)
	var statuses []string
	PushPending(q, Pending{Text: "a"}, func(s string) { statuses = append(statuses, s) })
	PushPending(q, Pending{Text: "b"}, func(s string) { statuses = append(statuses, s) })
	require.Len(t, statuses, 1)
	assert.Contains(t, statuses[0], "full")
}
