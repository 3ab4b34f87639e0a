package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPushNeverExceedsCapacity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 16).Draw(rt, "capacity")
		pushes := rapid.IntRange(0, 64).Draw(rt, "pushes")

		q := NewQueue(capacity)
		for i := 0; i < pushes; i++ {
			q.Push(Pending{Text: "x"})
			if q.Len() > capacity {
				rt.Fatalf("queue length %d exceeds capacity %d", q.Len(), capacity)
			}
		}
	})
}

func TestOverflowDropsExactlyOldestTwo(t *testing.T) {
	q := NewQueue(3)
	q.Push(Pending{Text: "a"})
	q.Push(Pending{Text: "b"})
	q.Push(Pending{Text: "c"})

	dropped1 := q.Push(Pending{Text: "d"})
	dropped2 := q.Push(Pending{Text: "e"})

	assert.True(t, dropped1)
	assert.True(t, dropped2)
	require.Equal(t, 3, q.Len())

	head, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "c", head.Text)
}

func TestPopOnEmptyReturnsFalse(t *testing.T) {
	q := NewQueue(2)
	_, ok := q.Pop()
	assert.False(t, ok)
}
