package voice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRingBufferEvictsOldestOverBudget(t *testing.T) {
	r := NewRingBuffer(10)
	base := time.Now()
	r.Push(Frame{At: base, Samples: make([]float32, 6)})
	r.Push(Frame{At: base.Add(time.Millisecond), Samples: make([]float32, 6)})
	assert.Equal(t, 6, r.Len())
}

func TestRingBufferSliceSinceReturnsOnlyNewerFrames(t *testing.T) {
	r := NewRingBuffer(1000)
	base := time.Now()
	r.Push(Frame{At: base, Samples: []float32{1, 1}})
	r.Push(Frame{At: base.Add(10 * time.Millisecond), Samples: []float32{2, 2}})
	r.Push(Frame{At: base.Add(20 * time.Millisecond), Samples: []float32{3, 3}})

	out := r.SliceSince(base.Add(5 * time.Millisecond))
	assert.Equal(t, []float32{2, 2, 3, 3}, out)
}

func TestRingBufferResetClearsFrames(t *testing.T) {
	r := NewRingBuffer(100)
	r.Push(Frame{At: time.Now(), Samples: []float32{1}})
	r.Reset()
	assert.Equal(t, 0, r.Len())
}
