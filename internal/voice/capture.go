package voice

import (
	"sync/atomic"
	"time"
)

// State is the voice capture state machine's current phase.
type State int

const (
	Idle State = iota
	Armed
	ActiveSpeech
	Tail
	Processing
)

// Trigger names what armed the capture pipeline.
type Trigger int

const (
	TriggerManual Trigger = iota
	TriggerAuto
	TriggerWake
)

// Config bounds the capture state machine's timers.
type Config struct {
	SampleRate    int
	MaxCaptureMs  int // default 10000
	LookbackMs    int // default 500
	MinSpeechMs   int // minimum speech before a Silence decision starts the tail
	SilenceTailMs int // default 500
}

// DefaultConfig returns the recommended capture tuning defaults.
func DefaultConfig() Config {
	return Config{
		SampleRate:    16000,
		MaxCaptureMs:  10000,
		LookbackMs:    500,
		MinSpeechMs:   200,
		SilenceTailMs: 500,
	}
}

// Result is a finalized utterance ready for STT, or a cancellation.
type Result struct {
	Samples    []float32
	SpeechMs   int
	Cancelled  bool
}

// Capture drives the Armed -> Active speech -> Tail -> Finalize state
// machine over a stream of frames. It owns no goroutines
// itself; the voice manager feeds frames and calls Finalize/Cancel.
type Capture struct {
	cfg    Config
	ring   *RingBuffer
	engine VadEngine

	state         State
	trigger       Trigger
	speechStartAt time.Time
	armedAt       time.Time
	tailStartAt   time.Time
	smoothing     int // consecutive Uncertain frames folded into Silence

	cancel atomic.Bool
}

// NewCapture constructs a Capture bound to engine, sized for cfg.
func NewCapture(cfg Config, engine VadEngine) *Capture {
	maxSamples := (cfg.MaxCaptureMs + cfg.LookbackMs) * cfg.SampleRate / 1000
	return &Capture{
		cfg:    cfg,
		ring:   NewRingBuffer(maxSamples),
		engine: engine,
	}
}

// Arm transitions Idle -> Armed for the given trigger (step 1).
func (c *Capture) Arm(trigger Trigger, now time.Time) {
	c.state = Armed
	c.trigger = trigger
	c.armedAt = now
	c.cancel.Store(false)
	c.ring.Reset()
	c.engine.Reset()
}

// Cancel sets the atomic cancel flag, checked between VAD frames, during
// STT, and before emitting.
func (c *Capture) Cancel() { c.cancel.Store(true) }

// Cancelled reports whether cancellation was requested.
func (c *Capture) Cancelled() bool { return c.cancel.Load() }

// Feed processes one frame, advancing the state machine. It returns a
// non-nil Result only when the Finalize condition fires (tail expiry or
// max-capture reached) or cancellation is observed.
func (c *Capture) Feed(frame Frame) *Result {
	if c.cancel.Load() {
		c.state = Idle
		return &Result{Cancelled: true}
	}
	if c.state == Idle || c.state == Processing {
		return nil
	}

	decision := c.engine.ProcessFrame(frame.Samples)
	if decision == Uncertain {
		c.smoothing++
		if c.smoothing >= vadSmoothingFrames {
			decision = Silence
		} else {
			decision = Speech
		}
	} else {
		c.smoothing = 0
	}

	c.ring.Push(frame)

	switch c.state {
	case Armed:
		if decision == Speech {
			c.state = ActiveSpeech
			c.speechStartAt = frame.At
		}
	case ActiveSpeech:
		speechMs := frame.At.Sub(c.speechStartAt).Milliseconds()
		if decision != Speech && speechMs >= int64(c.cfg.MinSpeechMs) {
			c.state = Tail
			c.tailStartAt = frame.At
		}
		if int(speechMs) >= c.cfg.MaxCaptureMs {
			return c.finalize(frame.At)
		}
	case Tail:
		if decision == Speech {
			c.state = ActiveSpeech
			break
		}
		if frame.At.Sub(c.tailStartAt).Milliseconds() >= int64(c.cfg.SilenceTailMs) {
			return c.finalize(frame.At)
		}
	}
	return nil
}

// vadSmoothingFrames is the number of consecutive Uncertain decisions
// folded into Silence rather than treated as ongoing speech (VAD
// engine contract).
const vadSmoothingFrames = 3

func (c *Capture) finalize(now time.Time) *Result {
	c.state = Processing
	since := c.speechStartAt.Add(-time.Duration(c.cfg.LookbackMs) * time.Millisecond)
	samples := c.ring.SliceSince(since)
	speechMs := int(now.Sub(c.speechStartAt).Milliseconds())
	return &Result{Samples: samples, SpeechMs: speechMs}
}

// Done returns the state machine to Idle after STT processing completes.
func (c *Capture) Done() { c.state = Idle }

// State reports the current phase.
func (c *Capture) State() State { return c.state }
