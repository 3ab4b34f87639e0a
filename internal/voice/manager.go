package voice

import (
	"context"
	"strings"
	"time"
)

// Source names which pipeline produced a voice job result.
type Source string

const (
	SourceNative Source = "native"
	SourcePython Source = "python"
)

// Metrics captures the per-utterance timing: capture_ms
// (trigger to stop), speech_ms (sum of speech frames), transcribe_ms (STT
// latency), and frames_dropped (ring overflow count).
type Metrics struct {
	CaptureMs     int
	SpeechMs      int
	TranscribeMs  int
	FramesDropped int
}

// JobKind discriminates the JobMessage sum type.
type JobKind int

const (
	JobTranscript JobKind = iota
	JobEmpty
	JobError
)

// JobMessage is the result of one voice-job attempt, delivered to the event
// loop over a bounded channel.
type JobMessage struct {
	Kind    JobKind
	Text    string
	Source  Source
	Metrics Metrics
	Err     error
}

// Manager orchestrates the per-utterance Capture state machine, the
// triggering policy (Manual/Auto/Wake), cancellation, and the bounded
// output channel of JobMessages.
type Manager struct {
	capture     *Capture
	transcriber Transcriber
	sttTimeout  time.Duration

	results chan JobMessage

	busy bool

	lastAutoTriggerAt time.Time
	lastWakeTriggerAt time.Time
	autoCooldown      time.Duration
	wakeCooldown      time.Duration

	framesDropped int
}

// ManagerConfig parameterizes a Manager.
type ManagerConfig struct {
	Capture      Config
	Engine       VadEngine
	Transcriber  Transcriber
	SttTimeoutMs int // default 8000
	AutoCooldown time.Duration
	WakeCooldown time.Duration
	ResultsCap   int // default 64, bounded channel capacity
}

// NewManager constructs a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	timeout := time.Duration(cfg.SttTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	cap := cfg.ResultsCap
	if cap <= 0 {
		cap = 64
	}
	return &Manager{
		capture:      NewCapture(cfg.Capture, cfg.Engine),
		transcriber:  cfg.Transcriber,
		sttTimeout:   timeout,
		results:      make(chan JobMessage, cap),
		autoCooldown: cfg.AutoCooldown,
		wakeCooldown: cfg.WakeCooldown,
	}
}

// Results exposes the bounded job-result channel for the event loop select.
func (m *Manager) Results() <-chan JobMessage { return m.results }

// Busy reports whether a capture is currently in flight: at most one
// in-flight voice job is ever allowed at a time.
func (m *Manager) Busy() bool { return m.busy }

// TriggerManual arms a new capture unless one is already active: manual
// trigger always starts a new utterance unless one is already in flight.
func (m *Manager) TriggerManual(now time.Time) bool {
	if m.busy {
		return false
	}
	m.arm(TriggerManual, now)
	return true
}

// TriggerAuto arms a new capture only when the full auto-voice policy is
// satisfied: auto-voice enabled, no active job, manager idle,
// the prompt tracker is Ready or has been idle beyond autoVoiceIdleMs, and
// the cooldown window has elapsed since the last auto trigger.
func (m *Manager) TriggerAuto(now time.Time, autoVoiceEnabled, promptReady bool, promptIdleFor, autoVoiceIdleThreshold time.Duration) bool {
	if !autoVoiceEnabled || m.busy {
		return false
	}
	if !promptReady && promptIdleFor < autoVoiceIdleThreshold {
		return false
	}
	if !m.lastAutoTriggerAt.IsZero() && now.Sub(m.lastAutoTriggerAt) < m.autoCooldown {
		return false
	}
	m.lastAutoTriggerAt = now
	m.arm(TriggerAuto, now)
	return true
}

// TriggerWake arms a new capture like Manual, but additionally respects
// the configured wake-word cooldown.
func (m *Manager) TriggerWake(now time.Time) bool {
	if m.busy {
		return false
	}
	if !m.lastWakeTriggerAt.IsZero() && now.Sub(m.lastWakeTriggerAt) < m.wakeCooldown {
		return false
	}
	m.lastWakeTriggerAt = now
	m.arm(TriggerWake, now)
	return true
}

func (m *Manager) arm(trigger Trigger, now time.Time) {
	m.capture.Arm(trigger, now)
	m.busy = true
}

// Cancel requests cancellation of the in-flight capture/STT. It is safe
// to call even when idle.
func (m *Manager) Cancel() {
	m.capture.Cancel()
}

// Feed advances the capture state machine with one frame. When the
// Finalize condition fires, it runs the STT call and blocks the caller
// until it completes or sttTimeout elapses. Transcribe takes no context:
// on timeout the call is left running in its own goroutine and its result
// is discarded.
func (m *Manager) Feed(frame Frame) {
	if !m.busy {
		return
	}
	result := m.capture.Feed(frame)
	if result == nil {
		return
	}
	m.runSTT(*result)
}

func (m *Manager) runSTT(result Result) {
	defer func() {
		m.capture.Done()
		m.busy = false
	}()

	if result.Cancelled {
		return
	}
	if result.SpeechMs <= 0 || len(result.Samples) == 0 {
		m.emit(JobMessage{Kind: JobEmpty, Metrics: Metrics{SpeechMs: result.SpeechMs}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.sttTimeout)
	defer cancel()

	type sttResult struct {
		text string
		err  error
	}
	ch := make(chan sttResult, 1)
	start := time.Now()
	go func() {
		text, err := m.transcriber.Transcribe(result.Samples, 16000)
		ch <- sttResult{text, err}
	}()

	var text string
	var err error
	select {
	case r := <-ch:
		text, err = r.text, r.err
	case <-ctx.Done():
		err = ctx.Err()
	}
	transcribeMs := int(time.Since(start).Milliseconds())

	if m.capture.Cancelled() {
		return
	}

	metrics := Metrics{SpeechMs: result.SpeechMs, TranscribeMs: transcribeMs, FramesDropped: m.framesDropped}
	switch {
	case err != nil:
		m.emit(JobMessage{Kind: JobError, Err: err, Metrics: metrics})
	case strings.TrimSpace(text) == "":
		m.emit(JobMessage{Kind: JobEmpty, Metrics: metrics})
	default:
		m.emit(JobMessage{Kind: JobTranscript, Text: text, Source: SourceNative, Metrics: metrics})
	}
}

// emit sends msg to the results channel, dropping the oldest non-terminal
// (Empty) message on overflow rather than blocking.
func (m *Manager) emit(msg JobMessage) {
	select {
	case m.results <- msg:
		return
	default:
	}
	select {
	case old := <-m.results:
		if old.Kind == JobTranscript {
			// Never drop a Transcript silently; put it back and drop msg
			// instead if msg itself isn't a Transcript.
			m.results <- old
			if msg.Kind != JobTranscript {
				return
			}
		}
	default:
	}
	select {
	case m.results <- msg:
	default:
	}
}
