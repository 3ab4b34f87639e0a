// Package prompt implements the prompt-readiness tracker: a
// small heuristic state machine that infers when the wrapped CLI is idle
// and waiting for input, driven purely by observations of its PTY output.
package prompt

import (
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

// State names the tracker's coarse readiness state.
type State int

const (
	Unknown State = iota
	Active
	Idle
	Ready
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Tracker maintains last_output_at, last_activity_at, and
// last_prompt_match_at, updated only from backend-side observations. It
// never mutates PTY state — read-only with respect to the wrapped CLI.
type Tracker struct {
	mu sync.Mutex

	idleThreshold time.Duration
	regex         *regexp.Regexp
	allowAutoLearn bool

	lastOutputAt      time.Time
	lastActivityAt    time.Time
	lastPromptMatchAt time.Time
	lastSubmitAt      time.Time
}

// Config configures a Tracker.
type Config struct {
	IdleThreshold time.Duration
	Regex         *regexp.Regexp
	AllowAutoLearn bool
}

// New creates a Tracker. A zero IdleThreshold defaults to 1.2s, a
// reasonable idle-submit window for interactive CLIs.
func New(cfg Config) *Tracker {
	threshold := cfg.IdleThreshold
	if threshold <= 0 {
		threshold = 1200 * time.Millisecond
	}
	return &Tracker{
		idleThreshold:  threshold,
		regex:          cfg.Regex,
		allowAutoLearn: cfg.AllowAutoLearn,
	}
}

// ObserveOutput records a chunk of backend PTY output at time now. The
// event loop applies PTY output to the prompt tracker before voice-job
// messages are evaluated against readiness within the same iteration.
func (t *Tracker) ObserveOutput(chunk []byte, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastOutputAt = now
	t.lastActivityAt = now
	if t.regex != nil && t.regex.Match(chunk) {
		t.lastPromptMatchAt = now
	}
}

// ObserveSubmit records that a transcript or keystroke was just delivered,
// so IsReady can avoid re-firing on a regex match from before the
// submission ("since the last submission").
func (t *Tracker) ObserveSubmit(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSubmitAt = now
}

// IsReady reports readiness at time now: true when a prompt-regex match has
// occurred since the last submission, OR time since last_output_at exceeds
// the configured idle threshold.
func (t *Tracker) IsReady(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.lastPromptMatchAt.IsZero() && t.lastPromptMatchAt.After(t.lastSubmitAt) {
		return true
	}
	if t.lastOutputAt.IsZero() {
		return false
	}
	return now.Sub(t.lastOutputAt) > t.idleThreshold
}

// State computes the coarse state for HUD/status-line display.
func (t *Tracker) State(now time.Time) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastOutputAt.IsZero() {
		return Unknown
	}
	if !t.lastPromptMatchAt.IsZero() && t.lastPromptMatchAt.After(t.lastSubmitAt) {
		return Ready
	}
	if now.Sub(t.lastOutputAt) > t.idleThreshold {
		return Ready
	}
	if now.Sub(t.lastOutputAt) > 200*time.Millisecond {
		return Idle
	}
	return Active
}

// IdleFor returns how long the tracker has observed no output, for the
// auto-voice idle-trigger condition.
func (t *Tracker) IdleFor(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastOutputAt.IsZero() {
		return 0
	}
	return now.Sub(t.lastOutputAt)
}

// AllowAutoLearn reports whether the active regex was not user-supplied,
// meaning an auto-learn strategy would be permitted to replace it. No
// auto-learn algorithm is implemented; this flag is tracked for a future
// pluggable strategy but never consulted here.
func (t *Tracker) AllowAutoLearn() bool {
	return t.allowAutoLearn
}

// ResolveRegex resolves the active prompt regex by a fixed precedence:
// explicit --prompt-regex flag, then VOICETERM_PROMPT_REGEX env, then a
// backend-supplied default pattern (which permits auto-learn), then none
// (which also permits auto-learn).
func ResolveRegex(flagValue string, backendDefault string) (*regexp.Regexp, bool, error) {
	raw := flagValue
	if raw == "" {
		raw = os.Getenv("VOICETERM_PROMPT_REGEX")
	}
	if raw != "" {
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, false, err
		}
		return re, false, nil
	}

	if backendDefault != "" {
		trimmed := strings.TrimSpace(backendDefault)
		if trimmed != "" {
			re, err := regexp.Compile(trimmed)
			if err != nil {
				return nil, false, err
			}
			return re, true, nil
		}
	}
	return nil, true, nil
}
