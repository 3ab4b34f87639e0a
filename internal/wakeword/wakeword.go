// Package wakeword implements the optional background wake-word listener:
// a subscriber on the same capability-interface shape as internal/voice's
// VadEngine, producing wake events gated by a cooldown so a lingering
// false-positive stream can't spam capture triggers.
package wakeword

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

// Detector is the capability interface a wake-word engine satisfies:
// small capability interfaces rather than inheritance. Implementations
// must never fail closed: on internal error, return false rather than
// propagate.
type Detector interface {
	// Detect reports whether samples contain the configured hotword.
	Detect(samples []float32) bool
	Reset()
}

// Event is emitted when the listener observes a wake-word hit past its
// cooldown window.
type Event struct {
	At time.Time
}

// Listener runs the background mic subscriber loop. It owns no audio
// device itself — Feed is called by whatever owns the mic callback. The
// audio ring buffer is exclusively owned by the voice manager; the
// wake-word listener only observes frames handed to it.
type Listener struct {
	mu          sync.Mutex
	detector    Detector
	cooldown    time.Duration
	lastFiredAt time.Time
	paused      bool

	events chan Event
}

// New constructs a Listener with a bounded events channel (capacity 8 is
// ample: wake triggers are rare relative to the frame rate).
func New(detector Detector, cooldown time.Duration) *Listener {
	return &Listener{
		detector: detector,
		cooldown: cooldown,
		events:   make(chan Event, 8),
	}
}

// Events exposes the wake-event channel for the event loop's select.
func (l *Listener) Events() <-chan Event { return l.events }

// Pause stops Feed from evaluating frames — the event loop pauses the
// listener once a wake-triggered capture is armed and resumes it when
// that job's result arrives.
func (l *Listener) Pause() {
	l.mu.Lock()
	l.paused = true
	l.mu.Unlock()
}

// Resume re-enables evaluation.
func (l *Listener) Resume() {
	l.mu.Lock()
	l.paused = false
	l.mu.Unlock()
}

// Feed evaluates one frame of samples at time now, emitting a non-blocking
// Event send if the hotword is detected and the cooldown has elapsed.
// Dropped (channel-full) events are not an error — the cooldown already
// rate-limits far below channel capacity.
func (l *Listener) Feed(samples []float32, now time.Time) {
	l.mu.Lock()
	paused := l.paused
	sinceLast := now.Sub(l.lastFiredAt)
	l.mu.Unlock()

	if paused {
		return
	}
	if !l.lastFiredAt.IsZero() && sinceLast < l.cooldown {
		return
	}
	if !l.detector.Detect(samples) {
		return
	}

	l.mu.Lock()
	l.lastFiredAt = now
	l.mu.Unlock()

	select {
	case l.events <- Event{At: now}:
	default:
	}
}

// punctuation strips anything that isn't a letter, digit, or space before
// tokenizing a transcript candidate for hotword matching.
var punctuation = regexp.MustCompile(`[^a-z0-9 ]+`)
var whitespace = regexp.MustCompile(`\s+`)

// NormalizeForHotwordMatch lowercases, strips punctuation, and collapses
// whitespace so a transcript candidate can be compared against a hotword
// phrase independent of casing or filler punctuation.
func NormalizeForHotwordMatch(s string) string {
	lower := strings.ToLower(s)
	stripped := punctuation.ReplaceAllString(lower, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(stripped, " "))
}

// hotwordAliases maps common ASR mis-transcriptions of backend names onto
// their canonical token, mirroring canonicalize_hotword_tokens.
var hotwordAliases = map[string]string{
	"code":   "codex",
	"codecs": "codex",
	"kodak":  "codex",
	"voice":  "voiceterm",
	"term":   "voiceterm",
}

// CanonicalizeHotwordTokens rewrites known ASR mis-transcriptions in tokens
// to their canonical form, merging adjacent split tokens like "code" "x"
// -> "codex".
func CanonicalizeHotwordTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "code" && i+1 < len(tokens) && tokens[i+1] == "x" {
			out = append(out, "codex")
			i++
			continue
		}
		if canon, ok := hotwordAliases[tok]; ok {
			if tok == "voice" && i+1 < len(tokens) && tokens[i+1] == "term" {
				out = append(out, "voiceterm")
				i++
				continue
			}
			out = append(out, canon)
			continue
		}
		out = append(out, tok)
	}
	return out
}

// hotwordPhrases is the set of canonicalized phrases that arm a capture;
// wake events trigger like Manual.
var hotwordPhrases = []string{"hey codex", "okay codex", "hey claude", "okay claude", "hey gemini", "okay gemini", "voiceterm", "hey voiceterm", "okay voiceterm"}

// ContainsHotwordPhrase reports whether text, once normalized and
// canonicalized, contains a recognized wake phrase as a substring of its
// token stream. Each phrase also matches without a leading "hey ", so a
// bare backend name such as "codex" counts as a wake phrase.
func ContainsHotwordPhrase(text string) bool {
	normalized := NormalizeForHotwordMatch(text)
	if normalized == "" {
		return false
	}
	tokens := CanonicalizeHotwordTokens(strings.Split(normalized, " "))
	joined := " " + strings.Join(tokens, " ") + " "
	for _, phrase := range hotwordPhrases {
		if strings.Contains(joined, " "+phrase+" ") {
			return true
		}
		if strings.Contains(joined, " "+strings.ReplaceAll(phrase, "hey ", "")+" ") {
			return true
		}
	}
	return false
}
