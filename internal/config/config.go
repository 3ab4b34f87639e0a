// Package config resolves VoiceTerm's CLI surface into an
// AppConfig: cobra flags, environment variable fallbacks, and the on-disk
// macro table. Style-pack JSON and onboarding-state TOML have their own
// narrow loaders in internal/theme and internal/onboarding respectively,
// following the same read-validate-or-default idiom throughout.
package config

import (
	"fmt"
	"os"

	"github.com/csheth/voiceterm/internal/backend"
)

// SendMode names the default delivery mode for a voice transcript.
type SendMode string

const (
	SendAuto   SendMode = "auto"
	SendInsert SendMode = "insert"
)

// HudStyle selects how much of the HUD is drawn.
type HudStyle string

const (
	HudFull    HudStyle = "full"
	HudMinimal HudStyle = "minimal"
	HudHidden  HudStyle = "hidden"
)

// AppConfig is the fully resolved, validated configuration for one
// VoiceTerm run, assembled from flags (primary) and environment variables
// (fallback).
type AppConfig struct {
	Backend       backend.Config
	BackendLabel  string

	AutoVoice         bool
	AutoVoiceIdleMs   int
	TranscriptIdleMs  int
	VoiceSendMode     SendMode

	WakeWord            bool
	WakeWordSensitivity float64
	WakeWordCooldownMs  int

	Theme          string
	NoColor        bool
	HudStyle       HudStyle
	HudBorderStyle string
	HudRightPanel  bool
	LatencyDisplay bool

	PromptRegex string
	PromptLog   string
	DevMode     bool
	DevLog      string

	Login bool
}

// Validate enforces the flag-level constraints explicitly (wake-word
// sensitivity and cooldown ranges) plus the backend/send-mode enums.
// Validation failures are reported on stderr and exit non-zero before any
// thread starts.
func (c AppConfig) Validate() error {
	if c.WakeWordSensitivity < 0.0 || c.WakeWordSensitivity > 1.0 {
		return fmt.Errorf("--wake-word-sensitivity must be in [0.0, 1.0], got %v", c.WakeWordSensitivity)
	}
	if c.WakeWordCooldownMs < 500 || c.WakeWordCooldownMs > 10000 {
		return fmt.Errorf("--wake-word-cooldown-ms must be in [500, 10000], got %d", c.WakeWordCooldownMs)
	}
	switch c.VoiceSendMode {
	case SendAuto, SendInsert:
	default:
		return fmt.Errorf("--voice-send-mode must be %q or %q, got %q", SendAuto, SendInsert, c.VoiceSendMode)
	}
	switch c.HudStyle {
	case HudFull, HudMinimal, HudHidden:
	default:
		return fmt.Errorf("--hud-style must be one of full/minimal/hidden, got %q", c.HudStyle)
	}
	return nil
}

// ResolveBackendLabel applies the precedence for backend identity
// override: explicit flag value, then VOICETERM_BACKEND_LABEL, then
// VOICETERM_PROVIDER, then the backend's own Name().
func ResolveBackendLabel(flagValue string, runner backend.JobRunner) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("VOICETERM_BACKEND_LABEL"); v != "" {
		return v
	}
	if v := os.Getenv("VOICETERM_PROVIDER"); v != "" {
		return v
	}
	return runner.Name()
}

// ReservedGapRows reads the two tuning env vars
// (VOICETERM_CLAUDE_EXTRA_GAP_ROWS, VOICETERM_HUD_SAFETY_GAP_ROWS) and sums
// them into the extra rows reserved on top of the active overlay's base
// height, as environment-tunable layout knobs.
func ReservedGapRows(backendName string) int {
	gap := envInt("VOICETERM_HUD_SAFETY_GAP_ROWS", 0)
	if backendName == "claude" {
		gap += envInt("VOICETERM_CLAUDE_EXTRA_GAP_ROWS", 0)
	}
	return gap
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return def
	}
	return n
}
