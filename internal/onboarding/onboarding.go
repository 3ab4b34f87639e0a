// Package onboarding tracks the first-run capture hint: a single boolean
// persisted to ~/.config/voiceterm/onboarding_state.toml, gating a
// one-time inline HUD hint until the user completes their first
// successful voice capture.
package onboarding

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

const stateFileName = "onboarding_state.toml"

// stateEnv overrides the default onboarding-state file path.
const stateEnv = "VOICETERM_ONBOARDING_STATE"

// State is the on-disk onboarding marker.
type State struct {
	CompletedFirstCapture bool `toml:"completed_first_capture"`
}

// Path resolves the onboarding-state file location: the env override, else
// $HOME/.config/voiceterm/onboarding_state.toml.
func Path() (string, bool) {
	if p := os.Getenv(stateEnv); p != "" {
		return p, true
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", false
	}
	return filepath.Join(home, ".config", "voiceterm", stateFileName), true
}

// Load reads the onboarding state, returning the zero value (not completed)
// if the file is absent or unreadable — onboarding is advisory, never fatal.
func Load() State {
	path, ok := Path()
	if !ok {
		return State{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}
	}
	var s State
	if err := toml.Unmarshal(data, &s); err != nil {
		return State{}
	}
	return s
}

// ShouldShowHint reports whether the first-capture hint should still be
// shown in the HUD.
func ShouldShowHint() bool {
	return !Load().CompletedFirstCapture
}

// MarkFirstCaptureComplete persists completion, locking the file with an
// advisory flock so two VoiceTerm processes racing on first launch don't
// interleave a torn write.
func MarkFirstCaptureComplete() error {
	path, ok := Path()
	if !ok {
		return nil
	}
	if Load().CompletedFirstCapture {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	data, err := toml.Marshal(State{CompletedFirstCapture: true})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
