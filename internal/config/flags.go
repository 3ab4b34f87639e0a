package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csheth/voiceterm/internal/backend"
)

// BindFlags registers every flag on cmd and returns a function
// that resolves them (plus env var fallbacks) into an AppConfig, closing
// over cobra.Command.Flags() pointers from NewRootCmd rather than building
// a second parallel flag struct.
func BindFlags(cmd *cobra.Command) func() (AppConfig, error) {
	var (
		backendFlag   string
		codexShort    bool
		claudeShort   bool
		geminiShort   bool
		customCommand string
		backendLabel  string

		autoVoice        bool
		autoVoiceIdleMs  int
		transcriptIdleMs int
		voiceSendMode    string

		wakeWord            bool
		wakeWordSensitivity float64
		wakeWordCooldownMs  int

		theme          string
		noColor        bool
		hudStyle       string
		hudBorderStyle string
		hudRightPanel  bool
		latencyDisplay bool

		promptRegex string
		promptLog   string
		devMode     bool
		devLog      string

		login bool
	)

	f := cmd.Flags()
	f.StringVar(&backendFlag, "backend", "", "Wrapped CLI backend: codex, claude, gemini, or a custom command name")
	f.BoolVar(&codexShort, "codex", false, "Shorthand for --backend codex")
	f.BoolVar(&claudeShort, "claude", false, "Shorthand for --backend claude")
	f.BoolVar(&geminiShort, "gemini", false, "Shorthand for --backend gemini")
	f.StringVar(&customCommand, "backend-command", "", "Shell command line for a custom backend")
	f.StringVar(&backendLabel, "backend-label", "", "Override the backend identity shown in the HUD")

	f.BoolVar(&autoVoice, "auto-voice", false, "Arm voice capture automatically on backend idle")
	f.IntVar(&autoVoiceIdleMs, "auto-voice-idle-ms", 2000, "Idle window before auto-voice arms a new capture")
	f.IntVar(&transcriptIdleMs, "transcript-idle-ms", 1500, "Idle window before a pending transcript is force-flushed")
	f.StringVar(&voiceSendMode, "voice-send-mode", string(SendInsert), "Default transcript delivery mode: auto or insert")

	f.BoolVar(&wakeWord, "wake-word", false, "Enable the background wake-word listener")
	f.Float64Var(&wakeWordSensitivity, "wake-word-sensitivity", 0.5, "Wake-word detector sensitivity in [0.0, 1.0]")
	f.IntVar(&wakeWordCooldownMs, "wake-word-cooldown-ms", 1500, "Minimum gap between wake-word triggers, in [500, 10000] ms")

	f.StringVar(&theme, "theme", "dark", "Base theme: dark, light, mono, none")
	f.BoolVar(&noColor, "no-color", false, "Disable color output regardless of terminal support")
	f.StringVar(&hudStyle, "hud-style", string(HudFull), "HUD verbosity: full, minimal, hidden")
	f.StringVar(&hudBorderStyle, "hud-border-style", "", "Override HUD/overlay border family")
	f.BoolVar(&hudRightPanel, "hud-right-panel", false, "Show the right-hand HUD panel")
	f.BoolVar(&latencyDisplay, "latency-display", false, "Show STT latency history in the HUD")

	f.StringVar(&promptRegex, "prompt-regex", "", "Override the prompt-readiness regex")
	f.StringVar(&promptLog, "prompt-log", "", "Write prompt-tracker observations to this file")
	f.BoolVar(&devMode, "dev-mode", false, "Enable the dev panel overlay and devtool broker")
	f.StringVar(&devLog, "dev-log", "", "Directory for dev-session JSONL logs")

	f.BoolVar(&login, "login", false, "Run backend login flow instead of starting the overlay")

	return func() (AppConfig, error) {
		kind, err := resolveBackendKind(backendFlag, codexShort, claudeShort, geminiShort, customCommand)
		if err != nil {
			return AppConfig{}, err
		}
		customCmd := customCommand
		switch kind {
		case backend.Codex, backend.Claude, backend.Gemini, backend.Custom:
		default:
			// Any other --backend name is run as a custom command.
			if customCmd == "" {
				customCmd = backendFlag
			}
			kind = backend.Custom
		}
		cfg := AppConfig{
			Backend: backend.Config{
				Kind:          kind,
				CustomCommand: customCmd,
			},
			BackendLabel: backendLabel,

			AutoVoice:        autoVoice,
			AutoVoiceIdleMs:  autoVoiceIdleMs,
			TranscriptIdleMs: transcriptIdleMs,
			VoiceSendMode:    SendMode(voiceSendMode),

			WakeWord:            wakeWord,
			WakeWordSensitivity: wakeWordSensitivity,
			WakeWordCooldownMs:  wakeWordCooldownMs,

			Theme:          theme,
			NoColor:        noColor,
			HudStyle:       HudStyle(hudStyle),
			HudBorderStyle: hudBorderStyle,
			HudRightPanel:  hudRightPanel,
			LatencyDisplay: latencyDisplay,

			PromptRegex: promptRegex,
			PromptLog:   promptLog,
			DevMode:     devMode,
			DevLog:      devLog,

			Login: login,
		}
		if err := cfg.Validate(); err != nil {
			return AppConfig{}, err
		}
		return cfg, nil
	}
}

// resolveBackendKind applies the shorthand flags (--codex/--claude/--gemini)
// over --backend: whichever of --codex/--claude/--gemini is set wins;
// a custom command implies Kind=Custom.
func resolveBackendKind(backendFlag string, codex, claude, gemini bool, customCommand string) (backend.Kind, error) {
	shorthands := 0
	var fromShorthand backend.Kind
	if codex {
		shorthands++
		fromShorthand = backend.Codex
	}
	if claude {
		shorthands++
		fromShorthand = backend.Claude
	}
	if gemini {
		shorthands++
		fromShorthand = backend.Gemini
	}
	if shorthands > 1 {
		return "", fmt.Errorf("only one of --codex, --claude, --gemini may be set")
	}
	if shorthands == 1 {
		return fromShorthand, nil
	}
	if backendFlag != "" {
		return backend.Kind(backendFlag), nil
	}
	if customCommand != "" {
		return backend.Custom, nil
	}
	return backend.Codex, nil
}
