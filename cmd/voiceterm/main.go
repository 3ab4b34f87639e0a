// Command voiceterm wraps an AI-CLI backend in a PTY, overlaying a
// voice-driven input bar, prompt-readiness tracking, and the theme/dev
// overlay stack on top of it.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/csheth/voiceterm/internal/app"
	"github.com/csheth/voiceterm/internal/backend"
	"github.com/csheth/voiceterm/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "voiceterm:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voiceterm",
		Short: "Voice-driven terminal overlay for AI CLIs",
		Long:  "voiceterm wraps codex, claude, gemini, or a custom CLI in a PTY and layers voice capture, a HUD, and devtool overlays on top of it.",
	}

	resolve := config.BindFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := resolve()
		if err != nil {
			return err
		}
		if cfg.Login {
			return runLogin(cfg)
		}
		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		return a.Run()
	}

	return cmd
}

// runLogin execs the wrapped backend's own "login" subcommand with stdio
// inherited, bypassing the overlay entirely: most of these CLIs implement
// credential setup as an interactive flow of their own that a PTY overlay
// would only get in the way of.
func runLogin(cfg config.AppConfig) error {
	runner, err := backend.Resolve(cfg.Backend)
	if err != nil {
		return fmt.Errorf("resolve backend: %w", err)
	}
	loginCmd := exec.Command(runner.Command(), "login")
	loginCmd.Stdin = os.Stdin
	loginCmd.Stdout = os.Stdout
	loginCmd.Stderr = os.Stderr
	return loginCmd.Run()
}
