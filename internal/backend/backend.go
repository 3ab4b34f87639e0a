// Package backend selects and configures the wrapped CLI (Codex, Claude,
// Gemini, or a custom command) behind small capability interfaces rather
// than an inheritance tree. Each backend encapsulates only what
// differs between agents: how it's launched and what its prompt-ready
// regex looks like; everything else (PTY plumbing, VAD, transcript
// delivery) is backend-agnostic.
package backend

import "fmt"

// Kind names a supported backend.
type Kind string

const (
	Codex  Kind = "codex"
	Claude Kind = "claude"
	Gemini Kind = "gemini"
	Custom Kind = "custom"
)

// JobRunner is the capability interface for launching and identifying the
// wrapped CLI.
type JobRunner interface {
	Name() string
	Command() string
	Args() []string
	// PromptReadyPattern is the regex source matching the backend's shell
	// prompt, used to seed the prompt-readiness tracker.
	PromptReadyPattern() string
}

// Config selects and parameterizes a backend.
type Config struct {
	Kind          Kind
	CustomCommand string // shell command line, only used when Kind == Custom
	ExtraArgs     []string
}

type builtin struct {
	name    string
	command string
	args    []string
	pattern string
}

func (b builtin) Name() string               { return b.name }
func (b builtin) Command() string            { return b.command }
func (b builtin) Args() []string             { return b.args }
func (b builtin) PromptReadyPattern() string  { return b.pattern }

// Resolve maps a Config to a concrete JobRunner. Returns an error for an
// unknown Kind or a Custom config missing its command line.
func Resolve(cfg Config) (JobRunner, error) {
	switch cfg.Kind {
	case Codex:
		return builtin{
			name:    "codex",
			command: "codex",
			args:    append([]string{}, cfg.ExtraArgs...),
			pattern: `(?m)^>\s*$`,
		}, nil
	case Claude:
		return builtin{
			name:    "claude",
			command: "claude",
			args:    append([]string{}, cfg.ExtraArgs...),
			pattern: `(?m)^\s*Human:\s*$`,
		}, nil
	case Gemini:
		return builtin{
			name:    "gemini",
			command: "gemini",
			args:    append([]string{}, cfg.ExtraArgs...),
			pattern: `(?m)^>\s*$`,
		}, nil
	case Custom:
		if cfg.CustomCommand == "" {
			return nil, fmt.Errorf("custom backend requires a command")
		}
		command, args, err := splitCustomCommand(cfg.CustomCommand)
		if err != nil {
			return nil, fmt.Errorf("parse custom command: %w", err)
		}
		return builtin{
			name:    "custom",
			command: command,
			args:    append(args, cfg.ExtraArgs...),
			pattern: `(?m)^\$\s*$`,
		}, nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Kind)
	}
}
