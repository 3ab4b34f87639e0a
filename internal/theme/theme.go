// Package theme resolves a base theme plus runtime style-pack overrides
// into a concrete set of escape-sequence colors and glyphs for the HUD,
// overlays, and status line.
package theme

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// SchemaVersion is the runtime's understood style-pack schema version.
// A style pack whose Version exceeds this falls back to the base theme.
const SchemaVersion = 1

// GlyphSet selects Unicode or ASCII-safe glyphs for indicators/borders.
type GlyphSet int

const (
	GlyphUnicode GlyphSet = iota
	GlyphASCII
)

// BorderStyle names a border character family.
type BorderStyle string

const (
	BorderRounded BorderStyle = "rounded"
	BorderSquare  BorderStyle = "square"
	BorderThick   BorderStyle = "thick"
	BorderNone    BorderStyle = "none"
)

// Name identifies a base theme.
type Name string

const (
	Dark    Name = "dark"
	Light   Name = "light"
	Mono    Name = "mono"
	NoColor Name = "none"
)

// Colors bundles escape-sequence strings and semantic fields used by the
// HUD/overlay/status-line renderers. All fields are immutable value data;
// Resolve returns a fresh Colors by value on every call.
type Colors struct {
	Recording string
	Processing string
	Success   string
	Warning   string
	Error     string
	Info      string
	Dim       string
	Border    string
	Reset     string

	IndicatorIdle      string
	IndicatorRecording string
	IndicatorProcessing string

	WaveformBars []rune
	SpinnerChars []rune

	BorderSet BorderChars
}

// BorderChars holds the box-drawing characters for a border family.
type BorderChars struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

func borderChars(style BorderStyle) BorderChars {
	switch style {
	case BorderSquare:
		return BorderChars{'┌', '┐', '└', '┘', '─', '│'}
	case BorderThick:
		return BorderChars{'┏', '┓', '┗', '┛', '━', '┃'}
	case BorderNone:
		return BorderChars{' ', ' ', ' ', ' ', ' ', ' '}
	case BorderRounded:
		fallthrough
	default:
		return BorderChars{'╭', '╮', '╰', '╯', '─', '│'}
	}
}

func asciiBorderChars() BorderChars {
	return BorderChars{'+', '+', '+', '+', '-', '|'}
}

// base returns the built-in palette for a theme name as fixed ANSI SGR
// codes; whether color is rendered at all is decided by ColorModeSupported.
func base(name Name) Colors {
	if name == NoColor {
		return noneColors()
	}
	c := Colors{
		BorderSet:    borderChars(BorderRounded),
		WaveformBars: []rune("▁▂▃▄▅▆▇█"),
		SpinnerChars: []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"),
	}
	switch name {
	case Light:
		c.Recording = "\033[31m"
		c.Processing = "\033[35m"
		c.Success = "\033[32m"
		c.Warning = "\033[33m"
		c.Error = "\033[91m"
		c.Info = "\033[34m"
		c.Dim = "\033[90m"
		c.Border = "\033[90m"
	case Mono:
		c.Recording = "\033[7m"
		c.Processing = "\033[7m"
		c.Success = "\033[1m"
		c.Warning = "\033[1m"
		c.Error = "\033[7m"
		c.Info = ""
		c.Dim = "\033[2m"
		c.Border = "\033[2m"
	case Dark:
		fallthrough
	default:
		c.Recording = "\033[91m"
		c.Processing = "\033[95m"
		c.Success = "\033[92m"
		c.Warning = "\033[93m"
		c.Error = "\033[91m"
		c.Info = "\033[96m"
		c.Dim = "\033[2m"
		c.Border = "\033[2m"
	}
	c.IndicatorIdle = "○"
	c.IndicatorRecording = "●"
	c.IndicatorProcessing = "◐"
	c.Reset = "\033[0m"
	return c
}

func noneColors() Colors {
	return Colors{
		BorderSet:           asciiBorderChars(),
		WaveformBars:        []rune("12345678"),
		SpinnerChars:        []rune("|/-\\"),
		IndicatorIdle:       "o",
		IndicatorRecording:  "*",
		IndicatorProcessing: "~",
	}
}

// ColorModeSupported reports whether the current environment should render
// color at all: NO_COLOR unsets it unconditionally; otherwise it checks
// stdout TTY-ness and the detected termenv color profile.
func ColorModeSupported() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	return termenv.NewOutput(os.Stdout).Profile != termenv.Ascii
}

// lipglossBorder renders a lipgloss.Border matching the resolved BorderChars,
// for FrameStyle.
func lipglossBorder(bc BorderChars) lipgloss.Border {
	return lipgloss.Border{
		Top:         string(bc.Horizontal),
		Bottom:      string(bc.Horizontal),
		Left:        string(bc.Vertical),
		Right:       string(bc.Vertical),
		TopLeft:     string(bc.TopLeft),
		TopRight:    string(bc.TopRight),
		BottomLeft:  string(bc.BottomLeft),
		BottomRight: string(bc.BottomRight),
	}
}

// FrameStyle returns a lipgloss style pre-configured with the resolved
// border family, for rendering overlay panel chrome.
func (c Colors) FrameStyle() lipgloss.Style {
	return lipgloss.NewStyle().Border(lipglossBorder(c.BorderSet))
}
