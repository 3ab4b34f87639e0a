package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// StylePack is a versioned bundle of visual overrides layered atop a base
// theme. Unmarshaled directly from the style-pack JSON schema.
type StylePack struct {
	Version   int                `json:"version"`
	BaseTheme Name               `json:"base_theme"`
	Overrides *Overrides         `json:"overrides,omitempty"`
	Surfaces  map[string]Overrides `json:"surfaces,omitempty"`
	Components map[string]Overrides `json:"components,omitempty"`
}

// Overrides holds one layer of override fields, applied in the fixed order
// specified in a fixed order: border set -> indicator glyphs -> glyph set ->
// progress/spinner/bar family -> voice-scene style.
type Overrides struct {
	BorderStyle      *BorderStyle `json:"border_style,omitempty"`
	Indicators       *Indicators  `json:"indicators,omitempty"`
	Glyphs           *GlyphSet    `json:"glyphs,omitempty"`
	ProgressStyle    *string      `json:"progress_style,omitempty"`
	VoiceSceneStyle  *string      `json:"voice_scene_style,omitempty"`
}

// Indicators overrides the idle/recording/processing glyphs.
type Indicators struct {
	Idle       *string `json:"idle,omitempty"`
	Recording  *string `json:"recording,omitempty"`
	Processing *string `json:"processing,omitempty"`
}

// ParseStylePack decodes a style-pack JSON payload. Parse errors are
// validation failures at the boundary; forward-incompatible *version*
// numbers are not errors — Resolve handles those by falling back silently.
func ParseStylePack(data []byte) (*StylePack, error) {
	var sp StylePack
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("parse style pack: %w", err)
	}
	return &sp, nil
}

// overridesCell is the process-wide cell holding the active runtime
// override set, mutated only through SetOverrides/ClearOverrides.
var overridesCell struct {
	mu sync.Mutex
	sp *StylePack
}

// SetOverrides installs a new runtime style pack, replacing any previous one.
func SetOverrides(sp *StylePack) {
	overridesCell.mu.Lock()
	defer overridesCell.mu.Unlock()
	overridesCell.sp = sp
}

// ClearOverrides removes any installed runtime style pack.
func ClearOverrides() {
	overridesCell.mu.Lock()
	defer overridesCell.mu.Unlock()
	overridesCell.sp = nil
}

// ActiveStylePack returns the currently installed runtime style pack, or
// nil. Callers pass the result to Resolve.
func ActiveStylePack() *StylePack {
	overridesCell.mu.Lock()
	defer overridesCell.mu.Unlock()
	return overridesCell.sp
}

// Resolve is the pure style-pack resolution function. baseName is the
// requested theme (from --theme); sp is the runtime
// override style pack (nil if none installed); component selects a
// finer-grained override set that takes precedence over sp.Overrides when
// present (e.g. "overlay" for overlay-border overrides).
func Resolve(baseName Name, sp *StylePack, component string) Colors {
	if !ColorModeSupported() {
		return noneColors()
	}

	effectiveBase := baseName
	if sp != nil && sp.BaseTheme != "" {
		effectiveBase = sp.BaseTheme
	}
	colors := base(effectiveBase)

	if sp == nil {
		return colors
	}
	// Forward-compat: a schema version newer than the runtime understands
	// is accepted by falling back to the base theme, unmodified.
	if sp.Version > SchemaVersion {
		return colors
	}

	if sp.Overrides != nil {
		colors = applyOverrides(colors, *sp.Overrides)
	}
	if component != "" {
		if compOverride, ok := sp.Components[component]; ok {
			colors = applyOverrides(colors, compOverride)
		} else if surfOverride, ok := sp.Surfaces[component]; ok {
			colors = applyOverrides(colors, surfOverride)
		}
	}
	return colors
}

// applyOverrides applies one override layer in the fixed field order.
func applyOverrides(colors Colors, o Overrides) Colors {
	if o.BorderStyle != nil {
		colors.BorderSet = borderChars(*o.BorderStyle)
	}
	if o.Indicators != nil {
		if o.Indicators.Idle != nil {
			colors.IndicatorIdle = *o.Indicators.Idle
		}
		if o.Indicators.Recording != nil {
			colors.IndicatorRecording = *o.Indicators.Recording
		}
		if o.Indicators.Processing != nil {
			colors.IndicatorProcessing = *o.Indicators.Processing
		}
	}
	if o.Glyphs != nil && *o.Glyphs == GlyphASCII {
		colors.BorderSet = asciiBorderChars()
		colors.WaveformBars = []rune("12345678")
		colors.SpinnerChars = []rune("|/-\\")
	}
	// progress_style / voice_scene_style are opaque style-family selectors
	// forwarded to the HUD renderer; the
	// resolver only threads them through as labels, not rendered here.
	return colors
}

// LoadStylePackEnv reads VOICETERM_STYLE_PACK_JSON if set.
func LoadStylePackEnv() (*StylePack, error) {
	raw := os.Getenv("VOICETERM_STYLE_PACK_JSON")
	if raw == "" {
		return nil, nil
	}
	return ParseStylePack([]byte(raw))
}
