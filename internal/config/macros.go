package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/csheth/voiceterm/internal/transcript"
)

// macroFile is the on-disk shape of ~/.config/voiceterm/macros.yaml: a
// trigger phrase mapping to replacement text and an optional send-mode
// override.
type macroFile struct {
	Macros []struct {
		Trigger  string  `yaml:"trigger"`
		Text     string  `yaml:"text"`
		SendMode *string `yaml:"send_mode,omitempty"`
	} `yaml:"macros"`
}

// MacroTablePath returns the default macro table location.
func MacroTablePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "voiceterm", "macros.yaml")
	}
	return filepath.Join(home, ".config", "voiceterm", "macros.yaml")
}

// LoadMacroTable reads the macro table at path. A missing file is not an
// error, it just yields an empty table.
func LoadMacroTable(path string) (transcript.MacroTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return transcript.MacroTable{}, nil
		}
		return nil, err
	}

	var mf macroFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, err
	}

	table := make(transcript.MacroTable, len(mf.Macros))
	for _, m := range mf.Macros {
		if m.Trigger == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(m.Trigger))
		entry := transcript.Macro{Trigger: m.Trigger, Text: m.Text}
		if m.SendMode != nil {
			mode := transcript.Insert
			if strings.EqualFold(*m.SendMode, "auto") {
				mode = transcript.Auto
			}
			entry.SendMode = &mode
		}
		table[key] = entry
	}
	return table, nil
}
