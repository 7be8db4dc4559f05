package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const fileHeader = `# Timetable configuration.
# Environment variables with the TIMETABLE_ prefix override these values.
# The extraction API credential is not stored here; set it through the
# application settings.
`

// WriteDefaultFile writes a starter config file with the built-in defaults.
// Refuses to overwrite an existing file.
func WriteDefaultFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	defaults := DefaultConfig()
	doc := map[string]any{
		"server": map[string]any{
			"host": defaults.Server.Host,
			"port": defaults.Server.Port,
		},
		"extraction": map[string]any{
			"model":           defaults.Extraction.Model,
			"base_url":        defaults.Extraction.BaseURL,
			"timeout_seconds": defaults.Extraction.TimeoutSeconds,
		},
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize default config: %w", err)
	}

	return os.WriteFile(path, append([]byte(fileHeader), data...), 0o644)
}
