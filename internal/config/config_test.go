package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Extraction.Model == "" {
		t.Error("Extraction.Model is empty")
	}
	if cfg.Extraction.TimeoutSeconds <= 0 {
		t.Errorf("Extraction.TimeoutSeconds = %d", cfg.Extraction.TimeoutSeconds)
	}
}

func TestWriteDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := WriteDefaultFile(path); err != nil {
		t.Fatalf("WriteDefaultFile error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	for _, want := range []string{"server:", "extraction:", "model:", "timeout_seconds:"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config file missing %q:\n%s", want, data)
		}
	}

	// Existing files are never clobbered.
	if err := WriteDefaultFile(path); err == nil {
		t.Error("WriteDefaultFile overwrote an existing file")
	}
}
