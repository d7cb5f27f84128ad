// ABOUTME: Tests for YAML configuration loading
// ABOUTME: Covers defaults, validation errors and environment overrides
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"no backends", func(c *Config) { c.Output.Backends = nil }, "at least one backend"},
		{"unknown backend", func(c *Config) { c.Output.Backends = []string{"alsa"} }, "unknown backend"},
		{"low sample rate", func(c *Config) { c.Output.SampleRate = 4000 }, "sample_rate"},
		{"three channels", func(c *Config) { c.Output.Channels = 3 }, "channels"},
		{"negative buffer", func(c *Config) { c.Output.BufferMS = -1 }, "buffer_ms"},
		{"zero timeout", func(c *Config) { c.TTS.Timeout = 0 }, "timeout"},
		{"negative retries", func(c *Config) { c.TTS.MaxRetries = -1 }, "max_retries"},
		{"bad port", func(c *Config) { c.Control.Port = 70000 }, "port"},
		{"bad port disabled", func(c *Config) { c.Control.Port = 0; c.Control.Enabled = false }, ""},
		{"empty queue", func(c *Config) { c.Gate.MaxQueue = 0 }, "max_queue"},
		{"negative window", func(c *Config) { c.Gate.ActivationWindow = -5 }, "activation_window_ms"},
		{"empty sound", func(c *Config) { c.Sounds["chime"] = "" }, "chime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)
			err := config.Validate()
			if tt.errorMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errorMsg)
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("error %q does not contain %q", err, tt.errorMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	yamlContent := `
output:
  backends: ["null"]
  sample_rate: 44100
  channels: 1
  buffer_ms: 40
tts:
  api_key: file-key
  voice: Kore
control:
  port: 9000
  mdns: false
sounds:
  shuffle: https://example.com/shuffle.mp3
  reveal: ./sounds/reveal.wav
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(config.Output.Backends) != 1 || config.Output.Backends[0] != "null" {
		t.Errorf("backends = %v", config.Output.Backends)
	}
	if config.Output.SampleRate != 44100 || config.Output.Channels != 1 {
		t.Errorf("output = %+v", config.Output)
	}
	if got := config.Output.BufferSize(); got != 40*time.Millisecond {
		t.Errorf("buffer size = %v", got)
	}
	if config.TTS.APIKey != "file-key" || config.TTS.Voice != "Kore" {
		t.Errorf("tts = %+v", config.TTS)
	}
	// Untouched fields keep their defaults
	if config.TTS.Timeout != 60 || !config.Control.Enabled || config.Gate.MaxQueue != 5 {
		t.Errorf("defaults lost: %+v", config)
	}
	if config.Control.Port != 9000 || config.Control.MDNS {
		t.Errorf("control = %+v", config.Control)
	}

	names := config.SoundNames()
	if len(names) != 2 || names[0] != "reveal" || names[1] != "shuffle" {
		t.Errorf("sound names = %v", names)
	}
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "env-key")

	config, err := Parse([]byte("tts:\n  voice: Puck\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if config.TTS.APIKey != "env-key" {
		t.Errorf("api key = %q, want env-key", config.TTS.APIKey)
	}
	if !config.TTS.Enabled() {
		t.Error("tts should be enabled with a key")
	}

	config, err = Parse([]byte("tts:\n  api_key: file-key\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if config.TTS.APIKey != "file-key" {
		t.Errorf("file key should win, got %q", config.TTS.APIKey)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	if _, err := Parse([]byte("output: [not, a, map")); err == nil {
		t.Error("expected error for malformed yaml")
	}

	_, err := Parse([]byte("output:\n  channels: 6\n"))
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("expected validation error, got %v", err)
	}
}
