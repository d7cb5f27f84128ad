// ABOUTME: YAML configuration for the fortune audio player
// ABOUTME: Loads, defaults and validates output, TTS, sound effect and control settings
package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv is read when the file does not set tts.api_key
const APIKeyEnv = "GEMINI_API_KEY"

// Config represents the complete player configuration
type Config struct {
	Output  OutputConfig      `yaml:"output"`
	TTS     TTSConfig         `yaml:"tts"`
	Control ControlConfig     `yaml:"control"`
	Gate    GateConfig        `yaml:"gate"`
	Assets  AssetsConfig      `yaml:"assets"`
	Sounds  map[string]string `yaml:"sounds"`
}

// OutputConfig selects and sizes the audio output context
type OutputConfig struct {
	Backends   []string `yaml:"backends"`
	SampleRate int      `yaml:"sample_rate"`
	Channels   int      `yaml:"channels"`
	BufferMS   int      `yaml:"buffer_ms"`
}

// TTSConfig contains speech provider settings
type TTSConfig struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	Model        string `yaml:"model"`
	TextModel    string `yaml:"text_model"`
	Voice        string `yaml:"voice"`
	FallbackText string `yaml:"fallback_text"`
	Timeout      int    `yaml:"timeout"` // seconds
	MaxRetries   int    `yaml:"max_retries"`
	Summarize    bool   `yaml:"summarize"`
}

// ControlConfig contains the remote control server settings
type ControlConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Name    string `yaml:"name"`
	MDNS    bool   `yaml:"mdns"`
}

// GateConfig tunes the output gate
type GateConfig struct {
	MaxQueue         int `yaml:"max_queue"`
	ActivationWindow int `yaml:"activation_window_ms"`
}

// AssetsConfig controls sound effect loading
type AssetsConfig struct {
	CacheDir    string `yaml:"cache_dir"`
	ClearOnExit bool   `yaml:"clear_on_exit"`
}

var knownBackends = map[string]bool{"oto": true, "null": true}

// Default returns a configuration that runs without a file
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Backends:   []string{"oto"},
			SampleRate: 48000,
			Channels:   2,
		},
		TTS: TTSConfig{
			Timeout:    60,
			MaxRetries: 3,
			Summarize:  true,
		},
		Control: ControlConfig{
			Enabled: true,
			Port:    8930,
			Name:    "Fortune Audio",
			MDNS:    true,
		},
		Gate: GateConfig{
			MaxQueue: 5,
		},
		Sounds: map[string]string{},
	}
}

// Load reads and parses the configuration file. Unset fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return config, nil
}

// Parse decodes YAML over the defaults, applies the environment and validates
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if config.Sounds == nil {
		config.Sounds = map[string]string{}
	}

	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// ApplyEnv fills the API key from the environment when the file left it empty
func (c *Config) ApplyEnv() {
	if c.TTS.APIKey == "" {
		c.TTS.APIKey = os.Getenv(APIKeyEnv)
	}
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}
	if err := c.TTS.Validate(); err != nil {
		return fmt.Errorf("tts config: %w", err)
	}
	if err := c.Control.Validate(); err != nil {
		return fmt.Errorf("control config: %w", err)
	}
	if err := c.Gate.Validate(); err != nil {
		return fmt.Errorf("gate config: %w", err)
	}
	for name, location := range c.Sounds {
		if location == "" {
			return fmt.Errorf("sound %q has no location", name)
		}
	}
	return nil
}

// Validate validates output configuration
func (o *OutputConfig) Validate() error {
	if len(o.Backends) == 0 {
		return fmt.Errorf("at least one backend is required")
	}
	for _, name := range o.Backends {
		if !knownBackends[name] {
			return fmt.Errorf("unknown backend %q", name)
		}
	}
	if o.SampleRate < 8000 || o.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %d", o.SampleRate)
	}
	if o.Channels < 1 || o.Channels > 2 {
		return fmt.Errorf("channels must be 1 or 2, got %d", o.Channels)
	}
	if o.BufferMS < 0 {
		return fmt.Errorf("buffer_ms cannot be negative, got %d", o.BufferMS)
	}
	return nil
}

// BufferSize returns the device buffer latency
func (o *OutputConfig) BufferSize() time.Duration {
	return time.Duration(o.BufferMS) * time.Millisecond
}

// Validate validates TTS configuration
func (t *TTSConfig) Validate() error {
	if t.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", t.Timeout)
	}
	if t.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got %d", t.MaxRetries)
	}
	return nil
}

// Enabled reports whether narration can be generated
func (t *TTSConfig) Enabled() bool {
	return t.APIKey != ""
}

// Validate validates control server configuration
func (c *ControlConfig) Validate() error {
	if c.Enabled && (c.Port < 1 || c.Port > 65535) {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Validate validates gate configuration
func (g *GateConfig) Validate() error {
	if g.MaxQueue < 1 {
		return fmt.Errorf("max_queue must be at least 1, got %d", g.MaxQueue)
	}
	if g.ActivationWindow < 0 {
		return fmt.Errorf("activation_window_ms cannot be negative, got %d", g.ActivationWindow)
	}
	return nil
}

// SoundNames returns the catalog names in sorted order
func (c *Config) SoundNames() []string {
	names := make([]string, 0, len(c.Sounds))
	for name := range c.Sounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
