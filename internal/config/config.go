package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk castrec settings file: recording defaults, the
// player's color theme, and the story extractor's noise-phrase list.
type Config struct {
	RecordingDir  string         `yaml:"recording_dir,omitempty"`
	IdleTimeLimit float64        `yaml:"idle_time_limit,omitempty"`
	Theme         Theme          `yaml:"theme,omitempty"`
	NoisePhrases  []string       `yaml:"noise_phrases,omitempty"`
	Analyzer      AnalyzerConfig `yaml:"analyzer,omitempty"`
}

// Theme carries the player's status-line colors. It is duplicated in the
// original Rust source (src/tui/theme.rs) under two slightly different
// definitions; this richer, later one is canonical.
type Theme struct {
	ErrorColor  string `yaml:"error_color,omitempty"`
	AccentColor string `yaml:"accent_color,omitempty"`
	MarkerColor string `yaml:"marker_color,omitempty"`
}

// AnalyzerConfig selects and configures the external LLM CLI backend used
// by the analyze command.
type AnalyzerConfig struct {
	Backend string            `yaml:"backend,omitempty"` // "claude", "codex", "gemini"
	Timeout time.Duration     `yaml:"timeout,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
}

// DefaultTheme matches the original's terminal defaults: red errors,
// cyan accents, yellow markers.
func DefaultTheme() Theme {
	return Theme{ErrorColor: "red", AccentColor: "cyan", MarkerColor: "yellow"}
}

// Default returns the built-in settings applied when no config file
// exists or a field is left unset.
func Default() *Config {
	return &Config{
		RecordingDir:  filepath.Join(RecordingsRoot(), "recordings"),
		IdleTimeLimit: 2.0,
		Theme:         DefaultTheme(),
		NoisePhrases:  defaultNoisePhrases,
		Analyzer:      AnalyzerConfig{Backend: "claude", Timeout: 120 * time.Second},
	}
}

var defaultNoisePhrases = []string{
	"Shimmying…", "Orbiting…", "Improvising…", "Whatchamacalliting…",
	"Churning…", "Clauding…", "Razzle-dazzling…", "Wibbling…",
	"Bloviating…", "Herding…", "Channeling…", "Unfurling…",
	"accept edits on (shift+Tab to cycle)",
	"Context left until auto-compact",
	"Tip:",
	"Update available!",
}

// RecordingsRoot returns castrec's configuration/data directory (~/.castrec/).
func RecordingsRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".castrec")
	}
	return filepath.Join(home, ".castrec")
}

// ConfigPath returns the path to the settings file.
func ConfigPath() string {
	return filepath.Join(RecordingsRoot(), "config.yaml")
}

// Load reads settings from ConfigPath(), merging onto Default() so unset
// fields keep their built-in values. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads settings from the given path, merging onto Default().
// If the file does not exist, Default() is returned unchanged.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var onDisk Config
	if err := yaml.Unmarshal(data, &onDisk); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.mergeFrom(onDisk)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: create dir for %s: %w", path, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeFrom(onDisk Config) {
	if onDisk.RecordingDir != "" {
		c.RecordingDir = onDisk.RecordingDir
	}
	if onDisk.IdleTimeLimit != 0 {
		c.IdleTimeLimit = onDisk.IdleTimeLimit
	}
	if onDisk.Theme.ErrorColor != "" {
		c.Theme.ErrorColor = onDisk.Theme.ErrorColor
	}
	if onDisk.Theme.AccentColor != "" {
		c.Theme.AccentColor = onDisk.Theme.AccentColor
	}
	if onDisk.Theme.MarkerColor != "" {
		c.Theme.MarkerColor = onDisk.Theme.MarkerColor
	}
	if len(onDisk.NoisePhrases) > 0 {
		c.NoisePhrases = onDisk.NoisePhrases
	}
	if onDisk.Analyzer.Backend != "" {
		c.Analyzer.Backend = onDisk.Analyzer.Backend
	}
	if onDisk.Analyzer.Timeout != 0 {
		c.Analyzer.Timeout = onDisk.Analyzer.Timeout
	}
	if len(onDisk.Analyzer.Env) > 0 {
		c.Analyzer.Env = onDisk.Analyzer.Env
	}
}

var validBackends = map[string]bool{"claude": true, "codex": true, "gemini": true}

func (c *Config) validate() error {
	if c.Analyzer.Backend != "" && !validBackends[c.Analyzer.Backend] {
		return fmt.Errorf("config: analyzer.backend: unknown backend %q", c.Analyzer.Backend)
	}
	if c.IdleTimeLimit < 0 {
		return fmt.Errorf("config: idle_time_limit must not be negative")
	}
	return nil
}
