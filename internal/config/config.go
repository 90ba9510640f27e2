package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration of the markovjson binary.
type Config struct {
	Model   ModelConfig   `json:"model" yaml:"model"`
	Corpus  CorpusConfig  `json:"corpus" yaml:"corpus"`
	Flavor  FlavorConfig  `json:"flavor" yaml:"flavor"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// ModelConfig holds the settings of the Markov model.
type ModelConfig struct {
	StatePath        string  `json:"state_path" yaml:"state_path"`
	Complexity       float64 `json:"complexity" yaml:"complexity"`
	SentenceFallback int     `json:"sentence_fallback" yaml:"sentence_fallback"`
	// Seed makes generation reproducible when non-zero.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// CorpusConfig selects the training text used by the train command.
type CorpusConfig struct {
	Includes []string `json:"includes" yaml:"includes"`
	Excludes []string `json:"excludes" yaml:"excludes"`
	// DatabasePath and Query describe an optional SQLite corpus.
	DatabasePath string `json:"database_path" yaml:"database_path"`
	Query        string `json:"query" yaml:"query"`
}

// FlavorConfig holds the flavor-text renderer settings.
type FlavorConfig struct {
	TemplateDir string `json:"template_dir" yaml:"template_dir"`
	Pattern     string `json:"pattern" yaml:"pattern"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			StatePath:        "./data/state.json",
			Complexity:       1,
			SentenceFallback: 2000,
		},
		Corpus: CorpusConfig{
			Includes: []string{"**/*.txt", "**/*.md"},
			Excludes: []string{"**/.git/**", "**/node_modules/**", "**/vendor/**"},
			Query:    "SELECT body FROM documents",
		},
		Flavor: FlavorConfig{
			TemplateDir: "./data/templates",
			Pattern:     "**/*.tmpl",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration at path. YAML is used for .yaml and .yml
// files and JSON for everything else. If the file doesn't exist, it is
// created with default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err = cfg.Save(path); err != nil {
				// The defaults are still usable without a file on disk.
				slog.Warn("Failed to write default config file", "path", path, "error", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path atomically, in the format implied by
// its extension.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LogLevel maps the configured level name to a slog level. Unknown names
// fall back to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
