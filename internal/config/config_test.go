package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Model.Complexity != 1 {
		t.Errorf("expected Complexity=1, got %v", cfg.Model.Complexity)
	}
	if cfg.Model.SentenceFallback != 2000 {
		t.Errorf("expected SentenceFallback=2000, got %d", cfg.Model.SentenceFallback)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected Level=info, got %q", cfg.Logging.Level)
	}
}

func TestLoadCreatesDefaults(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			if !reflect.DeepEqual(cfg, Default()) {
				t.Errorf("expected defaults, got %+v", cfg)
			}
			if _, err = os.Stat(path); err != nil {
				t.Fatalf("expected default file to be written: %v", err)
			}

			reloaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() of written defaults failed: %v", err)
			}
			if !reflect.DeepEqual(reloaded, cfg) {
				t.Errorf("round trip changed config:\n got = %+v\nwant = %+v", reloaded, cfg)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markov.yml")
	content := `
model:
  complexity: 2.5
  seed: 42
corpus:
  includes: ["books/**/*.txt"]
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Model.Complexity != 2.5 {
		t.Errorf("expected Complexity=2.5, got %v", cfg.Model.Complexity)
	}
	if cfg.Model.Seed != 42 {
		t.Errorf("expected Seed=42, got %d", cfg.Model.Seed)
	}
	if !reflect.DeepEqual(cfg.Corpus.Includes, []string{"books/**/*.txt"}) {
		t.Errorf("unexpected includes %v", cfg.Corpus.Includes)
	}
	// Unset keys keep their defaults.
	if cfg.Model.StatePath != Default().Model.StatePath {
		t.Errorf("expected default state path, got %q", cfg.Model.StatePath)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel())
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"model": {"state_path": "/tmp/s.json"}, "logging": {"level": "WARN"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Model.StatePath != "/tmp/s.json" {
		t.Errorf("expected state path override, got %q", cfg.Model.StatePath)
	}
	if cfg.LogLevel() != slog.LevelWarn {
		t.Errorf("expected warn level, got %v", cfg.LogLevel())
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed config")
	}
}

func TestLogLevelFallback(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	if cfg.LogLevel() != slog.LevelInfo {
		t.Errorf("expected info fallback, got %v", cfg.LogLevel())
	}
}
