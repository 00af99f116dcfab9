package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Quiz.TimePerQuestion != 15 || cfg.Quiz.NumQuestions != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.QuestionSource() != SourceStatic {
		t.Fatalf("expected static source, got %q", cfg.QuestionSource())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9090"
postgres:
  url: postgres://localhost/trivia
quiz:
  timePerQuestion: 20
  tickInterval: 500ms
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Quiz.TimePerQuestion != 20 {
		t.Fatalf("expected overrides, got %+v", cfg)
	}
	if cfg.Quiz.Language != "English" {
		t.Fatalf("expected untouched default language, got %q", cfg.Quiz.Language)
	}
	if got := TTLDuration(cfg.Quiz.TickInterval, time.Second); got != 500*time.Millisecond {
		t.Fatalf("expected 500ms tick, got %v", got)
	}
	if cfg.QuestionSource() != SourcePostgres {
		t.Fatalf("expected postgres source, got %q", cfg.QuestionSource())
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestGeminiKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Fatalf("expected env api key, got %q", cfg.Gemini.APIKey)
	}
	if cfg.QuestionSource() != SourceGemini {
		t.Fatalf("expected gemini source, got %q", cfg.QuestionSource())
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %v", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %v", got)
	}
}
