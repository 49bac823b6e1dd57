package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Listen != ":7860" {
		t.Errorf("expected :7860, got %s", cfg.Listen)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected 5m TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.RateLimit.Limit != 20 {
		t.Errorf("expected limit 20, got %d", cfg.RateLimit.Limit)
	}
	if cfg.TTS.StreamThreshold != 100 {
		t.Errorf("expected stream threshold 100, got %d", cfg.TTS.StreamThreshold)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_API_KEY", "gsk-test-123")

	content := `
listen: ":9090"
db_path: "test.db"
native_lang: Spanish
completion:
  url: https://api.groq.com/openai
  api_key: ${TEST_API_KEY}
  model: llama-3.1-8b-instant
cache:
  ttl: 30m
rate_limit:
  limit: 5
  window: 10s
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Listen)
	}
	if cfg.Completion.APIKey != "gsk-test-123" {
		t.Errorf("env var not expanded: got %s", cfg.Completion.APIKey)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.RateLimit.Limit != 5 {
		t.Errorf("expected limit 5, got %d", cfg.RateLimit.Limit)
	}
	if cfg.RateLimit.Window != 10*time.Second {
		t.Errorf("expected 10s window, got %v", cfg.RateLimit.Window)
	}
	if cfg.NativeLang != "Spanish" {
		t.Errorf("expected Spanish, got %s", cfg.NativeLang)
	}
	// Unset fields keep defaults.
	if cfg.TTS.Voice != "en-US-AriaNeural" {
		t.Errorf("expected default voice, got %s", cfg.TTS.Voice)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SPEAKUP_COMPLETION_API_KEY", "gsk-env-override")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "completion:\n  api_key: gsk-from-file\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Completion.APIKey != "gsk-env-override" {
		t.Errorf("expected env override to win, got %s", cfg.Completion.APIKey)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}
