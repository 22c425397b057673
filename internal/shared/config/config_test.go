package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "ASSISTANT_PROVIDER", "RETENTION_KEEP", "MATCH_MIN_SCORE", "CONFIG_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AssistantProvider != "threads" {
		t.Fatalf("AssistantProvider = %q, want threads", cfg.AssistantProvider)
	}
	if cfg.AssistantMaxAttempts != 3 {
		t.Fatalf("AssistantMaxAttempts = %d, want 3", cfg.AssistantMaxAttempts)
	}
	if cfg.AssistantBaseDelay != 500*time.Millisecond {
		t.Fatalf("AssistantBaseDelay = %v, want 500ms", cfg.AssistantBaseDelay)
	}
	if cfg.RetentionKeep != 2 {
		t.Fatalf("RetentionKeep = %d, want 2", cfg.RetentionKeep)
	}
	if cfg.MatchIndustryWeight != 0.6 || cfg.MatchCategoryWeight != 0.4 {
		t.Fatalf("weights = %v/%v, want 0.6/0.4", cfg.MatchIndustryWeight, cfg.MatchCategoryWeight)
	}
	if cfg.MatchMinScore != 40 {
		t.Fatalf("MatchMinScore = %v, want 40", cfg.MatchMinScore)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RETENTION_KEEP", "3")
	t.Setenv("ASSISTANT_PROVIDER", "chat")
	t.Setenv("ASSISTANT_BASE_DELAY", "250ms")
	t.Setenv("MATCH_MIN_SCORE", "55")

	cfg := Load()
	if cfg.RetentionKeep != 3 {
		t.Fatalf("RetentionKeep = %d, want 3", cfg.RetentionKeep)
	}
	if cfg.AssistantProvider != "chat" {
		t.Fatalf("AssistantProvider = %q, want chat", cfg.AssistantProvider)
	}
	if cfg.AssistantBaseDelay != 250*time.Millisecond {
		t.Fatalf("AssistantBaseDelay = %v, want 250ms", cfg.AssistantBaseDelay)
	}
	if cfg.MatchMinScore != 55 {
		t.Fatalf("MatchMinScore = %v, want 55", cfg.MatchMinScore)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	payload := []byte(`
port: "9090"
assistant:
  provider: chat
  timeout: 20s
matching:
  minScore: 60
retention:
  keep: 4
`)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.AssistantProvider != "chat" {
		t.Fatalf("AssistantProvider = %q, want chat", cfg.AssistantProvider)
	}
	if cfg.AssistantTimeout != 20*time.Second {
		t.Fatalf("AssistantTimeout = %v, want 20s", cfg.AssistantTimeout)
	}
	if cfg.MatchMinScore != 60 {
		t.Fatalf("MatchMinScore = %v, want 60", cfg.MatchMinScore)
	}
	if cfg.RetentionKeep != 4 {
		t.Fatalf("RetentionKeep = %d, want 4", cfg.RetentionKeep)
	}
}

func TestNormalizeProvider(t *testing.T) {
	cases := map[string]string{
		"chat":    "chat",
		"CHAT":    "chat",
		"threads": "threads",
		"":        "threads",
		"other":   "threads",
	}
	for in, want := range cases {
		if got := normalizeProvider(in); got != want {
			t.Errorf("normalizeProvider(%q) = %q, want %q", in, got, want)
		}
	}
}
