package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Session.Mode != nil || cfg.API.URL != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[session]
mode = "flashcard"
questions = 12
timer = true
time-limit = 5

[api]
url = "http://example.test:8080/"
timeout = "30s"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Session.Mode == nil || *cfg.Session.Mode != "flashcard" {
		t.Fatalf("unexpected mode: %v", cfg.Session.Mode)
	}
	if cfg.Session.Questions == nil || *cfg.Session.Questions != 12 {
		t.Fatalf("unexpected questions: %v", cfg.Session.Questions)
	}
	if cfg.Session.Timer == nil || !*cfg.Session.Timer {
		t.Fatalf("expected timer enabled")
	}
	if cfg.Session.TimeLimit == nil || *cfg.Session.TimeLimit != 5 {
		t.Fatalf("unexpected time limit: %v", cfg.Session.TimeLimit)
	}
	if cfg.Session.Lang != nil {
		t.Fatalf("lang should stay unset")
	}
	d, err := cfg.API.ParseTimeout()
	if err != nil || d != 30*time.Second {
		t.Fatalf("unexpected timeout %v, err %v", d, err)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[session\nmode = "), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestParseTimeout(t *testing.T) {
	bad := "soon"
	if _, err := (APIConfig{Timeout: &bad}).ParseTimeout(); err == nil {
		t.Fatalf("expected error for %q", bad)
	}
	neg := "-1s"
	if _, err := (APIConfig{Timeout: &neg}).ParseTimeout(); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
	if d, err := (APIConfig{}).ParseTimeout(); err != nil || d != 0 {
		t.Fatalf("expected zero timeout, got %v %v", d, err)
	}
}

func TestResolveBaseURL(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvHost, "")
	if got := ResolveBaseURL("", APIConfig{}); got != "http://localhost:5000" {
		t.Fatalf("unexpected default: %s", got)
	}

	t.Setenv(EnvHost, "quiz.lan")
	if got := ResolveBaseURL("", APIConfig{}); got != "http://quiz.lan:5000" {
		t.Fatalf("unexpected host fallback: %s", got)
	}

	fileURL := "http://file.test/"
	if got := ResolveBaseURL("", APIConfig{URL: &fileURL}); got != "http://file.test" {
		t.Fatalf("expected config file url, got %s", got)
	}

	t.Setenv(EnvAPIURL, "http://env.test")
	if got := ResolveBaseURL("", APIConfig{URL: &fileURL}); got != "http://env.test" {
		t.Fatalf("expected env url, got %s", got)
	}
	if got := ResolveBaseURL("http://flag.test/", APIConfig{URL: &fileURL}); got != "http://flag.test" {
		t.Fatalf("expected flag url, got %s", got)
	}
}
