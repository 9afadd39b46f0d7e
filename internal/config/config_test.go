package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.Categories) != 7 {
		t.Errorf("expected 7 default categories, got %d", len(cfg.Categories))
	}
	if cfg.Defaults.Query != "technology" || cfg.Defaults.SortBy != "publishedAt" || cfg.Defaults.Language != "en" {
		t.Errorf("unexpected default filters: %+v", cfg.Defaults)
	}
	if cfg.API.BaseURL == "" {
		t.Error("expected api.base_url to be set")
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults should validate: %v", err)
	}
}

func TestTimeoutDuration(t *testing.T) {
	cfg := &Config{API: API{Timeout: "30s"}}
	if d := cfg.TimeoutDuration(); d != 30*time.Second {
		t.Errorf("expected 30s, got %v", d)
	}

	cfg.API.Timeout = "invalid"
	if d := cfg.TimeoutDuration(); d != 15*time.Second {
		t.Errorf("expected 15s default for invalid timeout, got %v", d)
	}
}

func TestWindowDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantDays int
	}{
		{"7d", 7},
		{"30d", 30},
		{"72h", 3},
		{"", 7},
		{"invalid", 7},
		{"-2d", 7},
	}
	for _, tt := range tests {
		cfg := &Config{Window: tt.input}
		got := cfg.WindowDuration()
		if got != time.Duration(tt.wantDays)*24*time.Hour {
			t.Errorf("WindowDuration(%q) = %v, want %dd", tt.input, got, tt.wantDays)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		err   bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"24h", 24 * time.Hour, false},
		{"2h30m", 2*time.Hour + 30*time.Minute, false},
		{"invalid", 0, true},
		{"", 0, true},
		{"d", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("ParseDuration(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDuration(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDark(t *testing.T) {
	if !(&Config{Theme: "dark"}).Dark() {
		t.Error("expected dark theme")
	}
	if (&Config{Theme: "light"}).Dark() {
		t.Error("expected light theme")
	}
}

func TestLoadFromFileOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `defaults:
  query: sports
  language: de
theme: light
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.Query != "sports" || cfg.Defaults.Language != "de" {
		t.Errorf("expected user filters, got %+v", cfg.Defaults)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Defaults.SortBy != "publishedAt" {
		t.Errorf("expected default sort_by, got %q", cfg.Defaults.SortBy)
	}
	if len(cfg.Categories) != 7 {
		t.Errorf("expected default categories, got %v", cfg.Categories)
	}
	if cfg.Dark() {
		t.Error("expected light theme from file")
	}
}

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nested", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.Query != "technology" {
		t.Errorf("expected default query, got %q", cfg.Defaults.Query)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(envAPIURL, "http://localhost:9000")
	t.Setenv(envLogLevel, "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:9000" {
		t.Errorf("expected env base url, got %q", cfg.API.BaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected env log level, got %q", cfg.LogLevel)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad url", "api:\n  base_url: not a url\n", "api.base_url"},
		{"bad sort", "defaults:\n  sort_by: newest\n", "defaults.sort_by"},
		{"bad language", "defaults:\n  language: english\n", "defaults.language"},
		{"bad theme", "theme: neon\n", "theme"},
		{"no categories", "categories: []\n", "categories"},
		{"negative rate", "api:\n  rate_limit: -1\n", "api.rate_limit"},
	}
	for _, tt := range tests {
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(cfgPath, []byte(tt.content), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		_, err := Load(cfgPath)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: error %q should mention %q", tt.name, err, tt.wantErr)
		}
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("api: [unclosed"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Error("expected parse error")
	}
}
