package config

import (
	"testing"
	"time"
)

func TestParseAddr(t *testing.T) {
	testCases := map[string]string{
		"":               ":8080",
		"9000":           ":9000",
		":7000":          ":7000",
		"127.0.0.1:8081": "127.0.0.1:8081",
	}

	for raw, want := range testCases {
		cfg, err := ParseAddr(raw)
		if err != nil {
			t.Fatalf("ParseAddr(%q) err: %v", raw, err)
		}
		if cfg.Addr != want {
			t.Fatalf("ParseAddr(%q): got %s want %s", raw, cfg.Addr, want)
		}
	}

	if _, err := ParseAddr("80 80"); err == nil {
		t.Fatal("expected error for PORT with spaces")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BACKEND_BASE_URL", "")
	t.Setenv("NEWSLETTER_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Backend.BaseURL != DefaultBackendURL {
		t.Fatalf("unexpected backend url: %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Backend.Timeout)
	}
	if cfg.Backend.Concurrency != 8 {
		t.Fatalf("unexpected concurrency: %d", cfg.Backend.Concurrency)
	}
	if cfg.Newsletter.Enabled() {
		t.Fatal("newsletter should be disabled without NEWSLETTER_URL")
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected log level: %s", cfg.Log.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:1337/api/")
	t.Setenv("FETCH_TIMEOUT", "2s")
	t.Setenv("FETCH_CONCURRENCY", "0")
	t.Setenv("NEWSLETTER_URL", "https://example.us21.list-manage.com/subscribe/post?u=1&id=2")
	t.Setenv("NEWSLETTER_BURST", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Backend.BaseURL != "http://localhost:1337/api" {
		t.Fatalf("trailing slash not trimmed: %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 2*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Backend.Timeout)
	}
	if cfg.Backend.Concurrency != 1 {
		t.Fatalf("concurrency should be clamped to 1, got %d", cfg.Backend.Concurrency)
	}
	if !cfg.Newsletter.Enabled() {
		t.Fatal("newsletter should be enabled")
	}
	if cfg.Newsletter.Burst != 1 {
		t.Fatalf("burst should be clamped to 1, got %d", cfg.Newsletter.Burst)
	}
}

func TestLoadRejectsBadBackendURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "not a url")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid backend url")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")
	t.Setenv("FETCH_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid FETCH_TIMEOUT")
	}
}

func TestLoadNewsletterRate(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")
	t.Setenv("NEWSLETTER_RATE", "0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Newsletter.Rate != 0 {
		t.Fatalf("zero rate should be kept as unlimited, got %v", cfg.Newsletter.Rate)
	}

	t.Setenv("NEWSLETTER_RATE", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative NEWSLETTER_RATE")
	}
}

func TestBackendValidateFallsBackToDefault(t *testing.T) {
	cfg, err := BackendConfig{BaseURL: "  "}.Validate()
	if err != nil {
		t.Fatalf("Validate err: %v", err)
	}
	if cfg.BaseURL != DefaultBackendURL {
		t.Fatalf("unexpected backend url: %s", cfg.BaseURL)
	}
}
