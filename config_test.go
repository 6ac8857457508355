package safestreet

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Refresh.Cooldown != 5*time.Second {
		t.Fatalf("cooldown = %v", cfg.Refresh.Cooldown)
	}
	if cfg.Refresh.RetryDelay != 100*time.Millisecond {
		t.Fatalf("retry delay = %v", cfg.Refresh.RetryDelay)
	}
	if cfg.Refresh.MaxAttempts != 3 {
		t.Fatalf("max attempts = %d", cfg.Refresh.MaxAttempts)
	}
	if cfg.Refresh.Timeout != 10*time.Second {
		t.Fatalf("refresh timeout = %v", cfg.Refresh.Timeout)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SAFESTREET_HTTP_BASE_URL", "https://api.example.com/api")
	t.Setenv("SAFESTREET_REFRESH_MAX_ATTEMPTS", "5")
	t.Setenv("SAFESTREET_GUARD_ADMIN_LANDING", "/backoffice")
	t.Setenv("SAFESTREET_PACING_ENABLED", "true")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.HTTP.BaseURL != "https://api.example.com/api" {
		t.Fatalf("base url = %q", cfg.HTTP.BaseURL)
	}
	if cfg.Refresh.MaxAttempts != 5 {
		t.Fatalf("max attempts = %d", cfg.Refresh.MaxAttempts)
	}
	if cfg.Guard.AdminLanding != "/backoffice" {
		t.Fatalf("admin landing = %q", cfg.Guard.AdminLanding)
	}
	if !cfg.Pacing.Enabled {
		t.Fatal("pacing not enabled")
	}
	// Untouched fields keep their defaults.
	if cfg.Refresh.Cooldown != 5*time.Second {
		t.Fatalf("cooldown = %v", cfg.Refresh.Cooldown)
	}
}

func TestValidateRejections(t *testing.T) {
	mutations := map[string]func(*Config){
		"empty base url":          func(c *Config) { c.HTTP.BaseURL = "" },
		"relative base url":       func(c *Config) { c.HTTP.BaseURL = "/api" },
		"zero http timeout":       func(c *Config) { c.HTTP.Timeout = 0 },
		"zero max attempts":       func(c *Config) { c.Refresh.MaxAttempts = 0 },
		"zero refresh timeout":    func(c *Config) { c.Refresh.Timeout = 0 },
		"negative cooldown":       func(c *Config) { c.Refresh.Cooldown = -time.Second },
		"retry delay >= cooldown": func(c *Config) { c.Refresh.RetryDelay = c.Refresh.Cooldown },
		"empty login path":        func(c *Config) { c.Guard.LoginPath = "" },
		"pacing without rps":      func(c *Config) { c.Pacing.Enabled = true; c.Pacing.RequestsPerSecond = 0 },
	}

	for name, mutate := range mutations {
		cfg := defaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: validation passed", name)
		}
	}
}
