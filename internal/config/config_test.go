package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Upstream: UpstreamConfig{BaseURL: "https://intavia-backend.acdh-dev.oeaw.ac.at"},
	}
}

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := validConfig()
	cfg.Upstream.Budget = Budget{DailyRequestLimit: 1000, Action: "invalid_action"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `upstream.budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	for _, action := range []string{"", "warn", "reject"} {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.Upstream.Budget.Action = action
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"port", func(c *Config) { c.HTTP.Port = 0 }},
		{"missing upstream", func(c *Config) { c.Upstream.BaseURL = "" }},
		{"relative upstream", func(c *Config) { c.Upstream.BaseURL = "/api" }},
		{"relative navigation", func(c *Config) { c.Navigation.BaseURL = "search" }},
		{"negative rate", func(c *Config) { c.Upstream.RatePerSec = -1 }},
		{"cache without addrs", func(c *Config) { c.Cache = CacheConfig{Enabled: true, Driver: "redis"} }},
		{"cache driver", func(c *Config) {
			c.Cache = CacheConfig{Enabled: true, Driver: "memcached", Addrs: []string{"localhost:11211"}}
		}},
		{"page size", func(c *Config) { c.Query.DefaultPageSize = 5000 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidate_DisabledCacheNeedsNoAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache = CacheConfig{Enabled: false}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Upstream.TimeoutSec != 15 {
		t.Errorf("expected upstream TimeoutSec=15, got %d", cfg.Upstream.TimeoutSec)
	}
	if cfg.Cache.Driver != "valkey" {
		t.Errorf("expected cache driver valkey, got %q", cfg.Cache.Driver)
	}
	if cfg.Cache.TTLSec != 600 {
		t.Errorf("expected cache TTLSec=600, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Session.IdleTTLSec != 1800 {
		t.Errorf("expected IdleTTLSec=1800, got %d", cfg.Session.IdleTTLSec)
	}
	if cfg.Session.SweepIntervalSec != 60 {
		t.Errorf("expected SweepIntervalSec=60, got %d", cfg.Session.SweepIntervalSec)
	}
	if cfg.Query.DefaultPageSize != 50 {
		t.Errorf("expected DefaultPageSize=50, got %d", cfg.Query.DefaultPageSize)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Cache:   CacheConfig{Driver: "redis", TTLSec: 60},
		Session: SessionConfig{IdleTTLSec: 120},
		Query:   QueryConfig{DefaultPageSize: 25},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Cache.Driver != "redis" || cfg.Cache.TTLSec != 60 {
		t.Errorf("cache overridden: %+v", cfg.Cache)
	}
	if cfg.Session.IdleTTLSec != 120 {
		t.Errorf("expected IdleTTLSec=120, got %d", cfg.Session.IdleTTLSec)
	}
	if cfg.Query.DefaultPageSize != 25 {
		t.Errorf("expected DefaultPageSize=25, got %d", cfg.Query.DefaultPageSize)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: ${VQ_TEST_PORT:-9090}
upstream:
  base_url: ${VQ_TEST_UPSTREAM}
auth:
  api_keys: ["${VQ_TEST_KEY:-dev}"]
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unit.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("VQ_TEST_UPSTREAM", "http://localhost:5000")

	cfg, err := Load("unit")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want default 9090", cfg.HTTP.Port)
	}
	if cfg.Upstream.BaseURL != "http://localhost:5000" {
		t.Errorf("base_url = %q", cfg.Upstream.BaseURL)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "dev" {
		t.Errorf("api_keys = %v", cfg.Auth.APIKeys)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error")
	}
}
