package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestDefaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("env.Parse failed: %v", err)
	}
	cfg.Sanitize()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Auth.Mode != AuthModeNone {
		t.Errorf("Auth.Mode = %q, want none", cfg.Auth.Mode)
	}
	if cfg.Auth.SessionTTL != 24*time.Hour {
		t.Errorf("Auth.SessionTTL = %v, want 24h", cfg.Auth.SessionTTL)
	}
	if cfg.Postgres.Name != "salespro" {
		t.Errorf("Postgres.Name = %q, want salespro", cfg.Postgres.Name)
	}
	if cfg.Redis.NotificationTTL != time.Hour {
		t.Errorf("Redis.NotificationTTL = %v, want 1h", cfg.Redis.NotificationTTL)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled should default to true")
	}
	if cfg.SeedDemoData {
		t.Error("SeedDemoData should default to false")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "oidc")
	t.Setenv("OIDC_CLIENT_ID", "salespro-web")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_URI", "cache.internal:6380")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("LEAD_GEN_NAME_EXPR", "contact.full_name")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("env.Parse failed: %v", err)
	}

	if cfg.Auth.Mode != AuthModeOIDC {
		t.Errorf("Auth.Mode = %q, want oidc", cfg.Auth.Mode)
	}
	if cfg.Auth.OIDC.ClientID != "salespro-web" {
		t.Errorf("OIDC.ClientID = %q", cfg.Auth.OIDC.ClientID)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Errorf("Postgres.Host = %q", cfg.Postgres.Host)
	}
	if cfg.Redis.URI != "cache.internal:6380" {
		t.Errorf("Redis.URI = %q", cfg.Redis.URI)
	}
	if cfg.Auth.SessionTTL != 2*time.Hour {
		t.Errorf("Auth.SessionTTL = %v", cfg.Auth.SessionTTL)
	}
	if cfg.LeadGen.NameExpr != "contact.full_name" {
		t.Errorf("LeadGen.NameExpr = %q", cfg.LeadGen.NameExpr)
	}
}

func TestAuthModeUnmarshal(t *testing.T) {
	tests := []struct {
		input       string
		want        AuthMode
		expectError bool
	}{
		{"oidc", AuthModeOIDC, false},
		{"OIDC", AuthModeOIDC, false},
		{"dev", AuthModeDev, false},
		{"none", AuthModeNone, false},
		{"oauth", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		var mode AuthMode
		err := mode.UnmarshalText([]byte(tt.input))
		if tt.expectError {
			if err == nil {
				t.Errorf("UnmarshalText(%q) expected error, got none", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("UnmarshalText(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if mode != tt.want {
			t.Errorf("UnmarshalText(%q) = %q, want %q", tt.input, mode, tt.want)
		}
	}
}

func TestAuthSanitizeClamps(t *testing.T) {
	a := AuthConfig{SessionTTL: -time.Hour, BcryptCost: 99, LoginRPS: 0, LoginBurst: 0}
	a.Sanitize()

	if a.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", a.SessionTTL)
	}
	if a.BcryptCost != 31 {
		t.Errorf("BcryptCost = %d, want 31", a.BcryptCost)
	}
	if a.LoginRPS != 1 {
		t.Errorf("LoginRPS = %v, want 1", a.LoginRPS)
	}
	if a.LoginBurst != 5 {
		t.Errorf("LoginBurst = %d, want 5", a.LoginBurst)
	}
}

func TestDetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("env.Parse failed: %v", err)
	}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Error("IsDev should be true when NODE_ENV=development")
	}
}
