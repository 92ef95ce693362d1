package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and session configuration
//   - database.go: Database and Redis configuration
//   - http.go: HTTP server configuration
//   - uploads.go: Avatar upload configuration
type AppConfig struct {
	// IsDev controls development mode behavior (dev federated provider,
	// seed data, etc.). Set DEV=true or NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Avatar upload configuration
	Uploads UploadsConfig `envPrefix:"UPLOADS_"`

	// LeadGen capture mapping configuration
	LeadGen LeadGenConfig `envPrefix:"LEAD_GEN_"`

	// MetricsEnabled mounts the Prometheus scrape endpoint.
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// SeedDemoData loads the demo offer catalogue on startup (dev only).
	SeedDemoData bool `env:"SEED_DEMO_DATA" envDefault:"false"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
