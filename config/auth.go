package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects the federated identity provider wired next to password
// sign-in. Password auth is always available; the mode only affects the
// "continue with your provider" flow.
type AuthMode string

const (
	// AuthModeOIDC uses a real OIDC provider for federated sign-in.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeDev uses the loopback dev provider (for development only).
	AuthModeDev AuthMode = "dev"
	// AuthModeNone disables federated sign-in entirely.
	AuthModeNone AuthMode = "none"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oidc", "dev", "none":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oidc, dev, none)", v)
	}
}

// OIDCConfig contains federated OIDC provider configuration.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls the loopback federated identity.
// Used when AUTH_MODE=dev for development and testing.
type DevAuthConfig struct {
	UserID string `env:"USER_ID" envDefault:"dev-user"`
	Name   string `env:"NAME"    envDefault:"Dev User"`
	Email  string `env:"EMAIL"   envDefault:"dev@example.com"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which federated provider to wire, if any.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"none"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevAuth configuration (used when Mode=dev).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SessionTTL is how long a session lives without a fresh sign-in.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// BcryptCost is the hashing cost for local credentials.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// LoginRPS and LoginBurst rate-limit the credential endpoints per IP.
	LoginRPS   float64 `env:"LOGIN_RPS"   envDefault:"1"`
	LoginBurst int     `env:"LOGIN_BURST" envDefault:"5"`
}

// Sanitize clamps auth settings to workable values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 24 * time.Hour
	}
	// bcrypt rejects costs outside [4, 31]; clamp to the library's range.
	if a.BcryptCost < 4 {
		a.BcryptCost = 4
	}
	if a.BcryptCost > 31 {
		a.BcryptCost = 31
	}
	if a.LoginRPS <= 0 {
		a.LoginRPS = 1
	}
	if a.LoginBurst < 1 {
		a.LoginBurst = 5
	}
}
