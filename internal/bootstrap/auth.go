package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/lindasales/salespro/config"
	"github.com/lindasales/salespro/internal/adapters/devauth"
	oidcadapter "github.com/lindasales/salespro/internal/adapters/oidc"
	"github.com/lindasales/salespro/internal/ports"
)

// BuildFederatedProvider constructs the federated identity provider for the
// configured auth mode. AuthModeNone returns nil: password sign-in still
// works and the federated flow reports itself unconfigured.
func BuildFederatedProvider(cfg *config.AppConfig, logger *slog.Logger) (ports.FederatedProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeOIDC:
		provider, err := oidcadapter.NewProvider(oidcadapter.ProviderConfig{
			ClientID:     cfg.Auth.OIDC.ClientID,
			ClientSecret: cfg.Auth.OIDC.ClientSecret,
			RedirectURL:  cfg.Auth.OIDC.RedirectURL,
			Scope:        cfg.Auth.OIDC.Scope,
			DiscoveryURL: cfg.Auth.OIDC.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init oidc provider: %w", err)
		}
		return provider, nil

	case config.AuthModeDev:
		if !cfg.IsDev {
			return nil, fmt.Errorf("auth mode %q requires dev mode", cfg.Auth.Mode)
		}
		provider, err := devauth.NewProvider(devauth.Config{
			UserID:          cfg.Auth.DevAuth.UserID,
			Name:            cfg.Auth.DevAuth.Name,
			Email:           cfg.Auth.DevAuth.Email,
			SessionDuration: cfg.Auth.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("init dev provider: %w", err)
		}
		if logger != nil {
			logger.Warn("dev federated provider enabled; do not use in production",
				"identity", cfg.Auth.DevAuth.Email)
		}
		return provider, nil

	case config.AuthModeNone:
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}
