package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindasales/salespro/config"
)

func TestBuildFederatedProviderNone(t *testing.T) {
	cfg := &config.AppConfig{Auth: config.AuthConfig{Mode: config.AuthModeNone}}

	provider, err := BuildFederatedProvider(cfg, nil)

	require.NoError(t, err)
	assert.Nil(t, provider)
}

func TestBuildFederatedProviderDevRequiresDevMode(t *testing.T) {
	cfg := &config.AppConfig{Auth: config.AuthConfig{Mode: config.AuthModeDev}}

	_, err := BuildFederatedProvider(cfg, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires dev mode")
}

func TestBuildFederatedProviderDev(t *testing.T) {
	cfg := &config.AppConfig{
		IsDev: true,
		Auth: config.AuthConfig{
			Mode:    config.AuthModeDev,
			DevAuth: config.DevAuthConfig{UserID: "dev-user", Name: "Dev User", Email: "dev@example.com"},
		},
	}

	provider, err := BuildFederatedProvider(cfg, nil)

	require.NoError(t, err)
	require.NotNil(t, provider)
}

func TestBuildFederatedProviderOIDCRequiresClientID(t *testing.T) {
	cfg := &config.AppConfig{Auth: config.AuthConfig{Mode: config.AuthModeOIDC}}

	_, err := BuildFederatedProvider(cfg, nil)

	require.Error(t, err)
}
