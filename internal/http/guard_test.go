package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardDecision(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		path          string
		want          GuardAction
	}{
		// Protected pages bounce unauthenticated visitors to the login page.
		{"root unauthenticated", false, "/", GuardToLogin},
		{"leads unauthenticated", false, "/leads", GuardToLogin},
		{"customers unauthenticated", false, "/customers", GuardToLogin},
		{"lead-gen unauthenticated", false, "/lead-gen", GuardToLogin},
		{"messaging unauthenticated", false, "/messaging", GuardToLogin},
		{"appointments unauthenticated", false, "/appointments", GuardToLogin},
		{"help unauthenticated", false, "/help", GuardToLogin},
		{"sell unauthenticated", false, "/sell", GuardToLogin},
		{"settings unauthenticated", false, "/settings", GuardToLogin},
		{"unknown path unauthenticated", false, "/no-such-page", GuardToLogin},
		{"api unauthenticated", false, "/api/leads", GuardToLogin},

		// Authenticated users get through everywhere except the login page.
		{"root authenticated", true, "/", GuardAllow},
		{"settings authenticated", true, "/settings", GuardAllow},
		{"unknown path authenticated", true, "/no-such-page", GuardAllow},
		{"login page authenticated", true, "/login", GuardToHome},

		// Public surface.
		{"login page unauthenticated", false, "/login", GuardAllow},
		{"federated begin", false, "/auth/login", GuardAllow},
		{"federated callback", false, "/auth/callback", GuardAllow},
		{"logout", false, "/auth/logout", GuardAllow},
		{"health", false, "/healthz", GuardAllow},
		{"readiness", false, "/readyz", GuardAllow},
		{"metrics", false, "/metrics", GuardAllow},
		{"static asset", false, "/static/app.css", GuardAllow},
		{"password login api", false, "/api/auth/login", GuardAllow},
		{"signup api", false, "/api/auth/signup", GuardAllow},
		{"lead capture webhook", false, "/api/lead-gen/capture", GuardAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GuardDecision(tt.authenticated, tt.path))
		})
	}
}
