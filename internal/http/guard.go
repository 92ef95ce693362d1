package httpx

import "strings"

// GuardAction is the outcome of the route guard for one request.
type GuardAction int

const (
	// GuardAllow lets the request through to its handler.
	GuardAllow GuardAction = iota
	// GuardToLogin sends an unauthenticated request to the login page.
	GuardToLogin
	// GuardToHome sends an authenticated request away from the login page.
	GuardToHome
)

// publicPaths are reachable without a session. Everything else under the app,
// including the not-found catch-all, requires authentication.
var publicPaths = map[string]bool{
	"/login":         true,
	"/auth/login":    true,
	"/auth/callback": true,
	"/auth/logout":   true,
	"/healthz":       true,
	"/readyz":        true,
	"/metrics":       true,
}

// publicPrefixes cover static assets and the unauthenticated API surface.
var publicPrefixes = []string{
	"/static/",
	"/api/auth/",
	"/api/lead-gen/capture",
}

// GuardDecision is the route guard as a pure function: given whether the
// request carries a valid session and the request path, it decides whether to
// serve, bounce to /login, or bounce away from /login. The middleware applies
// the decision; keeping it pure makes the protected-path matrix testable
// without a server.
func GuardDecision(authenticated bool, path string) GuardAction {
	if path == "/login" && authenticated {
		return GuardToHome
	}
	if isPublicPath(path) {
		return GuardAllow
	}
	if !authenticated {
		return GuardToLogin
	}
	return GuardAllow
}

func isPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
