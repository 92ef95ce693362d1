package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	domainauth "github.com/lindasales/salespro/internal/domain/auth"
)

type stubResolver struct {
	sessions map[string]*domainauth.Session
	calls    int
}

func (s *stubResolver) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	s.calls++
	if sess, ok := s.sessions[sessionID]; ok {
		return sess, nil
	}
	return nil, domainauth.NewFlowError(domainauth.KindUnknown, nil)
}

func newStubResolver() *stubResolver {
	return &stubResolver{sessions: map[string]*domainauth.Session{
		"sess-1": testSession(),
	}}
}

func guardedEcho(t *testing.T, resolver SessionResolver) http.Handler {
	t.Helper()
	return Guard(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := GetUserSessionFromContext(r.Context()); ok {
			w.Header().Set("X-User", sess.UserID)
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestGuardRedirectsBrowserToLogin(t *testing.T) {
	h := guardedEcho(t, newStubResolver())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/leads", nil))

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestGuardReturns401ForAPI(t *testing.T) {
	h := guardedEcho(t, newStubResolver())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/leads", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "authentication_required")
}

func TestGuardAllowsAuthenticatedAndInjectsSession(t *testing.T) {
	h := guardedEcho(t, newStubResolver())

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-1", rr.Header().Get("X-User"))
}

func TestGuardBouncesAuthenticatedOffLoginPage(t *testing.T) {
	h := guardedEcho(t, newStubResolver())

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestGuardAllowsPublicPathWithoutSession(t *testing.T) {
	h := guardedEcho(t, newStubResolver())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGuardSkipsSessionLookupOnPublicPaths(t *testing.T) {
	resolver := newStubResolver()
	h := guardedEcho(t, resolver)

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/static/css/app.css"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, path)
	}
	assert.Zero(t, resolver.calls)

	// /login is the exception: the cookie decides whether to bounce home.
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, 1, resolver.calls)
}

func TestGuardIgnoresExpiredCookie(t *testing.T) {
	h := guardedEcho(t, newStubResolver())

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-gone"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RPS: rate.Limit(0.01), Burst: 2, MaxClients: 16})
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:4411"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitIsolatesClients(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RPS: rate.Limit(0.01), Burst: 1, MaxClients: 16})
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	first.RemoteAddr = "203.0.113.9:4411"
	rr1 := httptest.NewRecorder()
	h.ServeHTTP(rr1, first)
	require.Equal(t, http.StatusOK, rr1.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	second.RemoteAddr = "198.51.100.7:2200"
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, second)
	assert.Equal(t, http.StatusOK, rr2.Code)
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	plain.RemoteAddr = "10.0.0.1:9999"
	assert.Equal(t, "10.0.0.1", clientIP(plain))
}
