package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	domainauth "github.com/lindasales/salespro/internal/domain/auth"
)

// SessionResolver resolves a session ID to a live session; satisfied by
// service.AuthService.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Guard returns the route-guard middleware. It resolves the session cookie,
// applies GuardDecision, and either serves the request with the session in
// context, bounces to /login, or bounces an already-authenticated visitor off
// the login page. API paths get a 401 instead of a redirect so fetch callers
// see a status, not a login page.
func Guard(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Public paths other than /login are served regardless of auth
			// state, so static assets and health probes skip the session
			// store round-trip. /login still resolves the cookie because an
			// authenticated visitor gets bounced to the dashboard.
			if r.URL.Path != "/login" && isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			session := getSessionFromRequest(r, resolver)

			switch GuardDecision(session != nil, r.URL.Path) {
			case GuardToLogin:
				if isAPIPath(r.URL.Path) {
					WriteError(w, ErrorParams{
						Code:    http.StatusUnauthorized,
						ErrCode: "authentication_required",
						Err:     errors.New("authentication required"),
					})
					return
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			case GuardToHome:
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			case GuardAllow:
			}

			if session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that requires authentication and responds
// 401 JSON otherwise. Used on API subtrees mounted outside the page guard.
func RequireAuth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, resolver)
			if session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// getSessionFromRequest retrieves and validates a session from the request.
func getSessionFromRequest(r *http.Request, resolver SessionResolver) *domainauth.Session {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}

	session, err := resolver.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		return nil
	}

	return session
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// RateLimitConfig controls the per-client limiter used on credential endpoints.
type RateLimitConfig struct {
	// RPS is the sustained refill rate per client IP.
	RPS rate.Limit
	// Burst is the bucket size per client IP.
	Burst int
	// MaxClients caps the limiter map; at the cap, stale entries are pruned.
	MaxClients int
}

// RateLimit returns a per-client-IP token bucket middleware. Credential
// endpoints sit behind it so password guessing burns the attacker's bucket,
// not the database.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = 4096
	}

	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if c, ok := clients[ip]; ok {
			c.lastSeen = time.Now()
			return c.limiter
		}
		if len(clients) >= cfg.MaxClients {
			cutoff := time.Now().Add(-10 * time.Minute)
			for k, c := range clients {
				if c.lastSeen.Before(cutoff) {
					delete(clients, k)
				}
			}
		}
		c := &client{limiter: rate.NewLimiter(cfg.RPS, cfg.Burst), lastSeen: time.Now()}
		clients[ip] = c
		return c.limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiterFor(clientIP(r)).Allow() {
				WriteError(w, ErrorParams{
					Code:    http.StatusTooManyRequests,
					ErrCode: "rate_limited",
					Err:     errors.New("too many attempts, slow down"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller address, trusting X-Forwarded-For only for its
// first hop since the service runs behind a single proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx != -1 {
			fwd = fwd[:idx]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
