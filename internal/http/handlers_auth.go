package httpx

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/lindasales/salespro/internal/domain/auth"
	"github.com/lindasales/salespro/internal/observability/metrics"
	"github.com/lindasales/salespro/internal/ports"
	"github.com/lindasales/salespro/internal/service"
)

// Cookie names used by the auth surface.
const (
	sessionCookieName = "session_id"
	stateCookieName   = "oauth_state"
	nonceCookieName   = "oauth_nonce"
)

// maxSignupFormMemory bounds the in-memory portion of multipart sign-up forms.
const maxSignupFormMemory = 4 << 20

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	SignInWithPassword(ctx context.Context, email, password string) (*domainauth.Session, error)
	SignUpWithPassword(ctx context.Context, in service.SignUpInput) (*domainauth.Session, error)
	BeginFederatedLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteFederatedLogin(ctx context.Context, in service.CompleteLoginInput) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Shell        *service.ShellService
	Metrics      *metrics.Collector
	CookieDomain string
	CallbackURL  string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PasswordLogin handles local credential sign-in.
// POST /api/auth/login with JSON {email, password}.
func (h *AuthHandlers) PasswordLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}

	sess, err := h.Svc.SignInWithPassword(r.Context(), in.Email, in.Password)
	if err != nil {
		h.Metrics.RecordAuthAttempt(metrics.FlowPassword, metrics.OutcomeFailure)
		writeAuthError(w, err)
		return
	}

	h.Metrics.RecordAuthAttempt(metrics.FlowPassword, metrics.OutcomeSuccess)
	h.setSessionCookie(w, r, *sess)
	WriteJSON(w, http.StatusOK, sessionPayload(sess))
}

// Signup handles local account creation with an optional avatar.
// POST /api/auth/signup as multipart/form-data (full_name, email, password,
// avatar) or as JSON without an avatar.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readSignupInput(w, r)
	if !ok {
		return
	}

	sess, err := h.Svc.SignUpWithPassword(r.Context(), in)
	if err != nil {
		h.Metrics.RecordAuthAttempt(metrics.FlowSignup, metrics.OutcomeFailure)
		writeAuthError(w, err)
		return
	}

	h.Metrics.RecordAuthAttempt(metrics.FlowSignup, metrics.OutcomeSuccess)
	h.setSessionCookie(w, r, *sess)
	WriteJSON(w, http.StatusCreated, sessionPayload(sess))
}

// readSignupInput parses a sign-up request from either encoding. A multipart
// form may carry an avatar part; its reader stays open until the service has
// consumed it, which happens within this request's lifetime.
func (h *AuthHandlers) readSignupInput(w http.ResponseWriter, r *http.Request) (service.SignUpInput, bool) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var in struct {
			FullName string `json:"full_name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if !DecodeJSON(w, r, &in) {
			return service.SignUpInput{}, false
		}
		return service.SignUpInput{FullName: in.FullName, Email: in.Email, Password: in.Password}, true
	}

	if err := r.ParseMultipartForm(maxSignupFormMemory); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return service.SignUpInput{}, false
	}

	in := service.SignUpInput{
		FullName: r.FormValue("full_name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	if file, header, err := r.FormFile("avatar"); err == nil {
		in.Avatar = &ports.UploadInput{FileName: avatarFileName(header), Content: file}
	}
	return in, true
}

func avatarFileName(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	return header.Filename
}

// FederatedLogin begins the provider code flow.
// GET /auth/login.
func (h *AuthHandlers) FederatedLogin(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginFederatedLogin(r.Context(), h.callbackURL(r))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin federated login failed", "err", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.setFlowCookie(w, r, stateCookieName, result.State)
	h.setFlowCookie(w, r, nonceCookieName, result.Nonce)
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// FederatedCallback finishes the provider code flow.
// GET /auth/callback?code=<code>&state=<state>[&error=<err>].
func (h *AuthHandlers) FederatedCallback(w http.ResponseWriter, r *http.Request) {
	in := service.CompleteLoginInput{
		Code:          r.URL.Query().Get("code"),
		State:         r.URL.Query().Get("state"),
		ProviderError: r.URL.Query().Get("error"),
	}

	if stateCookie, err := r.Cookie(stateCookieName); err != nil || stateCookie.Value != in.State {
		// A state mismatch means the flow was tampered with or restarted.
		in.State = ""
	}
	if nonceCookie, err := r.Cookie(nonceCookieName); err == nil {
		in.Nonce = nonceCookie.Value
	}
	h.clearCookie(w, r, stateCookieName)
	h.clearCookie(w, r, nonceCookieName)

	sess, err := h.Svc.CompleteFederatedLogin(r.Context(), in)
	if err != nil {
		h.Metrics.RecordAuthAttempt(metrics.FlowFederated, metrics.OutcomeFailure)
		// The service already classified and notified; land back on the login page.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.Metrics.RecordAuthAttempt(metrics.FlowFederated, metrics.OutcomeSuccess)
	h.setSessionCookie(w, r, *sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout ends the current session and resets the shell.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(sessionCookieName); err == nil {
		userID := ""
		if sess, getErr := h.Svc.GetSession(r.Context(), sessionCookie.Value); getErr == nil {
			userID = sess.UserID
		}
		if h.Shell != nil {
			h.Shell.CompleteLogout(r.Context(), sessionCookie.Value, userID)
		} else if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "err", logoutErr)
		}
	}

	h.clearCookie(w, r, sessionCookieName)

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Session reports the current authentication state.
// GET /api/auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	sess, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		h.clearCookie(w, r, sessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	payload := sessionPayload(sess)
	payload["authenticated"] = true
	WriteJSON(w, http.StatusOK, payload)
}

func sessionPayload(sess *domainauth.Session) map[string]any {
	return map[string]any{
		"user": map[string]any{
			"id":         sess.UserID,
			"name":       sess.Name,
			"email":      sess.Email,
			"avatar_url": sess.AvatarURL,
		},
		"expires_at": sess.ExpiresAt,
	}
}

// writeAuthError maps the failure classification onto an HTTP status. The
// user-facing message already went out through the notification surface; the
// body carries the kind for API callers.
func writeAuthError(w http.ResponseWriter, err error) {
	kind := domainauth.KindOf(err)
	code := http.StatusInternalServerError
	switch kind {
	case domainauth.KindInvalidCredentials:
		code = http.StatusUnauthorized
	case domainauth.KindEmailTaken:
		code = http.StatusConflict
	case domainauth.KindWeakCredential, domainauth.KindCancelled, domainauth.KindFlowInterrupted:
		code = http.StatusBadRequest
	case domainauth.KindPermissionDenied:
		code = http.StatusForbidden
	case domainauth.KindNetworkFailure:
		code = http.StatusBadGateway
	}
	WriteError(w, ErrorParams{Code: code, ErrCode: string(kind), Err: errors.New("sign-in failed")})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// callbackURL resolves the absolute redirect target the provider sends the
// user back to.
func (h *AuthHandlers) callbackURL(r *http.Request) string {
	if h.CallbackURL != "" {
		return h.CallbackURL
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: "/auth/callback"}
	return u.String()
}

// setFlowCookie stores a short-lived OAuth flow value.
func (h *AuthHandlers) setFlowCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// clearCookie clears a cookie by setting it to expire immediately. It mirrors
// the attributes used when setting cookies to maximize compatibility across
// browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
