package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/data"
	domainauth "github.com/lindasales/salespro/internal/domain/auth"
	"github.com/lindasales/salespro/internal/domain/model"
	"github.com/lindasales/salespro/internal/domain/session"
	"github.com/lindasales/salespro/internal/ports"
)

// minPasswordLength is the weakest password accepted at sign-up.
const minPasswordLength = 6

var errSessionExpired = errors.New("session expired")

// SessionEvents is the publish side of the session lifecycle broker.
type SessionEvents interface {
	Publish(ev domainauth.Event)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider     ports.FederatedProvider // nil disables federated sign-in
	Sessions     ports.SessionStore
	Credentials  core.CredentialRepository
	Profiles     core.ProfileRepository
	Uploader     ports.Uploader // nil disables avatar uploads
	Notifier     *NotificationService
	Events       SessionEvents
	Logger       *slog.Logger
	TimeProvider data.TimeProvider
	SessionTTL   time.Duration // default 24h when zero
	BcryptCost   int           // default bcrypt.DefaultCost when zero
}

// AuthService orchestrates every sign-in and sign-up path: local credentials,
// the federated code flow, session persistence, and the classified
// notification each failed attempt produces.
type AuthService struct {
	provider    ports.FederatedProvider
	sessions    ports.SessionStore
	credentials core.CredentialRepository
	profiles    core.ProfileRepository
	uploader    ports.Uploader
	notifier    *NotificationService
	events      SessionEvents
	logger      *slog.Logger
	tp          data.TimeProvider
	sessionTTL  time.Duration
	bcryptCost  int
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	events := opts.Events
	if events == nil {
		events = session.NewBroker()
	}
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		provider:    opts.Provider,
		sessions:    opts.Sessions,
		credentials: opts.Credentials,
		profiles:    opts.Profiles,
		uploader:    opts.Uploader,
		notifier:    opts.Notifier,
		events:      events,
		logger:      logger.With("component", "auth"),
		tp:          tp,
		sessionTTL:  ttl,
		bcryptCost:  cost,
	}
}

// SignInWithPassword verifies local credentials and establishes a session.
// Every failure path emits exactly one classified notification keyed to the
// attempted email, and never reveals whether the email exists.
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*domainauth.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, s.failAuth(ctx, email,
			domainauth.NewFlowError(domainauth.KindInvalidCredentials, errors.New("missing email or password")))
	}

	cred, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrCredentialNotFound) {
			return nil, s.failAuth(ctx, email,
				domainauth.NewFlowError(domainauth.KindInvalidCredentials, err))
		}
		return nil, s.failAuth(ctx, email, fmt.Errorf("load credentials: %w", err))
	}

	if bcryptErr := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); bcryptErr != nil {
		return nil, s.failAuth(ctx, email,
			domainauth.NewFlowError(domainauth.KindInvalidCredentials, bcryptErr))
	}

	sess, err := s.establishSession(ctx, domainauth.Identity{
		UserID: cred.UserID,
		Email:  cred.Email,
	})
	if err != nil {
		return nil, s.failAuth(ctx, email, err)
	}
	return sess, nil
}

// SignUpInput groups parameters for local account creation.
type SignUpInput struct {
	FullName string
	Email    string
	Password string
	// Avatar is an optional profile picture; uploading it is best-effort.
	Avatar *ports.UploadInput
}

// SignUpWithPassword registers a local account, writes its profile, and signs
// the user in. A failed avatar upload downgrades to a warning and the account
// is still created with an empty avatar URL.
func (s *AuthService) SignUpWithPassword(ctx context.Context, in SignUpInput) (*domainauth.Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, s.failAuth(ctx, email,
			domainauth.NewFlowError(domainauth.KindInvalidCredentials, errors.New("email is required")))
	}
	if len(in.Password) < minPasswordLength {
		return nil, s.failAuth(ctx, email,
			domainauth.NewFlowError(domainauth.KindWeakCredential,
				fmt.Errorf("password shorter than %d characters", minPasswordLength)))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, s.failAuth(ctx, email, fmt.Errorf("hash password: %w", err))
	}

	userID := uuid.NewString()
	now := s.tp.Now().UTC()

	avatarURL := s.uploadAvatar(ctx, userID, email, in.Avatar)

	if err := s.credentials.Create(ctx, &core.Credential{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}); err != nil {
		if errors.Is(err, data.ErrEmailTaken) {
			return nil, s.failAuth(ctx, email,
				domainauth.NewFlowError(domainauth.KindEmailTaken, err))
		}
		return nil, s.failAuth(ctx, email, fmt.Errorf("create credentials: %w", err))
	}

	profile := &model.Profile{
		ID:        userID,
		Username:  fallbackName(in.FullName),
		Email:     email,
		AvatarURL: avatarURL,
		CreatedAt: now,
		LastLogin: now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, data.ErrPermissionDenied) {
			return nil, s.failAuth(ctx, email,
				domainauth.NewFlowError(domainauth.KindPermissionDenied, err))
		}
		return nil, s.failAuth(ctx, email, fmt.Errorf("create profile: %w", err))
	}

	sess, err := s.establishSession(ctx, domainauth.Identity{
		UserID:    userID,
		Name:      profile.Username,
		Email:     email,
		AvatarURL: avatarURL,
	})
	if err != nil {
		return nil, s.failAuth(ctx, email, err)
	}

	s.notifier.Success(ctx, userID, "Welcome! Your account is ready.")
	return sess, nil
}

// uploadAvatar pushes the picture to the hosting API. Failures produce one
// warning notification, keyed by the new user ID so the signed-up user
// actually drains it, and an empty URL; they never abort the sign-up.
func (s *AuthService) uploadAvatar(ctx context.Context, userID, email string, avatar *ports.UploadInput) string {
	if avatar == nil || s.uploader == nil {
		return ""
	}
	url, err := s.uploader.Upload(ctx, *avatar)
	if err != nil {
		s.logger.WarnContext(ctx, "avatar upload failed", "email", email, "err", err)
		s.notifier.Warning(ctx, userID, notifyText(domainauth.KindUploadFailed))
		return ""
	}
	return url
}

// BeginLoginResult contains the result of beginning a federated login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginFederatedLogin initiates the federated flow and returns the provider
// auth URL with state and nonce for the callback.
func (s *AuthService) BeginFederatedLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, errors.New("federated sign-in is not configured")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a federated login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
	// ProviderError carries the provider's error query parameter, when any.
	ProviderError string
}

// CompleteFederatedLogin finishes the code flow and establishes a session.
// A provider "access_denied" is the user backing out: it classifies as
// cancelled and surfaces as an info notification, not an error.
func (s *AuthService) CompleteFederatedLogin(ctx context.Context, in CompleteLoginInput) (*domainauth.Session, error) {
	if s.provider == nil {
		return nil, errors.New("federated sign-in is not configured")
	}

	if in.ProviderError != "" {
		kind := domainauth.KindUnknown
		if in.ProviderError == "access_denied" {
			kind = domainauth.KindCancelled
		}
		return nil, s.failAuth(ctx, "", domainauth.NewFlowError(kind, fmt.Errorf("provider error: %s", in.ProviderError)))
	}
	if in.Code == "" || in.State == "" || in.Nonce == "" {
		return nil, s.failAuth(ctx, "",
			domainauth.NewFlowError(domainauth.KindFlowInterrupted,
				errors.New("callback missing code, state, or nonce")))
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  in.Code,
		State: in.State,
		Nonce: in.Nonce,
	})
	if err != nil {
		return nil, s.failAuth(ctx, "", fmt.Errorf("exchange authorization code: %w", err))
	}

	sess, err := s.establishSession(ctx, identity)
	if err != nil {
		return nil, s.failAuth(ctx, identity.Email, err)
	}
	return sess, nil
}

// GetSession retrieves a session, double-checking expiry with lazy cleanup.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.IsExpired(s.tp.Now()) {
		// Expiry is a sign-out nobody asked for: publish it so the watcher
		// drops its cached state for the session.
		s.events.Publish(domainauth.Event{Session: sess})
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &sess, nil
}

// Logout destroys the session and publishes a signed-out event. A missing
// session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	ev := domainauth.Event{Session: domainauth.Session{ID: sessionID}}
	if sess, err := s.sessions.Get(ctx, sessionID); err == nil {
		ev.Session.UserID = sess.UserID
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.events.Publish(ev)
	return nil
}

// establishSession mints a session for the identity, persists it, and
// publishes the signed-in event the bootstrapper reconciles profiles from.
func (s *AuthService) establishSession(ctx context.Context, identity domainauth.Identity) (*domainauth.Session, error) {
	expiresAt := identity.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.tp.Now().Add(s.sessionTTL)
	}

	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		Name:      identity.Name,
		Email:     identity.Email,
		AvatarURL: identity.AvatarURL,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.events.Publish(domainauth.Event{Session: sess, SignedIn: true})
	return &sess, nil
}

// failAuth logs the failure, emits exactly one classified notification, and
// returns the error for the handler. Cancellations surface as info rather
// than error; everything else uses the kind's standard text.
//
// Pre-session failures have no user ID to key by, so the entry goes under the
// attempted email (or "anonymous"). Those entries are a transient server-side
// record of the attempt; the caller-facing delivery for unauthenticated
// failures is the classified HTTP error response, and the store TTL purges
// the undrained entries.
func (s *AuthService) failAuth(ctx context.Context, notifyKey string, err error) error {
	kind := domainauth.KindOf(err)
	s.logger.WarnContext(ctx, "auth attempt failed", "kind", string(kind), "err", err)

	if notifyKey == "" {
		notifyKey = "anonymous"
	}
	switch kind {
	case domainauth.KindCancelled:
		s.notifier.Info(ctx, notifyKey, notifyText(kind))
	case domainauth.KindUploadFailed:
		s.notifier.Warning(ctx, notifyKey, notifyText(kind))
	default:
		s.notifier.Error(ctx, notifyKey, notifyText(kind))
	}

	var fe *domainauth.FlowError
	if errors.As(err, &fe) {
		return err
	}
	return domainauth.NewFlowError(kind, err)
}

// notifyText maps a failure classification to its user-facing message.
func notifyText(kind domainauth.Kind) string {
	switch kind {
	case domainauth.KindInvalidCredentials:
		return "Incorrect email or password."
	case domainauth.KindEmailTaken:
		return "An account with this email already exists."
	case domainauth.KindWeakCredential:
		return "Password must be at least 6 characters."
	case domainauth.KindNetworkFailure:
		return "Network error. Check your connection and try again."
	case domainauth.KindPermissionDenied:
		return "You don't have permission to do that."
	case domainauth.KindCancelled:
		return "Sign-in cancelled."
	case domainauth.KindFlowInterrupted:
		return "Sign-in was interrupted before it finished. Please try again."
	case domainauth.KindUploadFailed:
		return "Profile photo upload failed. You can add one later from settings."
	default:
		return "Something went wrong. Please try again."
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func fallbackName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.DefaultUsername
	}
	return name
}
