package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/data"
	domainauth "github.com/lindasales/salespro/internal/domain/auth"
	"github.com/lindasales/salespro/internal/domain/model"
	"github.com/lindasales/salespro/internal/domain/session"
	gomocks "github.com/lindasales/salespro/internal/mocks"
	mocks "github.com/lindasales/salespro/internal/mocks/auth"
	"github.com/lindasales/salespro/internal/ports"
)

// authFixture wires an AuthService against in-memory and gomock doubles.
type authFixture struct {
	svc      *AuthService
	sessions *mocks.MemorySessionStore
	creds    *gomocks.MockCredentialRepository
	profiles *gomocks.MockProfileRepository
	notify   *memNotifyStore
	uploader *mocks.MockUploader
	provider *mocks.MockFederatedProvider
	broker   *session.Broker
}

func newAuthFixture(t *testing.T) *authFixture {
	ctrl := gomock.NewController(t)
	f := &authFixture{
		sessions: mocks.NewMemorySessionStore(),
		creds:    gomocks.NewMockCredentialRepository(ctrl),
		profiles: gomocks.NewMockProfileRepository(ctrl),
		notify:   newMemNotifyStore(),
		uploader: &mocks.MockUploader{},
		provider: mocks.NewMockFederatedProvider(),
		broker:   session.NewBroker(),
	}
	f.svc = NewAuthService(AuthServiceOptions{
		Provider:    f.provider,
		Sessions:    f.sessions,
		Credentials: f.creds,
		Profiles:    f.profiles,
		Uploader:    f.uploader,
		Notifier:    newTestNotifier(f.notify, nil),
		Events:      f.broker,
	})
	return f
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestNewAuthService_Defaults(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{
		Sessions: mocks.NewMemorySessionStore(),
		Notifier: newTestNotifier(newMemNotifyStore(), nil),
	})

	require.NotNil(t, svc)
	assert.Equal(t, 24*time.Hour, svc.sessionTTL)
	assert.NotNil(t, svc.events)
	assert.NotNil(t, svc.tp)
}

func TestAuthService_SignInWithPassword_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.creds.EXPECT().GetByEmail(gomock.Any(), "linda@example.com").Return(&core.Credential{
		UserID:       "user-1",
		Email:        "linda@example.com",
		PasswordHash: hashPassword(t, "sekret1"),
	}, nil)

	sess, err := f.svc.SignInWithPassword(ctx, "  Linda@Example.COM ", "sekret1")

	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "linda@example.com", sess.Email)
	assert.True(t, sess.ExpiresAt.After(time.Now()))
	assert.Equal(t, 1, f.sessions.Len())
	assert.Empty(t, f.notify.Pushed("linda@example.com"))
}

func TestAuthService_SignInWithPassword_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.creds.EXPECT().GetByEmail(gomock.Any(), "linda@example.com").Return(&core.Credential{
		UserID:       "user-1",
		Email:        "linda@example.com",
		PasswordHash: hashPassword(t, "sekret1"),
	}, nil)

	sess, err := f.svc.SignInWithPassword(ctx, "linda@example.com", "wrong-password")

	require.Error(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, domainauth.KindInvalidCredentials, domainauth.KindOf(err))

	// No session mutation and exactly one error notification.
	assert.Equal(t, 0, f.sessions.Len())
	pushed := f.notify.Pushed("linda@example.com")
	require.Len(t, pushed, 1)
	assert.Equal(t, NotifyError, pushed[0].Kind)
	assert.Equal(t, "Incorrect email or password.", pushed[0].Text)
}

func TestAuthService_SignInWithPassword_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	f.creds.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").
		Return(nil, data.ErrCredentialNotFound)

	sess, err := f.svc.SignInWithPassword(context.Background(), "nobody@example.com", "whatever")

	require.Error(t, err)
	assert.Nil(t, sess)
	// Unknown email and wrong password are indistinguishable to the caller.
	assert.Equal(t, domainauth.KindInvalidCredentials, domainauth.KindOf(err))
	pushed := f.notify.Pushed("nobody@example.com")
	require.Len(t, pushed, 1)
	assert.Equal(t, "Incorrect email or password.", pushed[0].Text)
}

func TestAuthService_SignInWithPassword_MissingFields(t *testing.T) {
	f := newAuthFixture(t)

	sess, err := f.svc.SignInWithPassword(context.Background(), "", "pw")
	require.Error(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, domainauth.KindInvalidCredentials, domainauth.KindOf(err))

	// Anonymous attempts key the notification to the fallback bucket.
	assert.Len(t, f.notify.Pushed("anonymous"), 1)
}

func TestAuthService_SignUpWithPassword_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	var createdProfile *model.Profile
	f.creds.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *model.Profile) error {
			createdProfile = p
			return nil
		})

	sess, err := f.svc.SignUpWithPassword(ctx, SignUpInput{
		FullName: "Linda Sales",
		Email:    "Linda@Example.com",
		Password: "sekret1",
	})

	require.NoError(t, err)
	require.NotNil(t, createdProfile)
	assert.Equal(t, "Linda Sales", createdProfile.Username)
	assert.Equal(t, "linda@example.com", createdProfile.Email)
	assert.False(t, createdProfile.CreatedAt.IsZero())
	assert.Equal(t, createdProfile.CreatedAt, createdProfile.LastLogin)

	assert.Equal(t, createdProfile.ID, sess.UserID)
	assert.Equal(t, "Linda Sales", sess.Name)
	assert.Equal(t, 1, f.sessions.Len())

	pushed := f.notify.Pushed(createdProfile.ID)
	require.Len(t, pushed, 1)
	assert.Equal(t, NotifySuccess, pushed[0].Kind)
	assert.Equal(t, "Welcome! Your account is ready.", pushed[0].Text)
}

func TestAuthService_SignUpWithPassword_BlankNameFallsBack(t *testing.T) {
	f := newAuthFixture(t)

	f.creds.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	var createdProfile *model.Profile
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *model.Profile) error {
			createdProfile = p
			return nil
		})

	_, err := f.svc.SignUpWithPassword(context.Background(), SignUpInput{
		FullName: "   ",
		Email:    "linda@example.com",
		Password: "sekret1",
	})

	require.NoError(t, err)
	assert.Equal(t, model.DefaultUsername, createdProfile.Username)
}

func TestAuthService_SignUpWithPassword_ShortPassword(t *testing.T) {
	f := newAuthFixture(t)

	sess, err := f.svc.SignUpWithPassword(context.Background(), SignUpInput{
		Email:    "linda@example.com",
		Password: "short",
	})

	require.Error(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, domainauth.KindWeakCredential, domainauth.KindOf(err))
	pushed := f.notify.Pushed("linda@example.com")
	require.Len(t, pushed, 1)
	assert.Equal(t, "Password must be at least 6 characters.", pushed[0].Text)
}

func TestAuthService_SignUpWithPassword_EmailTaken(t *testing.T) {
	f := newAuthFixture(t)

	f.creds.EXPECT().Create(gomock.Any(), gomock.Any()).Return(data.ErrEmailTaken)

	sess, err := f.svc.SignUpWithPassword(context.Background(), SignUpInput{
		Email:    "linda@example.com",
		Password: "sekret1",
	})

	require.Error(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, domainauth.KindEmailTaken, domainauth.KindOf(err))
	assert.Equal(t, 0, f.sessions.Len())
	pushed := f.notify.Pushed("linda@example.com")
	require.Len(t, pushed, 1)
	assert.Equal(t, "An account with this email already exists.", pushed[0].Text)
}

func TestAuthService_SignUpWithPassword_AvatarUploadFailureIsBestEffort(t *testing.T) {
	f := newAuthFixture(t)
	f.uploader.Err = errors.New("cdn unavailable")

	f.creds.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	var createdProfile *model.Profile
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *model.Profile) error {
			createdProfile = p
			return nil
		})

	sess, err := f.svc.SignUpWithPassword(context.Background(), SignUpInput{
		FullName: "Linda Sales",
		Email:    "linda@example.com",
		Password: "sekret1",
		Avatar:   &ports.UploadInput{FileName: "me.png"},
	})

	// Account creation and sign-in still succeed, with an empty avatar URL.
	require.NoError(t, err)
	assert.Empty(t, createdProfile.AvatarURL)
	assert.Empty(t, sess.AvatarURL)

	// The warning must land under the user ID, because that is the key the
	// notifications endpoint drains by. Exactly one warning plus the welcome
	// toast; nothing stranded under the email key.
	pushed := f.notify.Pushed(sess.UserID)
	warnings := 0
	for _, n := range pushed {
		if n.Kind == NotifyWarning {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
	assert.Empty(t, f.notify.Pushed("linda@example.com"))
}

func TestAuthService_SignUpWithPassword_AvatarUploadSuccess(t *testing.T) {
	f := newAuthFixture(t)
	f.uploader.URL = "https://cdn.example.com/avatars/linda.png"

	f.creds.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	sess, err := f.svc.SignUpWithPassword(context.Background(), SignUpInput{
		FullName: "Linda Sales",
		Email:    "linda@example.com",
		Password: "sekret1",
		Avatar:   &ports.UploadInput{FileName: "me.png"},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/linda.png", sess.AvatarURL)
	require.Len(t, f.uploader.Uploads, 1)
	assert.Equal(t, "me.png", f.uploader.Uploads[0].FileName)
}

func TestAuthService_BeginFederatedLogin_Success(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.BeginFederatedLogin(context.Background(), "http://localhost:8080/auth/callback")

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)
}

func TestAuthService_BeginFederatedLogin_EmptyRedirectURL(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.BeginFederatedLogin(context.Background(), "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "redirect URL is required")
}

func TestAuthService_BeginFederatedLogin_NotConfigured(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{
		Sessions: mocks.NewMemorySessionStore(),
		Notifier: newTestNotifier(newMemNotifyStore(), nil),
	})

	result, err := svc.BeginFederatedLogin(context.Background(), "http://localhost/cb")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "not configured")
}

func TestAuthService_BeginFederatedLogin_ProviderError(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.BeginFunc = func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("provider error")
	}

	result, err := f.svc.BeginFederatedLogin(context.Background(), "http://localhost/cb")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "begin auth flow")
}

func TestAuthService_CompleteFederatedLogin_Success(t *testing.T) {
	f := newAuthFixture(t)

	sess, err := f.svc.CompleteFederatedLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "mock-user-1", sess.UserID)
	assert.Equal(t, "Mock User", sess.Name)
	assert.Equal(t, "mock.user@example.com", sess.Email)
	assert.True(t, sess.ExpiresAt.After(time.Now()))
	assert.Equal(t, 1, f.sessions.Len())
}

func TestAuthService_CompleteFederatedLogin_AccessDenied(t *testing.T) {
	f := newAuthFixture(t)

	sess, err := f.svc.CompleteFederatedLogin(context.Background(), CompleteLoginInput{
		ProviderError: "access_denied",
	})

	require.Error(t, err)
	assert.Nil(t, sess)
	// Backing out of the provider's consent screen is a cancellation, not a
	// failure; the notification is informational.
	assert.Equal(t, domainauth.KindCancelled, domainauth.KindOf(err))
	pushed := f.notify.Pushed("anonymous")
	require.Len(t, pushed, 1)
	assert.Equal(t, NotifyInfo, pushed[0].Kind)
	assert.Equal(t, "Sign-in cancelled.", pushed[0].Text)
}

func TestAuthService_CompleteFederatedLogin_MissingCallbackParams(t *testing.T) {
	f := newAuthFixture(t)

	for _, in := range []CompleteLoginInput{
		{State: "state-1", Nonce: "nonce-1"},
		{Code: "code", Nonce: "nonce-1"},
		{Code: "code", State: "state-1"},
	} {
		sess, err := f.svc.CompleteFederatedLogin(context.Background(), in)
		require.Error(t, err)
		assert.Nil(t, sess)
		assert.Equal(t, domainauth.KindFlowInterrupted, domainauth.KindOf(err))
	}
}

func TestAuthService_CompleteFederatedLogin_ExchangeError(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.ExchangeFunc = func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("exchange error")
	}

	sess, err := f.svc.CompleteFederatedLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, sess)
	assert.Contains(t, err.Error(), "exchange authorization code")
	assert.Len(t, f.notify.Pushed("anonymous"), 1)
}

func TestAuthService_CompleteFederatedLogin_SessionSaveError(t *testing.T) {
	f := newAuthFixture(t)
	f.sessions.SaveErr = errors.New("save error")

	sess, err := f.svc.CompleteFederatedLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, sess)
	assert.Contains(t, err.Error(), "save session")
}

func TestAuthService_GetSession_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	stored := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		Name:      "Linda Sales",
		Email:     "linda@example.com",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, f.sessions.Save(ctx, stored))

	result, err := f.svc.GetSession(ctx, "test-session-1")

	require.NoError(t, err)
	assert.Equal(t, stored.UserID, result.UserID)
	assert.Equal(t, stored.Name, result.Name)
	assert.Equal(t, stored.Email, result.Email)
}

func TestAuthService_GetSession_EmptyID(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.GetSession(context.Background(), "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "session ID is required")
}

func TestAuthService_GetSession_NotFound(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.GetSession(context.Background(), "non-existent")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "get session")
}

func TestAuthService_GetSession_ExpiredIsLazilyDeleted(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	ch, unsub := f.broker.Subscribe()
	defer unsub()

	require.NoError(t, f.sessions.Save(ctx, domainauth.Session{
		ID:        "expired-session",
		UserID:    "user-123",
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}))

	result, err := f.svc.GetSession(ctx, "expired-session")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "session expired")

	_, err = f.sessions.Get(ctx, "expired-session")
	assert.Equal(t, mocks.ErrNotFound, err)

	// Lazy expiry counts as a sign-out so the watcher drops its cached state.
	select {
	case ev := <-ch:
		assert.False(t, ev.SignedIn)
		assert.Equal(t, "expired-session", ev.Session.ID)
		assert.Equal(t, "user-123", ev.Session.UserID)
	case <-time.After(time.Second):
		t.Fatal("expected a sign-out event for the expired session")
	}
}

func TestAuthService_Logout_DeletesAndPublishes(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	ch, unsub := f.broker.Subscribe()
	defer unsub()

	require.NoError(t, f.sessions.Save(ctx, domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}))

	require.NoError(t, f.svc.Logout(ctx, "test-session-1"))

	_, err := f.sessions.Get(ctx, "test-session-1")
	assert.Equal(t, mocks.ErrNotFound, err)

	select {
	case ev := <-ch:
		assert.False(t, ev.SignedIn)
		assert.Equal(t, "test-session-1", ev.Session.ID)
		assert.Equal(t, "user-123", ev.Session.UserID)
	case <-time.After(time.Second):
		t.Fatal("expected a sign-out event")
	}
}

func TestAuthService_Logout_EmptyID(t *testing.T) {
	f := newAuthFixture(t)

	assert.NoError(t, f.svc.Logout(context.Background(), ""))
}

func TestAuthService_Logout_DeleteError(t *testing.T) {
	f := newAuthFixture(t)
	f.sessions.DeleteErr = errors.New("delete error")

	err := f.svc.Logout(context.Background(), "test-session")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete session")
}
