package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lindasales/salespro/internal/data"
	domainauth "github.com/lindasales/salespro/internal/domain/auth"
	"github.com/lindasales/salespro/internal/domain/model"
	"github.com/lindasales/salespro/internal/domain/session"
	gomocks "github.com/lindasales/salespro/internal/mocks"
)

// watcherFixture wires a SessionWatcher against a real broker and mocks.
type watcherFixture struct {
	watcher  *SessionWatcher
	broker   *session.Broker
	profiles *gomocks.MockProfileRepository
	notify   *memNotifyStore
	tp       *data.FixedTimeProvider
}

func newWatcherFixture(t *testing.T) *watcherFixture {
	ctrl := gomock.NewController(t)
	f := &watcherFixture{
		broker:   session.NewBroker(),
		profiles: gomocks.NewMockProfileRepository(ctrl),
		notify:   newMemNotifyStore(),
		tp:       data.NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	}
	f.watcher = NewSessionWatcher(SessionWatcherOptions{
		Events:       f.broker,
		Profiles:     f.profiles,
		Notifier:     newTestNotifier(f.notify, f.tp),
		TimeProvider: f.tp,
	})
	return f
}

func signInEvent(sessionID, userID, name, email string) domainauth.Event {
	return domainauth.Event{
		Session: domainauth.Session{
			ID:     sessionID,
			UserID: userID,
			Name:   name,
			Email:  email,
		},
		SignedIn: true,
	}
}

func waitReady(t *testing.T, w *SessionWatcher, sessionID string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return w.Ready(sessionID)
	}, 2*time.Second, 10*time.Millisecond, "watcher never processed the event")
}

func TestSessionWatcher_FirstSignInCreatesProfileOnce(t *testing.T) {
	f := newWatcherFixture(t)
	ctx := context.Background()

	f.profiles.EXPECT().Get(gomock.Any(), "user-1").Return(nil, data.ErrProfileNotFound)
	var created *model.Profile
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *model.Profile) error {
			created = p
			return nil
		})

	f.watcher.Start(ctx)
	defer f.watcher.Stop()

	f.broker.Publish(signInEvent("sess-1", "user-1", "Linda Sales", "linda@example.com"))
	waitReady(t, f.watcher, "sess-1")

	assert.True(t, f.watcher.Authenticated("sess-1"))
	profile, ok := f.watcher.Profile("sess-1")
	require.True(t, ok)
	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, "Linda Sales", profile.Username)
	assert.Equal(t, f.tp.Now().UTC(), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.LastLogin)
}

func TestSessionWatcher_FirstSignInWithoutNameUsesFallback(t *testing.T) {
	f := newWatcherFixture(t)
	ctx := context.Background()

	f.profiles.EXPECT().Get(gomock.Any(), "user-1").Return(nil, data.ErrProfileNotFound)
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	f.watcher.Start(ctx)
	defer f.watcher.Stop()

	f.broker.Publish(signInEvent("sess-1", "user-1", "", "linda@example.com"))
	waitReady(t, f.watcher, "sess-1")

	profile, ok := f.watcher.Profile("sess-1")
	require.True(t, ok)
	assert.Equal(t, model.DefaultUsername, profile.Username)
}

func TestSessionWatcher_ReturningUserOnlyTouchesLastLogin(t *testing.T) {
	f := newWatcherFixture(t)
	ctx := context.Background()
	createdAt := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	f.profiles.EXPECT().Get(gomock.Any(), "user-1").Return(&model.Profile{
		ID:        "user-1",
		Username:  "Linda Sales",
		Email:     "linda@example.com",
		CreatedAt: createdAt,
		LastLogin: createdAt,
	}, nil)
	// Identity carries nothing new, so the full record is not rewritten.
	f.profiles.EXPECT().TouchLastLogin(gomock.Any(), "user-1", f.tp.Now().UTC()).Return(nil)

	f.watcher.Start(ctx)
	defer f.watcher.Stop()

	f.broker.Publish(signInEvent("sess-2", "user-1", "Linda Sales", "linda@example.com"))
	waitReady(t, f.watcher, "sess-2")

	profile, ok := f.watcher.Profile("sess-2")
	require.True(t, ok)
	assert.Equal(t, createdAt, profile.CreatedAt)
	assert.Equal(t, f.tp.Now().UTC(), profile.LastLogin)
}

func TestSessionWatcher_ChangedIdentityUpsertsPreservingCreatedAt(t *testing.T) {
	f := newWatcherFixture(t)
	ctx := context.Background()
	createdAt := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	f.profiles.EXPECT().Get(gomock.Any(), "user-1").Return(&model.Profile{
		ID:        "user-1",
		Username:  "Linda",
		Email:     "old@example.com",
		CreatedAt: createdAt,
	}, nil)
	var upserted *model.Profile
	f.profiles.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *model.Profile) error {
			upserted = p
			return nil
		})

	f.watcher.Start(ctx)
	defer f.watcher.Stop()

	f.broker.Publish(signInEvent("sess-3", "user-1", "Linda Sales", "linda@example.com"))
	waitReady(t, f.watcher, "sess-3")

	require.NotNil(t, upserted)
	assert.Equal(t, "Linda Sales", upserted.Username)
	assert.Equal(t, "linda@example.com", upserted.Email)
	assert.Equal(t, createdAt, upserted.CreatedAt)
	assert.Equal(t, f.tp.Now().UTC(), upserted.LastLogin)
}

func TestSessionWatcher_CreateRaceAdoptsWinner(t *testing.T) {
	f := newWatcherFixture(t)
	ctx := context.Background()

	existing := &model.Profile{
		ID:        "user-1",
		Username:  "Linda Sales",
		Email:     "linda@example.com",
		CreatedAt: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
	gomock.InOrder(
		f.profiles.EXPECT().Get(gomock.Any(), "user-1").Return(nil, data.ErrProfileNotFound),
		f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(data.ErrProfileExists),
		f.profiles.EXPECT().Get(gomock.Any(), "user-1").Return(existing, nil),
		f.profiles.EXPECT().TouchLastLogin(gomock.Any(), "user-1", gomock.Any()).Return(nil),
	)

	f.watcher.Start(ctx)
	defer f.watcher.Stop()

	f.broker.Publish(signInEvent("sess-4", "user-1", "Linda Sales", "linda@example.com"))
	waitReady(t, f.watcher, "sess-4")

	assert.True(t, f.watcher.Authenticated("sess-4"))
	profile, ok := f.watcher.Profile("sess-4")
	require.True(t, ok)
	assert.Equal(t, existing.CreatedAt, profile.CreatedAt)
}

func TestSessionWatcher_ReconcileFailureNotifiesAndStaysUnauthenticated(t *testing.T) {
	f := newWatcherFixture(t)
	ctx := context.Background()

	f.profiles.EXPECT().Get(gomock.Any(), "user-1").Return(nil, errors.New("db down"))

	f.watcher.Start(ctx)
	defer f.watcher.Stop()

	f.broker.Publish(signInEvent("sess-5", "user-1", "Linda Sales", "linda@example.com"))
	waitReady(t, f.watcher, "sess-5")

	assert.False(t, f.watcher.Authenticated("sess-5"))
	_, ok := f.watcher.Profile("sess-5")
	assert.False(t, ok)

	pushed := f.notify.Pushed("user-1")
	require.Len(t, pushed, 1)
	assert.Equal(t, NotifyError, pushed[0].Kind)
}

func TestSessionWatcher_SignOutClearsState(t *testing.T) {
	f := newWatcherFixture(t)
	ctx := context.Background()

	f.profiles.EXPECT().Get(gomock.Any(), "user-1").Return(nil, data.ErrProfileNotFound)
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	f.watcher.Start(ctx)
	defer f.watcher.Stop()

	f.broker.Publish(signInEvent("sess-6", "user-1", "Linda Sales", "linda@example.com"))
	waitReady(t, f.watcher, "sess-6")

	f.broker.Publish(domainauth.Event{
		Session: domainauth.Session{ID: "sess-6", UserID: "user-1"},
	})

	require.Eventually(t, func() bool {
		return !f.watcher.Ready("sess-6")
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, f.watcher.Authenticated("sess-6"))
}

func TestSessionWatcher_SweepsExpiredSessions(t *testing.T) {
	f := newWatcherFixture(t)
	ctx := context.Background()

	f.profiles.EXPECT().Get(gomock.Any(), "user-stale").Return(nil, data.ErrProfileNotFound)
	f.profiles.EXPECT().Get(gomock.Any(), "user-fresh").Return(nil, data.ErrProfileNotFound)
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	f.watcher.Start(ctx)
	defer f.watcher.Stop()

	stale := signInEvent("sess-stale", "user-stale", "Linda Sales", "linda@example.com")
	stale.Session.ExpiresAt = f.tp.Now().Add(-time.Minute)
	f.broker.Publish(stale)
	waitReady(t, f.watcher, "sess-stale")

	// An expired session never produces a sign-out event of its own; the next
	// event the watcher handles must sweep it out.
	fresh := signInEvent("sess-fresh", "user-fresh", "Sam Seller", "sam@example.com")
	fresh.Session.ExpiresAt = f.tp.Now().Add(time.Hour)
	f.broker.Publish(fresh)
	waitReady(t, f.watcher, "sess-fresh")

	assert.False(t, f.watcher.Ready("sess-stale"))
	assert.True(t, f.watcher.Authenticated("sess-fresh"))
}

func TestSessionWatcher_StartSubscribesExactlyOnce(t *testing.T) {
	f := newWatcherFixture(t)
	ctx := context.Background()

	f.watcher.Start(ctx)
	f.watcher.Start(ctx)
	f.watcher.Start(ctx)

	assert.Equal(t, 1, f.broker.SubscriberCount())

	f.watcher.Stop()
	assert.Equal(t, 0, f.broker.SubscriberCount())

	// Stop is idempotent.
	f.watcher.Stop()
}

func TestSessionWatcher_StopBeforeStart(t *testing.T) {
	f := newWatcherFixture(t)

	f.watcher.Stop()
	f.watcher.Stop()

	assert.Equal(t, 0, f.broker.SubscriberCount())
}
