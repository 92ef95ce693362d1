package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/data"
	domainauth "github.com/lindasales/salespro/internal/domain/auth"
	"github.com/lindasales/salespro/internal/domain/model"
)

// SessionEventSource is the subscribe side of the session lifecycle broker.
type SessionEventSource interface {
	Subscribe() (<-chan domainauth.Event, func())
}

// SessionWatcherOptions groups dependencies for SessionWatcher.
type SessionWatcherOptions struct {
	Events       SessionEventSource
	Profiles     core.ProfileRepository
	Notifier     *NotificationService
	Logger       *slog.Logger
	TimeProvider data.TimeProvider
}

// sessionState is the watcher's per-session view: whether the first event has
// been processed, whether the user counts as authenticated, and the profile
// record loaded for them.
type sessionState struct {
	ready         bool
	authenticated bool
	profile       *model.Profile
	expiresAt     time.Time
}

// SessionWatcher is the session bootstrapper. It subscribes to the lifecycle
// broker exactly once per Start/Stop lifetime and, on every sign-in event,
// reconciles the durable profile record: adopt the existing row and advance
// last_login, or create a fresh one with the fallback display name. Handlers
// are idempotent, so duplicate or collapsed events are harmless.
type SessionWatcher struct {
	events   SessionEventSource
	profiles core.ProfileRepository
	notifier *NotificationService
	logger   *slog.Logger
	tp       data.TimeProvider

	startOnce sync.Once
	stopOnce  sync.Once
	unsub     func()
	done      chan struct{}

	mu     sync.RWMutex
	states map[string]*sessionState // keyed by session ID
}

// NewSessionWatcher constructs a new SessionWatcher.
func NewSessionWatcher(opts SessionWatcherOptions) *SessionWatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	return &SessionWatcher{
		events:   opts.Events,
		profiles: opts.Profiles,
		notifier: opts.Notifier,
		logger:   logger.With("component", "session_watcher"),
		tp:       tp,
		done:     make(chan struct{}),
		states:   make(map[string]*sessionState),
	}
}

// Start subscribes to the broker and begins processing events. Calling Start
// more than once is a no-op; the subscription is taken exactly once.
func (w *SessionWatcher) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		ch, unsub := w.events.Subscribe()
		w.unsub = unsub
		go w.run(ctx, ch)
	})
}

// Stop unsubscribes exactly once and waits for the event loop to drain.
// Safe to call multiple times, and before Start (then it only marks the
// watcher stopped).
func (w *SessionWatcher) Stop() {
	w.stopOnce.Do(func() {
		if w.unsub != nil {
			w.unsub()
			<-w.done
			return
		}
		close(w.done)
	})
}

func (w *SessionWatcher) run(ctx context.Context, ch <-chan domainauth.Event) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			w.handle(ctx, ev)
		}
	}
}

// Ready reports whether the first lifecycle event for the session has been
// processed. Serving layers render a loading state until this flips.
func (w *SessionWatcher) Ready(sessionID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	st, ok := w.states[sessionID]
	return ok && st.ready
}

// Authenticated reports the derived authenticated flag for the session.
func (w *SessionWatcher) Authenticated(sessionID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	st, ok := w.states[sessionID]
	return ok && st.authenticated
}

// Profile returns the reconciled profile for the session, when present.
func (w *SessionWatcher) Profile(sessionID string) (*model.Profile, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	st, ok := w.states[sessionID]
	if !ok || st.profile == nil {
		return nil, false
	}
	p := *st.profile
	return &p, true
}

func (w *SessionWatcher) handle(ctx context.Context, ev domainauth.Event) {
	w.sweepExpired(w.tp.Now())

	if !ev.SignedIn {
		w.mu.Lock()
		delete(w.states, ev.Session.ID)
		w.mu.Unlock()
		return
	}

	profile, err := w.reconcileProfile(ctx, ev.Session)
	if err != nil {
		w.logger.ErrorContext(ctx, "profile reconciliation failed",
			"user_id", ev.Session.UserID, "err", err)
		w.notifier.Error(ctx, ev.Session.UserID, "Could not load your profile. Please sign in again.")
		w.setState(ev.Session.ID, &sessionState{ready: true, expiresAt: ev.Session.ExpiresAt})
		return
	}

	w.setState(ev.Session.ID, &sessionState{
		ready:         true,
		authenticated: true,
		profile:       profile,
		expiresAt:     ev.Session.ExpiresAt,
	})
}

// sweepExpired drops state for sessions whose lifetime has passed. Sessions
// that expire via the store TTL never produce a signed-out event, so without
// the sweep their cached profiles would live as long as the process.
func (w *SessionWatcher) sweepExpired(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, st := range w.states {
		if !st.expiresAt.IsZero() && now.After(st.expiresAt) {
			delete(w.states, id)
		}
	}
}

func (w *SessionWatcher) setState(sessionID string, st *sessionState) {
	if sessionID == "" {
		return
	}
	w.mu.Lock()
	w.states[sessionID] = st
	w.mu.Unlock()
}

// reconcileProfile adopts the existing record or creates the first one.
// Identity attributes carried by the session overwrite their stored
// counterparts; created_at is never touched after the first write.
func (w *SessionWatcher) reconcileProfile(ctx context.Context, sess domainauth.Session) (*model.Profile, error) {
	now := w.tp.Now().UTC()

	existing, err := w.profiles.Get(ctx, sess.UserID)
	if errors.Is(err, data.ErrProfileNotFound) {
		fresh := model.NewProfileFromIdentity(domainauth.Identity{
			UserID:    sess.UserID,
			Name:      sess.Name,
			Email:     sess.Email,
			AvatarURL: sess.AvatarURL,
		}, now)
		if createErr := w.profiles.Create(ctx, &fresh); createErr != nil {
			if errors.Is(createErr, data.ErrProfileExists) {
				// Lost a race with a concurrent sign-in; adopt the winner's row.
				return w.adoptProfile(ctx, sess, now)
			}
			return nil, fmt.Errorf("create profile: %w", createErr)
		}
		return &fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return w.updateExisting(ctx, existing, sess, now)
}

// adoptProfile re-reads the row another sign-in just created and applies the
// same attribute overwrite path as any other existing profile.
func (w *SessionWatcher) adoptProfile(ctx context.Context, sess domainauth.Session, now time.Time) (*model.Profile, error) {
	existing, err := w.profiles.Get(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("load profile after create race: %w", err)
	}
	return w.updateExisting(ctx, existing, sess, now)
}

// updateExisting overwrites the stored attributes with whatever the session
// identity carries and advances last_login. When the identity adds nothing
// new, only last_login moves.
func (w *SessionWatcher) updateExisting(ctx context.Context, existing *model.Profile, sess domainauth.Session, now time.Time) (*model.Profile, error) {
	updated := *existing
	if name := strings.TrimSpace(sess.Name); name != "" {
		updated.Username = name
	}
	if email := strings.TrimSpace(sess.Email); email != "" {
		updated.Email = email
	}
	if sess.AvatarURL != "" {
		updated.AvatarURL = sess.AvatarURL
	}
	updated.LastLogin = now

	changed := updated.Username != existing.Username ||
		updated.Email != existing.Email ||
		updated.AvatarURL != existing.AvatarURL

	if !changed {
		if err := w.profiles.TouchLastLogin(ctx, existing.ID, now); err != nil {
			return nil, fmt.Errorf("touch last login: %w", err)
		}
		return &updated, nil
	}

	if err := w.profiles.Upsert(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &updated, nil
}
