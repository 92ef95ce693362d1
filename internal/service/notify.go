package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/data"
)

// Notification kinds accepted by the surface.
const (
	NotifySuccess = "success"
	NotifyInfo    = "info"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

// dedupeWindow is how long an identical notification for the same user is
// suppressed. Rapid UI transitions fire the same outcome more than once; only
// the first within the window survives.
const dedupeWindow = 300 * time.Millisecond

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Store        core.NotificationStore
	Logger       *slog.Logger
	TimeProvider data.TimeProvider
}

// NotificationService is the transient per-user message surface. Messages are
// pushed by services on user-action outcomes and drained by the client; the
// backing store enforces the auto-dismiss TTL.
type NotificationService struct {
	store  core.NotificationStore
	logger *slog.Logger
	tp     data.TimeProvider

	mu       sync.Mutex
	lastSeen map[string]time.Time // user+kind+text -> last push
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(opts NotificationServiceOptions) *NotificationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	return &NotificationService{
		store:    opts.Store,
		logger:   logger.With("component", "notifications"),
		tp:       tp,
		lastSeen: make(map[string]time.Time),
	}
}

// Push records one notification for the user. Identical pushes inside the
// dedupe window are dropped silently; storage failures are logged and
// swallowed, a lost toast must never fail the action that produced it.
func (s *NotificationService) Push(ctx context.Context, userID, kind, text string) {
	if userID == "" || text == "" {
		return
	}

	now := s.tp.Now()
	key := userID + "\x00" + kind + "\x00" + text

	s.mu.Lock()
	if last, ok := s.lastSeen[key]; ok && now.Sub(last) < dedupeWindow {
		s.mu.Unlock()
		return
	}
	s.lastSeen[key] = now
	s.pruneLocked(now)
	s.mu.Unlock()

	n := core.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Text:      text,
		CreatedAt: now,
	}
	if err := s.store.Push(ctx, userID, n); err != nil {
		s.logger.WarnContext(ctx, "failed to push notification",
			"user_id", userID, "kind", kind, "err", err)
	}
}

// Success pushes a success notification.
func (s *NotificationService) Success(ctx context.Context, userID, text string) {
	s.Push(ctx, userID, NotifySuccess, text)
}

// Info pushes an info notification.
func (s *NotificationService) Info(ctx context.Context, userID, text string) {
	s.Push(ctx, userID, NotifyInfo, text)
}

// Warning pushes a warning notification.
func (s *NotificationService) Warning(ctx context.Context, userID, text string) {
	s.Push(ctx, userID, NotifyWarning, text)
}

// Error pushes an error notification.
func (s *NotificationService) Error(ctx context.Context, userID, text string) {
	s.Push(ctx, userID, NotifyError, text)
}

// Pending drains and returns the user's undelivered notifications.
func (s *NotificationService) Pending(ctx context.Context, userID string) ([]core.Notification, error) {
	return s.store.Drain(ctx, userID)
}

// pruneLocked drops dedupe entries older than the window so the map does not
// grow with every distinct message ever pushed.
func (s *NotificationService) pruneLocked(now time.Time) {
	if len(s.lastSeen) < 1024 {
		return
	}
	for k, at := range s.lastSeen {
		if now.Sub(at) >= dedupeWindow {
			delete(s.lastSeen, k)
		}
	}
}
