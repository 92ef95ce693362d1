package service

import (
	"context"
	"log/slog"
	"sync"
)

// SessionCloser ends a session; satisfied by AuthService.
type SessionCloser interface {
	Logout(ctx context.Context, sessionID string) error
}

// ShellServiceOptions groups dependencies for ShellService.
type ShellServiceOptions struct {
	Auth     SessionCloser
	Notifier *NotificationService
	Logger   *slog.Logger
}

// ShellService coordinates the dashboard shell: one sidebar-open boolean per
// session, held in process memory only, plus the logout completion path.
// State dies with the session or the process; it is never persisted.
type ShellService struct {
	auth     SessionCloser
	notifier *NotificationService
	logger   *slog.Logger

	mu      sync.Mutex
	sidebar map[string]bool // session ID -> open
}

// NewShellService constructs a new ShellService.
func NewShellService(opts ShellServiceOptions) *ShellService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ShellService{
		auth:     opts.Auth,
		notifier: opts.Notifier,
		logger:   logger.With("component", "shell"),
		sidebar:  make(map[string]bool),
	}
}

// Toggle flips the sidebar for the session and returns the new state.
// Toggling twice restores the original state.
func (s *ShellService) Toggle(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := !s.sidebar[sessionID]
	if next {
		s.sidebar[sessionID] = true
	} else {
		delete(s.sidebar, sessionID)
	}
	return next
}

// Close forces the sidebar shut. Closing an already-closed sidebar is a no-op.
func (s *ShellService) Close(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sidebar, sessionID)
}

// State reports whether the sidebar is open for the session. Unknown sessions
// start closed.
func (s *ShellService) State(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebar[sessionID]
}

// CompleteLogout ends the session and resets the shell. The shell state is
// always cleared and exactly one completion notification is emitted, even
// when destroying the session fails; the user is leaving either way.
func (s *ShellService) CompleteLogout(ctx context.Context, sessionID, userID string) {
	s.Close(sessionID)

	if err := s.auth.Logout(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "logout failed, session state cleared anyway",
			"session_id", sessionID, "err", err)
	}

	s.notifier.Info(ctx, userID, "You have been signed out.")
}
