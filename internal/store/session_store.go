package store

import (
	"context"
	"sync"

	"github.com/SAP-F-2025/kambaz-client/internal/events"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
)

// SessionStore holds the signed in user, or nothing
type SessionStore struct {
	mu     sync.RWMutex
	user   *models.User
	notify *notifier
}

func (s *SessionStore) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *SessionStore) Set(ctx context.Context, user models.User) {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	s.notify.emit(ctx, events.EventSessionSignedIn, events.SessionEvent{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
}

// Clear signs the user out locally. Clearing an empty session is a no-op.
func (s *SessionStore) Clear(ctx context.Context) {
	s.mu.Lock()
	prev := s.user
	s.user = nil
	s.mu.Unlock()

	if prev == nil {
		return
	}
	s.notify.emit(ctx, events.EventSessionSignedOut, events.SessionEvent{
		UserID:   prev.ID,
		Username: prev.Username,
		Role:     string(prev.Role),
	})
}
