package store

import (
	"context"
	"sync"

	"github.com/SAP-F-2025/kambaz-client/internal/events"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
)

type attemptKey struct {
	quizID string
	userID string
}

// AttemptStore mirrors attempt histories per (quiz, user). Attempts are created and
// scored by the backend, so the only write is a wholesale replace.
type AttemptStore struct {
	mu     sync.RWMutex
	byKey  map[attemptKey][]models.QuizAttempt
	notify *notifier
}

func (s *AttemptStore) Replace(ctx context.Context, quizID, userID string, attempts []models.QuizAttempt) {
	stored := make([]models.QuizAttempt, len(attempts))
	copy(stored, attempts)

	s.mu.Lock()
	s.byKey[attemptKey{quizID: quizID, userID: userID}] = stored
	s.mu.Unlock()

	s.notify.emit(ctx, events.EventAttemptsReplaced, events.AttemptsReplacedEvent{
		QuizID: quizID,
		UserID: userID,
		Count:  len(stored),
	})
}

// For returns the stored attempts and whether they were ever loaded
func (s *AttemptStore) For(quizID, userID string) ([]models.QuizAttempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.byKey[attemptKey{quizID: quizID, userID: userID}]
	if !ok {
		return nil, false
	}
	out := make([]models.QuizAttempt, len(stored))
	copy(out, stored)
	return out, true
}
