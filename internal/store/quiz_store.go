package store

import (
	"context"
	"sync"

	"github.com/SAP-F-2025/kambaz-client/internal/events"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
)

// RefreshToken identifies one list request. Tokens are handed out in request order.
type RefreshToken struct {
	generation uint64
}

// QuizStore mirrors the quizzes the backend returned for the active course
type QuizStore struct {
	mu      sync.RWMutex
	course  string
	quizzes []models.Quiz

	issued    uint64
	committed uint64

	notify *notifier
}

// BeginRefresh is called before a list request is sent
func (s *QuizStore) BeginRefresh() RefreshToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return RefreshToken{generation: s.issued}
}

// CommitRefresh applies a list response unless a response to a later request was
// already applied. It reports whether the response was kept.
func (s *QuizStore) CommitRefresh(ctx context.Context, token RefreshToken, course string, quizzes []models.Quiz) bool {
	s.mu.Lock()
	if token.generation <= s.committed {
		s.mu.Unlock()
		return false
	}
	s.committed = token.generation
	s.course = course
	s.quizzes = cloneQuizzes(quizzes)
	count := len(s.quizzes)
	s.mu.Unlock()

	s.notify.emit(ctx, events.EventQuizzesReplaced, events.QuizzesReplacedEvent{CourseID: course, Count: count})
	return true
}

// Replace swaps the whole collection
func (s *QuizStore) Replace(ctx context.Context, course string, quizzes []models.Quiz) {
	s.CommitRefresh(ctx, s.BeginRefresh(), course, quizzes)
}

// Add appends a quiz the backend just created
func (s *QuizStore) Add(ctx context.Context, quiz models.Quiz) {
	s.mu.Lock()
	s.quizzes = append(s.quizzes, quiz.Clone())
	s.mu.Unlock()

	s.notify.emit(ctx, events.EventQuizUpserted, quizEvent(quiz))
}

// Upsert replaces the quiz with the same id or appends it
func (s *QuizStore) Upsert(ctx context.Context, quiz models.Quiz) {
	s.mu.Lock()
	idx := s.indexOf(quiz.ID)
	var publishChanged bool
	if idx >= 0 {
		publishChanged = s.quizzes[idx].IsPublished() != quiz.IsPublished()
		s.quizzes[idx] = quiz.Clone()
	} else {
		s.quizzes = append(s.quizzes, quiz.Clone())
	}
	s.mu.Unlock()

	s.notify.emit(ctx, events.EventQuizUpserted, quizEvent(quiz))
	if publishChanged {
		s.notify.emit(ctx, events.EventQuizPublishToggled, quizEvent(quiz))
	}
}

// Remove drops a quiz and reports whether it was present
func (s *QuizStore) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	removed := s.quizzes[idx]
	s.quizzes = append(s.quizzes[:idx:idx], s.quizzes[idx+1:]...)
	s.mu.Unlock()

	s.notify.emit(ctx, events.EventQuizRemoved, quizEvent(removed))
	return true
}

// Clear empties the collection, as happens when a refresh fails
func (s *QuizStore) Clear(ctx context.Context, course string) {
	s.Replace(ctx, course, nil)
}

func (s *QuizStore) Find(id string) (models.Quiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.quizzes[idx].Clone(), true
	}
	return models.Quiz{}, false
}

// ForCourse returns the stored quizzes belonging to course, in backend order
func (s *QuizStore) ForCourse(course string) []models.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Quiz, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		if q.Course == course {
			out = append(out, q.Clone())
		}
	}
	return out
}

// Course is the course of the last applied refresh
func (s *QuizStore) Course() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.course
}

func (s *QuizStore) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, q := range s.quizzes {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func cloneQuizzes(quizzes []models.Quiz) []models.Quiz {
	out := make([]models.Quiz, len(quizzes))
	for i, q := range quizzes {
		out[i] = q.Clone()
	}
	return out
}

func quizEvent(q models.Quiz) events.QuizEvent {
	return events.QuizEvent{QuizID: q.ID, CourseID: q.Course, Title: q.Title, Published: q.IsPublished()}
}
