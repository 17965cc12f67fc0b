package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/eligibility"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/store"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
)

type attemptService struct {
	backend AttemptBackend
	state   *store.State
	logger  *ServiceLogger
}

func NewAttemptService(backend AttemptBackend, state *store.State, logger utils.Logger) AttemptService {
	return &attemptService{
		backend: backend,
		state:   state,
		logger:  NewServiceLogger(logger, "attempt"),
	}
}

// Load fetches the signed in student's attempts at a quiz. Other roles take no
// quizzes, so nothing is fetched for them.
func (s *attemptService) Load(ctx context.Context, quizID string) (attempts []models.QuizAttempt, err error) {
	user, ok := s.state.Session.Current()
	if !ok {
		return nil, ErrNotSignedIn
	}
	if !user.Role.IsStudent() {
		return []models.QuizAttempt{}, nil
	}

	started := time.Now()
	defer func() { s.logger.LogOperation(ctx, "load_attempts", user.ID, quizID, started, err) }()

	attempts, err = s.backend.ListAttempts(ctx, quizID, user.ID)
	if err != nil {
		return nil, err
	}
	s.state.Attempts.Replace(ctx, quizID, user.ID, attempts)
	return attempts, nil
}

// Eligibility evaluates the quiz for the signed in user, loading their attempts when
// the store does not have them yet.
func (s *attemptService) Eligibility(ctx context.Context, quiz models.Quiz, now time.Time) (eligibility.Result, error) {
	user, ok := s.state.Session.Current()
	if !ok {
		return eligibility.Result{}, ErrNotSignedIn
	}
	if !user.Role.IsStudent() {
		return eligibility.Result{}, nil
	}

	attempts, loaded := s.state.Attempts.For(quiz.ID, user.ID)
	if !loaded {
		var err error
		if attempts, err = s.Load(ctx, quiz.ID); err != nil {
			return eligibility.Result{}, err
		}
	}
	return eligibility.EvaluateFor(user, quiz, now, attempts), nil
}
