package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/apiclient"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/store"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
	"github.com/SAP-F-2025/kambaz-client/internal/validator"
)

type quizService struct {
	backend   QuizBackend
	state     *store.State
	logger    *ServiceLogger
	log       utils.Logger
	validator *validator.Validator
}

func NewQuizService(backend QuizBackend, state *store.State, logger utils.Logger, validator *validator.Validator) QuizService {
	return &quizService{
		backend:   backend,
		state:     state,
		logger:    NewServiceLogger(logger, "quiz"),
		log:       logger,
		validator: validator,
	}
}

// ===== ACCESS =====

func (s *quizService) viewer() (models.User, error) {
	user, ok := s.state.Session.Current()
	if !ok {
		return models.User{}, ErrNotSignedIn
	}
	return user, nil
}

// editor returns the signed in user when the role may change quizzes. The check runs
// before any request is sent.
func (s *quizService) editor() (models.User, error) {
	user, err := s.viewer()
	if err != nil {
		return user, err
	}
	if !user.Role.CanEditQuizzes() {
		return user, ErrForbidden
	}
	return user, nil
}

// ===== READS =====

// Refresh replaces the course's quizzes with what the backend returns for the role.
// When the request fails the collection is emptied.
func (s *quizService) Refresh(ctx context.Context, courseID string) (quizzes []models.Quiz, err error) {
	started := time.Now()
	user, err := s.viewer()
	if err != nil {
		return nil, err
	}
	defer func() { s.logger.LogOperation(ctx, "refresh_quizzes", user.ID, courseID, started, err) }()

	token := s.state.Quizzes.BeginRefresh()
	quizzes, err = s.backend.ListQuizzes(ctx, courseID, user.Role)
	if err != nil {
		s.state.Quizzes.CommitRefresh(ctx, token, courseID, nil)
		return nil, err
	}

	for i := range quizzes {
		quizzes[i] = quizzes[i].WithDefaults()
	}
	if !s.state.Quizzes.CommitRefresh(ctx, token, courseID, quizzes) {
		s.log.DebugContext(ctx, "Discarded stale quiz list", "course_id", courseID)
		return s.state.Quizzes.ForCourse(courseID), nil
	}
	return quizzes, nil
}

// Get always asks the backend for the freshest copy. If that fails the stored copy,
// when there is one, is returned instead.
func (s *quizService) Get(ctx context.Context, quizID string) (*models.Quiz, error) {
	user, err := s.viewer()
	if err != nil {
		return nil, err
	}

	quiz, err := s.backend.GetQuiz(ctx, quizID, user.Role)
	if err != nil {
		if stored, ok := s.state.Quizzes.Find(quizID); ok {
			s.log.WarnContext(ctx, "Failed to fetch fresh quiz, using stored copy", "quiz_id", quizID, "error", err)
			return &stored, nil
		}
		return nil, quizLookupError(err)
	}

	fresh := quiz.WithDefaults()
	s.state.Quizzes.Upsert(ctx, fresh)
	return &fresh, nil
}

// ===== WRITES =====

// Save creates a draft or updates a persisted quiz. The store only ever receives the
// backend's answer.
func (s *quizService) Save(ctx context.Context, draft models.QuizDraft) (saved *models.Quiz, err error) {
	started := time.Now()
	user, err := s.editor()
	defer func() { s.logger.LogOperation(ctx, "save_quiz", user.ID, draft.Ref.String(), started, err) }()
	if err != nil {
		return nil, err
	}

	payload := draft.Payload().WithDefaults()
	if strings.TrimSpace(payload.Course) == "" {
		return nil, ErrMissingCourse
	}
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}

	if draft.Ref.IsDraft() {
		saved, err = s.backend.CreateQuiz(ctx, payload.Course, user.Role, payload)
		if err != nil {
			return nil, err
		}
		created := saved.WithDefaults()
		s.state.Quizzes.Add(ctx, created)
		return &created, nil
	}

	id, _ := draft.Ref.ID()
	saved, err = s.backend.UpdateQuiz(ctx, id, user.Role, payload)
	if err != nil {
		return nil, err
	}
	updated := saved.WithDefaults()
	s.state.Quizzes.Upsert(ctx, updated)
	return &updated, nil
}

func (s *quizService) SaveAndPublish(ctx context.Context, draft models.QuizDraft) (*models.Quiz, error) {
	draft.Quiz = draft.Quiz.Clone()
	draft.Quiz.Published = models.Ptr(true)
	return s.Save(ctx, draft)
}

func (s *quizService) TogglePublish(ctx context.Context, quizID string) (toggled *models.Quiz, err error) {
	started := time.Now()
	user, err := s.editor()
	defer func() { s.logger.LogOperation(ctx, "toggle_publish", user.ID, quizID, started, err) }()
	if err != nil {
		return nil, err
	}

	current, err := s.known(ctx, quizID, user.Role)
	if err != nil {
		return nil, err
	}
	current.Published = models.Ptr(!current.IsPublished())

	toggled, err = s.backend.UpdateQuiz(ctx, quizID, user.Role, current)
	if err != nil {
		return nil, err
	}
	updated := toggled.WithDefaults()
	s.state.Quizzes.Upsert(ctx, updated)
	return &updated, nil
}

func (s *quizService) Delete(ctx context.Context, quizID string) (err error) {
	started := time.Now()
	user, err := s.editor()
	defer func() { s.logger.LogOperation(ctx, "delete_quiz", user.ID, quizID, started, err) }()
	if err != nil {
		return err
	}

	if err = s.backend.DeleteQuiz(ctx, quizID, user.Role); err != nil {
		return err
	}
	s.state.Quizzes.Remove(ctx, quizID)
	return nil
}

// CopyToCourse returns an unsaved copy of the quiz for another course. Nothing
// reaches the backend or the store until the draft is saved.
func (s *quizService) CopyToCourse(ctx context.Context, quizID, courseID string) (models.QuizDraft, error) {
	user, err := s.editor()
	if err != nil {
		return models.QuizDraft{}, err
	}
	if strings.TrimSpace(courseID) == "" {
		return models.QuizDraft{}, ErrMissingCourse
	}

	source, err := s.known(ctx, quizID, user.Role)
	if err != nil {
		return models.QuizDraft{}, err
	}

	copied := source.Clone()
	copied.ID = ""
	copied.Course = courseID
	copied.Title = source.Title + " (Copy)"
	copied.Published = models.Ptr(false)
	return models.QuizDraft{Ref: models.DraftRef(), Quiz: copied}, nil
}

// known returns the stored quiz, fetching it when the store does not have it
func (s *quizService) known(ctx context.Context, quizID string, role models.UserRole) (models.Quiz, error) {
	if quiz, ok := s.state.Quizzes.Find(quizID); ok {
		return quiz, nil
	}
	quiz, err := s.backend.GetQuiz(ctx, quizID, role)
	if err != nil {
		return models.Quiz{}, quizLookupError(err)
	}
	return quiz.WithDefaults(), nil
}

// quizLookupError marks a backend 404 as ErrQuizNotFound and keeps the APIError
// reachable for its message.
func quizLookupError(err error) error {
	if apiclient.IsNotFound(err) {
		return fmt.Errorf("%w: %w", ErrQuizNotFound, err)
	}
	return err
}
