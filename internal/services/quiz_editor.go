package services

import (
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/validator"
	"github.com/google/uuid"
)

const newQuizTitle = "New Quiz"

// QuizEditor holds a working copy of one quiz. Nothing here talks to the backend;
// hand Draft to QuizService.Save when done.
type QuizEditor struct {
	draft     models.QuizDraft
	validator *validator.Validator
}

// NewDraft starts a quiz that the backend does not know yet
func NewDraft(courseID string, v *validator.Validator) *QuizEditor {
	quiz := models.Quiz{
		Title:       newQuizTitle,
		Course:      courseID,
		Description: models.Ptr(""),
		Questions:   []models.Question{},
	}.WithDefaults()
	return &QuizEditor{draft: models.QuizDraft{Ref: models.DraftRef(), Quiz: quiz}, validator: v}
}

// Edit starts editing a quiz the backend returned
func Edit(quiz models.Quiz, v *validator.Validator) *QuizEditor {
	return &QuizEditor{
		draft:     models.QuizDraft{Ref: models.PersistedRef(quiz.ID), Quiz: quiz.WithDefaults().Clone()},
		validator: v,
	}
}

// EditDraft continues editing an unsaved draft, such as a copy
func EditDraft(draft models.QuizDraft, v *validator.Validator) *QuizEditor {
	draft.Quiz = draft.Quiz.WithDefaults().Clone()
	return &QuizEditor{draft: draft, validator: v}
}

// Draft returns a copy of the working state
func (e *QuizEditor) Draft() models.QuizDraft {
	return models.QuizDraft{Ref: e.draft.Ref, Quiz: e.draft.Quiz.Clone()}
}

// Update applies fn to the working quiz. The identifier and course can not be changed.
func (e *QuizEditor) Update(fn func(q *models.Quiz)) {
	id, course := e.draft.Quiz.ID, e.draft.Quiz.Course
	fn(&e.draft.Quiz)
	e.draft.Quiz.ID, e.draft.Quiz.Course = id, course
}

// AddQuestion appends a question, giving it an identifier when it has none
func (e *QuizEditor) AddQuestion(q models.Question) models.Question {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	e.draft.Quiz.Questions = append(e.draft.Quiz.Questions, q)
	return q
}

// UpdateQuestion replaces the question with the same identifier
func (e *QuizEditor) UpdateQuestion(q models.Question) error {
	for i := range e.draft.Quiz.Questions {
		if e.draft.Quiz.Questions[i].ID == q.ID {
			e.draft.Quiz.Questions[i] = q
			return nil
		}
	}
	return ErrQuestionNotFound
}

func (e *QuizEditor) DeleteQuestion(id string) error {
	questions := e.draft.Quiz.Questions
	for i := range questions {
		if questions[i].ID == id {
			e.draft.Quiz.Questions = append(questions[:i:i], questions[i+1:]...)
			return nil
		}
	}
	return ErrQuestionNotFound
}

// SetTimeLimitEnabled switches the time limit on at the default 20 minutes, or off.
func (e *QuizEditor) SetTimeLimitEnabled(enabled bool) {
	if enabled {
		if e.draft.Quiz.TimeLimit == nil || *e.draft.Quiz.TimeLimit <= 0 {
			e.draft.Quiz.TimeLimit = models.Ptr(models.DefaultTimeLimit)
		}
		return
	}
	e.draft.Quiz.TimeLimit = models.Ptr(0)
}

// SetTimeLimit sets the limit in minutes; anything not positive falls back to 20.
func (e *QuizEditor) SetTimeLimit(minutes int) {
	if minutes <= 0 {
		minutes = models.DefaultTimeLimit
	}
	e.draft.Quiz.TimeLimit = models.Ptr(minutes)
}

func (e *QuizEditor) SetMultipleAttempts(enabled bool) {
	e.draft.Quiz.MultipleAttempts = models.Ptr(enabled)
	if enabled && (e.draft.Quiz.Attempts == nil || *e.draft.Quiz.Attempts < 1) {
		e.draft.Quiz.Attempts = models.Ptr(models.DefaultAttempts)
	}
}

// SetAttempts sets the attempt cap; anything below 1 falls back to 1.
func (e *QuizEditor) SetAttempts(n int) {
	if n < 1 {
		n = models.DefaultAttempts
	}
	e.draft.Quiz.Attempts = models.Ptr(n)
}

// Validate checks the working quiz without sending it anywhere
func (e *QuizEditor) Validate() error {
	return e.validator.Validate(e.draft.Payload())
}
