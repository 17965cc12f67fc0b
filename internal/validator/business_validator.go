package validator

import (
	"fmt"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
)

// BusinessValidator holds the rules struct tags cannot express
type BusinessValidator struct {
	questions *QuestionValidator
}

func NewBusinessValidator(questions *QuestionValidator) *BusinessValidator {
	return &BusinessValidator{questions: questions}
}

// Validate dispatches on the concrete type; unknown types have no business rules
func (b *BusinessValidator) Validate(s interface{}) ValidationErrors {
	switch v := s.(type) {
	case models.Quiz:
		return b.validateQuiz(v)
	case *models.Quiz:
		if v == nil {
			return nil
		}
		return b.validateQuiz(*v)
	case models.QuizDraft:
		return b.validateQuiz(v.Quiz)
	}
	return nil
}

func (b *BusinessValidator) validateQuiz(quiz models.Quiz) ValidationErrors {
	var errs ValidationErrors

	if quiz.AllowsMultipleAttempts() && quiz.Attempts != nil && *quiz.Attempts < 1 {
		errs = append(errs, ValidationError{
			Field:   "attempts",
			Message: "must be at least 1",
			Value:   *quiz.Attempts,
			Rule:    "attempts",
		})
	}

	if quiz.TimeLimit != nil && *quiz.TimeLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "timeLimit",
			Message: "must not be negative",
			Value:   *quiz.TimeLimit,
			Rule:    "time_limit",
		})
	}

	from, hasFrom := quiz.AvailableFromTime(nil)
	until, hasUntil := quiz.AvailableUntilTime(nil)
	if hasFrom && hasUntil && until.Before(from) {
		errs = append(errs, ValidationError{
			Field:   "availableUntil",
			Message: "must not be before available from",
			Value:   *quiz.AvailableUntil,
			Rule:    "availability_window",
		})
	}

	for i, question := range quiz.Questions {
		if err := b.questions.ValidateAnswerKey(question); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("questions[%d]", i),
				Message: err.Error(),
				Value:   question.ID,
				Rule:    "answer_key",
			})
		}
	}

	return errs
}
