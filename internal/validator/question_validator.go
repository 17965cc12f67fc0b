package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
)

// QuestionValidator checks that a question's answer key has the shape its type needs
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateAnswerKey validates the answer key of a single question
func (v *QuestionValidator) ValidateAnswerKey(question models.Question) error {
	switch question.Type {
	case models.MultipleChoice:
		return v.validateMultipleChoice(question)
	case models.TrueFalse:
		if question.CorrectAnswer == nil {
			return fmt.Errorf("true/false question needs a correct answer")
		}
		return nil
	case models.FillInBlank:
		return v.validateFillInBlank(question)
	default:
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
}

// ValidateBatch validates every question of a quiz, reporting the first failure
func (v *QuestionValidator) ValidateBatch(questions []models.Question) error {
	for i, question := range questions {
		if err := v.ValidateAnswerKey(question); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

func (v *QuestionValidator) validateMultipleChoice(question models.Question) error {
	if len(question.Choices) < 2 {
		return fmt.Errorf("must have at least 2 choices")
	}

	choiceIDs := make(map[string]bool, len(question.Choices))
	for _, choice := range question.Choices {
		if strings.TrimSpace(choice.Text) == "" {
			return fmt.Errorf("choice text cannot be empty")
		}
		choiceIDs[choice.ID] = true
	}

	if question.CorrectOption != nil && !choiceIDs[*question.CorrectOption] {
		return fmt.Errorf("correct option '%s' does not match any choice", *question.CorrectOption)
	}
	return nil
}

func (v *QuestionValidator) validateFillInBlank(question models.Question) error {
	for _, answer := range question.PossibleAnswers {
		if strings.TrimSpace(answer) != "" {
			return nil
		}
	}
	return fmt.Errorf("must have at least 1 accepted answer")
}
