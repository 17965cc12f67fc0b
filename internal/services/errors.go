package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/kambaz-client/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Session errors
	ErrNotSignedIn        = errors.New("not signed in")
	ErrMissingCredentials = errors.New("missing username or password")

	// Permission errors
	ErrForbidden = errors.New("forbidden - insufficient permissions")

	// Quiz specific errors
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrMissingCourse    = errors.New("course is required")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// IsValidation checks if error represents a validation failure caught before any
// network call
func IsValidation(err error) bool {
	if errors.Is(err, ErrMissingCredentials) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrNotSignedIn) || errors.Is(err, ErrForbidden)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuizNotFound) || errors.Is(err, ErrQuestionNotFound)
}
