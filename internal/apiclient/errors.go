package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTransport wraps every failure to reach the backend or read its answer
var ErrTransport = errors.New("transport failure")

// Fallback messages used when a non-2xx response carries no error field
const (
	msgSigninFailed         = "Signin failed"
	msgSignupFailed         = "Signup failed"
	msgGetProfileFailed     = "Failed to get profile"
	msgUpdateProfileFailed  = "Failed to update profile"
	msgLogoutFailed         = "Logout failed"
	msgFetchQuizzesFailed   = "Failed to fetch quizzes"
	msgFetchQuizFailed      = "Failed to fetch quiz"
	msgCreateQuizFailed     = "Failed to create quiz"
	msgUpdateQuizFailed     = "Failed to update quiz"
	msgDeleteQuizFailed     = "Failed to delete quiz"
	msgFetchAttemptsFailed  = "Failed to fetch quiz attempts"
	msgCheckSessionFailed   = "Session check failed"
	notAuthenticatedMessage = "Not authenticated"
)

// APIError is a non-2xx answer from the backend
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(status int, message, fallback string) *APIError {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return &APIError{Status: status, Message: message}
}

func transportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
}

// IsAPIError reports whether err carries a backend answer and returns it
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsNotAuthenticated reports whether the backend rejected the call for lack of a session
func IsNotAuthenticated(err error) bool {
	apiErr, ok := IsAPIError(err)
	if !ok {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || strings.EqualFold(apiErr.Message, notAuthenticatedMessage)
}

func IsNotFound(err error) bool {
	apiErr, ok := IsAPIError(err)
	return ok && apiErr.Status == http.StatusNotFound
}
