package services

import (
	"errors"
	"strings"

	"github.com/SAP-F-2025/kambaz-client/internal/apiclient"
)

// Fixed messages shown when a write fails without a backend explanation
const (
	MsgMissingCredentials  = "Please enter username and password"
	MsgTogglePublishFailed = "Failed to update quiz publish status"
	MsgDeleteQuizFailed    = "Failed to delete quiz"
	MsgCreateQuizFailed    = "Failed to create quiz"
	MsgUpdateQuizFailed    = "Failed to update quiz"
	MsgFetchQuizzesFailed  = "Failed to fetch quizzes"
	MsgFetchAttemptsFailed = "Failed to fetch quiz attempts"
	MsgSignInFailed        = "Signin failed"
	MsgSignUpFailed        = "Signup failed"
	MsgProfileFailed       = "Failed to update profile"
	MsgGetProfileFailed    = "Failed to get profile"
	MsgFetchQuizFailed     = "Failed to fetch quiz"
	MsgCopyQuizFailed      = "Failed to copy quiz"
	MsgExportFailed        = "Failed to export"
)

// UserMessage turns an error into the text shown to the user. Validation problems are
// shown inline, backend errors verbatim, and anything else becomes fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrMissingCredentials) {
		return MsgMissingCredentials
	}

	var ve ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		parts := make([]string, len(ve))
		for i, e := range ve {
			parts[i] = e.Field + " " + e.Message
		}
		return strings.Join(parts, "; ")
	}

	if apiErr, ok := apiclient.IsAPIError(err); ok {
		return apiErr.Message
	}

	switch {
	case errors.Is(err, ErrNotSignedIn):
		return "Please sign in first"
	case errors.Is(err, ErrForbidden):
		return "You do not have permission to do that"
	case errors.Is(err, ErrQuizNotFound):
		return "Quiz not found"
	}

	return fallback
}
