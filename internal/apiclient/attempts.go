package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
)

// ListAttempts fetches the attempts one user made on one quiz
func (c *Client) ListAttempts(ctx context.Context, quizID, userID string) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	query := url.Values{"userId": []string{userID}}
	if err := c.do(ctx, http.MethodGet, quizPath(quizID)+"/attempts", query, nil, &attempts, msgFetchAttemptsFailed); err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []models.QuizAttempt{}
	}
	return attempts, nil
}
