package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
)

// quizWrite is the body of every quiz write: the full quiz plus the caller's role
type quizWrite struct {
	models.Quiz
	UserRole models.UserRole `json:"userRole"`
}

func roleQuery(role models.UserRole) url.Values {
	return url.Values{"role": []string{string(role)}}
}

// ListQuizzes returns what the backend shows the role for the course. Filtering by
// role happens on the backend.
func (c *Client) ListQuizzes(ctx context.Context, courseID string, role models.UserRole) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	path := "/api/courses/" + url.PathEscape(courseID) + "/quizzes"
	if err := c.do(ctx, http.MethodGet, path, roleQuery(role), nil, &quizzes, msgFetchQuizzesFailed); err != nil {
		return nil, err
	}
	if quizzes == nil {
		quizzes = []models.Quiz{}
	}
	return quizzes, nil
}

func (c *Client) GetQuiz(ctx context.Context, quizID string, role models.UserRole) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := c.do(ctx, http.MethodGet, quizPath(quizID), roleQuery(role), nil, &quiz, msgFetchQuizFailed); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// CreateQuiz posts a new quiz. The quiz must not carry an identifier; the backend
// assigns one.
func (c *Client) CreateQuiz(ctx context.Context, courseID string, role models.UserRole, quiz models.Quiz) (*models.Quiz, error) {
	quiz.ID = ""
	var created models.Quiz
	path := "/api/courses/" + url.PathEscape(courseID) + "/quizzes"
	if err := c.do(ctx, http.MethodPost, path, roleQuery(role), quizWrite{Quiz: quiz, UserRole: role}, &created, msgCreateQuizFailed); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateQuiz(ctx context.Context, quizID string, role models.UserRole, quiz models.Quiz) (*models.Quiz, error) {
	quiz.ID = quizID
	var updated models.Quiz
	if err := c.do(ctx, http.MethodPut, quizPath(quizID), roleQuery(role), quizWrite{Quiz: quiz, UserRole: role}, &updated, msgUpdateQuizFailed); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteQuiz(ctx context.Context, quizID string, role models.UserRole) error {
	return c.do(ctx, http.MethodDelete, quizPath(quizID), roleQuery(role), nil, nil, msgDeleteQuizFailed)
}

func quizPath(quizID string) string {
	return "/api/quizzes/" + url.PathEscape(quizID)
}
