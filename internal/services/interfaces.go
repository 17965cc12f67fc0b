package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/eligibility"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
)

// ===== BACKEND =====

// AuthBackend is the part of the remote API dealing with sessions and profiles
type AuthBackend interface {
	SignIn(ctx context.Context, creds models.SigninCredentials) (*models.User, error)
	SignUp(ctx context.Context, data models.SignupData) (*models.User, error)
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error)
	Logout(ctx context.Context) error
	CheckSession(ctx context.Context) models.AuthStatus
}

type QuizBackend interface {
	ListQuizzes(ctx context.Context, courseID string, role models.UserRole) ([]models.Quiz, error)
	GetQuiz(ctx context.Context, quizID string, role models.UserRole) (*models.Quiz, error)
	CreateQuiz(ctx context.Context, courseID string, role models.UserRole, quiz models.Quiz) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, quizID string, role models.UserRole, quiz models.Quiz) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, quizID string, role models.UserRole) error
}

type AttemptBackend interface {
	ListAttempts(ctx context.Context, quizID, userID string) ([]models.QuizAttempt, error)
}

// Backend is implemented by *apiclient.Client
type Backend interface {
	AuthBackend
	QuizBackend
	AttemptBackend
}

// ===== SERVICES =====

type AccountService interface {
	// Bootstrap probes the backend for an existing session. Failure reads as signed out.
	Bootstrap(ctx context.Context) (*models.User, bool)
	SignIn(ctx context.Context, creds models.SigninCredentials) (*models.User, error)
	SignUp(ctx context.Context, data models.SignupData) (*models.User, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error)
	// SignOut always clears the local session, whatever the backend says.
	SignOut(ctx context.Context)
	Current() (models.User, bool)
}

type QuizService interface {
	Refresh(ctx context.Context, courseID string) ([]models.Quiz, error)
	Get(ctx context.Context, quizID string) (*models.Quiz, error)
	Save(ctx context.Context, draft models.QuizDraft) (*models.Quiz, error)
	SaveAndPublish(ctx context.Context, draft models.QuizDraft) (*models.Quiz, error)
	TogglePublish(ctx context.Context, quizID string) (*models.Quiz, error)
	Delete(ctx context.Context, quizID string) error
	CopyToCourse(ctx context.Context, quizID, courseID string) (models.QuizDraft, error)
}

type AttemptService interface {
	Load(ctx context.Context, quizID string) ([]models.QuizAttempt, error)
	Eligibility(ctx context.Context, quiz models.Quiz, now time.Time) (eligibility.Result, error)
}
