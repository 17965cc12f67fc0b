package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/kambaz-client/internal/events"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/store"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
	"github.com/SAP-F-2025/kambaz-client/internal/validator"
	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock implementation of Backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) SignIn(ctx context.Context, creds models.SigninCredentials) (*models.User, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockBackend) SignUp(ctx context.Context, data models.SignupData) (*models.User, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockBackend) GetProfile(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockBackend) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockBackend) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBackend) CheckSession(ctx context.Context) models.AuthStatus {
	args := m.Called(ctx)
	return args.Get(0).(models.AuthStatus)
}

func (m *MockBackend) ListQuizzes(ctx context.Context, courseID string, role models.UserRole) ([]models.Quiz, error) {
	args := m.Called(ctx, courseID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Quiz), args.Error(1)
}

func (m *MockBackend) GetQuiz(ctx context.Context, quizID string, role models.UserRole) (*models.Quiz, error) {
	args := m.Called(ctx, quizID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockBackend) CreateQuiz(ctx context.Context, courseID string, role models.UserRole, quiz models.Quiz) (*models.Quiz, error) {
	args := m.Called(ctx, courseID, role, quiz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockBackend) UpdateQuiz(ctx context.Context, quizID string, role models.UserRole, quiz models.Quiz) (*models.Quiz, error) {
	args := m.Called(ctx, quizID, role, quiz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockBackend) DeleteQuiz(ctx context.Context, quizID string, role models.UserRole) error {
	args := m.Called(ctx, quizID, role)
	return args.Error(0)
}

func (m *MockBackend) ListAttempts(ctx context.Context, quizID, userID string) ([]models.QuizAttempt, error) {
	args := m.Called(ctx, quizID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuizAttempt), args.Error(1)
}

type fixture struct {
	backend   *MockBackend
	state     *store.State
	publisher *events.MockEventPublisher
	services  ServiceManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	state := store.NewState(publisher, utils.NewNopLogger())
	backend := new(MockBackend)
	t.Cleanup(func() { backend.AssertExpectations(t) })
	return &fixture{
		backend:   backend,
		state:     state,
		publisher: publisher,
		services:  NewServiceManager(backend, state, utils.NewNopLogger(), validator.New()),
	}
}

func (f *fixture) signInAs(role models.UserRole) models.User {
	user := models.User{ID: "u-" + string(role), Username: string(role), Role: role}
	f.state.Session.Set(context.Background(), user)
	return user
}
