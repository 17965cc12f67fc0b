package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/apiclient"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/store"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
	"github.com/SAP-F-2025/kambaz-client/internal/validator"
)

type accountService struct {
	backend   AuthBackend
	state     *store.State
	logger    *ServiceLogger
	validator *validator.Validator
}

func NewAccountService(backend AuthBackend, state *store.State, logger utils.Logger, validator *validator.Validator) AccountService {
	return &accountService{
		backend:   backend,
		state:     state,
		logger:    NewServiceLogger(logger, "account"),
		validator: validator,
	}
}

func (s *accountService) Current() (models.User, bool) {
	return s.state.Session.Current()
}

func (s *accountService) Bootstrap(ctx context.Context) (*models.User, bool) {
	status := s.backend.CheckSession(ctx)
	if !status.Authenticated || status.User == nil {
		s.state.Session.Clear(ctx)
		return nil, false
	}
	s.state.Session.Set(ctx, *status.User)
	return status.User, true
}

func (s *accountService) SignIn(ctx context.Context, creds models.SigninCredentials) (user *models.User, err error) {
	started := time.Now()
	defer func() { s.logger.LogOperation(ctx, "sign_in", userID(user), "", started, err) }()

	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err = s.backend.SignIn(ctx, creds)
	if err != nil {
		return nil, err
	}
	s.state.Session.Set(ctx, *user)
	return user, nil
}

func (s *accountService) SignUp(ctx context.Context, data models.SignupData) (user *models.User, err error) {
	started := time.Now()
	defer func() { s.logger.LogOperation(ctx, "sign_up", userID(user), "", started, err) }()

	if data.Role == "" {
		data.Role = models.RoleStudent
	}
	if err := s.validator.Validate(data); err != nil {
		return nil, err
	}

	user, err = s.backend.SignUp(ctx, data)
	if err != nil {
		return nil, err
	}
	s.state.Session.Set(ctx, *user)
	return user, nil
}

// Profile fetches the signed in user's profile. A "not authenticated" answer means
// the session is gone, so the local one is dropped too.
func (s *accountService) Profile(ctx context.Context) (*models.User, error) {
	user, err := s.backend.GetProfile(ctx)
	if err != nil {
		if apiclient.IsNotAuthenticated(err) {
			s.state.Session.Clear(ctx)
		}
		return nil, err
	}
	s.state.Session.Set(ctx, *user)
	return user, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (user *models.User, err error) {
	started := time.Now()
	defer func() { s.logger.LogOperation(ctx, "update_profile", userID(user), "", started, err) }()

	if _, ok := s.state.Session.Current(); !ok {
		return nil, ErrNotSignedIn
	}
	if err := s.validator.Validate(update); err != nil {
		return nil, err
	}

	user, err = s.backend.UpdateProfile(ctx, update)
	if err != nil {
		if apiclient.IsNotAuthenticated(err) {
			s.state.Session.Clear(ctx)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.state.Session.Set(ctx, *user)
	return user, nil
}

func (s *accountService) SignOut(ctx context.Context) {
	started := time.Now()
	current, _ := s.state.Session.Current()

	err := s.backend.Logout(ctx)
	s.state.Session.Clear(ctx)
	s.logger.LogOperation(ctx, "sign_out", current.ID, "", started, err)
}

func userID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
