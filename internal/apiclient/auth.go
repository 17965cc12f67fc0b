package apiclient

import (
	"context"
	"net/http"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
)

func (c *Client) SignIn(ctx context.Context, creds models.SigninCredentials) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", nil, creds, &user, msgSigninFailed); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) SignUp(ctx context.Context, data models.SignupData) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", nil, data, &user, msgSignupFailed); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, nil, &user, msgGetProfileFailed); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", nil, update, &user, msgUpdateProfileFailed); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the backend session. The persisted session cookies are dropped whatever
// the backend answers.
func (c *Client) Logout(ctx context.Context) error {
	defer c.forgetSession(ctx)
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil, msgLogoutFailed)
}

// CheckSession never fails: any transport error or non-2xx answer reads as signed out.
func (c *Client) CheckSession(ctx context.Context) models.AuthStatus {
	var status models.AuthStatus
	if err := c.do(ctx, http.MethodGet, "/api/auth/check", nil, nil, &status, msgCheckSessionFailed); err != nil {
		c.logger.DebugContext(ctx, "Session check failed", "error", err)
		return models.AuthStatus{Authenticated: false}
	}
	if status.Authenticated && status.User == nil {
		return models.AuthStatus{Authenticated: false}
	}
	return status
}
