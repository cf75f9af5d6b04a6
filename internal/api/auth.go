package api

import (
	"context"
	"fmt"

	"github.com/nmoreras/soundpost/internal/models"
	"github.com/nmoreras/soundpost/internal/shared"
)

// LoginResult carries the session credentials returned by POST /login.
type LoginResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Login exchanges email/password for a user record and bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}

	var result LoginResult
	if err := c.postJSON(ctx, "/login", payload, &result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: login response missing token", shared.ErrAuthFailed)
	}
	return &result, nil
}

// Register creates a new account. The backend logs the user in on success,
// returning the same shape as /login.
func (c *Client) Register(ctx context.Context, email, username, password string) (*LoginResult, error) {
	payload := map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}

	var result LoginResult
	if err := c.postJSON(ctx, "/register", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyAuth validates the installed bearer token against the server.
//
// A non-2xx status means the token was rejected (expired or invalid) and is
// reported as [shared.ErrTokenRejected] so the session layer can distinguish
// it from connectivity failures.
func (c *Client) VerifyAuth(ctx context.Context) (*models.User, error) {
	resp, err := c.Get(ctx, "/verify-auth")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d", shared.ErrTokenRejected, resp.StatusCode)
	}

	var body struct {
		User *models.User `json:"user"`
	}
	if err := resp.Decode(&body); err != nil {
		// A verify response we cannot parse is treated the same as a
		// rejected token: the session cannot be trusted.
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenRejected, err)
	}

	return body.User, nil
}

// RequestPasswordReset asks the backend to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/request-password-reset", map[string]string{"email": email}, nil)
}

// ResetPassword completes a password reset with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	payload := map[string]string{"token": token, "password": password}
	return c.postJSON(ctx, "/reset-password", payload, nil)
}
