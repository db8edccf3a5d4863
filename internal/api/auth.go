package api

import (
	"context"
	"net/http"

	"github.com/mattaxpro/client-go/internal/api/dto"
	"github.com/mattaxpro/client-go/internal/domain"
	"github.com/mattaxpro/client-go/internal/session"
	"github.com/mattaxpro/client-go/pkg/util"
)

// Login exchanges credentials for a token, persists it and returns the
// decoded session.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*domain.Session, error) {
	if req.Email == "" || req.Password == "" {
		return nil, util.NewValidation("email and password are required")
	}

	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp, "login failed"); err != nil {
		return nil, err
	}
	return c.adoptToken(ctx, resp.Token)
}

// Register creates an account and signs the new user in. The password
// mismatch check happens before any network call.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Session, error) {
	if req.Email == "" || req.Password == "" {
		return nil, util.NewValidation("email and password are required")
	}
	if req.Password != req.ConfirmPassword {
		return nil, util.NewValidation("passwords do not match")
	}

	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp, "registration failed"); err != nil {
		return nil, err
	}
	return c.adoptToken(ctx, resp.Token)
}

// GoogleLogin signs in with a Google identity token.
func (c *Client) GoogleLogin(ctx context.Context, req dto.GoogleLoginRequest) (*domain.Session, error) {
	if req.IDToken == "" {
		return nil, util.NewValidation("google id token is required")
	}

	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/google-login", nil, req, &resp, "google login failed"); err != nil {
		return nil, err
	}
	return c.adoptToken(ctx, resp.Token)
}

// Logout tells the server to invalidate the token and clears it locally.
// The local clear happens even when the server call fails; holding on to
// a token the user asked to drop is never right.
func (c *Client) Logout(ctx context.Context) error {
	callErr := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, "logout failed")
	if err := c.store.Clear(ctx, session.ClearReasonLogout); err != nil {
		return err
	}
	if callErr != nil && util.KindOf(callErr) == util.KindAuthentication {
		// Token was already dead server-side; local state agrees now.
		return nil
	}
	return callErr
}

// ForgotPassword starts the email reset flow.
func (c *Client) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error {
	if req.Email == "" {
		return util.NewValidation("email is required")
	}
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, req, nil, "password reset request failed")
}

// ResetPassword completes the email reset flow.
func (c *Client) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	if req.Token == "" {
		return util.NewValidation("reset token is required")
	}
	if req.Password != req.ConfirmPassword {
		return util.NewValidation("passwords do not match")
	}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", nil, req, nil, "password reset failed")
}

func (c *Client) adoptToken(ctx context.Context, token string) (*domain.Session, error) {
	sess, err := session.Decode(token)
	if err != nil {
		return nil, util.Wrap(util.KindAuthentication, "server returned an unusable token", err)
	}
	if err := c.store.Save(ctx, token); err != nil {
		return nil, err
	}
	return sess, nil
}
