package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mattaxpro/client-go/internal/api/dto"
)

// GetUser fetches a user profile.
func (c *Client) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	var user dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/user/"+url.PathEscape(id), nil, nil, &user, "could not load profile"); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser edits a user profile.
func (c *Client) UpdateUser(ctx context.Context, id string, payload dto.UpdateUserPayload) (*dto.UserResponse, error) {
	var user dto.UserResponse
	if err := c.do(ctx, http.MethodPut, "/user/"+url.PathEscape(id), nil, payload, &user, "could not update profile"); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUserAccountants returns the accountants linked to a user.
func (c *Client) ListUserAccountants(ctx context.Context, userID string) ([]dto.AccountantSummary, error) {
	var accountants []dto.AccountantSummary
	path := "/user/accountants/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &accountants, "could not load accountants"); err != nil {
		return nil, err
	}
	return accountants, nil
}

// AccountantByEmail looks up an accountant for the request-access flow.
func (c *Client) AccountantByEmail(ctx context.Context, email string) (*dto.AccountantSummary, error) {
	var accountant dto.AccountantSummary
	path := "/user/accountant-by-email/" + url.PathEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &accountant, "could not find accountant"); err != nil {
		return nil, err
	}
	return &accountant, nil
}
