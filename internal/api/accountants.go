package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mattaxpro/client-go/internal/api/dto"
	"github.com/mattaxpro/client-go/internal/domain"
)

// ListInvitations returns every authorization record involving the
// given user, the full snapshot the workflow controller reconciles
// against.
func (c *Client) ListInvitations(ctx context.Context, userID string) ([]dto.AuthorizationRequestResponse, error) {
	var invitations []dto.AuthorizationRequestResponse
	path := "/accountant/getall-invitation/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &invitations, "could not load authorization requests"); err != nil {
		return nil, err
	}
	return invitations, nil
}

// GetAuthorizedUsers returns the users an accountant currently has
// approved access to.
func (c *Client) GetAuthorizedUsers(ctx context.Context, accountantID string) ([]dto.AuthorizedUserResponse, error) {
	var users []dto.AuthorizedUserResponse
	path := "/accountant/get-authorize-user/" + url.PathEscape(accountantID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &users, "could not load authorized users"); err != nil {
		return nil, err
	}
	return users, nil
}

// RequestAuthorization asks an accountant for access on behalf of the
// signed-in user.
func (c *Client) RequestAuthorization(ctx context.Context, accountantID string) (*dto.AuthorizationRequestResponse, error) {
	payload := dto.RequestAuthorizationPayload{AccountantID: accountantID}
	var created dto.AuthorizationRequestResponse
	if err := c.do(ctx, http.MethodPost, "/accountant/auth", nil, payload, &created, "could not request authorization"); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAuthorizationStatus applies an accountant's approve/reject
// decision.
func (c *Client) UpdateAuthorizationStatus(ctx context.Context, requestID string, status domain.AuthorizationStatus) error {
	payload := dto.UpdateAuthorizationStatusPayload{RequestID: requestID, Status: string(status)}
	return c.do(ctx, http.MethodPut, "/accountant/update-status", nil, payload, nil, "could not update authorization status")
}

// RemoveAuthorization revokes previously approved access.
func (c *Client) RemoveAuthorization(ctx context.Context, requestID string) error {
	payload := dto.RemoveAuthorizationPayload{RequestID: requestID}
	return c.do(ctx, http.MethodDelete, "/accountant/remove-auth", nil, payload, nil, "could not revoke authorization")
}
