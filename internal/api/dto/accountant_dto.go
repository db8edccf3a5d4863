package dto

import (
	"time"

	"github.com/mattaxpro/client-go/internal/domain"
)

// AuthorizationRequestResponse mirrors the server's accountant
// authorization record.
type AuthorizationRequestResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	AccountantID string    `json:"accountantId"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AuthorizationRequest converts the wire shape to the domain model.
// Unrecognized status values map to unauthorized so an unknown state is
// treated as "no access" rather than guessed at.
func (a AuthorizationRequestResponse) AuthorizationRequest() domain.AuthorizationRequest {
	status, ok := domain.ParseAuthorizationStatus(a.Status)
	if !ok {
		status = domain.AuthorizationUnauthorized
	}
	return domain.AuthorizationRequest{
		ID:              a.ID,
		PrincipalUserID: a.UserID,
		AccountantID:    a.AccountantID,
		Status:          status,
		CreatedAt:       a.CreatedAt,
	}
}

// RequestAuthorizationPayload payload for requesting access.
type RequestAuthorizationPayload struct {
	AccountantID string `json:"accountantId"`
}

// UpdateAuthorizationStatusPayload payload for approve/reject.
type UpdateAuthorizationStatusPayload struct {
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
}

// RemoveAuthorizationPayload payload for revoking access.
type RemoveAuthorizationPayload struct {
	RequestID string `json:"requestId"`
}

// AuthorizedUserResponse is a user an accountant may act for.
type AuthorizedUserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
