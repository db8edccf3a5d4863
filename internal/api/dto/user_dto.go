package dto

import (
	"time"

	"github.com/mattaxpro/client-go/internal/domain"
)

// UserResponse mirrors the server's user profile shape.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// User converts the wire shape to the domain model.
func (u UserResponse) User() domain.User {
	role, _ := domain.ParseRole(u.Role)
	return domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      role,
		CreatedAt: u.CreatedAt,
	}
}

// UpdateUserPayload payload for profile edits.
type UpdateUserPayload struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// AccountantSummary is a discoverable accountant.
type AccountantSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
