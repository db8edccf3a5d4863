package domain

import "time"

// AuthorizationStatus enumerates lifecycle states for an accountant
// authorization.
type AuthorizationStatus string

const (
	AuthorizationUnauthorized AuthorizationStatus = "unauthorized"
	AuthorizationPending      AuthorizationStatus = "pending"
	AuthorizationApproved     AuthorizationStatus = "approved"
	AuthorizationRejected     AuthorizationStatus = "rejected"
)

// ParseAuthorizationStatus maps a wire value onto the closed status set.
// Some deployments report "authorized" for an approved linkage.
func ParseAuthorizationStatus(raw string) (AuthorizationStatus, bool) {
	switch raw {
	case string(AuthorizationUnauthorized):
		return AuthorizationUnauthorized, true
	case string(AuthorizationPending):
		return AuthorizationPending, true
	case string(AuthorizationApproved), "authorized":
		return AuthorizationApproved, true
	case string(AuthorizationRejected):
		return AuthorizationRejected, true
	default:
		return "", false
	}
}

// CanTransition reports whether moving from s to target is a legal
// state-machine step. Requesting again after a rejection is allowed;
// every other move not listed is refused before a network call is made.
func (s AuthorizationStatus) CanTransition(target AuthorizationStatus) bool {
	switch s {
	case AuthorizationUnauthorized, AuthorizationRejected:
		return target == AuthorizationPending
	case AuthorizationPending:
		return target == AuthorizationApproved || target == AuthorizationRejected
	case AuthorizationApproved:
		return target == AuthorizationUnauthorized
	default:
		return false
	}
}

// AuthorizationRequest is the record governing whether an accountant may
// act on a user's financial data. Exactly one current status exists per
// (user, accountant) pair; records are status-transitioned, never
// hard-deleted.
type AuthorizationRequest struct {
	ID              string
	PrincipalUserID string
	AccountantID    string
	Status          AuthorizationStatus
	CreatedAt       time.Time
}
