package session

import (
	"errors"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/mattaxpro/client-go/internal/domain"
)

// ErrNoSession is returned when no token is stored. Callers treat it the
// same as a decode failure: fail closed, no session.
var ErrNoSession = errors.New("no session")

// DecodeError reports a token that is present but unusable.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid session token: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid session token: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Claims describes the token payload the client cares about.
type Claims struct {
	SubjectID     string   `json:"sub"`
	Role          string   `json:"role"`
	AllowedRoutes []string `json:"allowedRoutes"`
	jwt.RegisteredClaims
}

// Decode extracts a Session from the raw persisted token. The signature
// is NOT verified: the result is a routing convenience the token holder
// could forge, never a security boundary. The server re-checks every
// request.
//
// A session is valid only when the token parses, carries a known role
// and has a non-empty allowedRoutes claim; anything else is an error and
// means "no session" to callers.
func Decode(raw string) (*domain.Session, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoSession
	}

	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil, &DecodeError{Reason: "malformed token", Err: err}
	}

	if claims.SubjectID == "" {
		return nil, &DecodeError{Reason: "missing subject claim"}
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, &DecodeError{Reason: "unusable role claim", Err: err}
	}

	if len(claims.AllowedRoutes) == 0 {
		return nil, &DecodeError{Reason: "empty allowedRoutes claim"}
	}
	routes := make([]domain.Route, 0, len(claims.AllowedRoutes))
	for _, r := range claims.AllowedRoutes {
		routes = append(routes, domain.Route(r))
	}

	return &domain.Session{
		SubjectID:     claims.SubjectID,
		Role:          role,
		AllowedRoutes: routes,
	}, nil
}
