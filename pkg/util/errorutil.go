package util

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies client errors for presentation: authentication
// failures redirect to login, authorization and validation failures stay
// inline, network failures get a retry affordance.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "AUTHENTICATION"
	KindAuthorization  ErrorKind = "AUTHORIZATION"
	KindValidation     ErrorKind = "VALIDATION"
	KindNetwork        ErrorKind = "NETWORK"
)

// ClientError standardizes errors surfaced by the SDK.
type ClientError struct {
	Kind       ErrorKind
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// New constructs a ClientError of the given kind.
func New(kind ErrorKind, message string) *ClientError {
	return &ClientError{Kind: kind, Message: message}
}

// Wrap constructs a ClientError wrapping an underlying cause.
func Wrap(kind ErrorKind, message string, err error) *ClientError {
	return &ClientError{Kind: kind, Message: message, Err: err}
}

func NewAuthentication(message string) error {
	return &ClientError{Kind: KindAuthentication, Message: message, HTTPStatus: http.StatusUnauthorized}
}

func NewAuthorization(message string) error {
	return New(KindAuthorization, message)
}

func NewValidation(message string) error {
	return New(KindValidation, message)
}

func NewNetwork(message string, err error) error {
	return Wrap(KindNetwork, message, err)
}

// FromStatus maps a non-success HTTP status onto the error taxonomy.
// 401 is not handled here; the transport routes it through the shared
// unauthorized handler before constructing an error.
func FromStatus(status int, message string) error {
	kind := KindNetwork
	switch {
	case status == http.StatusForbidden || status == http.StatusConflict:
		kind = KindAuthorization
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = KindValidation
	case status == http.StatusUnauthorized:
		kind = KindAuthentication
	}
	return &ClientError{Kind: kind, Message: message, HTTPStatus: status}
}

// KindOf extracts the classification from an error chain, defaulting to
// KindNetwork for errors the SDK did not construct.
func KindOf(err error) ErrorKind {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindNetwork
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
