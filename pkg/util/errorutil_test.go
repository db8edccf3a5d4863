package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatusClassification(t *testing.T) {
	cases := map[int]ErrorKind{
		http.StatusBadRequest:          KindValidation,
		http.StatusUnprocessableEntity: KindValidation,
		http.StatusUnauthorized:        KindAuthentication,
		http.StatusForbidden:           KindAuthorization,
		http.StatusConflict:            KindAuthorization,
		http.StatusInternalServerError: KindNetwork,
		http.StatusBadGateway:          KindNetwork,
	}
	for status, want := range cases {
		err := FromStatus(status, "msg")
		assert.Equal(t, want, KindOf(err), "status %d", status)
	}
}

func TestKindOfUnwrapsChains(t *testing.T) {
	cause := errors.New("socket closed")
	err := fmt.Errorf("sending request: %w", NewNetwork("request failed", cause))

	assert.Equal(t, KindNetwork, KindOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestKindOfDefaultsToNetwork(t *testing.T) {
	assert.Equal(t, KindNetwork, KindOf(errors.New("anything")))
	assert.False(t, IsKind(nil, KindNetwork))
}

func TestClientErrorMessage(t *testing.T) {
	err := Wrap(KindValidation, "bad input", errors.New("field empty"))
	assert.Equal(t, "bad input: field empty", err.Error())

	plain := New(KindAuthorization, "not allowed")
	assert.Equal(t, "not allowed", plain.Error())
}
