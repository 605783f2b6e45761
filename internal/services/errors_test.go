package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ConfigurationError{Message: "m"}, CodeConfiguration},
		{&ValidationError{}, CodeValidation},
		{&InvalidResponseError{Message: "m"}, CodeInvalidResponse},
		{&TransportError{Service: "s", Err: errors.New("x")}, CodeTransport},
		{&PersistenceError{Op: "o", Err: errors.New("x")}, CodePersistence},
		{&NotFoundError{Message: "m"}, CodeNotFound},
		{&UnauthorizedError{Message: "m"}, CodeUnauthorized},
		{fmt.Errorf("wrapped: %w", &TransportError{Service: "s", Err: errors.New("x")}), CodeTransport},
		{errors.New("plain"), CodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, ErrorCode(tc.err))
		})
	}
}

func TestInvalidResponseErrorUnwraps(t *testing.T) {
	inner := errors.New("bad json")
	err := &InvalidResponseError{Message: "AI response is not valid JSON", Raw: "{", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "AI response is not valid JSON: bad json", err.Error())
}
