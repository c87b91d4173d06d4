package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidCredentials, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_Is(t *testing.T) {
	err := NotFound("video not found")
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
}

func TestError_WithCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Internal("write failed").WithCause(cause)

	assert.Contains(t, err.Error(), "write failed")
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, cause, Unwrap(err))
}

func TestInvalidCredentials_Indistinguishable(t *testing.T) {
	// Unknown email and wrong password must produce identical responses.
	a := InvalidCredentials()
	b := InvalidCredentials()

	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.HTTPStatus(), b.HTTPStatus())
}
