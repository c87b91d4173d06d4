package store

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs_MatchesSentinelThroughWithMessage(t *testing.T) {
	err := ErrNotFound.WithMessage("video not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestErrorIs_MatchesSentinelThroughWithCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := ErrInvalidInput.WithCause(cause)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, cause)
}

func TestErrorIs_MatchesWrappedSentinel(t *testing.T) {
	err := fmt.Errorf("toggle like: %w", ErrNotFound.WithMessage("video not found"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestErrorHTTPCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrNotFound.HTTPCode())
	assert.Equal(t, http.StatusConflict, ErrAlreadyExists.HTTPCode())
	assert.Equal(t, http.StatusBadRequest, ErrInvalidInput.WithMessage("bad reaction").HTTPCode())
}
