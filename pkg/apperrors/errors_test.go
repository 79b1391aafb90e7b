package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPError_Error(t *testing.T) {
	err := &HTTPError{StatusCode: http.StatusNotFound, URL: "https://pure.example.com/ws/api/persons/abc"}
	assert.Equal(t, "request to https://pure.example.com/ws/api/persons/abc failed with status 404", err.Error())
}

func TestIsHTTPStatus(t *testing.T) {
	wrapped := fmt.Errorf("failed to resolve supervisor: %w", &HTTPError{StatusCode: http.StatusNotFound})

	assert.True(t, IsHTTPStatus(wrapped, http.StatusNotFound))
	assert.False(t, IsHTTPStatus(wrapped, http.StatusInternalServerError))
	assert.False(t, IsHTTPStatus(errors.New("plain"), http.StatusNotFound))
	assert.False(t, IsHTTPStatus(nil, http.StatusNotFound))
}

func TestSentinels_WrapWithMultipleVerbs(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("%w: failed to delete suggestions: %w", ErrStorage, cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
}
