package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackendErrorUnwrap(t *testing.T) {
	err := &BackendError{Provider: "gemini", Err: ErrBackendUnavailable}

	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "gemini")

	var backendErr *BackendError
	assert.True(t, errors.As(error(err), &backendErr))
	assert.Equal(t, "gemini", backendErr.Provider)
}
