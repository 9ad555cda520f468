package core

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable is returned by a backend that cannot be used at all
// (missing credential or client). It drives selection only and is never
// surfaced to callers of the detection pipeline.
var ErrBackendUnavailable = errors.New("llm backend unavailable")

// BackendError wraps a failure from an attempted backend call (network,
// quota, malformed payload). It causes degradation to the default verdict.
type BackendError struct {
	Provider string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend error: %v", e.Provider, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
