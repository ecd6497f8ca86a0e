package retry

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyResponse = errors.New("retry: empty model response")
	ErrUnknownIntent = errors.New("retry: unknown intent")
)

// RetryError reports why the single retry did not produce output.
type RetryError struct {
	Stage string
	Err   error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("retry %s: %v", e.Stage, e.Err)
}

func (e *RetryError) Unwrap() error {
	return e.Err
}
