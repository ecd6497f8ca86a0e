package gatherer

import "errors"

var (
	ErrEmptyIntent   = errors.New("gatherer: intent is required")
	ErrEmptySourceID = errors.New("gatherer: source id is required")
	ErrNilHandler    = errors.New("gatherer: handler is nil")
	ErrHandlerPanic  = errors.New("gatherer: handler panicked")
)
