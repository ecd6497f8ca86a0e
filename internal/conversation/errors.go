package conversation

import (
	"errors"
	"fmt"
)

var (
	ErrTurnInProgress    = errors.New("conversation: a turn is already in progress")
	ErrConnectionClosed  = errors.New("conversation: connection closed")
	ErrUnknownConnection = errors.New("conversation: unknown connection")
	ErrTurnEnded         = errors.New("conversation: turn already ended")
	ErrNilMutator        = errors.New("conversation: nil mutator")
)

// StateError reports an operation on a connection that has no live state.
type StateError struct {
	ConnectionID string
	Err          error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("connection %s: %v", e.ConnectionID, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}
