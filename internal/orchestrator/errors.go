package orchestrator

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMessage  = errors.New("orchestrator: empty message")
	ErrEmptyResponse = errors.New("orchestrator: empty model response")
)

// TurnError aborts a turn before anything is committed. Error() carries
// the internal cause; UserMessage is safe to show.
type TurnError struct {
	Stage string
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %s: %v", e.Stage, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// UserMessage is the text sent to the client.
func (e *TurnError) UserMessage() string {
	if errors.Is(e.Err, ErrEmptyMessage) {
		return "Message must not be empty."
	}
	return MsgTurnFailed
}
