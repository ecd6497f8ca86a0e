package orchestrator

import "context"

// State is a step of the turn state machine.
type State int

const (
	StateIngested State = iota
	StateFirstPassComplete
	StateValidated
	StateAskingUser
	StateTryingHarder
	StateDefaultsApplied
	StateIgnored
	StateEnhanced
	StateResponded
)

func (s State) String() string {
	switch s {
	case StateIngested:
		return "ingested"
	case StateFirstPassComplete:
		return "first_pass_complete"
	case StateValidated:
		return "validated"
	case StateAskingUser:
		return "asking_user"
	case StateTryingHarder:
		return "trying_harder"
	case StateDefaultsApplied:
		return "defaults_applied"
	case StateIgnored:
		return "ignored"
	case StateEnhanced:
		return "enhanced"
	case StateResponded:
		return "responded"
	default:
		return "unknown"
	}
}

// Notifier receives a progress notice on every state transition.
type Notifier interface {
	Thinking(ctx context.Context, step, details string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, step, details string)

func (f NotifierFunc) Thinking(ctx context.Context, step, details string) { f(ctx, step, details) }

// Inbound is one user message with its client-side context.
type Inbound struct {
	Message    string
	UserTasks  []string
	TodaysDate string
}

// FirstPassOutput is what the model extracted from the message.
type FirstPassOutput struct {
	Intent        string         `json:"intent"`
	Fields        map[string]any `json:"fields"`
	Clarification string         `json:"clarification"`
	Reply         string         `json:"reply"`
}

// Outcome is the single resolution of a turn. The set is closed:
// AskUserOutcome, ProceedWithDefaults, ProceedIgnoring, ProceedEnhanced.
type Outcome interface {
	Kind() string
	isOutcome()
}

// AskUserOutcome asks the user for every missing field at once.
type AskUserOutcome struct {
	Message       string
	MissingFields []string
}

// ProceedWithDefaults proceeds after filling optional gaps with defaults.
type ProceedWithDefaults struct {
	AppliedFields []string
	IgnoredFields []string
}

// ProceedIgnoring proceeds without the listed optional fields.
type ProceedIgnoring struct {
	IgnoredFields []string
}

// ProceedEnhanced proceeds with the output of the single retry.
type ProceedEnhanced struct {
	EnhancedOutput map[string]any
	Sources        []string
}

func (AskUserOutcome) Kind() string      { return "ask_user" }
func (ProceedWithDefaults) Kind() string { return "proceed_with_defaults" }
func (ProceedIgnoring) Kind() string     { return "proceed_ignoring" }
func (ProceedEnhanced) Kind() string     { return "proceed_enhanced" }

func (AskUserOutcome) isOutcome()      {}
func (ProceedWithDefaults) isOutcome() {}
func (ProceedIgnoring) isOutcome()     {}
func (ProceedEnhanced) isOutcome()     {}

// TurnResult is what a committed turn produced.
type TurnResult struct {
	Intent  string
	Content string
	Outcome Outcome
	Fields  map[string]any
	Path    []State
	Retried bool
}
