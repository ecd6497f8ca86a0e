package gatherer

import (
	"context"
	"time"

	"intent-assistant/internal/model"
	"intent-assistant/internal/strategy"
)

// Handler fetches supplementary data for one context source.
type Handler func(ctx context.Context, in HandlerInput) (HandlerResult, error)

// HandlerInput is what a handler sees of the turn.
type HandlerInput struct {
	Intent         string
	Message        string
	Fields         []string
	OriginalOutput map[string]any
	Conversation   model.ConversationContext
	UserTasks      []string
}

// HandlerResult is a handler's payload plus the provenance of each item.
type HandlerResult struct {
	Data    any
	Sources []string
}

// Attempt records one earlier gathering pass.
type Attempt struct {
	Sources []string
	Fields  []string
}

// Request describes one gathering pass. Conversation already ends with
// Message.
type Request struct {
	Intent         string
	Message        string
	OriginalOutput map[string]any
	Conversation   model.ConversationContext
	MissingFields  []string
	Plan           strategy.Plan
	PriorAttempts  []Attempt
	UserTasks      []string
}

// SourceResult is the outcome of one handler call.
type SourceResult struct {
	SourceID   string
	Kind       SourceKind
	Success    bool
	Error      string
	Data       any
	Provenance []string
	Duration   time.Duration
}

// GatheredValue is one candidate for a field.
type GatheredValue struct {
	SourceID   string
	Data       any
	Provenance []string
	Confidence float64
}

// FieldContext holds a field's candidates, highest confidence first.
type FieldContext struct {
	Values []GatheredValue
}

// EnrichedContext is the bundle handed to the retry.
type EnrichedContext struct {
	Intent        string
	Message       string
	History       []model.ChatMessage
	Collected     map[string]any
	MissingFields []string
	Fields        map[string]FieldContext
	SourceResults []SourceResult
	PriorAttempts []Attempt
}

// Succeeded reports how many sources returned data.
func (e EnrichedContext) Succeeded() int {
	n := 0
	for _, r := range e.SourceResults {
		if r.Success {
			n++
		}
	}
	return n
}

type registration struct {
	kind    SourceKind
	handler Handler
}
