package model

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrEmptyConnectionID = errors.New("model: connection id is required")
	ErrUnknownRole       = errors.New("model: unknown message role")
	ErrVariableOverlap   = errors.New("model: variable is both collected and missing")
)

// ChatMessage is one entry of a conversation history.
type ChatMessage struct {
	Role      string
	Text      string
	Timestamp time.Time
}

// MissingVariable describes a field the current intent still needs.
type MissingVariable struct {
	Name         string
	IsRequired   bool
	Description  string
	StrategyHint string
}

// ConversationContext is the state kept for a single connection.
// Create it with NewConversationContext; mutate it only through its methods.
type ConversationContext struct {
	ConnectionID       string
	SessionID          string
	Messages           []ChatMessage
	CurrentIntent      string
	CollectedVariables map[string]any
	MissingVariables   []MissingVariable
	LastUpdated        time.Time
}

// Partition is the collected/missing split of a context's variables.
type Partition struct {
	Collected       []string
	Missing         []string
	RequiredMissing []string
}

// NewConversationContext returns an empty context for the given connection.
func NewConversationContext(connectionID, sessionID string, now time.Time) (*ConversationContext, error) {
	if connectionID == "" {
		return nil, ErrEmptyConnectionID
	}
	return &ConversationContext{
		ConnectionID:       connectionID,
		SessionID:          sessionID,
		CollectedVariables: map[string]any{},
		LastUpdated:        now,
	}, nil
}

// AppendMessage adds a message to the history.
func (c *ConversationContext) AppendMessage(role, text string, at time.Time) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	c.Messages = append(c.Messages, ChatMessage{Role: role, Text: text, Timestamp: at})
	c.LastUpdated = at
	return nil
}

// SetIntent switches the current intent. Changing to a different intent
// clears everything collected for the previous one.
func (c *ConversationContext) SetIntent(intent string) {
	if intent != c.CurrentIntent {
		c.CollectedVariables = map[string]any{}
		c.MissingVariables = nil
	}
	c.CurrentIntent = intent
}

// SetVariables replaces the collected and missing sets. It fails when a name
// appears in both.
func (c *ConversationContext) SetVariables(collected map[string]any, missing []MissingVariable) error {
	for _, m := range missing {
		if _, ok := collected[m.Name]; ok {
			return fmt.Errorf("%w: %s", ErrVariableOverlap, m.Name)
		}
	}

	next := make(map[string]any, len(collected))
	for k, v := range collected {
		next[k] = copyValue(v)
	}
	c.CollectedVariables = next
	c.MissingVariables = append([]MissingVariable(nil), missing...)
	return nil
}

// Partition reports the variable names on each side, sorted.
func (c *ConversationContext) Partition() Partition {
	p := Partition{
		Collected: make([]string, 0, len(c.CollectedVariables)),
		Missing:   make([]string, 0, len(c.MissingVariables)),
	}
	for name := range c.CollectedVariables {
		p.Collected = append(p.Collected, name)
	}
	for _, m := range c.MissingVariables {
		p.Missing = append(p.Missing, m.Name)
		if m.IsRequired {
			p.RequiredMissing = append(p.RequiredMissing, m.Name)
		}
	}
	sort.Strings(p.Collected)
	sort.Strings(p.Missing)
	sort.Strings(p.RequiredMissing)
	return p
}

// RecentMessages returns at most n trailing messages.
func (c *ConversationContext) RecentMessages(n int) []ChatMessage {
	if n <= 0 || len(c.Messages) <= n {
		return append([]ChatMessage(nil), c.Messages...)
	}
	return append([]ChatMessage(nil), c.Messages[len(c.Messages)-n:]...)
}

// Clone returns a deep copy.
func (c *ConversationContext) Clone() ConversationContext {
	out := *c
	out.Messages = append([]ChatMessage(nil), c.Messages...)
	out.MissingVariables = append([]MissingVariable(nil), c.MissingVariables...)
	out.CollectedVariables = make(map[string]any, len(c.CollectedVariables))
	for k, v := range c.CollectedVariables {
		out.CollectedVariables[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = copyValue(vv)
		}
		return out
	default:
		return v
	}
}
