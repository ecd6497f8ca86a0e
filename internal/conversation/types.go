package conversation

import (
	"time"

	"intent-assistant/internal/model"
)

// Summary is a diagnostic view of one connection.
type Summary struct {
	ConnectionID       string    `json:"connection_id"`
	SessionID          string    `json:"session_id"`
	Intent             string    `json:"intent"`
	MessageCount       int       `json:"message_count"`
	CollectedCount     int       `json:"collected_count"`
	MissingCount       int       `json:"missing_count"`
	RequiredMissing    []string  `json:"required_missing"`
	AllRequiredPresent bool      `json:"all_required_present"`
	LastUpdated        time.Time `json:"last_updated"`
}

// Mutator changes a context in place. Returning an error discards every
// change it made.
type Mutator func(c *model.ConversationContext) error
