package http

import (
	"intent-assistant/internal/conversation"
	"intent-assistant/internal/schema"
	"intent-assistant/pkg/log"
)

type handler struct {
	l     log.Logger
	store *conversation.Store
	reg   *schema.Registry
}

// New creates the diagnostics handler for conversations and intents.
func New(l log.Logger, store *conversation.Store, reg *schema.Registry) *handler {
	return &handler{
		l:     l,
		store: store,
		reg:   reg,
	}
}
