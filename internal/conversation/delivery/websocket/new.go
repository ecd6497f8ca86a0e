// Package websocket serves the chat transport on /ws/chat.
package websocket

import (
	"context"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"intent-assistant/internal/conversation"
	"intent-assistant/internal/orchestrator"
	"intent-assistant/pkg/log"
)

// TurnHandler runs one conversation turn.
type TurnHandler interface {
	HandleTurn(ctx context.Context, turn *conversation.Turn, in orchestrator.Inbound, n orchestrator.Notifier) (orchestrator.TurnResult, error)
}

var _ TurnHandler = (*orchestrator.Orchestrator)(nil)

// Config tunes the transport.
type Config struct {
	RateLimitPerMin int
	AllowedOrigins  []string
}

type handler struct {
	l        log.Logger
	store    *conversation.Store
	turns    TurnHandler
	limiter  *rateLimiter
	upgrader websocket.Upgrader
	newID    func() string
}

func New(l log.Logger, store *conversation.Store, turns TurnHandler, cfg Config) *handler {
	h := &handler{
		l:       l,
		store:   store,
		turns:   turns,
		limiter: newRateLimiter(cfg.RateLimitPerMin),
		newID:   uuid.NewString,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
