package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"intent-assistant/internal/conversation"
	"intent-assistant/internal/orchestrator"
	"intent-assistant/pkg/log"
)

// @Summary Chat over WebSocket
// @Description Upgrades to a WebSocket. Send {"message", "userTasks", "todaysDate", "conversationHistory"}; receive connection, thinking, response and error frames.
// @Tags Conversation
// @Success 101 {string} string "Switching Protocols"
// @Router /ws/chat [get]
func (h *handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.l.Warnf(c.Request.Context(), "%s: upgrade: %v", LogPrefixServe, err)
		return
	}

	s := &session{id: h.newID(), conn: conn}
	ctx := log.WithConnectionID(context.WithoutCancel(c.Request.Context()), s.id)
	addr := remoteAddr(c.Request)

	var (
		turns sync.WaitGroup
		done  = make(chan struct{})
		pings sync.WaitGroup
	)
	pings.Add(1)
	go func() {
		defer pings.Done()
		h.keepAlive(s, done)
	}()

	defer func() {
		h.store.Remove(s.id)
		close(done)
		s.close()
		pings.Wait()
		turns.Wait()
		h.l.Infof(ctx, "%s: closed", LogPrefixServe)
	}()

	if err := s.write(connectionFrame{Type: FrameConnection, ConnectionID: s.id}); err != nil {
		return
	}
	h.l.Infof(ctx, "%s: connected from %s", LogPrefixServe, addr)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.l.Warnf(ctx, "%s: read: %v", LogPrefixServe, err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		if !h.limiter.Allow(addr) {
			_ = s.sendError(ErrMsgRateLimited)
			continue
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			_ = s.sendError(ErrMsgInvalidJSON)
			continue
		}
		if reason := msg.validate(); reason != "" {
			_ = s.sendError(reason)
			continue
		}

		turn, err := h.store.BeginTurn(s.id)
		if err != nil {
			if errors.Is(err, conversation.ErrTurnInProgress) {
				_ = s.sendError(ErrMsgTurnInProgress)
				continue
			}
			h.l.Errorf(ctx, "%s: begin turn: %v", LogPrefixServe, err)
			_ = s.sendError(ErrMsgInternal)
			continue
		}

		if len(msg.ConversationHistory) > 0 {
			if err := turn.Seed("", msg.history()); err != nil {
				turn.End()
				h.l.Warnf(ctx, "%s: seed: %v", LogPrefixServe, err)
				_ = s.sendError(ErrMsgInvalidHistory)
				continue
			}
		}

		turns.Add(1)
		go func() {
			defer turns.Done()
			defer turn.End()
			h.runTurn(ctx, s, turn, msg.toInbound())
		}()
	}
}

func (h *handler) runTurn(ctx context.Context, s *session, turn *conversation.Turn, in orchestrator.Inbound) {
	notify := orchestrator.NotifierFunc(func(ctx context.Context, step, details string) {
		_ = s.write(thinkingFrame{Type: FrameThinking, Step: step, Details: details})
	})

	res, err := h.turns.HandleTurn(ctx, turn, in, notify)
	if err != nil {
		if errors.Is(err, conversation.ErrConnectionClosed) {
			h.l.Debugf(ctx, "%s: connection closed mid-turn, result discarded", LogPrefixRunTurn)
			return
		}
		var terr *orchestrator.TurnError
		if errors.As(err, &terr) {
			_ = s.sendError(terr.UserMessage())
			return
		}
		h.l.Errorf(ctx, "%s: %v", LogPrefixRunTurn, err)
		_ = s.sendError(ErrMsgInternal)
		return
	}

	if err := s.write(responseFrame{Type: FrameResponse, Content: res.Content, Outcome: toOutcomeResp(res)}); err != nil {
		h.l.Debugf(ctx, "%s: write response: %v", LogPrefixRunTurn, err)
	}
}

func (h *handler) keepAlive(s *session, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := s.ping(); err != nil {
				return
			}
		}
	}
}
