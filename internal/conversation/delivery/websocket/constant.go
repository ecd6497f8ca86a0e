package websocket

import "time"

const (
	LogPrefixServe   = "internal.conversation.delivery.websocket.Serve"
	LogPrefixRunTurn = "internal.conversation.delivery.websocket.runTurn"
)

// Outbound frame types.
const (
	FrameConnection = "connection"
	FrameThinking   = "thinking"
	FrameResponse   = "response"
	FrameError      = "error"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10

	limiterCapacity = 1000
	limiterTTL      = 5 * time.Minute

	DefaultRateLimitPerMin = 30
)

// User-facing error texts.
const (
	ErrMsgInvalidJSON    = "invalid message format"
	ErrMsgEmptyMessage   = "message is required"
	ErrMsgInvalidDate    = "todaysDate must be YYYY-MM-DD"
	ErrMsgRateLimited    = "too many messages, slow down"
	ErrMsgTurnInProgress = "still working on your previous message"
	ErrMsgInvalidHistory = "invalid conversationHistory"
	ErrMsgInternal       = "something went wrong"
)
