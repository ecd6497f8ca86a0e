package websocket

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"intent-assistant/internal/conversation"
	"intent-assistant/internal/orchestrator"
	"intent-assistant/pkg/log"
)

type fakeTurns struct {
	handle func(ctx context.Context, turn *conversation.Turn, in orchestrator.Inbound, n orchestrator.Notifier) (orchestrator.TurnResult, error)
}

func (f *fakeTurns) HandleTurn(ctx context.Context, turn *conversation.Turn, in orchestrator.Inbound, n orchestrator.Notifier) (orchestrator.TurnResult, error) {
	return f.handle(ctx, turn, in, n)
}

func askResult(in orchestrator.Inbound) orchestrator.TurnResult {
	return orchestrator.TurnResult{
		Intent:  "create-task",
		Content: "What is the title?",
		Outcome: orchestrator.AskUserOutcome{Message: "What is the title?", MissingFields: []string{"title"}},
	}
}

type frame struct {
	Type         string      `json:"type"`
	ConnectionID string      `json:"connectionId"`
	Step         string      `json:"step"`
	Details      string      `json:"details"`
	Content      string      `json:"content"`
	Error        string      `json:"error"`
	Outcome      outcomeResp `json:"outcome"`
}

// startServer serves h and dials it, returning the client and the
// connection frame already read.
func startServer(t *testing.T, store *conversation.Store, turns TurnHandler, cfg Config) (*websocket.Conn, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := New(log.NewNop(), store, turns, cfg)
	ignore := goleak.IgnoreCurrent()
	t.Cleanup(func() { goleak.VerifyNone(t, ignore) })

	r := gin.New()
	RegisterRoutes(r, h)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	f := readFrame(t, conn)
	require.Equal(t, FrameConnection, f.Type)
	require.NotEmpty(t, f.ConnectionID)
	return conn, f.ConnectionID
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func TestChatTurn(t *testing.T) {
	store := conversation.New(log.NewNop())
	turns := &fakeTurns{handle: func(ctx context.Context, turn *conversation.Turn, in orchestrator.Inbound, n orchestrator.Notifier) (orchestrator.TurnResult, error) {
		n.Thinking(ctx, "ingested", "reading your message")
		n.Thinking(ctx, "validated", "0 collected, 1 missing")
		assert.Equal(t, "add a task", in.Message)
		assert.Equal(t, []string{"Buy milk"}, in.UserTasks)
		return askResult(in), nil
	}}

	conn, _ := startServer(t, store, turns, Config{})
	send(t, conn, map[string]any{"message": " add a task ", "userTasks": []string{"Buy milk"}, "todaysDate": "2026-10-18"})

	assert.Equal(t, frame{Type: FrameThinking, Step: "ingested", Details: "reading your message"}, readFrame(t, conn))
	assert.Equal(t, FrameThinking, readFrame(t, conn).Type)

	resp := readFrame(t, conn)
	assert.Equal(t, FrameResponse, resp.Type)
	assert.Equal(t, "What is the title?", resp.Content)
	assert.Equal(t, "ask_user", resp.Outcome.Kind)
	assert.Equal(t, []string{"title"}, resp.Outcome.MissingFields)
}

func TestChatRejectsBadInput(t *testing.T) {
	turns := &fakeTurns{handle: func(ctx context.Context, turn *conversation.Turn, in orchestrator.Inbound, n orchestrator.Notifier) (orchestrator.TurnResult, error) {
		t.Error("turn should not run")
		return orchestrator.TurnResult{}, nil
	}}
	conn, _ := startServer(t, conversation.New(log.NewNop()), turns, Config{RateLimitPerMin: 600})

	tests := []struct {
		payload string
		want    string
	}{
		{`{not json`, ErrMsgInvalidJSON},
		{`{"message": "  "}`, ErrMsgEmptyMessage},
		{`{"message": "hi", "todaysDate": "18/10/2026"}`, ErrMsgInvalidDate},
		{`{"message": "hi", "conversationHistory": [{"role": "system", "text": "x"}]}`, ErrMsgInvalidHistory},
	}
	for _, tc := range tests {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tc.payload)))
		f := readFrame(t, conn)
		assert.Equal(t, FrameError, f.Type)
		assert.Equal(t, tc.want, f.Error)
	}
}

func TestChatTurnInProgress(t *testing.T) {
	release := make(chan struct{})
	turns := &fakeTurns{handle: func(ctx context.Context, turn *conversation.Turn, in orchestrator.Inbound, n orchestrator.Notifier) (orchestrator.TurnResult, error) {
		<-release
		return askResult(in), nil
	}}
	conn, _ := startServer(t, conversation.New(log.NewNop()), turns, Config{RateLimitPerMin: 600})

	send(t, conn, map[string]any{"message": "first"})
	send(t, conn, map[string]any{"message": "second"})

	f := readFrame(t, conn)
	assert.Equal(t, FrameError, f.Type)
	assert.Equal(t, ErrMsgTurnInProgress, f.Error)

	close(release)
	assert.Equal(t, FrameResponse, readFrame(t, conn).Type)
}

func TestChatOverlappingHistoryIsNotSeeded(t *testing.T) {
	store := conversation.New(log.NewNop())
	release := make(chan struct{})
	turns := &fakeTurns{handle: func(ctx context.Context, turn *conversation.Turn, in orchestrator.Inbound, n orchestrator.Notifier) (orchestrator.TurnResult, error) {
		<-release
		return askResult(in), nil
	}}
	conn, id := startServer(t, store, turns, Config{RateLimitPerMin: 600})

	send(t, conn, map[string]any{"message": "first"})
	send(t, conn, map[string]any{
		"message":             "second",
		"conversationHistory": []map[string]string{{"role": "user", "text": "injected"}},
	})

	f := readFrame(t, conn)
	assert.Equal(t, FrameError, f.Type)
	assert.Equal(t, ErrMsgTurnInProgress, f.Error)

	c, err := store.Get(id)
	require.NoError(t, err)
	assert.Empty(t, c.Messages)

	close(release)
	assert.Equal(t, FrameResponse, readFrame(t, conn).Type)
}

func TestChatRateLimit(t *testing.T) {
	turns := &fakeTurns{handle: func(ctx context.Context, turn *conversation.Turn, in orchestrator.Inbound, n orchestrator.Notifier) (orchestrator.TurnResult, error) {
		return askResult(in), nil
	}}
	conn, _ := startServer(t, conversation.New(log.NewNop()), turns, Config{RateLimitPerMin: 1})

	send(t, conn, map[string]any{"message": "first"})
	assert.Equal(t, FrameResponse, readFrame(t, conn).Type)

	send(t, conn, map[string]any{"message": "second"})
	f := readFrame(t, conn)
	assert.Equal(t, FrameError, f.Type)
	assert.Equal(t, ErrMsgRateLimited, f.Error)
}

func TestChatTurnError(t *testing.T) {
	turns := &fakeTurns{handle: func(ctx context.Context, turn *conversation.Turn, in orchestrator.Inbound, n orchestrator.Notifier) (orchestrator.TurnResult, error) {
		return orchestrator.TurnResult{}, &orchestrator.TurnError{Stage: orchestrator.StageFirstPass, Err: errors.New("provider exploded")}
	}}
	conn, _ := startServer(t, conversation.New(log.NewNop()), turns, Config{})

	send(t, conn, map[string]any{"message": "hello"})
	f := readFrame(t, conn)
	assert.Equal(t, FrameError, f.Type)
	assert.Equal(t, orchestrator.MsgTurnFailed, f.Error)
	assert.NotContains(t, f.Error, "exploded")
}

func TestChatSeedsHistoryAndCleansUp(t *testing.T) {
	store := conversation.New(log.NewNop())
	turns := &fakeTurns{handle: func(ctx context.Context, turn *conversation.Turn, in orchestrator.Inbound, n orchestrator.Notifier) (orchestrator.TurnResult, error) {
		assert.Len(t, turn.Snapshot().Messages, 2)
		return askResult(in), nil
	}}
	conn, id := startServer(t, store, turns, Config{})

	send(t, conn, map[string]any{
		"message": "and another",
		"conversationHistory": []map[string]string{
			{"role": "user", "text": "hi"},
			{"role": "assistant", "text": "hello"},
		},
	})
	assert.Equal(t, FrameResponse, readFrame(t, conn).Type)

	_, err := store.Summarize(id)
	require.NoError(t, err)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return store.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRemoteAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws/chat", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", remoteAddr(r))

	r.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", remoteAddr(r))

	r.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.3")
	assert.Equal(t, "1.2.3.4", remoteAddr(r))
}

func TestOriginChecker(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws/chat", nil)
	r.Header.Set("Origin", "https://evil.example")

	assert.True(t, originChecker(nil)(r))
	assert.True(t, originChecker([]string{"*"})(r))
	assert.False(t, originChecker([]string{"https://app.example"})(r))

	r.Header.Set("Origin", "https://app.example")
	assert.True(t, originChecker([]string{"https://app.example"})(r))
}
