package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	convHTTP "intent-assistant/internal/conversation/delivery/http"
	wsDelivery "intent-assistant/internal/conversation/delivery/websocket"
	taskHTTP "intent-assistant/internal/task/delivery/http"
)

// setupTaskDomain registers /api/v1/tasks.
func (srv HTTPServer) setupTaskDomain(ctx context.Context, api *gin.RouterGroup) {
	h := taskHTTP.New(srv.l, srv.taskUC)
	taskHTTP.RegisterRoutes(api, h)
	srv.l.Infof(ctx, "Task domain registered")
}

// setupConversationDomain registers the chat socket and the diagnostics
// endpoints.
func (srv HTTPServer) setupConversationDomain(ctx context.Context, api *gin.RouterGroup) {
	ws := wsDelivery.New(srv.l, srv.store, srv.turns, srv.wsConfig)
	wsDelivery.RegisterRoutes(srv.gin, ws)

	h := convHTTP.New(srv.l, srv.store, srv.registry)
	convHTTP.RegisterRoutes(api, h)

	srv.l.Infof(ctx, "Conversation domain registered (GET /ws/chat, %d intents)", len(srv.registry.Intents()))
}
