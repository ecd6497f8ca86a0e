package websocket

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the chat endpoint.
func RegisterRoutes(r gin.IRoutes, h *handler) {
	r.GET("/ws/chat", h.Serve)
}
