package http

import "github.com/gin-gonic/gin"

// RegisterRoutes maps the diagnostics endpoints.
func RegisterRoutes(rg *gin.RouterGroup, h *handler) {
	rg.GET("/conversations/:connectionId/summary", h.Summary)
	rg.GET("/intents", h.Intents)
}
