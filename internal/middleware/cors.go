package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins. An empty list or "*" allows any.
func (m Middleware) CORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Trace-Id"},
		ExposeHeaders: []string{"X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(m.cors.AllowedOrigins) == 0 || slices.Contains(m.cors.AllowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = m.cors.AllowedOrigins
	}
	return cors.New(cfg)
}
