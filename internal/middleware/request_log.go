package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"intent-assistant/pkg/log"
)

const TraceIDHeader = "X-Trace-Id"

// RequestLogger tags the request context with a trace id and logs one line
// per request once it completes.
func (m Middleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Header(TraceIDHeader, traceID)
		ctx := log.WithTraceID(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := strings.ToUpper(c.Request.Method)
		elapsed := time.Since(start).Milliseconds()

		switch {
		case status >= 500:
			m.l.Errorf(ctx, "HTTP %s %s %d %dms", method, path, status, elapsed)
		case status >= 400:
			m.l.Warnf(ctx, "HTTP %s %s %d %dms", method, path, status, elapsed)
		default:
			m.l.Infof(ctx, "HTTP %s %s %d %dms", method, path, status, elapsed)
		}
	}
}
