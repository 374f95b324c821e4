package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger puts a request-scoped logger into the request context and logs
// one line per completed request.
func RequestLogger(base *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		logger := base.With("request_id", requestID, "method", c.Request.Method, "path", c.Request.URL.Path)
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context(), logger))

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{"status", status, "latency", time.Since(start), "client_ip", c.ClientIP()}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			logger.Error("request completed", fields...)
		case status >= 400:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
