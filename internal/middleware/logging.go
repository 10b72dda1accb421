package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutrinavigator/backend/internal/pkg/logger"
)

// RequestLogger logs one line per request once it has been served
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		kv := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(RequestIDKey),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request served", kv...)
		case status >= 400:
			log.Warn("request served", kv...)
		default:
			log.Info("request served", kv...)
		}
	}
}
