package middleware

import (
	"SkillTrack/pkg/logger"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

func LoggingMiddleware(logger logger.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		if rawQuery := c.Request.URL.RawQuery; rawQuery != "" {
			path = fmt.Sprintf("%s?%s", path, rawQuery)
		}
		status := c.Writer.Status()

		reqLog := logger.With(
			"method", c.Request.Method,
			"path", path,
			"status", status,
		)
		if id, ok := Identity(c); ok {
			reqLog = reqLog.With("user_id", id.UserID)
		}

		args := []interface{}{
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		msg := fmt.Sprintf("%s %s", c.Request.Method, path)
		if status >= 500 {
			reqLog.Warn(msg, args...)
		} else {
			reqLog.Info(msg, args...)
		}

		for _, ginErr := range c.Errors {
			reqLog.Debug("HTTP request error", "err", ginErr.Error())
		}
	}
}
