package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger логирует каждый запрос. Приватные ошибки обработчиков попадают только в лог.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	entry := l.WithField("component", "http")
	return func(c *gin.Context) {
		started := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     path,
			"status":   c.Writer.Status(),
			"duration": time.Since(started).String(),
			"ip":       c.ClientIP(),
		}
		if requestID, ok := c.Get(RequestIDKey); ok {
			fields["requestID"] = requestID
		}
		if userID, ok := c.Get(CurrentUserIDKey); ok {
			fields["userID"] = userID
		}

		le := entry.WithFields(fields)
		switch {
		case len(c.Errors) > 0:
			le.WithField("errors", c.Errors.String()).Error("request failed")
		case c.Writer.Status() >= 500:
			le.Error("request")
		default:
			le.Info("request")
		}
	}
}
