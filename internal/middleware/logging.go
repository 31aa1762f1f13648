package middleware

import (
	"net/http"
	"time"

	"taskmanager-api/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger is a middleware that logs one entry per HTTP request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		statusCode := c.Writer.Status()
		entry := logging.Logger.WithFields(logrus.Fields{
			"client_ip":     c.ClientIP(),
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"status":        statusCode,
			"latency_ms":    time.Since(startTime).Milliseconds(),
			"response_size": c.Writer.Size(),
		})

		// Route template, e.g. /lists/:listId/tasks
		if route := c.FullPath(); route != "" {
			entry = entry.WithField("route", route)
		}
		if query := c.Request.URL.RawQuery; query != "" {
			entry = entry.WithField("query", query)
		}
		if userAgent := c.GetHeader("User-Agent"); userAgent != "" {
			entry = entry.WithField("user_agent", userAgent)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		if statusCode == http.StatusTooManyRequests {
			entry = entry.WithField("rate_limited", true)
		}

		switch {
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		case statusCode >= 300:
			entry.Info("Redirect")
		default:
			entry.Info("Request completed")
		}
	}
}
