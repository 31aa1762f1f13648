package middleware

import (
	"net/http"

	"taskmanager-api/internal/logging"
	"taskmanager-api/internal/models"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds security-related HTTP headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")

		// Content Security Policy (strict for API)
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Referrer-Policy", "no-referrer")

		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")

		c.Next()
	}
}

// RequestSizeLimit limits the size of incoming request bodies
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			logging.Logger.WithFields(map[string]interface{}{
				"client_ip":      c.ClientIP(),
				"content_length": c.Request.ContentLength,
				"max_size":       maxSize,
			}).Warn("Request body too large")

			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Code:    "REQUEST_TOO_LARGE",
				Message: "Request body too large",
				Details: map[string]interface{}{"max_size_bytes": maxSize},
			})
			return
		}

		// Bodies without a Content-Length are cut off while reading
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)

		c.Next()
	}
}

// ErrorSanitizer logs errors attached by handlers and replaces 5xx
// responses that nothing has written yet with a generic body
func ErrorSanitizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		logging.Logger.WithFields(map[string]interface{}{
			"client_ip": c.ClientIP(),
			"path":      c.Request.URL.Path,
			"method":    c.Request.Method,
			"error":     err.Error(),
		}).Error("Request error")

		if c.Writer.Status() >= http.StatusInternalServerError && !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Code:    "INTERNAL_ERROR",
				Message: "An internal error occurred. Please try again later.",
			})
		}
	}
}

// IDValidator rejects requests whose named path parameters are not in the
// identifier format of the active store
func IDValidator(valid func(string) bool, params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, param := range params {
			value := c.Param(param)
			if value == "" || valid(value) {
				continue
			}

			logging.Logger.WithFields(map[string]interface{}{
				"client_ip": c.ClientIP(),
				"path":      c.Request.URL.Path,
				"param":     param,
				"value":     value,
			}).Warn("Invalid identifier format")

			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
				Code:    "INVALID_ID",
				Message: "Invalid identifier format",
				Details: map[string]interface{}{"field": param},
			})
			return
		}
		c.Next()
	}
}
