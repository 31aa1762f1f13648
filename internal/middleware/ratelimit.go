package middleware

import (
	"net/http"
	"time"

	"taskmanager-api/internal/config"
	"taskmanager-api/internal/logging"
	"taskmanager-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter applies per-client limits with separate budgets: reads get
// twice the configured rate, writes half of it
func RateLimiter(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		logging.Logger.Info("Rate limiting is disabled")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	read := newLimiter("read", cfg.RequestsPerMin*2)
	write := newLimiter("write", cfg.RequestsPerMin/2)

	logging.Logger.Infof("Rate limiting enabled: %d reads, %d writes per minute",
		cfg.RequestsPerMin*2, cfg.RequestsPerMin/2)

	return func(c *gin.Context) {
		if isReadMethod(c.Request.Method) {
			read(c)
			return
		}
		write(c)
	}
}

// newLimiter builds a gin limiter with its own in-memory store
func newLimiter(limitType string, perMin int64) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: time.Minute,
		Limit:  perMin,
	}
	instance := limiter.New(memory.NewStore(), rate)

	return mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		logging.Logger.WithFields(map[string]interface{}{
			"client_ip":     c.ClientIP(),
			"path":          c.Request.URL.Path,
			"method":        c.Request.Method,
			"limit_type":    limitType,
			"limit_per_min": rate.Limit,
		}).Warn("Rate limit exceeded")

		c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
			Code:    "RATE_LIMIT_EXCEEDED",
			Message: "Too many requests. Please try again later.",
			Details: map[string]interface{}{
				"retryAfter": int(rate.Period.Seconds()),
				"limit":      rate.Limit,
			},
		})
	}))
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
