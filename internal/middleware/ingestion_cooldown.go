package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultIngestionCooldown applied when the configured interval is zero
const DefaultIngestionCooldown = time.Minute

// IngestionCooldown throttles manual ingestion per tenant. It must run after JWTAuth.
//
//	api.POST("/trigger", middleware.IngestionCooldown(limiter, time.Minute), ctl.Trigger)
func IngestionCooldown(limiter *CooldownLimiter, interval time.Duration) gin.HandlerFunc {
	if interval <= 0 {
		interval = DefaultIngestionCooldown
	}

	return func(c *gin.Context) {
		tenantID := GetTenantID(c)
		if tenantID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		result := limiter.Check(IngestionCooldownKey(tenantID), interval)
		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			c.Header("Retry-After", fmt.Sprint(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      formatRetryMessage(result.RetryAfter),
				"retryAfter": retryAfter,
			})
			return
		}

		c.Next()
	}
}

func formatRetryMessage(d time.Duration) string {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 60 {
		return fmt.Sprintf("Ingestion was triggered recently, retry in %d seconds", seconds)
	}

	minutes := seconds / 60
	if rest := seconds % 60; rest != 0 {
		return fmt.Sprintf("Ingestion was triggered recently, retry in %d min %d s", minutes, rest)
	}
	return fmt.Sprintf("Ingestion was triggered recently, retry in %d minutes", minutes)
}
