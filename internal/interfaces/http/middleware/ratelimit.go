package middleware

import (
	"fmt"
	"net/http"

	"github.com/foresy/backend/internal/infrastructure/logger"
	"github.com/foresy/backend/internal/infrastructure/ratelimit"
	"github.com/foresy/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit returns a rate limiting middleware keyed by client IP, or by
// authenticated user when the JWT middleware ran first.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		if userID := GetJWTUserID(c); userID != "" {
			return userID
		}
		return c.ClientIP()
	})
}

// RateLimitByKey returns a rate limiting middleware with a custom key extractor.
// Limiter backend failures deny the request.
func RateLimitByKey(limiter ratelimit.Limiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		res, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("rate limiter backend failure",
				zap.String("key", key),
				zap.Error(err))
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", res.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))

		if !res.Allowed {
			requestID := getRequestIDFromContext(c)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				requestID,
			))
			return
		}

		c.Next()
	}
}
