package v1

import (
	"crypto/subtle"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const callerKey = "caller"

// IdentityMiddleware определяет вызывающего.
// X-API-Key - интеграция администрирования, Bearer JWT - пользователь с ролью,
// без заголовков - анонимный гражданин.
func (h *Handler) IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := h.logger.WithField("middleware", "identity")

		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
			if !h.validAPIKey(apiKey) {
				log.Warn("Invalid API key provided")
				abortWithError(c, http.StatusUnauthorized, codeUnauthorized, "invalid API key")
				return
			}
			c.Set(callerKey, models.Caller{Role: models.RoleAdministrator})
			c.Next()
			return
		}

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				abortWithError(c, http.StatusUnauthorized, codeUnauthorized, "malformed Authorization header")
				return
			}
			caller, err := h.tokens.Parse(token)
			if err != nil {
				log.WithError(err).Warn("Invalid bearer token")
				abortWithError(c, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
				return
			}
			c.Set(callerKey, caller)
			c.Next()
			return
		}

		c.Set(callerKey, models.Anonymous())
		c.Next()
	}
}

func (h *Handler) validAPIKey(apiKey string) bool {
	for _, key := range h.cfg.APIKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
			return true
		}
	}
	return false
}

// callerFrom возвращает вызывающего, установленного IdentityMiddleware
func callerFrom(c *gin.Context) models.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(models.Caller); ok {
			return caller
		}
	}
	return models.Anonymous()
}

// PanicRateLimitMiddleware ограничивает анонимные экстренные вызовы с одного адреса.
// Вызывающие с идентификацией не ограничиваются. При недоступности redis запрос пропускается.
func (h *Handler) PanicRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.panicLimiter == nil || !callerFrom(c).IsAnonymous() {
			c.Next()
			return
		}
		log := h.logger.WithFields(logrus.Fields{
			"middleware": "panic_rate_limit",
			"client_ip":  c.ClientIP(),
		})

		allowed, retryAfter, err := h.panicLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.WithError(err).Error("Rate limiter unavailable, letting the report through")
			c.Next()
			return
		}
		if !allowed {
			log.Warn("Anonymous report rate limit exceeded")
			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(retryAfter.Seconds()))))
			abortWithError(c, http.StatusTooManyRequests, codeRateLimited, "too many anonymous reports, try again later")
			return
		}
		c.Next()
	}
}
