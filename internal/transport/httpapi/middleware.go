package httpapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

const (
	headerUserID  = "X-User-Id"
	headerRoles   = "X-User-Roles"
	headerIdemKey = "Idempotency-Key"

	callerContextKey = "caller"
)

// callerFromHeaders извлекает личность вызывающего из заголовков,
// проставленных внешним слоем аутентификации (gateway / reverse proxy).
// Пустой X-User-Id означает анонимный запрос: сервис сам вернёт 401,
// если операция требует аутентификации.
func callerFromHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := domain.CallerContext{
			UserID: strings.TrimSpace(c.GetHeader(headerUserID)),
		}
		for _, role := range strings.Split(c.GetHeader(headerRoles), ",") {
			role = strings.TrimSpace(role)
			if role != "" {
				caller.Roles = append(caller.Roles, role)
			}
		}
		c.Set(callerContextKey, caller)
		c.Next()
	}
}

func callerFrom(c *gin.Context) domain.CallerContext {
	if v, ok := c.Get(callerContextKey); ok {
		if caller, ok := v.(domain.CallerContext); ok {
			return caller
		}
	}
	return domain.CallerContext{}
}

// requestLogger пишет структурированный access-лог через logrus.
func requestLogger(logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(log.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		if c.Writer.Status() >= 500 {
			entry.Error("request failed")
			return
		}
		entry.Info("request completed")
	}
}
