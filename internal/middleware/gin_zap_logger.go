package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader - заголовок сквозного идентификатора запроса.
const RequestIDHeader = "X-Request-ID"

// skipLogging - служебные эндпоинты, которые опрашиваются слишком часто.
var skipLogging = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// GinZapLogger логирует каждый запрос через zap и проставляет X-Request-ID.
// /health и /metrics не логируются.
func GinZapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set("request_id", requestID)

		path := c.Request.URL.Path
		if _, skip := skipLogging[path]; skip {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		if rawQuery := c.Request.URL.RawQuery; rawQuery != "" {
			path = path + "?" + rawQuery
		}
		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("request_id", requestID),
		}

		if len(c.Errors) > 0 {
			for _, ginErr := range c.Errors.ByType(gin.ErrorTypeAny) {
				log.Error("Request error", append(fields, zap.Error(ginErr.Err))...)
			}
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Server error", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("Client error", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}

// KeepAlive выставляет заголовки долгого соединения: генерация может идти до двух минут.
func KeepAlive() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Connection", "keep-alive")
		c.Header("Keep-Alive", "timeout=120")
		c.Next()
	}
}
