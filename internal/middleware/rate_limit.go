package middleware

import (
	"net/http"
	"strconv"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"story-relay/internal/models"
)

// RateLimitStore возвращает хранилище счетчиков: Redis, если клиент есть, иначе память процесса.
func RateLimitStore(client *redis.Client, window time.Duration, limit uint) ratelimit.Store {
	if client != nil {
		return ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: client,
			Rate:        window,
			Limit:       limit,
		})
	}
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  window,
		Limit: limit,
	})
}

// RateLimit ограничивает число запросов с одного IP.
// Сверх лимита - 429 с телом ErrorResponse и заголовком Retry-After.
func RateLimit(store ratelimit.Store, log *zap.Logger) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			wait := time.Until(info.ResetTime).Round(time.Second)
			if wait < time.Second {
				wait = time.Second
			}
			log.Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error: "Too many requests. Try again in " + wait.String(),
			})
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
