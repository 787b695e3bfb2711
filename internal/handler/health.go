package handler

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"story-relay/internal/models"
)

const healthCheckTimeout = 10 * time.Second

// @Summary Состояние сервиса
// @Description Проверяет доступность модели и бакета.
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse "OK"
// @Failure 503 {object} models.HealthResponse "Зависимость недоступна"
// @Router /health [get]
func (h *RelayHandler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.dependencies))
	for name := range h.dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	services := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.dependencies[name].Ping(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("service", name), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, models.HealthResponse{
				Status:    "unhealthy",
				Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
				Error:     fmt.Sprintf("%s: %v", name, err),
			})
			return
		}
		services[name] = "connected"
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Services:  services,
	})
}
