package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"story-relay/internal/models"
	"story-relay/internal/service"
)

// handleServiceError переводит ошибку сервиса в HTTP-ответ.
func (h *RelayHandler) handleServiceError(c *gin.Context, err error) {
	var statusCode int
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		statusCode = http.StatusBadRequest
	default:
		h.logger.Error("Unhandled internal error", zap.String("path", c.FullPath()), zap.Error(err))
		statusCode = http.StatusInternalServerError
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: message})
}
