package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"story-relay/internal/models"
)

// @Summary Сегмент истории
// @Description Генерирует следующий сегмент истории. При смене локации прикладывает изображение из кэша или новое.
// @Tags Story
// @Accept json
// @Produce json
// @Param request body models.StoryRequest true "Промпт"
// @Success 200 {object} models.StoryEnvelope "response = null, если модель не вернула пригодный ответ"
// @Failure 400 {object} models.ErrorResponse "Невалидное тело запроса"
// @Failure 429 {object} models.ErrorResponse "Превышен лимит запросов"
// @Failure 500 {object} models.ErrorResponse "Ошибка или таймаут модели"
// @Router /generate-story-segment [post]
func (h *RelayHandler) generateStorySegment(c *gin.Context) {
	var req models.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx, cancel := h.upstreamContext(c)
	defer cancel()

	story, err := h.stories.GenerateSegment(ctx, req.Prompt)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StoryEnvelope{Response: story})
}
