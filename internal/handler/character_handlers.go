package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"story-relay/internal/models"
)

// uploadField - имя поля multipart-формы с изображением.
const uploadField = "file"

var errUploadTooLarge = errors.New("uploaded file is too large")

// @Summary Персонаж по имени
// @Description Извлекает профиль известного персонажа по имени.
// @Tags Characters
// @Accept json
// @Produce json
// @Param request body models.CharacterNameRequest true "Имя персонажа"
// @Success 200 {object} models.CharacterEnvelope "response = null, если персонаж неизвестен"
// @Failure 400 {object} models.ErrorResponse "Невалидное тело запроса"
// @Failure 429 {object} models.ErrorResponse "Превышен лимит запросов"
// @Failure 500 {object} models.ErrorResponse "Ошибка модели"
// @Router /generate-character-details-name [post]
func (h *RelayHandler) generateCharacterDetailsName(c *gin.Context) {
	var req models.CharacterNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx, cancel := h.upstreamContext(c)
	defer cancel()

	profile, err := h.characters.DetailsFromName(ctx, req.Name)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CharacterEnvelope{Response: profile})
}

// @Summary Персонаж по изображению
// @Description Извлекает профиль известного персонажа по изображению. Невалидное изображение отклоняется до обращения к модели.
// @Tags Characters
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Изображение персонажа"
// @Success 200 {object} models.CharacterEnvelope "response = null, если персонаж неизвестен"
// @Failure 400 {object} models.ErrorResponse "Файл отсутствует, слишком большой или не является изображением"
// @Failure 429 {object} models.ErrorResponse "Превышен лимит запросов"
// @Failure 500 {object} models.ErrorResponse "Ошибка модели"
// @Router /generate-character-details-image [post]
func (h *RelayHandler) generateCharacterDetailsImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			badRequest(c, errUploadTooLarge.Error())
			return
		}
		badRequest(c, "No file uploaded")
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		badRequest(c, errUploadTooLarge.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		badRequest(c, errUploadTooLarge.Error())
		return
	}

	ctx, cancel := h.upstreamContext(c)
	defer cancel()

	profile, err := h.characters.DetailsFromImage(ctx, data)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CharacterEnvelope{Response: profile})
}
