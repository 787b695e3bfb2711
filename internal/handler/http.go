package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"story-relay/internal/models"
)

// DefaultMaxUploadBytes - предел размера загружаемого изображения.
const DefaultMaxUploadBytes int64 = 10 << 20

// DefaultRequestBudget - общий бюджет запроса к внешним сервисам (текст + изображение).
// Должен быть меньше WriteTimeout HTTP-сервера, иначе готовый ответ некуда записать.
const DefaultRequestBudget = 110 * time.Second

// StoryGenerator - генерация сегментов истории.
type StoryGenerator interface {
	GenerateSegment(ctx context.Context, prompt string) (*models.StoryResponse, error)
}

// CharacterExtractor - извлечение профиля персонажа.
type CharacterExtractor interface {
	DetailsFromName(ctx context.Context, name string) (*models.CharacterProfile, error)
	DetailsFromImage(ctx context.Context, data []byte) (*models.CharacterProfile, error)
}

// Pinger - внешняя зависимость, доступность которой проверяет /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RelayHandler обрабатывает HTTP запросы relay-сервиса.
type RelayHandler struct {
	stories        StoryGenerator
	characters     CharacterExtractor
	dependencies   map[string]Pinger
	maxUploadBytes int64
	requestBudget  time.Duration
	logger         *zap.Logger
}

// NewRelayHandler создает RelayHandler. dependencies - имя сервиса для /health -> проверка.
// Нулевые maxUploadBytes и requestBudget заменяются значениями по умолчанию.
func NewRelayHandler(stories StoryGenerator, characters CharacterExtractor, dependencies map[string]Pinger, maxUploadBytes int64, requestBudget time.Duration, logger *zap.Logger) *RelayHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	if requestBudget <= 0 {
		requestBudget = DefaultRequestBudget
	}
	return &RelayHandler{
		stories:        stories,
		characters:     characters,
		dependencies:   dependencies,
		maxUploadBytes: maxUploadBytes,
		requestBudget:  requestBudget,
		logger:         logger.Named("RelayHandler"),
	}
}

// RegisterRoutes регистрирует маршруты. generation (например, rate limit) ставится
// только перед платными эндпоинтами генерации, /health остается без него.
func (h *RelayHandler) RegisterRoutes(r gin.IRouter, generation ...gin.HandlerFunc) {
	withGeneration := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(generation)+1)
		return append(append(chain, generation...), handler)
	}
	r.POST("/generate-story-segment", withGeneration(h.generateStorySegment)...)
	r.POST("/generate-character-details-name", withGeneration(h.generateCharacterDetailsName)...)
	r.POST("/generate-character-details-image", withGeneration(h.generateCharacterDetailsImage)...)
	r.GET("/health", h.health)
	r.HEAD("/health", h.health)
}

// upstreamContext отвязывает внешние вызовы от отмены клиентом: обрыв соединения
// не прерывает уже начатую генерацию или запись в хранилище. Весь запрос при этом
// ограничен requestBudget, чтобы ответ успел уйти до WriteTimeout.
func (h *RelayHandler) upstreamContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.requestBudget)
}
