package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"story-relay/internal/ai"
	"story-relay/internal/models"
	"story-relay/internal/schemas"
)

// DefaultStoryTimeout - предел ожидания модели при генерации сегмента.
const DefaultStoryTimeout = 90 * time.Second

// StoryService генерирует сегменты истории и прикрепляет к ним изображения локаций.
type StoryService struct {
	text    ai.TextGenerator
	images  ImageProvider
	timeout time.Duration
	logger  *zap.Logger
}

// NewStoryService создает StoryService. timeout <= 0 заменяется на DefaultStoryTimeout.
func NewStoryService(text ai.TextGenerator, images ImageProvider, timeout time.Duration, logger *zap.Logger) *StoryService {
	if timeout <= 0 {
		timeout = DefaultStoryTimeout
	}
	return &StoryService{
		text:    text,
		images:  images,
		timeout: timeout,
		logger:  logger.Named("StoryService"),
	}
}

// GenerateSegment запрашивает у модели следующий сегмент по prompt.
// (nil, nil) - модель ничего пригодного не вернула; это не ошибка.
func (s *StoryService) GenerateSegment(ctx context.Context, prompt string) (*models.StoryResponse, error) {
	log := s.logger.With(zap.Int("prompt_bytes", len(prompt)))
	log.Info("Received story segment generation request")

	text, err := s.generate(ctx, prompt)
	if err != nil {
		modelResponsesTotal.WithLabelValues("story", "error").Inc()
		return nil, err
	}
	if text == "" {
		modelResponsesTotal.WithLabelValues("story", "empty").Inc()
		log.Warn("Received empty response from model")
		return nil, nil
	}

	story, err := schemas.DecodeStory(text)
	if err != nil {
		modelResponsesTotal.WithLabelValues("story", "malformed").Inc()
		log.Warn("Error parsing story response", zap.Error(err))
		return nil, nil
	}
	modelResponsesTotal.WithLabelValues("story", "ok").Inc()

	story.StoryImages = []models.StoryImage{}
	if story.StoryState.NewLocation {
		description := story.StoryState.LocationDescription
		if strings.TrimSpace(description) == "" {
			// Без описания рисовать нечего: сегмент уходит без изображения.
			log.Warn("New location without description, skipping image", zap.String("location", story.StoryState.Location))
			return story, nil
		}
		log.Info("New location detected, resolving image", zap.String("location", story.StoryState.Location))
		if result := s.images.ResolveImage(ctx, description); result.Available() {
			story.StoryImages = append(story.StoryImages, result.Image)
		}
	}

	return story, nil
}

// generate ограничивает по времени только вызов модели.
func (s *StoryService) generate(ctx context.Context, prompt string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.text.GenerateStructured(genCtx, ai.TextRequest{
		Parts:  []ai.Part{ai.TextPart(prompt)},
		Schema: schemas.StoryResponseSchema(),
	})
	if err != nil {
		if errors.Is(genCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			s.logger.Error("Story generation timed out", zap.Duration("timeout", s.timeout))
			return "", fmt.Errorf("%w after %s", ErrStoryTimeout, s.timeout)
		}
		return "", fmt.Errorf("generate story segment: %w", err)
	}
	return text, nil
}
