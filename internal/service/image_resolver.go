package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"story-relay/internal/ai"
	"story-relay/internal/models"
)

// DefaultAspectRatio - формат "полароида" для изображений локаций.
const DefaultAspectRatio = "3:4"

// ErrEmptyImage - генератор вернул пустые данные без ошибки.
var ErrEmptyImage = errors.New("image generator returned empty data")

// ImageCache - контракт кэша изображений, которым пользуется ImageResolver.
type ImageCache interface {
	Lookup(ctx context.Context, prompt string) (string, bool)
	Store(ctx context.Context, prompt string, data []byte) (string, error)
}

// ImageStatus - итог получения изображения.
type ImageStatus int

const (
	// ImageUnavailable - изображения нет, запрос продолжается без него.
	ImageUnavailable ImageStatus = iota
	// ImageAvailable - Image заполнен.
	ImageAvailable
)

// ImageResult - результат ResolveImage. При ImageUnavailable Reason содержит причину.
type ImageResult struct {
	Status ImageStatus
	Image  models.StoryImage
	// CacheHit - изображение взято из кэша без генерации.
	CacheHit bool
	Reason   error
}

// Available сообщает, есть ли изображение.
func (r ImageResult) Available() bool { return r.Status == ImageAvailable }

func unavailable(reason error) ImageResult {
	return ImageResult{Status: ImageUnavailable, Reason: reason}
}

// ImageProvider - то, что нужно StoryService от ImageResolver.
type ImageProvider interface {
	ResolveImage(ctx context.Context, description string) ImageResult
}

// ImageResolver достает изображение локации из кэша или генерирует и кэширует новое.
// Никогда не возвращает ошибку наверх: в худшем случае - ImageUnavailable.
type ImageResolver struct {
	cache       ImageCache
	generator   ai.ImageGenerator
	aspectRatio string
	group       singleflight.Group
	logger      *zap.Logger
}

var _ ImageProvider = (*ImageResolver)(nil)

// NewImageResolver создает ImageResolver. Пустой aspectRatio заменяется на DefaultAspectRatio.
func NewImageResolver(cache ImageCache, generator ai.ImageGenerator, aspectRatio string, logger *zap.Logger) *ImageResolver {
	if aspectRatio == "" {
		aspectRatio = DefaultAspectRatio
	}
	return &ImageResolver{
		cache:       cache,
		generator:   generator,
		aspectRatio: aspectRatio,
		logger:      logger.Named("ImageResolver"),
	}
}

// LocationImagePrompt оборачивает описание локации в промпт для генератора.
func LocationImagePrompt(description string) string {
	return fmt.Sprintf("Generate a polaroid style image: %s. The scene should be empty with no people present.", description)
}

// ResolveImage возвращает изображение для description.
// Параллельные промахи по одному описанию схлопываются в одну генерацию.
func (r *ImageResolver) ResolveImage(ctx context.Context, description string) ImageResult {
	log := r.logger.With(zap.String("description", description))

	if url, ok := r.cache.Lookup(ctx, description); ok {
		imageResolutionsTotal.WithLabelValues("cache_hit").Inc()
		log.Info("Image found in cache", zap.String("url", url))
		return ImageResult{
			Status:   ImageAvailable,
			Image:    models.StoryImage{URL: url, Description: description},
			CacheHit: true,
		}
	}

	log.Info("Image not found in cache, generating new image")
	v, err, shared := r.group.Do(description, func() (any, error) {
		return r.generateAndStore(ctx, description)
	})
	if err != nil {
		imageResolutionsTotal.WithLabelValues("unavailable").Inc()
		log.Warn("Image unavailable, continuing without image", zap.Error(err))
		return unavailable(err)
	}

	url := v.(string)
	imageResolutionsTotal.WithLabelValues("generated").Inc()
	log.Info("Image resolved", zap.String("url", url), zap.Bool("shared", shared))
	return ImageResult{
		Status: ImageAvailable,
		Image:  models.StoryImage{URL: url, Description: description},
	}
}

func (r *ImageResolver) generateAndStore(ctx context.Context, description string) (string, error) {
	data, err := r.generator.GenerateImage(ctx, LocationImagePrompt(description), r.aspectRatio)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	url, err := r.cache.Store(ctx, description, data)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}
