package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const jsonMIMEType = "application/json"

// GeminiClient реализует TextGenerator и ImageGenerator через google.golang.org/genai.
// Один экземпляр на процесс, безопасен для конкурентного использования.
type GeminiClient struct {
	client     *genai.Client
	textModel  string
	imageModel string
	logger     *zap.Logger
}

var (
	_ TextGenerator  = (*GeminiClient)(nil)
	_ ImageGenerator = (*GeminiClient)(nil)
)

// NewGeminiClient создает клиента Gemini API с ключом apiKey.
func NewGeminiClient(ctx context.Context, apiKey, textModel, imageModel string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{
		client:     client,
		textModel:  textModel,
		imageModel: imageModel,
		logger:     logger.Named("GeminiClient"),
	}, nil
}

// GenerateStructured отправляет части запроса одной user-репликой.
func (c *GeminiClient) GenerateStructured(ctx context.Context, req TextRequest) (string, error) {
	log := c.logger.With(zap.String("model", c.textModel), zap.Int("parts", len(req.Parts)))

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if len(p.Data) > 0 {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	var cfg *genai.GenerateContentConfig
	if req.Schema != nil {
		cfg = &genai.GenerateContentConfig{
			ResponseMIMEType: jsonMIMEType,
			ResponseSchema:   req.Schema,
		}
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, contents, cfg)
	duration := time.Since(start)
	aiRequestDuration.WithLabelValues(c.textModel, "text").Observe(duration.Seconds())
	if err != nil {
		aiRequestsTotal.WithLabelValues(c.textModel, "text", "error").Inc()
		log.Error("Text generation failed", zap.Duration("duration", duration), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text())
	}
	if text == "" {
		aiRequestsTotal.WithLabelValues(c.textModel, "text", "empty").Inc()
		log.Warn("Text generation returned empty response", zap.Duration("duration", duration))
		return "", nil
	}

	aiRequestsTotal.WithLabelValues(c.textModel, "text", "success").Inc()
	log.Debug("Text generation completed", zap.Duration("duration", duration), zap.Int("response_bytes", len(text)))
	return text, nil
}

// GenerateImage запрашивает ровно одно изображение.
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	log := c.logger.With(zap.String("model", c.imageModel), zap.String("aspect_ratio", aspectRatio))

	start := time.Now()
	resp, err := c.client.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages:   1,
		AspectRatio:      aspectRatio,
		IncludeRAIReason: true,
	})
	duration := time.Since(start)
	aiRequestDuration.WithLabelValues(c.imageModel, "image").Observe(duration.Seconds())
	if err != nil {
		aiRequestsTotal.WithLabelValues(c.imageModel, "image", "error").Inc()
		log.Error("Image generation failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if resp == nil || len(resp.GeneratedImages) == 0 {
		aiRequestsTotal.WithLabelValues(c.imageModel, "image", "empty").Inc()
		log.Warn("Image generation returned no images")
		return nil, ErrNoImage
	}
	img := resp.GeneratedImages[0]
	if img.RAIFilteredReason != "" {
		aiRequestsTotal.WithLabelValues(c.imageModel, "image", "filtered").Inc()
		log.Warn("Image filtered by safety settings", zap.String("reason", img.RAIFilteredReason))
		return nil, fmt.Errorf("%w: filtered: %s", ErrNoImage, img.RAIFilteredReason)
	}
	if img.Image == nil || len(img.Image.ImageBytes) == 0 {
		aiRequestsTotal.WithLabelValues(c.imageModel, "image", "empty").Inc()
		log.Warn("Image generation returned empty image bytes")
		return nil, ErrNoImage
	}

	aiRequestsTotal.WithLabelValues(c.imageModel, "image", "success").Inc()
	log.Info("Image generated", zap.Duration("duration", duration), zap.Int("size_bytes", len(img.Image.ImageBytes)))
	return img.Image.ImageBytes, nil
}

// Ping запрашивает метаданные текстовой модели, не расходуя токены.
func (c *GeminiClient) Ping(ctx context.Context) error {
	if _, err := c.client.Models.Get(ctx, c.textModel, nil); err != nil {
		return fmt.Errorf("%w: get model %s: %v", ErrGenerationFailed, c.textModel, err)
	}
	return nil
}
