package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"story-relay/internal/ai"
	"story-relay/internal/imageutil"
	"story-relay/internal/models"
	"story-relay/internal/schemas"
)

const characterPromptTemplate = `Analyze the following %s and attempt to provide character details for a character. DO NOT HALLUCINATE FAKE PEOPLE/CHARACTERS. ONLY GO OFF INFORMATION YOU ACTUALLY KNOW IS TRUE. IF THE PERSON/CHARACTER ISN'T REAL, OR KNOWN FROM A REAL PIECE OF MEDIA, RETURN null.

Expected response format:
{
    "name": "Character's name",
    "age": "integer value representing age",
    "personality": array of strings, 1 word plus an emoji ie ["smart 🤓", "creative 🎨", "kind 🤗"],
    "occupation": "Character's job or role with an emoji after (return one job, the one they are best known for)",
    "gender": "Male, Female, or Non Binary"
}`

// CharacterPrompt - инструкция для извлечения деталей персонажа. subject: "character name" или "image".
func CharacterPrompt(subject string) string {
	return fmt.Sprintf(characterPromptTemplate, subject)
}

// CharacterService извлекает профиль известного персонажа по имени или изображению.
type CharacterService struct {
	text   ai.TextGenerator
	logger *zap.Logger
}

// NewCharacterService создает CharacterService.
func NewCharacterService(text ai.TextGenerator, logger *zap.Logger) *CharacterService {
	return &CharacterService{text: text, logger: logger.Named("CharacterService")}
}

// DetailsFromName возвращает профиль по имени; (nil, nil), если персонаж неизвестен модели.
func (s *CharacterService) DetailsFromName(ctx context.Context, name string) (*models.CharacterProfile, error) {
	s.logger.Info("Generating character details for name", zap.String("name", name))
	return s.generate(ctx, "name", []ai.Part{
		ai.TextPart(CharacterPrompt("character name")),
		ai.TextPart("Character Name: " + name),
	})
}

// DetailsFromImage проверяет изображение и возвращает профиль изображенного персонажа.
// Невалидное изображение - ErrInvalidInput, модель при этом не вызывается.
func (s *CharacterService) DetailsFromImage(ctx context.Context, data []byte) (*models.CharacterProfile, error) {
	if err := imageutil.Validate(data); err != nil {
		s.logger.Warn("Image validation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	mimeType := imageutil.DetectMIME(data)
	s.logger.Info("Generating character details for image", zap.Int("size_bytes", len(data)), zap.String("mime_type", mimeType))
	return s.generate(ctx, "image", []ai.Part{
		ai.TextPart(CharacterPrompt("image")),
		ai.DataPart(data, mimeType),
	})
}

func (s *CharacterService) generate(ctx context.Context, source string, parts []ai.Part) (*models.CharacterProfile, error) {
	log := s.logger.With(zap.String("source", source))

	text, err := s.text.GenerateStructured(ctx, ai.TextRequest{
		Parts:  parts,
		Schema: schemas.CharacterResponseSchema(),
	})
	if err != nil {
		modelResponsesTotal.WithLabelValues("character", "error").Inc()
		return nil, fmt.Errorf("character generation failed: %w", err)
	}
	if text == "" {
		modelResponsesTotal.WithLabelValues("character", "empty").Inc()
		log.Warn("Empty or invalid response from model")
		return nil, nil
	}

	profile, err := schemas.DecodeCharacter(text)
	if err != nil {
		modelResponsesTotal.WithLabelValues("character", "malformed").Inc()
		log.Warn("Error parsing character data", zap.Error(err))
		return nil, nil
	}
	if profile == nil {
		modelResponsesTotal.WithLabelValues("character", "empty").Inc()
		log.Info("Model reported character as unknown")
		return nil, nil
	}

	modelResponsesTotal.WithLabelValues("character", "ok").Inc()
	log.Info("Successfully generated character details", zap.String("name", profile.Name))
	return profile, nil
}
