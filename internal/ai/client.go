// Package ai - клиенты генеративных моделей (текст и изображения).
package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

var (
	// ErrGenerationFailed - транспортная или API-ошибка модели.
	ErrGenerationFailed = errors.New("ai generation failed")
	// ErrNoImage - модель не вернула изображение (пустой ответ или фильтр безопасности).
	ErrNoImage = errors.New("ai returned no image")
)

// Part - фрагмент мультимодального запроса: текст или inline-данные.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// TextPart - текстовый фрагмент.
func TextPart(text string) Part { return Part{Text: text} }

// DataPart - inline-фрагмент (например, изображение).
func DataPart(data []byte, mimeType string) Part { return Part{Data: data, MIMEType: mimeType} }

// TextRequest - запрос структурированной генерации.
type TextRequest struct {
	Parts []Part
	// Schema - контракт ответа. nil означает свободный текст.
	Schema *genai.Schema
}

// TextGenerator генерирует текст (JSON, если задана схема).
type TextGenerator interface {
	// GenerateStructured возвращает текст ответа. Пустая строка без ошибки
	// означает, что модель ничего не вернула.
	GenerateStructured(ctx context.Context, req TextRequest) (string, error)
	// Ping проверяет доступность модели.
	Ping(ctx context.Context) error
}

// ImageGenerator генерирует одно изображение по промпту.
type ImageGenerator interface {
	// GenerateImage возвращает байты изображения или ErrNoImage.
	GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error)
}
