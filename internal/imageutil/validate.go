// Package imageutil - проверка загружаемых изображений.
package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // регистрирует декодер webp для image.Decode
)

// MaxPixels - предел площади изображения. Проверяется по заголовку до декодирования.
const MaxPixels = 50_000_000

var (
	// ErrEmptyImage - пустые данные.
	ErrEmptyImage = errors.New("empty image data")
	// ErrInvalidImage - данные не декодируются как изображение.
	ErrInvalidImage = errors.New("invalid image format")
	// ErrImageTooLarge - заявленные размеры превышают MaxPixels.
	ErrImageTooLarge = errors.New("image dimensions exceed limit")
)

// Validate проверяет, что data - целиком декодируемое изображение (jpeg, png, gif, bmp, tiff, webp)
// площадью не больше MaxPixels.
func Validate(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: %s reports %dx%d", ErrInvalidImage, format, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return fmt.Errorf("%w: %w: %s %dx%d", ErrInvalidImage, ErrImageTooLarge, format, cfg.Width, cfg.Height)
	}

	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return nil
}

// DetectMIME определяет MIME-тип изображения по содержимому. Для не-изображений - image/jpeg.
func DetectMIME(data []byte) string {
	mt := mimetype.Detect(data).String()
	if !strings.HasPrefix(mt, "image/") {
		return "image/jpeg"
	}
	return mt
}
