package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config содержит настройки для логгера.
type Config struct {
	Level      string `env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `env:"LOG_ENCODING" env-default:"json"`
	OutputPath string `env:"LOG_OUTPUT_PATH"`
	// Development включает caller и стектрейсы для ошибок.
	Development bool `env:"LOG_DEVELOPMENT" env-default:"false"`
}

// New собирает логгер relay-сервиса. Каждая запись получает поле service.
func New(cfg Config, service string) (*zap.Logger, error) {
	level, ok := ParseLevel(cfg.Level)
	if !ok {
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'\n", cfg.Level)
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		DisableCaller:     !cfg.Development,
		DisableStacktrace: !cfg.Development,
		Encoding:          encoding(cfg.Encoding),
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{outputPath(cfg.OutputPath)},
		ErrorOutputPaths:  []string{"stderr"},
	}
	if service != "" {
		zapConfig.InitialFields = map[string]interface{}{"service": service}
	}

	log, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

// ParseLevel разбирает уровень без учета регистра. Пустая строка = info.
// Второе значение false, если уровень не распознан (тогда тоже info).
func ParseLevel(raw string) (zapcore.Level, bool) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return zapcore.InfoLevel, true
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return zapcore.InfoLevel, false
	}
	return lvl, true
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}

func encoding(raw string) string {
	if strings.EqualFold(raw, "console") {
		return "console"
	}
	return "json"
}

func outputPath(raw string) string {
	if raw == "" {
		return "stdout"
	}
	return raw
}
