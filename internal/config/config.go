package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"story-relay/internal/logger"
)

// secretsDir - стандартный путь Docker Secrets. Переменная, чтобы тесты могли подменить.
var secretsDir = "/run/secrets"

// Config - вся конфигурация relay-сервиса.
type Config struct {
	AppEnv string `env:"APP_ENV" env-default:"development"`
	Port   string `env:"PORT" env-default:"8000"`
	Logger logger.Config

	Gemini  GeminiConfig
	Storage StorageConfig
	Cache   CacheConfig
	HTTP    HTTPConfig
}

// GeminiConfig - модели и ключи генеративного API.
type GeminiConfig struct {
	TextModel   string `env:"GEMINI_MODEL"`
	ImageModel  string `env:"IMAGEN_MODEL"`
	FreeMode    bool   `env:"FREE_MODE" env-default:"false"`
	FreeAPIKey  string `env:"FREE_API_KEY"`
	PaidAPIKey  string `env:"PAID_API_KEY"`
	AspectRatio string `env:"IMAGE_ASPECT_RATIO" env-default:"3:4"`
	// StoryTimeout ограничивает только генерацию сегмента истории.
	StoryTimeout time.Duration `env:"STORY_TIMEOUT" env-default:"90s"`
}

// APIKey возвращает ключ активного тарифа.
func (g GeminiConfig) APIKey() string {
	if g.FreeMode {
		return g.FreeAPIKey
	}
	return g.PaidAPIKey
}

// StorageConfig - настройки бакета GCS.
type StorageConfig struct {
	ProjectID string `env:"GCS_PROJECT_ID"`
	Bucket    string `env:"GCS_BUCKET_NAME"`
	Folder    string `env:"GCS_FOLDER_NAME"`
	// Credentials - JSON сервисного аккаунта целиком или путь к файлу. Пусто = ADC.
	Credentials     string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	ConfigureBucket bool   `env:"GCS_CONFIGURE_BUCKET" env-default:"true"`
	PublicACL       bool   `env:"GCS_PUBLIC_ACL" env-default:"false"`
}

// CacheConfig - настройки кэша изображений.
type CacheConfig struct {
	KeyAlgorithm string        `env:"CACHE_KEY_ALGORITHM" env-default:"md5"`
	RedisURL     string        `env:"REDIS_URL"`
	MemoTTL      time.Duration `env:"URL_MEMO_TTL" env-default:"24h"`
}

// HTTPConfig - настройки HTTP-сервера.
type HTTPConfig struct {
	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS"`
	MaxUploadBytes     int64         `env:"MAX_UPLOAD_BYTES" env-default:"10485760"`
	ReadTimeout        time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout       time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"120s"`
	IdleTimeout        time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"120s"`
	// RequestBudget ограничивает все внешние вызовы одного запроса (текст + изображение).
	RequestBudget time.Duration `env:"HTTP_REQUEST_BUDGET" env-default:"110s"`
	// RateLimitRequests - запросов к генерации с одного IP за RateLimitWindow. 0 = без ограничения.
	RateLimitRequests uint          `env:"RATE_LIMIT_REQUESTS" env-default:"20"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`
}

// AllowedOrigins разбирает CORS_ALLOWED_ORIGINS (через запятую).
func (h HTTPConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(h.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Load загружает конфигурацию из .env (если есть) и переменных окружения,
// добирает секреты из Docker Secrets и валидирует результат.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	cfg.Gemini.FreeAPIKey = secretFallback(cfg.Gemini.FreeAPIKey, "free_api_key")
	cfg.Gemini.PaidAPIKey = secretFallback(cfg.Gemini.PaidAPIKey, "paid_api_key")
	cfg.Storage.Credentials = secretFallback(cfg.Storage.Credentials, "gcs_credentials")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные поля.
func (c *Config) Validate() error {
	var errs []error
	if c.Gemini.TextModel == "" {
		errs = append(errs, errors.New("GEMINI_MODEL is required"))
	}
	if c.Gemini.ImageModel == "" {
		errs = append(errs, errors.New("IMAGEN_MODEL is required"))
	}
	if c.Gemini.APIKey() == "" {
		if c.Gemini.FreeMode {
			errs = append(errs, errors.New("FREE_API_KEY is required when FREE_MODE=true"))
		} else {
			errs = append(errs, errors.New("PAID_API_KEY is required when FREE_MODE is off"))
		}
	}
	if c.Storage.Bucket == "" {
		errs = append(errs, errors.New("GCS_BUCKET_NAME is required"))
	}
	if c.Storage.Folder == "" {
		errs = append(errs, errors.New("GCS_FOLDER_NAME is required"))
	}
	switch c.Cache.KeyAlgorithm {
	case "md5", "blake2b":
	default:
		errs = append(errs, fmt.Errorf("unsupported CACHE_KEY_ALGORITHM %q", c.Cache.KeyAlgorithm))
	}
	if c.Gemini.StoryTimeout <= 0 {
		errs = append(errs, errors.New("STORY_TIMEOUT must be positive"))
	}
	if c.HTTP.RequestBudget <= 0 || c.HTTP.RequestBudget >= c.HTTP.WriteTimeout {
		errs = append(errs, fmt.Errorf("HTTP_REQUEST_BUDGET (%s) must be positive and shorter than HTTP_WRITE_TIMEOUT (%s)",
			c.HTTP.RequestBudget, c.HTTP.WriteTimeout))
	}
	if c.Gemini.StoryTimeout >= c.HTTP.RequestBudget {
		errs = append(errs, fmt.Errorf("STORY_TIMEOUT (%s) must be shorter than HTTP_REQUEST_BUDGET (%s) to leave time for the image",
			c.Gemini.StoryTimeout, c.HTTP.RequestBudget))
	}
	if c.HTTP.RateLimitRequests > 0 && c.HTTP.RateLimitWindow < time.Second {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be at least 1s when RATE_LIMIT_REQUESTS is set"))
	}
	return errors.Join(errs...)
}

// secretFallback возвращает value, а если оно пустое - содержимое файла секрета.
func secretFallback(value, secretName string) string {
	if value != "" {
		return value
	}
	secret, err := readSecret(secretName)
	if err != nil {
		return ""
	}
	return secret
}

// readSecret читает секрет из каталога Docker Secrets.
func readSecret(secretName string) (string, error) {
	filePath := secretsDir + "/" + secretName
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}
