package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("IMAGEN_MODEL", "imagen-3.0-fast-generate-001")
	t.Setenv("PAID_API_KEY", "paid-key")
	t.Setenv("GCS_BUCKET_NAME", "story-images")
	t.Setenv("GCS_FOLDER_NAME", "locations")
}

func TestLoad_Defaults(t *testing.T) {
	secretsDir = t.TempDir()
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "3:4", cfg.Gemini.AspectRatio)
	assert.Equal(t, 90*time.Second, cfg.Gemini.StoryTimeout)
	assert.Equal(t, "paid-key", cfg.Gemini.APIKey())
	assert.Equal(t, "md5", cfg.Cache.KeyAlgorithm)
	assert.True(t, cfg.Storage.ConfigureBucket)
	assert.False(t, cfg.Storage.PublicACL)
	assert.Equal(t, int64(10<<20), cfg.HTTP.MaxUploadBytes)
	assert.Empty(t, cfg.HTTP.AllowedOrigins())
	assert.Equal(t, 110*time.Second, cfg.HTTP.RequestBudget)
	assert.Equal(t, uint(20), cfg.HTTP.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.HTTP.RateLimitWindow)
	assert.Empty(t, cfg.Storage.ProjectID)
}

func TestLoad_FreeModeUsesFreeKey(t *testing.T) {
	secretsDir = t.TempDir()
	setRequiredEnv(t)
	t.Setenv("FREE_MODE", "true")
	t.Setenv("FREE_API_KEY", "free-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "free-key", cfg.Gemini.APIKey())
}

func TestLoad_FreeModeWithoutKeyFails(t *testing.T) {
	secretsDir = t.TempDir()
	setRequiredEnv(t)
	t.Setenv("FREE_MODE", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FREE_API_KEY")
}

func TestLoad_SecretFileFallback(t *testing.T) {
	dir := t.TempDir()
	secretsDir = dir
	setRequiredEnv(t)
	t.Setenv("PAID_API_KEY", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paid_api_key"), []byte("  from-secret\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.Gemini.PaidAPIKey)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{Cache: CacheConfig{KeyAlgorithm: "sha1"}}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"GEMINI_MODEL", "IMAGEN_MODEL", "PAID_API_KEY", "GCS_BUCKET_NAME", "GCS_FOLDER_NAME", "CACHE_KEY_ALGORITHM", "STORY_TIMEOUT", "HTTP_REQUEST_BUDGET"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestHTTPConfig_AllowedOrigins(t *testing.T) {
	h := HTTPConfig{CORSAllowedOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, h.AllowedOrigins())
}

func TestLoad_TimeoutsMustNest(t *testing.T) {
	cases := map[string]map[string]string{
		"budget not under write timeout": {"HTTP_REQUEST_BUDGET": "120s", "HTTP_WRITE_TIMEOUT": "120s"},
		"story not under budget":         {"STORY_TIMEOUT": "110s"},
		"rate window too short":          {"RATE_LIMIT_WINDOW": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			secretsDir = t.TempDir()
			setRequiredEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}

	secretsDir = t.TempDir()
	setRequiredEnv(t)
	t.Setenv("RATE_LIMIT_REQUESTS", "0")
	t.Setenv("RATE_LIMIT_WINDOW", "0s")
	_, err := Load()
	assert.NoError(t, err)
}
