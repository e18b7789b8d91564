package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"CI", "CONFIG_FILE", "SERVER_PORT", "SERVER_HOST",
	"GENAI_PROVIDER", "GENAI_API_KEY", "GEMINI_API_KEY", "GEMINI_API_KEY_FILE", "OPENAI_API_KEY",
	"GENAI_BASE_URL", "GENAI_MODEL", "GENAI_MODEL_LABEL", "GENAI_TEMPERATURE", "GENAI_TOP_P",
	"GENAI_TOP_K", "GENAI_MAX_TOKENS", "GENAI_TIMEOUT_SECONDS", "GENAI_PROBE_ON_STARTUP",
	"RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BACKEND", "CACHE_BACKEND", "CACHE_TTL_SECONDS",
	"CACHE_MAX_ENTRIES", "CACHE_SWEEP_SECONDS",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_URL",
	"DB_DRIVER", "SQLITE_PATH", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
	"JWT_SECRET", "ARCHIVE_BUCKET", "AWS_REGION", "LOG_LEVEL", "LOG_PATH",
}

// setupEnv isolates a test from the host environment and returns the secrets dir.
func setupEnv(t *testing.T, env string) string {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
	t.Setenv("ENV", env)
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	return secretsDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfigDefaults(t *testing.T) {
	setupEnv(t, "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, ProviderGemini, cfg.GenAIProvider)
	assert.Equal(t, "models/gemini-2.5-flash", cfg.GenAIModel)
	assert.Equal(t, "Gemini 2.5 Flash", cfg.GenAIModelLabel)
	assert.Equal(t, 0.8, cfg.GenAITemperature)
	assert.Equal(t, 40, cfg.GenAITopK)
	assert.Equal(t, 2048, cfg.GenAIMaxTokens)
	assert.Equal(t, 60*time.Second, cfg.GenAITimeout())
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, time.Hour, cfg.CacheTTL())
	assert.Equal(t, BackendMemory, cfg.CacheBackend)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Empty(t, cfg.GenAIAPIKey)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	setupEnv(t, "development")
	t.Setenv("GENAI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GENAI_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("CACHE_TTL_SECONDS", "120")
	t.Setenv("GENAI_PROBE_ON_STARTUP", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.GenAIProvider)
	assert.Equal(t, "sk-test", cfg.GenAIAPIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.GenAIModel)
	assert.Equal(t, "http://localhost:11434/v1", cfg.GenAIBaseURL)
	assert.Equal(t, 10, cfg.RateLimitPerMinute)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL())
	assert.True(t, cfg.GenAIProbeOnStartup)
}

func TestLoadConfigSecrets(t *testing.T) {
	secretsDir := setupEnv(t, "development")
	writeFile(t, filepath.Join(secretsDir, "gemini_api_key"), "secret-key\n")
	writeFile(t, filepath.Join(secretsDir, "jwt_secret"), "jwt-secret")
	writeFile(t, filepath.Join(secretsDir, "redis_password"), "redis-pass")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.GenAIAPIKey)
	assert.Equal(t, "jwt-secret", cfg.JWTSecret)
	assert.Equal(t, "redis-pass", cfg.RedisPassword)
}

func TestLoadConfigEnvBeatsSecret(t *testing.T) {
	secretsDir := setupEnv(t, "development")
	writeFile(t, filepath.Join(secretsDir, "gemini_api_key"), "from-secret")
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GenAIAPIKey)
}

func TestLoadConfigKeyFile(t *testing.T) {
	setupEnv(t, "development")
	keyFile := filepath.Join(t.TempDir(), "key")
	writeFile(t, keyFile, "  file-key  ")
	t.Setenv("GEMINI_API_KEY_FILE", keyFile)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.GenAIAPIKey)

	t.Setenv("GEMINI_API_KEY_FILE", filepath.Join(t.TempDir(), "missing"))
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	setupEnv(t, "test")
	path := filepath.Join(t.TempDir(), "recipegen.toml")
	writeFile(t, path, `
server_port = "8081"
cache_ttl_seconds = 60
genai_model_label = "Flash"
rate_limit_per_minute = 5
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, "Flash", cfg.GenAIModelLabel)
	assert.Equal(t, 7, cfg.RateLimitPerMinute, "environment overrides the file")
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	setupEnv(t, "test")
	path := filepath.Join(t.TempDir(), "recipegen.toml")
	writeFile(t, path, `cache_ttl = 60`)
	t.Setenv("CONFIG_FILE", path)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache_ttl")
}

func TestLoadConfigProductionRequiresKey(t *testing.T) {
	setupEnv(t, "production")

	_, err := LoadConfig()
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "GEMINI_API_KEY", verr.Field)
}

func TestLoadConfigInvalidNumber(t *testing.T) {
	setupEnv(t, "test")
	t.Setenv("CACHE_TTL_SECONDS", "an hour")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL_SECONDS")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("ENV", "production")
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
	assert.False(t, Development.StructuredLogs())
	assert.True(t, Production.StructuredLogs())
}

func TestValidateConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Environment = Test
	cfg.GenAIModel = "models/gemini-2.5-flash"
	require.NoError(t, ValidateConfig(cfg))

	cfg.CacheBackend = "memcached"
	cfg.RateLimitPerMinute = 0
	cfg.DBDriver = DriverPostgres
	err := ValidateConfig(cfg)
	require.Error(t, err)
	for _, field := range []string{"CACHE_BACKEND", "RATE_LIMIT_PER_MINUTE", "DB_HOST", "DB_NAME"} {
		assert.Contains(t, err.Error(), field)
	}
}
