package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Provider names accepted by GENAI_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Backend names for the cache and the rate limiter.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Database drivers for the generation history.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

const (
	defaultGeminiModel = "models/gemini-2.5-flash"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultConfigFile  = "config.toml"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `toml:"-"`

	// Server configuration
	ServerPort string `toml:"server_port"`
	ServerHost string `toml:"server_host"`

	// Generative model configuration
	GenAIProvider       string  `toml:"genai_provider"`
	GenAIAPIKey         string  `toml:"-"`
	GenAIBaseURL        string  `toml:"genai_base_url"`
	GenAIModel          string  `toml:"genai_model"`
	GenAIModelLabel     string  `toml:"genai_model_label"`
	GenAITemperature    float64 `toml:"genai_temperature"`
	GenAITopP           float64 `toml:"genai_top_p"`
	GenAITopK           int     `toml:"genai_top_k"`
	GenAIMaxTokens      int     `toml:"genai_max_tokens"`
	GenAITimeoutSeconds int     `toml:"genai_timeout_seconds"`
	GenAIProbeOnStartup bool    `toml:"genai_probe_on_startup"`

	// Rate limiting and caching
	RateLimitPerMinute int    `toml:"rate_limit_per_minute"`
	RateLimitBackend   string `toml:"rate_limit_backend"`
	CacheBackend       string `toml:"cache_backend"`
	CacheTTLSeconds    int    `toml:"cache_ttl_seconds"`
	CacheMaxEntries    int    `toml:"cache_max_entries"`
	CacheSweepSeconds  int    `toml:"cache_sweep_seconds"`

	// Redis configuration
	RedisHost     string `toml:"redis_host"`
	RedisPort     string `toml:"redis_port"`
	RedisPassword string `toml:"-"`
	RedisDB       int    `toml:"redis_db"`
	RedisURL      string `toml:"redis_url"`

	// Generation history database
	DBDriver   string `toml:"db_driver"`
	SQLitePath string `toml:"sqlite_path"`
	DBHost     string `toml:"db_host"`
	DBPort     string `toml:"db_port"`
	DBUser     string `toml:"db_user"`
	DBPassword string `toml:"-"`
	DBName     string `toml:"db_name"`
	DBSSLMode  string `toml:"db_ssl_mode"`

	// JWT secret guarding the admin endpoints; admin routes are off when empty
	JWTSecret string `toml:"-"`

	// Recipe archive
	ArchiveBucket string `toml:"archive_bucket"`
	AWSRegion     string `toml:"aws_region"`

	// Logging
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		ServerPort:          "5000",
		ServerHost:          "0.0.0.0",
		GenAIProvider:       ProviderGemini,
		GenAIModelLabel:     "Gemini 2.5 Flash",
		GenAITemperature:    0.8,
		GenAITopP:           0.95,
		GenAITopK:           40,
		GenAIMaxTokens:      2048,
		GenAITimeoutSeconds: 60,
		RateLimitPerMinute:  30,
		RateLimitBackend:    BackendMemory,
		CacheBackend:        BackendMemory,
		CacheTTLSeconds:     3600,
		CacheMaxEntries:     1000,
		CacheSweepSeconds:   300,
		RedisHost:           "localhost",
		RedisPort:           "6379",
		DBDriver:            DriverSQLite,
		SQLitePath:          "recipegen.db",
		DBPort:              "5432",
		DBSSLMode:           "disable",
		AWSRegion:           "us-east-1",
		LogLevel:            "info",
	}
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// CacheTTL is the lifetime of a cached recipe.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// CacheSweepInterval is how often expired cache entries are removed.
func (c *Config) CacheSweepInterval() time.Duration {
	return time.Duration(c.CacheSweepSeconds) * time.Second
}

// GenAITimeout bounds a single model call.
func (c *Config) GenAITimeout() time.Duration {
	return time.Duration(c.GenAITimeoutSeconds) * time.Second
}

// LoadConfig creates a new Config instance from defaults, an optional TOML
// file, the environment and Docker secrets.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := Defaults()
	cfg.Environment = env

	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}

	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if cfg.GenAIModel == "" {
		cfg.GenAIModel = defaultModel(cfg.GenAIProvider)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return defaultOpenAIModel
	}
	return defaultGeminiModel
}

// loadConfigFile overlays CONFIG_FILE (or ./config.toml when present).
func loadConfigFile(cfg *Config) error {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return nil
		}
		path = defaultConfigFile
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// loadCIConfig reads environment variables only; CI never has Docker secrets.
func loadCIConfig(cfg *Config) error {
	if err := applyEnv(cfg); err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	}
	if cfg.DBPassword == "" {
		cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	}
	return nil
}

// loadDevConfig loads .env (if any), the environment, then fills missing
// secrets from the secrets directory.
func loadDevConfig(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return err
	}
	return applySecrets(cfg)
}

// loadProdConfig never reads .env files.
func loadProdConfig(cfg *Config) error {
	if err := applyEnv(cfg); err != nil {
		return err
	}
	return applySecrets(cfg)
}

func applyEnv(cfg *Config) error {
	envString(&cfg.ServerPort, "SERVER_PORT")
	envString(&cfg.ServerHost, "SERVER_HOST")

	envString(&cfg.GenAIProvider, "GENAI_PROVIDER")
	envString(&cfg.GenAIAPIKey, "GENAI_API_KEY")
	envString(&cfg.GenAIAPIKey, "GEMINI_API_KEY")
	if cfg.GenAIProvider == ProviderOpenAI {
		envString(&cfg.GenAIAPIKey, "OPENAI_API_KEY")
	}
	envString(&cfg.GenAIBaseURL, "GENAI_BASE_URL")
	envString(&cfg.GenAIModel, "GENAI_MODEL")
	envString(&cfg.GenAIModelLabel, "GENAI_MODEL_LABEL")
	envString(&cfg.RateLimitBackend, "RATE_LIMIT_BACKEND")
	envString(&cfg.CacheBackend, "CACHE_BACKEND")

	envString(&cfg.RedisHost, "REDIS_HOST")
	envString(&cfg.RedisPort, "REDIS_PORT")
	envString(&cfg.RedisPassword, "REDIS_PASSWORD")
	envString(&cfg.RedisURL, "REDIS_URL")

	envString(&cfg.DBDriver, "DB_DRIVER")
	envString(&cfg.SQLitePath, "SQLITE_PATH")
	envString(&cfg.DBHost, "DB_HOST")
	envString(&cfg.DBPort, "DB_PORT")
	envString(&cfg.DBUser, "DB_USER")
	envString(&cfg.DBPassword, "DB_PASSWORD")
	envString(&cfg.DBName, "DB_NAME")
	envString(&cfg.DBSSLMode, "DB_SSL_MODE")

	envString(&cfg.JWTSecret, "JWT_SECRET")
	envString(&cfg.ArchiveBucket, "ARCHIVE_BUCKET")
	envString(&cfg.AWSRegion, "AWS_REGION")
	envString(&cfg.LogLevel, "LOG_LEVEL")
	envString(&cfg.LogPath, "LOG_PATH")

	var errs []error
	errs = append(errs,
		envFloat(&cfg.GenAITemperature, "GENAI_TEMPERATURE"),
		envFloat(&cfg.GenAITopP, "GENAI_TOP_P"),
		envInt(&cfg.GenAITopK, "GENAI_TOP_K"),
		envInt(&cfg.GenAIMaxTokens, "GENAI_MAX_TOKENS"),
		envInt(&cfg.GenAITimeoutSeconds, "GENAI_TIMEOUT_SECONDS"),
		envBool(&cfg.GenAIProbeOnStartup, "GENAI_PROBE_ON_STARTUP"),
		envInt(&cfg.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE"),
		envInt(&cfg.CacheTTLSeconds, "CACHE_TTL_SECONDS"),
		envInt(&cfg.CacheMaxEntries, "CACHE_MAX_ENTRIES"),
		envInt(&cfg.CacheSweepSeconds, "CACHE_SWEEP_SECONDS"),
		envInt(&cfg.RedisDB, "REDIS_DB"),
	)
	return errors.Join(errs...)
}

// applySecrets fills sensitive values that the environment left empty.
func applySecrets(cfg *Config) error {
	if cfg.GenAIAPIKey == "" {
		key, err := readKeyFile()
		if err != nil {
			return err
		}
		cfg.GenAIAPIKey = key
	}
	if cfg.GenAIAPIKey == "" {
		cfg.GenAIAPIKey = readSecret("gemini_api_key")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = readSecret("jwt_secret")
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = readSecret("redis_password")
	}
	if cfg.DBPassword == "" {
		cfg.DBPassword = readSecret("db_password")
	}
	return nil
}

// readKeyFile honors GEMINI_API_KEY_FILE; an explicitly named file must exist.
func readKeyFile() (string, error) {
	path := os.Getenv("GEMINI_API_KEY_FILE")
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read API key file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return ValidationError{Field: key, Message: fmt.Sprintf("not an integer: %q", v)}
	}
	*dst = n
	return nil
}

func envFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return ValidationError{Field: key, Message: fmt.Sprintf("not a number: %q", v)}
	}
	*dst = f
	return nil
}

func envBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return ValidationError{Field: key, Message: fmt.Sprintf("not a boolean: %q", v)}
	}
	*dst = b
	return nil
}
