package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredValue names a setting that must be non-empty in an environment.
type requiredValue struct {
	Field string
	Get   func(*Config) string
}

// Environment-specific requirements
var requirements = map[Environment][]requiredValue{
	Production: {
		{Field: "GEMINI_API_KEY", Get: func(c *Config) string { return c.GenAIAPIKey }},
	},
}

// ValidateConfig checks ranges, backend names and the per-environment
// requirements. All problems are reported together.
func ValidateConfig(cfg *Config) error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	for _, req := range requirements[cfg.Environment] {
		if req.Get(cfg) == "" {
			add(req.Field, fmt.Sprintf("required in %s environment", cfg.Environment))
		}
	}

	switch cfg.GenAIProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		add("GENAI_PROVIDER", fmt.Sprintf("unsupported provider %q", cfg.GenAIProvider))
	}
	if cfg.GenAIModel == "" {
		add("GENAI_MODEL", "must not be empty")
	}
	if cfg.GenAITemperature < 0 || cfg.GenAITemperature > 2 {
		add("GENAI_TEMPERATURE", "must be between 0 and 2")
	}
	if cfg.GenAITopP <= 0 || cfg.GenAITopP > 1 {
		add("GENAI_TOP_P", "must be in (0, 1]")
	}
	if cfg.GenAITopK < 0 {
		add("GENAI_TOP_K", "must not be negative")
	}
	if cfg.GenAIMaxTokens <= 0 {
		add("GENAI_MAX_TOKENS", "must be positive")
	}
	if cfg.GenAITimeoutSeconds <= 0 {
		add("GENAI_TIMEOUT_SECONDS", "must be positive")
	}

	if cfg.RateLimitPerMinute <= 0 {
		add("RATE_LIMIT_PER_MINUTE", "must be positive")
	}
	if cfg.CacheTTLSeconds <= 0 {
		add("CACHE_TTL_SECONDS", "must be positive")
	}
	if cfg.CacheMaxEntries <= 0 {
		add("CACHE_MAX_ENTRIES", "must be positive")
	}
	if cfg.CacheSweepSeconds <= 0 {
		add("CACHE_SWEEP_SECONDS", "must be positive")
	}
	if !validBackend(cfg.CacheBackend) {
		add("CACHE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.CacheBackend))
	}
	if !validBackend(cfg.RateLimitBackend) {
		add("RATE_LIMIT_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.RateLimitBackend))
	}

	switch cfg.DBDriver {
	case DriverNone:
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "required for the sqlite driver")
		}
	case DriverPostgres:
		if cfg.DBHost == "" {
			add("DB_HOST", "required for the postgres driver")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "required for the postgres driver")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}
	return nil
}

func validBackend(name string) bool {
	return name == BackendMemory || name == BackendRedis
}
