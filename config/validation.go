package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines values that must be set for an environment
type ConfigRequirements struct {
	// RequirePostgresPassword rejects a postgres user store without a password.
	RequirePostgresPassword bool
	// RequireRedisPassword rejects a Redis host without a password.
	RequireRedisPassword bool
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI:          {RequirePostgresPassword: true},
		Production:  {RequirePostgresPassword: true, RequireRedisPassword: true},
	}

	validWrappers = []string{"fence", "offset", "none"}
	validPolicies = []string{"fallback", "raw"}
	validStores   = []string{StoreFile, StoreSQLite, StorePostgres}
)

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[cfg.Environment]

	var errs []ValidationError
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		add("SERVER_PORT", "must be a port number, got %q", cfg.ServerPort)
	}
	if cfg.OllamaURL == "" {
		add("OLLAMA_URL", "is required")
	}
	if cfg.OllamaTemperature < 0 || cfg.OllamaTemperature > 2 {
		add("OLLAMA_TEMPERATURE", "must be between 0 and 2, got %v", cfg.OllamaTemperature)
	}
	if cfg.OllamaTimeout <= 0 {
		add("OLLAMA_TIMEOUT", "must be positive")
	}
	if cfg.RecipeBatchSize < 1 {
		add("RECIPE_BATCH_SIZE", "must be at least 1, got %d", cfg.RecipeBatchSize)
	}
	if !oneOf(cfg.ResponseWrapper, validWrappers) {
		add("RESPONSE_WRAPPER", "must be one of %s, got %q", strings.Join(validWrappers, ", "), cfg.ResponseWrapper)
	}
	if cfg.ResponseTrimPrefix < 0 || cfg.ResponseTrimSuffix < 0 {
		add("RESPONSE_TRIM_PREFIX", "trim widths must not be negative")
	}
	if !oneOf(cfg.FallbackPolicy, validPolicies) {
		add("FALLBACK_POLICY", "must be one of %s, got %q", strings.Join(validPolicies, ", "), cfg.FallbackPolicy)
	}
	if !oneOf(cfg.UserStore, validStores) {
		add("USER_STORE", "must be one of %s, got %q", strings.Join(validStores, ", "), cfg.UserStore)
	}
	if cfg.UserStore == StoreFile && cfg.DataDir == "" {
		add("DATA_DIR", "is required for the file store")
	}
	if cfg.RateLimitPerMinute < 0 {
		add("RATE_LIMIT_PER_MINUTE", "must not be negative")
	}
	if cfg.RateLimitPerMinute > 0 && !cfg.RedisEnabled() {
		add("RATE_LIMIT_PER_MINUTE", "requires REDIS_URL or REDIS_HOST")
	}

	// Validate sensitive values
	if reqs.RequirePostgresPassword && cfg.UserStore == StorePostgres && cfg.DBPassword == "" {
		add("DB_PASSWORD", "is required in %s (env var or db_password secret)", cfg.Environment)
	}
	if reqs.RequireRedisPassword && cfg.RedisHost != "" && cfg.RedisURL == "" && cfg.RedisPassword == "" {
		add("REDIS_PASSWORD", "is required in %s (env var or redis_password secret)", cfg.Environment)
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
