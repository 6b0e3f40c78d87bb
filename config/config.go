package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string
	// CORSAllowedOrigins is empty to allow every origin
	CORSAllowedOrigins []string

	// Generation service configuration
	OllamaURL          string
	OllamaModel        string
	OllamaTemperature  float64
	OllamaTimeout      time.Duration
	OllamaAutoPull     bool
	RecipeBatchSize    int
	ResponseWrapper    string
	ResponseTrimPrefix int
	ResponseTrimSuffix int
	FallbackPolicy     string

	// User store configuration
	UserStore  string
	DataDir    string
	SQLitePath string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	RateLimitPerMinute int

	// Export configuration
	S3BucketName string
	AWSRegion    string
}

// User store drivers
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// UsersFile is the flat JSON file used by the file store.
func (c *Config) UsersFile() string {
	return filepath.Join(c.DataDir, "users.json")
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// ExportEnabled reports whether suggestion export to S3 is configured.
func (c *Config) ExportEnabled() bool {
	return c.S3BucketName != ""
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig creates a new Config instance with values from a .env file,
// environment variables or Docker secrets
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	cfg := &Config{Environment: GetEnvironment()}
	var errs []string
	parseErr := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigins = getList("CORS_ALLOWED_ORIGINS")

	cfg.OllamaURL = getEnv("OLLAMA_URL", "http://ollama:11434")
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", "gemma3:1b")
	cfg.ResponseWrapper = strings.ToLower(getEnv("RESPONSE_WRAPPER", "fence"))
	cfg.FallbackPolicy = strings.ToLower(getEnv("FALLBACK_POLICY", "fallback"))

	var err error
	cfg.OllamaTemperature, err = getFloat("OLLAMA_TEMPERATURE", 0.6)
	parseErr(err)
	cfg.OllamaTimeout, err = getDuration("OLLAMA_TIMEOUT", 180*time.Second)
	parseErr(err)
	cfg.OllamaAutoPull, err = getBool("OLLAMA_AUTO_PULL", true)
	parseErr(err)
	cfg.RecipeBatchSize, err = getInt("RECIPE_BATCH_SIZE", 5)
	parseErr(err)
	cfg.ResponseTrimPrefix, err = getInt("RESPONSE_TRIM_PREFIX", 8)
	parseErr(err)
	cfg.ResponseTrimSuffix, err = getInt("RESPONSE_TRIM_SUFFIX", 4)
	parseErr(err)

	cfg.UserStore = strings.ToLower(getEnv("USER_STORE", StoreFile))
	cfg.DataDir = getEnv("DATA_DIR", ".recipe_buddy_data")
	cfg.SQLitePath = getEnv("SQLITE_PATH", filepath.Join(cfg.DataDir, "recipe_buddy.db"))

	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnvOrSecret("DB_USER", "db_user", "postgres")
	cfg.DBPassword = getEnvOrSecret("DB_PASSWORD", "db_password", "")
	cfg.DBName = getEnv("DB_NAME", "recipe_buddy")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.RedisURL = getEnvOrSecret("REDIS_URL", "redis_url", "")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = getEnvOrSecret("REDIS_PASSWORD", "redis_password", "")
	cfg.RedisDB, err = getInt("REDIS_DB", 0)
	parseErr(err)
	cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 0)
	parseErr(err)

	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = os.Getenv("AWS_REGION")

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to parse configuration:\n%s", strings.Join(errs, "\n"))
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getEnvOrSecret prefers the environment variable and falls back to a Docker
// secret file.
func getEnvOrSecret(key, secret, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if v := readSecret(secret); v != "" {
		return v
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return f, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

// getDuration accepts Go durations ("90s", "3m") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
