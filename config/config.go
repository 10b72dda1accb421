package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultServerPort       = "8080"
	defaultGroqAPIURL       = "https://api.groq.com/openai/v1/chat/completions"
	defaultGroqModel        = "llama3-70b-8192"
	defaultLLMTimeout       = 30 * time.Second
	defaultLLMMaxRetries    = 2
	defaultRateLimitPerHour = 30
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Completion API configuration
	GroqAPIKey      string
	GroqAPIURL      string
	GroqModel       string
	GroqTemperature float64
	LLMTimeout      time.Duration
	LLMMaxRetries   int

	// Redis is optional; without it rate limiting stays in process
	RedisURL string

	RateLimitPerHour   int
	CORSAllowedOrigins []string
	LogMode            string
}

// Addr returns the host:port the HTTP server listens on
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig reads configuration from a .env file (if present), environment variables
// and the secrets directory, then validates it.
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	env := GetEnvironment()
	cfg := &Config{
		Environment:        env,
		ServerPort:         getEnv("SERVER_PORT", defaultServerPort),
		ServerHost:         os.Getenv("SERVER_HOST"),
		GroqAPIURL:         getEnv("GROQ_API_URL", defaultGroqAPIURL),
		GroqModel:          getEnv("GROQ_MODEL", defaultGroqModel),
		RedisURL:           os.Getenv("REDIS_URL"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		LogMode:            getEnv("LOG_MODE", defaultLogMode(env)),
	}

	var errs ValidationErrors

	apiKey, err := loadAPIKey()
	if err != nil {
		errs = append(errs, ValidationError{Field: "GROQ_API_KEY", Message: err.Error()})
	}
	cfg.GroqAPIKey = apiKey

	if cfg.GroqTemperature, err = getFloat("GROQ_TEMPERATURE", 0); err != nil {
		errs = append(errs, ValidationError{Field: "GROQ_TEMPERATURE", Message: err.Error()})
	}
	timeoutSec, err := getInt("LLM_TIMEOUT_SECONDS", int(defaultLLMTimeout/time.Second))
	if err != nil {
		errs = append(errs, ValidationError{Field: "LLM_TIMEOUT_SECONDS", Message: err.Error()})
	}
	cfg.LLMTimeout = time.Duration(timeoutSec) * time.Second
	if cfg.LLMMaxRetries, err = getInt("LLM_MAX_RETRIES", defaultLLMMaxRetries); err != nil {
		errs = append(errs, ValidationError{Field: "LLM_MAX_RETRIES", Message: err.Error()})
	}
	if cfg.RateLimitPerHour, err = getInt("RATE_LIMIT_PER_HOUR", defaultRateLimitPerHour); err != nil {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_PER_HOUR", Message: err.Error()})
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load configuration: %w", errs)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads ENV_FILE (default .env). A missing file is not an error.
func loadDotEnv() error {
	path := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadAPIKey resolves the completion API key from GROQ_API_KEY, GROQ_API_KEY_FILE or
// the groq_api_key Docker secret, in that order.
func loadAPIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("GROQ_API_KEY")); key != "" {
		return key, nil
	}

	if keyFile := os.Getenv("GROQ_API_KEY_FILE"); keyFile != "" {
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return "", fmt.Errorf("failed to read API key file: %w", err)
		}
		key := strings.TrimSpace(string(data))
		if key == "" {
			return "", fmt.Errorf("API key file is empty")
		}
		return key, nil
	}

	return readSecret("groq_api_key"), nil
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

func defaultLogMode(env Environment) string {
	if env == Production {
		return "production"
	}
	return "development"
}

func getEnv(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func getInt(name string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("must be an integer, got %q", v)
	}
	return i, nil
}

func getFloat(name string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("must be a number, got %q", v)
	}
	return f, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
