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

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks every field and reports all problems at once
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if cfg.GroqAPIKey == "" {
		errs = append(errs, ValidationError{Field: "GROQ_API_KEY", Message: "GROQ_API_KEY, GROQ_API_KEY_FILE or the groq_api_key secret is required"})
	}
	if cfg.GroqAPIURL == "" {
		errs = append(errs, ValidationError{Field: "GROQ_API_URL", Message: "must not be empty"})
	}
	if cfg.GroqModel == "" {
		errs = append(errs, ValidationError{Field: "GROQ_MODEL", Message: "must not be empty"})
	}
	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: fmt.Sprintf("invalid port %q", cfg.ServerPort)})
	}
	if cfg.GroqTemperature < 0 || cfg.GroqTemperature > 2 {
		errs = append(errs, ValidationError{Field: "GROQ_TEMPERATURE", Message: "must be between 0 and 2"})
	}
	if cfg.LLMTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "LLM_TIMEOUT_SECONDS", Message: "must be positive"})
	}
	if cfg.LLMMaxRetries < 0 {
		errs = append(errs, ValidationError{Field: "LLM_MAX_RETRIES", Message: "must not be negative"})
	}
	if cfg.RateLimitPerHour <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_PER_HOUR", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
