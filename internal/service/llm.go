package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pageza/nutrinavigator/backend/internal/pkg/logger"
)

// ErrCompletion marks any failure talking to the completion API
var ErrCompletion = errors.New("completion request failed")

// CompletionClient sends one prompt to a hosted model and returns its text reply
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMConfig configures LLMService
type LLMConfig struct {
	APIKey         string
	APIURL         string
	Model          string
	Temperature    float64
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
}

// LLMService handles interactions with an OpenAI compatible chat completions API (Groq)
type LLMService struct {
	apiKey         string
	apiURL         string
	model          string
	temperature    float64
	maxRetries     int
	initialBackoff time.Duration
	client         *http.Client
	log            *logger.Logger
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg LLMConfig, log *logger.Logger) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("completion API key must be set")
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("completion API URL must be set")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}

	return &LLMService{
		apiKey:         cfg.APIKey,
		apiURL:         cfg.APIURL,
		model:          cfg.Model,
		temperature:    cfg.Temperature,
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		client:         &http.Client{Timeout: cfg.Timeout},
		log:            log,
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat completions request
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// statusError is returned for non-200 responses
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *statusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Complete sends the prompt as a single user message and returns the first choice.
// Transport errors, 429 and 5xx responses are retried with exponential backoff.
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := Request{
		Model:       s.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: s.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := s.initialBackoff * time.Duration(1<<(attempt-1))
			s.log.Warn("retrying completion request", "attempt", attempt+1, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %w", ErrCompletion, ctx.Err())
			case <-time.After(backoff):
			}
		}

		content, err := s.send(ctx, jsonData)
		if err == nil {
			return content, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}
		if errors.Is(err, errNoChoices) {
			break
		}
	}

	return "", fmt.Errorf("%w: %w", ErrCompletion, lastErr)
}

var errNoChoices = errors.New("no response from API")

func (s *LLMService) send(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result completionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", errNoChoices
	}

	return result.Choices[0].Message.Content, nil
}
