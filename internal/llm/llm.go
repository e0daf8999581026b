package llm

import (
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/workhub-io/assistant/internal/config"
)

var (
	// ErrProviderUnavailable covers network failures, timeouts, rate limits
	// and provider-side (5xx) errors. The request may succeed if retried.
	ErrProviderUnavailable = errors.New("language model provider unavailable")
	// ErrProviderRejected covers 4xx responses: the provider understood the
	// request and refused it, e.g. a malformed prompt or bad credentials.
	ErrProviderRejected = errors.New("language model provider rejected the request")
)

// NewClient creates a new OpenAI-compatible client
func NewClient(cfg config.LLMConfig) *openai.Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return openai.NewClientWithConfig(config)
}

// ClassifyError wraps a provider error as ErrProviderUnavailable or
// ErrProviderRejected so the caller can choose its apology.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 && apiErr.HTTPStatusCode != http.StatusTooManyRequests {
			return errors.Join(ErrProviderRejected, err)
		}
		return errors.Join(ErrProviderUnavailable, err)
	}
	// Anything not shaped like an API response (network error, timeout,
	// canceled context) is an availability problem.
	return errors.Join(ErrProviderUnavailable, err)
}
