package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/model"
)

// DefaultOpenRouterURL is the public gateway base URL.
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

// OpenRouterClient talks to the OpenRouter chat-completions gateway.
type OpenRouterClient struct {
	APIKey  string
	BaseURL string
	Params  Params
	HTTP    *http.Client
	Retrier *Retrier
	Logger  logrus.FieldLogger
}

// NewOpenRouterClient creates a client with optional proxy support.
func NewOpenRouterClient(apiKey, baseURL, proxyURL string, p Params, logger logrus.FieldLogger) (*OpenRouterClient, error) {
	if apiKey == "" {
		return nil, errors.New("openrouter: api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}
	return &OpenRouterClient{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Params:  p,
		HTTP:    newHTTPClient(proxyURL, 120*time.Second),
		Retrier: NewRetrier(time.Second, logger),
		Logger:  logger,
	}, nil
}

func (c *OpenRouterClient) ModelID() string { return c.Params.Model }

// Converse sends prompt with the configured system message.
func (c *OpenRouterClient) Converse(ctx context.Context, prompt string, maxRetries int) (string, *model.TokenUsage, error) {
	endpoint := c.BaseURL + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.APIKey}
	body := newChatRequest(c.Params, prompt, true)
	return converse(ctx, c.Retrier, c.Logger, maxRetries, func(ctx context.Context) (string, *model.TokenUsage, error) {
		return postChat(ctx, c.HTTP, "OpenRouter", endpoint, headers, body)
	})
}
