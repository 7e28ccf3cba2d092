package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/model"
)

// DefaultAzureAPIVersion is the chat-completions API version used when none is configured.
const DefaultAzureAPIVersion = "2024-02-01"

// AzureClient talks to an Azure OpenAI deployment. The model id is the deployment name.
type AzureClient struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Params     Params
	HTTP       *http.Client
	Retrier    *Retrier
	Logger     logrus.FieldLogger
}

// NewAzureClient creates a client with optional proxy support.
func NewAzureClient(endpoint, apiKey, apiVersion, proxyURL string, p Params, logger logrus.FieldLogger) (*AzureClient, error) {
	if endpoint == "" || apiKey == "" {
		return nil, errors.New("azure: endpoint and api key are required")
	}
	if apiVersion == "" {
		apiVersion = DefaultAzureAPIVersion
	}
	return &AzureClient{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		APIKey:     apiKey,
		APIVersion: apiVersion,
		Params:     p,
		HTTP:       newHTTPClient(proxyURL, 120*time.Second),
		Retrier:    NewRetrier(time.Second, logger),
		Logger:     logger,
	}, nil
}

func (c *AzureClient) ModelID() string { return c.Params.Model }

// Converse sends prompt to the deployment.
func (c *AzureClient) Converse(ctx context.Context, prompt string, maxRetries int) (string, *model.TokenUsage, error) {
	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.Endpoint, url.PathEscape(c.Params.Model), url.QueryEscape(c.APIVersion))
	headers := map[string]string{"api-key": c.APIKey}
	body := newChatRequest(c.Params, prompt, false)
	return converse(ctx, c.Retrier, c.Logger, maxRetries, func(ctx context.Context) (string, *model.TokenUsage, error) {
		return postChat(ctx, c.HTTP, "Azure", endpoint, headers, body)
	})
}
