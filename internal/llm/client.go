package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/model"
)

// Client sends one prompt to a hosted model and returns its reply. Usage is
// nil when the backend does not report token counts.
type Client interface {
	Converse(ctx context.Context, prompt string, maxRetries int) (string, *model.TokenUsage, error)
	ModelID() string
}

// Params are the generation parameters sent with every request.
type Params struct {
	Model         string
	SystemMessage string
	MaxTokens     int
	Temperature   float64
	TopP          float64
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Code     json.RawMessage `json:"code"`
		Message  string          `json:"message"`
		Metadata map[string]any  `json:"metadata"`
	} `json:"error"`
}

func newChatRequest(p Params, prompt string, includeModel bool) chatRequest {
	req := chatRequest{
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		TopP:        p.TopP,
	}
	if includeModel {
		req.Model = p.Model
	}
	if p.SystemMessage != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: p.SystemMessage})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: prompt})
	return req
}

// newHTTPClient builds an HTTP client with optional proxy support.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// postChat performs a single chat-completion request and decodes the reply.
func postChat(ctx context.Context, client *http.Client, backend, endpoint string, headers map[string]string, body chatRequest) (string, *model.TokenUsage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, &TransportError{Err: err}
	}

	var decoded chatResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
		if status.Transient() || decodeErr != nil || decoded.Error == nil {
			return "", nil, status
		}
		return "", nil, toAPIError(backend, &decoded)
	}
	if decodeErr != nil {
		return "", nil, fmt.Errorf("%w: decode response: %v", ErrPermanent, decodeErr)
	}
	if decoded.Error != nil {
		return "", nil, toAPIError(backend, &decoded)
	}
	if len(decoded.Choices) == 0 {
		return "", nil, fmt.Errorf("%w: response has no choices", ErrPermanent)
	}

	var usage *model.TokenUsage
	if decoded.Usage != nil {
		usage = &model.TokenUsage{
			InputTokens:  decoded.Usage.PromptTokens,
			OutputTokens: decoded.Usage.CompletionTokens,
			TotalTokens:  decoded.Usage.TotalTokens,
		}
	}
	return decoded.Choices[0].Message.Content, usage, nil
}

func toAPIError(backend string, r *chatResponse) *APIError {
	code := strings.Trim(string(r.Error.Code), `"`)
	if code == "" || code == "null" {
		code = "unknown code"
	}
	return &APIError{
		Backend:  backend,
		Code:     code,
		Message:  r.Error.Message,
		Metadata: r.Error.Metadata,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// converse runs one request through the retrier and logs token usage.
func converse(ctx context.Context, r *Retrier, logger logrus.FieldLogger, maxRetries int,
	call func(ctx context.Context) (string, *model.TokenUsage, error)) (string, *model.TokenUsage, error) {
	var (
		text  string
		usage *model.TokenUsage
	)
	err := r.Do(ctx, maxRetries, func(ctx context.Context) error {
		var err error
		text, usage, err = call(ctx)
		return err
	})
	if err != nil {
		return "", nil, err
	}
	if logger != nil && usage != nil {
		logger.WithFields(logrus.Fields{
			"input_tokens":  usage.InputTokens,
			"output_tokens": usage.OutputTokens,
			"total_tokens":  usage.TotalTokens,
		}).Info("llm response received")
	}
	return text, usage, nil
}
