package llm

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/config"
)

// New builds the client selected by s.Provider.
func New(cfg *config.Config, s config.LLMSettings, logger logrus.FieldLogger) (Client, error) {
	temperature, topP := s.Sampling()
	p := Params{
		Model:         s.ModelID(),
		SystemMessage: s.SystemMessage,
		MaxTokens:     s.MaxTokens,
		Temperature:   temperature,
		TopP:          topP,
	}
	timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
	base := time.Duration(cfg.LLM.RetryBaseDelayMS) * time.Millisecond
	logger = logger.WithFields(logrus.Fields{"component": "llm", "provider": string(s.Provider), "model": p.Model})

	switch s.Provider {
	case config.ProviderAzure:
		c, err := NewAzureClient(cfg.LLM.Azure.Endpoint, cfg.LLM.Azure.APIKey, cfg.LLM.Azure.APIVersion, cfg.Proxy, p, logger)
		if err != nil {
			return nil, err
		}
		c.HTTP.Timeout = timeout
		c.Retrier.BaseDelay = base
		return c, nil
	case config.ProviderOpenRouter:
		c, err := NewOpenRouterClient(cfg.LLM.OpenRouter.APIKey, cfg.LLM.OpenRouter.BaseURL, cfg.Proxy, p, logger)
		if err != nil {
			return nil, err
		}
		c.HTTP.Timeout = timeout
		c.Retrier.BaseDelay = base
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", s.Provider)
	}
}
