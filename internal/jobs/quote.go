package jobs

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/config"
	"CryptoSentinel/internal/daily"
	"CryptoSentinel/internal/llm"
	"CryptoSentinel/internal/notifier"
	"CryptoSentinel/internal/store"
)

// QuoteJob sends a quote of the day and logs the word it teaches.
type QuoteJob struct {
	Topics     []string
	LLM        llm.Client
	MaxRetries int
	Words      *store.WordLog
	Delivery   Delivery
	Logger     logrus.FieldLogger
	Rand       *rand.Rand
}

func (j *QuoteJob) Name() string { return config.JobQuote }

func (j *QuoteJob) Run(ctx context.Context) error {
	if j.Rand == nil {
		j.Rand = newRand()
	}
	topic, err := daily.Pick(j.Topics, j.Rand)
	if err != nil {
		return fmt.Errorf("pick topic: %w", err)
	}
	j.Logger.WithField("topic", topic).Info("generating quote")

	response, _, err := j.LLM.Converse(ctx, daily.QuotePrompt(topic), j.MaxRetries)
	if err != nil {
		return fmt.Errorf("quote: %w", err)
	}

	j.Delivery.text(ctx, notifier.FormatQuote(response, topic, j.LLM.ModelID()))

	word, ok := daily.ExtractWord(response)
	if !ok {
		j.Logger.Warn("no C-Level word found in quote")
		return nil
	}
	if err := j.Words.Append(word); err != nil {
		return fmt.Errorf("save word: %w", err)
	}
	j.Logger.WithField("word", word).Info("word of the day saved")
	return nil
}
