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
)

// BusinessJob sends one psychological tip for a random business scenario.
type BusinessJob struct {
	Scenarios     []string
	ContextTwists []string
	LLM           llm.Client
	MaxRetries    int
	Delivery      Delivery
	Logger        logrus.FieldLogger
	Rand          *rand.Rand
}

func (j *BusinessJob) Name() string { return config.JobBusiness }

func (j *BusinessJob) Run(ctx context.Context) error {
	if j.Rand == nil {
		j.Rand = newRand()
	}
	scenario, err := daily.Pick(j.Scenarios, j.Rand)
	if err != nil {
		return fmt.Errorf("pick scenario: %w", err)
	}
	twist, alternative, err := daily.PickTwists(j.ContextTwists, j.Rand)
	if err != nil {
		return err
	}
	j.Logger.WithFields(logrus.Fields{"scenario": scenario, "twist": twist}).Info("generating business advice")

	response, _, err := j.LLM.Converse(ctx, daily.BusinessPrompt(scenario, twist, alternative), j.MaxRetries)
	if err != nil {
		return fmt.Errorf("business advice: %w", err)
	}
	j.Delivery.text(ctx, notifier.FormatBusinessAdvice(response, scenario, twist, j.LLM.ModelID()))
	return nil
}
