package jobs

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/config"
	"CryptoSentinel/internal/llm"
	"CryptoSentinel/internal/notifier"
	"CryptoSentinel/internal/quiz"
	"CryptoSentinel/internal/store"
)

// QuizJob quizzes the chat on recently learned words and grades the reply.
type QuizJob struct {
	Words        *store.WordLog
	NWords       int
	LLM          llm.Client
	MaxRetries   int
	Replies      ReplyWaiter
	WaitForReply time.Duration
	PollInterval time.Duration
	Delivery     Delivery
	Logger       logrus.FieldLogger
	Rand         *rand.Rand
}

func (j *QuizJob) Name() string { return config.JobQuiz }

func (j *QuizJob) Run(ctx context.Context) error {
	if j.Rand == nil {
		j.Rand = newRand()
	}
	learned, err := j.Words.ReadAll()
	if err != nil {
		return fmt.Errorf("read word log: %w", err)
	}
	if len(learned) == 0 {
		return fmt.Errorf("word log %s is empty", j.Words.Path)
	}
	words := quiz.SelectWords(learned, j.NWords)
	shuffled := quiz.Shuffle(words, j.Rand)
	j.Logger.WithField("words", strings.Join(shuffled, ", ")).Info("generating quiz")

	sentences, usage, err := j.LLM.Converse(ctx, quiz.Prompt(shuffled), j.MaxRetries)
	if err != nil {
		return fmt.Errorf("quiz sentences: %w", err)
	}
	if usage != nil {
		j.Logger.WithField("total_tokens", usage.TotalTokens).Debug("quiz usage")
	}

	// Replies sent before the quiz must not count as answers.
	if err := j.Replies.Drain(ctx); err != nil {
		j.Logger.WithError(err).Warn("drain pending updates")
	}
	j.Delivery.text(ctx, notifier.FormatQuiz(words, sentences, j.LLM.ModelID()))

	reply, err := j.Replies.WaitForReply(ctx, j.Delivery.ChatID, j.WaitForReply, j.PollInterval)
	if errors.Is(err, notifier.ErrReplyTimeout) {
		j.Logger.WithField("wait", j.WaitForReply).Info("no reply received")
		j.Delivery.text(ctx, notifier.NoReplyMessage)
		return nil
	}
	if err != nil {
		return fmt.Errorf("wait for reply: %w", err)
	}
	j.Logger.WithField("reply", reply).Info("reply received")

	j.Delivery.text(ctx, quiz.EvaluateAnswers(shuffled, quiz.ParseReply(reply)))
	return nil
}
