// Package jobs implements the scheduled units of work: market data fetch,
// crypto report, quote of the day, business advice and word quiz.
package jobs

import (
	"context"
	"math/rand"
	"time"

	"CryptoSentinel/internal/notifier"
)

// Job is one runnable unit. Run returns a non-nil error when the run aborted.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// ReplyWaiter polls the chat for an answer.
type ReplyWaiter interface {
	Drain(ctx context.Context) error
	WaitForReply(ctx context.Context, chatID int64, timeout, interval time.Duration) (string, error)
}

// Delivery is where a job sends its output.
type Delivery struct {
	Notifier notifier.Notifier
	ChatID   int64
}

func (d Delivery) text(ctx context.Context, text string) {
	d.Notifier.SendText(ctx, d.ChatID, text)
}

func (d Delivery) image(ctx context.Context, path, caption string) {
	d.Notifier.SendImage(ctx, d.ChatID, path, caption)
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
