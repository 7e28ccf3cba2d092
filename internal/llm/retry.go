package llm

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// Retrier runs an operation with exponential backoff: the delay before retry
// n (0-based) is BaseDelay*2^n plus a random jitter below MaxJitter.
type Retrier struct {
	BaseDelay time.Duration
	MaxJitter time.Duration
	Sleep     func(ctx context.Context, d time.Duration) error
	Jitter    func(max time.Duration) time.Duration
	Logger    logrus.FieldLogger
}

// NewRetrier returns a Retrier sleeping on the wall clock.
func NewRetrier(base time.Duration, logger logrus.FieldLogger) *Retrier {
	return &Retrier{
		BaseDelay: base,
		MaxJitter: 500 * time.Millisecond,
		Sleep:     sleepContext,
		Jitter:    randomJitter,
		Logger:    logger,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}

// Delay returns the backoff before retry n.
func (r *Retrier) Delay(n int) time.Duration {
	d := r.BaseDelay << uint(n)
	if r.Jitter != nil {
		d += r.Jitter(r.MaxJitter)
	}
	return d
}

// Do calls op at most attempts times (at least once). Transient failures are
// retried after a backoff; any other error is returned immediately. When the
// budget runs out the last error is wrapped in an error matching both
// ErrRetriesExhausted and ErrPermanent.
func (r *Retrier) Do(ctx context.Context, attempts int, op func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for n := 0; n < attempts; n++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !IsTransient(err) {
			return err
		}
		lastErr = err
		if n == attempts-1 {
			break
		}

		delay := r.Delay(n)
		if r.Logger != nil {
			r.Logger.WithFields(logrus.Fields{
				"attempt": n + 1,
				"of":      attempts,
				"backoff": delay,
			}).Warnf("request failed: %v", err)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
	return &exhaustedError{attempts: attempts, last: lastErr}
}
