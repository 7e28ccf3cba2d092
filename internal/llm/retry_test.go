package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoSentinel/internal/logging"
)

type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func testRetrier(rec *sleepRecorder) *Retrier {
	return &Retrier{
		BaseDelay: 100 * time.Millisecond,
		MaxJitter: 50 * time.Millisecond,
		Sleep:     rec.sleep,
		Jitter:    func(time.Duration) time.Duration { return 7 * time.Millisecond },
		Logger:    logging.Discard(),
	}
}

func TestRetrier_SleepsOncePerTransientFailure(t *testing.T) {
	for k := 0; k < 3; k++ {
		rec := &sleepRecorder{}
		calls := 0
		err := testRetrier(rec).Do(context.Background(), 3, func(context.Context) error {
			calls++
			if calls <= k {
				return &StatusError{StatusCode: 503}
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, k+1, calls)
		assert.Len(t, rec.delays, k)
	}
}

func TestRetrier_ExponentialBackoffWithJitter(t *testing.T) {
	rec := &sleepRecorder{}
	err := testRetrier(rec).Do(context.Background(), 4, func(context.Context) error {
		return &TransportError{Err: errors.New("connection reset")}
	})
	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, []time.Duration{
		107 * time.Millisecond,
		207 * time.Millisecond,
		407 * time.Millisecond,
	}, rec.delays)
}

func TestRetrier_ExhaustedKeepsLastError(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	err := testRetrier(rec).Do(context.Background(), 3, func(context.Context) error {
		calls++
		return &StatusError{StatusCode: 429, Body: "slow down"}
	})
	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, ErrPermanent)
	assert.False(t, IsTransient(err))
	assert.EqualError(t, err, "llm: retries exhausted after 3 attempts: unexpected status 429: slow down")
	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, 429, status.StatusCode)
	assert.Equal(t, 3, calls)
	assert.Len(t, rec.delays, 2)
}

func TestRetrier_PermanentErrorShortCircuits(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	apiErr := &APIError{Backend: "OpenRouter", Code: "502", Message: "provider down"}
	err := testRetrier(rec).Do(context.Background(), 5, func(context.Context) error {
		calls++
		return apiErr
	})
	assert.Same(t, apiErr, err)
	assert.ErrorIs(t, err, ErrPermanent)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestRetrier_ClientErrorIsNotRetried(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	err := testRetrier(rec).Do(context.Background(), 3, func(context.Context) error {
		calls++
		return &StatusError{StatusCode: 401}
	})
	assert.ErrorIs(t, err, ErrPermanent)
	assert.Equal(t, 1, calls)
}

func TestRetrier_ZeroBudgetStillTriesOnce(t *testing.T) {
	calls := 0
	err := testRetrier(&sleepRecorder{}).Do(context.Background(), 0, func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrier_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := testRetrier(&sleepRecorder{})
	r.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}
	err := r.Do(ctx, 3, func(context.Context) error {
		return &StatusError{StatusCode: 500}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{
		Backend:  "OpenRouter",
		Code:     "429",
		Message:  "Rate limit exceeded",
		Metadata: map[string]any{"provider_name": "Chutes", "raw": "busy"},
	}
	assert.Equal(t, "OpenRouter API error [429]: Rate limit exceeded (provider_name=Chutes, raw=busy)", err.Error())
}
