package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/notifier"
)

type fakeLLM struct {
	response string
	usage    *model.TokenUsage
	err      error
	prompts  []string
}

func (f *fakeLLM) Converse(_ context.Context, prompt string, _ int) (string, *model.TokenUsage, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", nil, f.err
	}
	return f.response, f.usage, nil
}

func (f *fakeLLM) ModelID() string { return "fake-model" }

type sentImage struct {
	path, caption string
}

type fakeNotifier struct {
	mu     sync.Mutex
	texts  []string
	images []sentImage
}

func (f *fakeNotifier) SendText(_ context.Context, _ int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
}

func (f *fakeNotifier) SendImage(_ context.Context, _ int64, path, caption string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images = append(f.images, sentImage{path, caption})
}

var _ notifier.Notifier = (*fakeNotifier)(nil)

type fakeReplies struct {
	reply   string
	err     error
	drained int
	waited  time.Duration
}

func (f *fakeReplies) Drain(context.Context) error {
	f.drained++
	return nil
}

func (f *fakeReplies) WaitForReply(_ context.Context, _ int64, timeout, _ time.Duration) (string, error) {
	f.waited = timeout
	return f.reply, f.err
}

type failingFetcher struct{}

func (failingFetcher) Name() string { return "failing" }

func (failingFetcher) FetchHistory(context.Context, int) ([]model.PricePoint, error) {
	return nil, errors.New("fetch historical price data: status 503")
}

func (failingFetcher) FetchSnapshot(context.Context) (*model.Snapshot, error) {
	return nil, errors.New("unreachable")
}

func (failingFetcher) FetchOHLC(context.Context, int) ([]model.OHLC, error) {
	return nil, errors.New("unreachable")
}

// echoLLM records the prompt through fakeLLM and then runs onPrompt.
type echoLLM struct {
	*fakeLLM
	onPrompt func()
}

func (e *echoLLM) Converse(ctx context.Context, prompt string, retries int) (string, *model.TokenUsage, error) {
	text, usage, err := e.fakeLLM.Converse(ctx, prompt, retries)
	e.onPrompt()
	return text, usage, err
}
