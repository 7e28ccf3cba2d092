package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
)

// MaxMessageRunes is the Telegram limit for one text message.
const MaxMessageRunes = 4096

// Notifier delivers text and images to a chat. Delivery is best effort:
// failures are logged, never returned.
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string)
	SendImage(ctx context.Context, chatID int64, path, caption string)
}

// Clock abstracts time for the polling loop and send retries.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// TelegramNotifier sends messages through the Telegram Bot API.
type TelegramNotifier struct {
	BotToken   string
	APIBase    string
	MaxRetries int
	Client     *http.Client
	Clock      Clock
	Logger     logrus.FieldLogger

	bot *bot.Bot
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, apiBase, proxyURL string, logger logrus.FieldLogger) (*TelegramNotifier, error) {
	if botToken == "" {
		return nil, errors.New("telegram: bot token cannot be empty")
	}
	if apiBase == "" {
		apiBase = "https://api.telegram.org"
	}
	apiBase = strings.TrimRight(apiBase, "/")

	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{Timeout: 30 * time.Second, Transport: transport}

	b, err := bot.New(botToken,
		bot.WithServerURL(apiBase),
		bot.WithHTTPClient(time.Minute, client),
		bot.WithSkipGetMe(),
	)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{
		BotToken:   botToken,
		APIBase:    apiBase,
		MaxRetries: 2,
		Client:     client,
		Clock:      realClock{},
		Logger:     logger.WithField("component", "telegram"),
		bot:        b,
	}, nil
}

// SendText sends text, split into chunks Telegram accepts.
func (t *TelegramNotifier) SendText(ctx context.Context, chatID int64, text string) {
	chunks := SplitMessage(text, MaxMessageRunes)
	for i, chunk := range chunks {
		err := t.withRetry(ctx, func() error {
			_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   chunk,
			})
			return err
		})
		if err != nil {
			t.Logger.WithFields(logrus.Fields{"chunk": i + 1, "of": len(chunks)}).
				Errorf("send message: %v", err)
			return
		}
	}
}

// SendImage uploads the file at path as a photo.
func (t *TelegramNotifier) SendImage(ctx context.Context, chatID int64, path, caption string) {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Logger.Errorf("send photo: the file at %s could not be read: %v", path, err)
		return
	}
	err = t.withRetry(ctx, func() error {
		_, err := t.bot.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileUpload{Filename: filepath.Base(path), Data: bytes.NewReader(data)},
			Caption: caption,
		})
		return err
	})
	if err != nil {
		t.Logger.Errorf("send photo: %v", err)
	}
}

// withRetry runs send with exponential backoff, giving up on cancellation.
func (t *TelegramNotifier) withRetry(ctx context.Context, send func() error) error {
	var lastErr error
	for i := 0; i <= t.MaxRetries; i++ {
		if lastErr = send(); lastErr == nil {
			return nil
		}
		if i == t.MaxRetries {
			break
		}
		backoff := time.Duration(1<<uint(i)) * time.Second
		t.Logger.Warnf("telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, t.MaxRetries+1, lastErr, backoff)
		if err := t.Clock.Sleep(ctx, backoff); err != nil {
			return err
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", t.MaxRetries+1, lastErr)
}

// SplitMessage splits text into chunks of at most limit runes, breaking on
// line boundaries where possible.
func SplitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	lines := strings.SplitAfter(text, "\n")
	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		if curLen+n <= limit {
			cur.WriteString(line)
			curLen += n
			continue
		}
		flush()
		for n > limit {
			r := []rune(line)
			chunks = append(chunks, string(r[:limit]))
			line = string(r[limit:])
			n -= limit
		}
		cur.WriteString(line)
		curLen = n
	}
	flush()
	return chunks
}
