package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrReplyTimeout is returned when no reply arrives before the deadline.
var ErrReplyTimeout = errors.New("no reply before timeout")

// Update is an inbound Telegram update.
type Update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// GetUpdates fetches pending updates starting at offset without long polling.
func (t *TelegramNotifier) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	apiURL := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=0", t.APIBase, t.BotToken, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create updates request: %w", err)
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read updates: %w", err)
	}
	var result struct {
		OK          bool     `json:"ok"`
		Description string   `json:"description"`
		Result      []Update `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("telegram API error: status %d: %s", resp.StatusCode, result.Description)
	}
	return result.Result, nil
}

// Acknowledge confirms every update up to lastID so it is not redelivered.
func (t *TelegramNotifier) Acknowledge(ctx context.Context, lastID int64) error {
	_, err := t.GetUpdates(ctx, lastID+1)
	return err
}

// Drain acknowledges whatever is pending so a later WaitForReply only sees
// messages sent after this call. Telegram returns at most 100 updates per
// call, so it keeps advancing the offset until a batch comes back empty.
func (t *TelegramNotifier) Drain(ctx context.Context) error {
	var offset int64
	for {
		updates, err := t.GetUpdates(ctx, offset)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		offset = updates[len(updates)-1].UpdateID + 1
	}
}

// WaitForReply polls every interval until a text message from chatID arrives
// or timeout elapses. Consumed updates are acknowledged before returning.
// Poll errors are logged and the loop keeps going.
func (t *TelegramNotifier) WaitForReply(ctx context.Context, chatID int64, timeout, interval time.Duration) (string, error) {
	deadline := t.Clock.Now().Add(timeout)
	for t.Clock.Now().Before(deadline) {
		updates, err := t.GetUpdates(ctx, 0)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			t.Logger.Warnf("polling for reply failed: %v", err)
		} else if len(updates) > 0 {
			last := updates[len(updates)-1].UpdateID
			if ackErr := t.Acknowledge(ctx, last); ackErr != nil {
				t.Logger.Warnf("acknowledge updates: %v", ackErr)
			}
			if text, ok := firstReply(updates, chatID); ok {
				t.Logger.WithField("update_id", last).Info("received reply")
				return text, nil
			}
		}
		if err := t.Clock.Sleep(ctx, interval); err != nil {
			return "", err
		}
	}
	return "", ErrReplyTimeout
}

func firstReply(updates []Update, chatID int64) (string, bool) {
	for _, u := range updates {
		if u.Message == nil || u.Message.Chat.ID != chatID {
			continue
		}
		if text := strings.TrimSpace(u.Message.Text); text != "" {
			return text, true
		}
	}
	return "", false
}
