// Package notification delivers operator-facing messages about the fee
// pipeline. Delivery is fire-and-forget from the caller's perspective; a
// down channel must never fail fee generation.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clinic/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages to a Telegram chat through the Bot API.
// Each delivery gets a bounded number of attempts with its own timeout;
// exhausting them returns the last error for the caller to log.
type TelegramNotifier struct {
	client   *http.Client
	baseURL  string
	botToken string
	chatID   string
	attempts int
	logger   *zap.Logger
}

// NewTelegramNotifier creates a notifier from the Telegram configuration
func NewTelegramNotifier(cfg config.TelegramConfig, logger *zap.Logger) *TelegramNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	return &TelegramNotifier{
		client:   &http.Client{Timeout: timeout},
		baseURL:  telegramAPIBase,
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		attempts: attempts,
		logger:   logger,
	}
}

// Notify sends a message to the configured chat, retrying failed attempts
func (n *TelegramNotifier) Notify(ctx context.Context, message string) error {
	var lastErr error
	for attempt := 1; attempt <= n.attempts; attempt++ {
		if err := n.send(ctx, message); err != nil {
			lastErr = err
			n.logger.Warn("telegram delivery attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", n.attempts),
				zap.Error(err),
			)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("telegram delivery failed after %d attempts: %w", n.attempts, lastErr)
}

func (n *TelegramNotifier) send(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": n.chatID,
		"text":    message,
	})
	if err != nil {
		return fmt.Errorf("failed to encode telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
