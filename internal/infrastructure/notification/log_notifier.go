package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes messages to the application log instead of an external
// channel. Used when Telegram is disabled and in development environments.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by the application log
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message at info level
func (n *LogNotifier) Notify(_ context.Context, message string) error {
	n.logger.Info("notification", zap.String("message", message))
	return nil
}
