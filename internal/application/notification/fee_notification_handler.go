// Package notification forwards fee pipeline events to the clinic's
// messaging channel. Delivery is fire-and-forget; a lost message never
// fails fee generation.
package notification

import (
	"context"
	"fmt"

	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Notifier delivers a plain-text message to the configured channel
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// FeeNotificationHandler forwards fee record events to the Notifier
type FeeNotificationHandler struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewFeeNotificationHandler creates a new FeeNotificationHandler
func NewFeeNotificationHandler(notifier Notifier, logger *zap.Logger) *FeeNotificationHandler {
	return &FeeNotificationHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler processes
func (h *FeeNotificationHandler) EventTypes() []string {
	return []string{
		fee.EventTypeRecordGenerated,
		fee.EventTypeGenerationFailed,
		fee.EventTypeRecordFlagged,
	}
}

// Handle formats the event and hands it to the notifier. Delivery errors
// are logged and swallowed so the event is never retried for a chat hiccup.
func (h *FeeNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var message string

	switch e := event.(type) {
	case *fee.RecordGeneratedEvent:
		message = fmt.Sprintf(
			"Jaspel tercatat: Rp %s untuk %s (tanggal layanan %s, dasar %s)",
			e.Amount.StringFixed(0),
			e.BeneficiaryID.String(),
			e.ServiceDate.Format("2006-01-02"),
			e.Basis,
		)
	case *fee.GenerationFailedEvent:
		message = fmt.Sprintf(
			"PERHATIAN: perhitungan jaspel gagal untuk sumber %s (%s): %s",
			e.SourceID.String(),
			e.SourceType,
			e.Reason,
		)
	case *fee.RecordFlaggedEvent:
		message = fmt.Sprintf(
			"Jaspel %s dikembalikan ke status PENDING karena sumbernya dibatalkan",
			e.RecordID.String(),
		)
	default:
		return nil
	}

	if err := h.notifier.Notify(ctx, message); err != nil {
		h.logger.Error("notification delivery failed",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
	}
	return nil
}

// Ensure FeeNotificationHandler implements shared.EventHandler
var _ shared.EventHandler = (*FeeNotificationHandler)(nil)
