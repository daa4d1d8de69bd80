package fee

import (
	"context"
	"fmt"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SourceRevertedHandler reacts to clinical records being reverted to
// pending. Fee records derived from the reverted source are flagged for
// re-review; they are never deleted.
type SourceRevertedHandler struct {
	recordRepo FlaggableRecordRepository
	publisher  shared.EventPublisher
	clock      shared.Clock
	logger     *zap.Logger
}

// FlaggableRecordRepository is the slice of the fee record repository the
// reverted-source handler needs
type FlaggableRecordRepository interface {
	FindBySource(ctx context.Context, sourceID uuid.UUID) ([]fee.Record, error)
	Save(ctx context.Context, record *fee.Record) error
}

// NewSourceRevertedHandler creates a new handler for reverted source records
func NewSourceRevertedHandler(
	recordRepo FlaggableRecordRepository,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *SourceRevertedHandler {
	return &SourceRevertedHandler{
		recordRepo: recordRepo,
		publisher:  publisher,
		clock:      clock,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SourceRevertedHandler) EventTypes() []string {
	return []string{
		clinical.EventTypeProcedureRecordReverted,
		clinical.EventTypeDailyPatientCountReverted,
	}
}

// Handle flags every fee record derived from the reverted source
func (h *SourceRevertedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var sourceID, actor uuid.UUID

	switch e := event.(type) {
	case *clinical.ProcedureRecordRevertedEvent:
		sourceID, actor = e.RecordID, e.RevertedBy
	case *clinical.DailyPatientCountRevertedEvent:
		sourceID, actor = e.CountID, e.RevertedBy
	default:
		h.logger.Error("unexpected event type", zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	records, err := h.recordRepo.FindBySource(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("failed to load fee records for source: %w", err)
	}
	if len(records) == 0 {
		h.logger.Info("no fee records for reverted source",
			zap.String("source_id", sourceID.String()),
		)
		return nil
	}

	now := h.clock.Now()
	for i := range records {
		record := &records[i]
		if record.Status() == validation.StatusPending {
			// Already flagged by an earlier dispatch.
			continue
		}
		if err := record.FlagForReview(actor, now); err != nil {
			return fmt.Errorf("failed to flag fee record %s: %w", record.ID, err)
		}
		if err := h.recordRepo.Save(ctx, record); err != nil {
			return fmt.Errorf("failed to save flagged fee record %s: %w", record.ID, err)
		}

		events := record.GetDomainEvents()
		record.ClearDomainEvents()
		if err := h.publisher.Publish(ctx, events...); err != nil {
			h.logger.Error("failed to publish fee flagged events",
				zap.String("record_id", record.ID.String()),
				zap.Error(err),
			)
		}

		h.logger.Info("fee record flagged for re-review",
			zap.String("record_id", record.ID.String()),
			zap.String("source_id", sourceID.String()),
		)
	}

	return nil
}

// Ensure SourceRevertedHandler implements shared.EventHandler
var _ shared.EventHandler = (*SourceRevertedHandler)(nil)
