package fee

import (
	"context"
	"fmt"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DailyCountApprovedHandler handles DailyPatientCountApprovedEvent and
// generates the daily-aggregate service fee for the physician
type DailyCountApprovedHandler struct {
	generator *Generator
	logger    *zap.Logger
}

// NewDailyCountApprovedHandler creates a new handler for approved daily counts
func NewDailyCountApprovedHandler(generator *Generator, logger *zap.Logger) *DailyCountApprovedHandler {
	return &DailyCountApprovedHandler{
		generator: generator,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *DailyCountApprovedHandler) EventTypes() []string {
	return []string{clinical.EventTypeDailyPatientCountApproved}
}

// Handle processes a DailyPatientCountApprovedEvent
func (h *DailyCountApprovedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	approved, ok := event.(*clinical.DailyPatientCountApprovedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", clinical.EventTypeDailyPatientCountApproved),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			clinical.EventTypeDailyPatientCountApproved, event.EventType())
	}

	total := int64(approved.GeneralCount + approved.InsuredCount)

	h.logger.Info("processing approved daily count for fee generation",
		zap.String("count_id", approved.CountID.String()),
		zap.String("physician_id", approved.PhysicianID.String()),
		zap.String("department", approved.Department.String()),
		zap.String("shift", approved.Shift.String()),
		zap.Int64("total_patients", total),
	)

	description := fmt.Sprintf("Jaspel %s shift %s (%d pasien)",
		approved.Department.String(), approved.Shift.String(), total)

	return h.generator.Generate(ctx, GenerationInput{
		SourceID:      approved.CountID,
		SourceType:    "DailyPatientCount",
		BeneficiaryID: approved.PhysicianID,
		Department:    approved.Department,
		Shift:         approved.Shift,
		Basis:         fee.BasisDailyCount,
		Quantity:      total,
		ServiceDate:   approved.CountDate,
		ApprovedBy:    approved.ApprovedBy,
		Description:   description,
	})
}

// Ensure DailyCountApprovedHandler implements shared.EventHandler
var _ shared.EventHandler = (*DailyCountApprovedHandler)(nil)
