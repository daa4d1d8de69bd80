package fee

import (
	"context"
	"fmt"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProcedureApprovedHandler handles ProcedureRecordApprovedEvent and
// generates the per-procedure service fee for the attending staff
type ProcedureApprovedHandler struct {
	generator *Generator
	logger    *zap.Logger
}

// NewProcedureApprovedHandler creates a new handler for approved procedures
func NewProcedureApprovedHandler(generator *Generator, logger *zap.Logger) *ProcedureApprovedHandler {
	return &ProcedureApprovedHandler{
		generator: generator,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ProcedureApprovedHandler) EventTypes() []string {
	return []string{clinical.EventTypeProcedureRecordApproved}
}

// Handle processes a ProcedureRecordApprovedEvent
func (h *ProcedureApprovedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	approved, ok := event.(*clinical.ProcedureRecordApprovedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", clinical.EventTypeProcedureRecordApproved),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			clinical.EventTypeProcedureRecordApproved, event.EventType())
	}

	h.logger.Info("processing approved procedure for fee generation",
		zap.String("record_id", approved.RecordID.String()),
		zap.String("beneficiary_id", approved.BeneficiaryID.String()),
		zap.String("department", approved.Department.String()),
		zap.String("shift", approved.Shift.String()),
	)

	return h.generator.Generate(ctx, GenerationInput{
		SourceID:      approved.RecordID,
		SourceType:    "ProcedureRecord",
		BeneficiaryID: approved.BeneficiaryID,
		Department:    approved.Department,
		Shift:         approved.Shift,
		Basis:         fee.BasisPerProcedure,
		Quantity:      1,
		ServiceDate:   approved.PerformedAt,
		ApprovedBy:    approved.ApprovedBy,
		Description:   "Jaspel tindakan " + approved.ProcedureType,
	})
}

// Ensure ProcedureApprovedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ProcedureApprovedHandler)(nil)
