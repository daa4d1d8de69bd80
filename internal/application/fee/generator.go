// Package fee wires approved clinical records to service-fee generation:
// event handlers resolve the applicable formula, compute the amount and
// persist an auto-approved fee record exactly once per source.
package fee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerationInput carries everything needed to derive one fee record from
// an approved source record
type GenerationInput struct {
	SourceID      uuid.UUID
	SourceType    string
	BeneficiaryID uuid.UUID
	Department    clinical.Department
	Shift         clinical.Shift
	Basis         fee.Basis
	Quantity      int64
	ServiceDate   time.Time
	ApprovedBy    uuid.UUID
	Description   string
}

// PipelineMetrics counts fee generation outcomes. Implementations must be
// cheap; the generator calls them on the hot path.
type PipelineMetrics interface {
	RecordGenerated(ctx context.Context)
	RecordSuppressed(ctx context.Context)
	RecordFailed(ctx context.Context)
}

// Generator turns approved source records into fee records. It is shared by
// the per-procedure and daily-count handlers and by the sweep scheduler.
type Generator struct {
	formulaRepo fee.FormulaRepository
	recordRepo  fee.RecordRepository
	resolver    *fee.Resolver
	publisher   shared.EventPublisher
	clock       shared.Clock
	metrics     PipelineMetrics
	logger      *zap.Logger
}

// NewGenerator creates a new fee generator
func NewGenerator(
	formulaRepo fee.FormulaRepository,
	recordRepo fee.RecordRepository,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		formulaRepo: formulaRepo,
		recordRepo:  recordRepo,
		resolver:    fee.NewResolver(),
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
	}
}

// SetMetrics attaches outcome counters to the generator. A nil receiver is
// the default and disables metric recording.
func (g *Generator) SetMetrics(metrics PipelineMetrics) {
	g.metrics = metrics
}

func (g *Generator) countGenerated(ctx context.Context) {
	if g.metrics != nil {
		g.metrics.RecordGenerated(ctx)
	}
}

func (g *Generator) countSuppressed(ctx context.Context) {
	if g.metrics != nil {
		g.metrics.RecordSuppressed(ctx)
	}
}

func (g *Generator) countFailed(ctx context.Context) {
	if g.metrics != nil {
		g.metrics.RecordFailed(ctx)
	}
}

// Generate derives and persists the fee record for the input. It is safe to
// call any number of times for the same source: a fee that already exists
// for the (beneficiary, service date, basis) key is treated as success.
// Quantities below every formula threshold are a normal no-op.
func (g *Generator) Generate(ctx context.Context, input GenerationInput) error {
	// The uniqueness key carries the date only.
	input.ServiceDate = time.Date(input.ServiceDate.Year(), input.ServiceDate.Month(), input.ServiceDate.Day(), 0, 0, 0, 0, time.UTC)

	exists, err := g.recordRepo.ExistsByKey(ctx, input.BeneficiaryID, input.ServiceDate, input.Basis)
	if err != nil {
		return fmt.Errorf("failed to check existing fee record: %w", err)
	}
	if exists {
		g.countSuppressed(ctx)
		g.logger.Info("fee record already exists, skipping",
			zap.String("source_id", input.SourceID.String()),
			zap.String("beneficiary_id", input.BeneficiaryID.String()),
			zap.String("basis", input.Basis.String()),
		)
		return nil
	}

	candidates, err := g.formulaRepo.FindActive(ctx, input.Department, input.Shift, input.Basis)
	if err != nil {
		return fmt.Errorf("failed to load fee formulas: %w", err)
	}

	formula := g.resolver.Resolve(candidates, input.Department, input.Shift, input.Basis, input.Quantity)
	if formula == nil {
		g.logger.Info("no formula qualifies, no fee owed",
			zap.String("source_id", input.SourceID.String()),
			zap.String("department", input.Department.String()),
			zap.String("shift", input.Shift.String()),
			zap.String("basis", input.Basis.String()),
			zap.Int64("quantity", input.Quantity),
		)
		return nil
	}

	amount := formula.Compute(input.Quantity)
	now := g.clock.Now()

	record, err := fee.NewAutoApprovedRecord(
		input.BeneficiaryID,
		input.ServiceDate,
		input.Shift,
		input.Basis,
		amount,
		input.Description,
		input.SourceID,
		formula.ID,
		input.ApprovedBy,
		now,
	)
	if err != nil {
		// Bad source data will not improve on retry. Surface it to the
		// operator queue instead of failing the handler.
		g.countFailed(ctx)
		g.logger.Error("fee record rejected by domain rules",
			zap.String("source_id", input.SourceID.String()),
			zap.String("beneficiary_id", input.BeneficiaryID.String()),
			zap.Error(err),
		)
		failed := fee.NewGenerationFailedEvent(input.SourceID, input.SourceType, input.BeneficiaryID, err.Error(), now)
		if pubErr := g.publisher.Publish(ctx, failed); pubErr != nil {
			g.logger.Error("failed to publish generation failure", zap.Error(pubErr))
		}
		return nil
	}

	if err := g.recordRepo.CreateIfAbsent(ctx, record); err != nil {
		if errors.Is(err, shared.ErrDuplicateFee) {
			// A concurrent dispatch won the insert race. The fee exists,
			// which is the outcome we wanted.
			g.countSuppressed(ctx)
			g.logger.Info("duplicate fee suppressed",
				zap.String("source_id", input.SourceID.String()),
				zap.String("beneficiary_id", input.BeneficiaryID.String()),
				zap.String("basis", input.Basis.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to save fee record: %w", err)
	}

	events := record.GetDomainEvents()
	record.ClearDomainEvents()
	if err := g.publisher.Publish(ctx, events...); err != nil {
		g.logger.Error("failed to publish fee record events",
			zap.String("record_id", record.ID.String()),
			zap.Error(err),
		)
	}

	g.countGenerated(ctx)
	g.logger.Info("fee record generated",
		zap.String("record_id", record.ID.String()),
		zap.String("source_id", input.SourceID.String()),
		zap.String("beneficiary_id", input.BeneficiaryID.String()),
		zap.String("formula_id", formula.ID.String()),
		zap.String("amount", amount.String()),
	)

	return nil
}
