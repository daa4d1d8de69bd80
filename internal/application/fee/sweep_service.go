package fee

import (
	"context"
	"fmt"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"go.uber.org/zap"
)

// SweepService is the safety net behind the event pipeline: it picks up
// approved daily counts that still lack a fee record (dropped events, dead
// outbox entries) and runs generation for them. Sources whose quantity is
// below every threshold keep showing up here and keep resolving to no-op,
// which is fine because the sweep is cheap and idempotent.
type SweepService struct {
	countRepo clinical.DailyPatientCountRepository
	generator *Generator
	batchSize int
	logger    *zap.Logger
}

// NewSweepService creates a new SweepService
func NewSweepService(
	countRepo clinical.DailyPatientCountRepository,
	generator *Generator,
	batchSize int,
	logger *zap.Logger,
) *SweepService {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &SweepService{
		countRepo: countRepo,
		generator: generator,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run sweeps one batch. Returns how many sources were processed.
func (s *SweepService) Run(ctx context.Context) (int, error) {
	counts, err := s.countRepo.FindApprovedWithoutFee(ctx, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load approved counts without fee: %w", err)
	}
	if len(counts) == 0 {
		return 0, nil
	}

	s.logger.Info("fee sweep started", zap.Int("candidates", len(counts)))

	processed := 0
	for i := range counts {
		count := &counts[i]
		if count.Validation.ValidatedBy == nil {
			// Should not happen for an approved row; skip rather than abort.
			s.logger.Warn("approved count without validator, skipping",
				zap.String("count_id", count.ID.String()),
			)
			continue
		}

		total := int64(count.TotalCount())
		input := GenerationInput{
			SourceID:      count.ID,
			SourceType:    "DailyPatientCount",
			BeneficiaryID: count.PhysicianID,
			Department:    count.Department,
			Shift:         count.Shift,
			Basis:         fee.BasisDailyCount,
			Quantity:      total,
			ServiceDate:   count.CountDate,
			ApprovedBy:    *count.Validation.ValidatedBy,
			Description:   fmt.Sprintf("Jaspel %s shift %s (%d pasien)", count.Department, count.Shift, total),
		}

		if err := s.generator.Generate(ctx, input); err != nil {
			// Keep sweeping; the failed source stays eligible for the
			// next run.
			s.logger.Error("fee sweep generation failed",
				zap.String("count_id", count.ID.String()),
				zap.Error(err),
			)
			continue
		}
		processed++
	}

	s.logger.Info("fee sweep finished",
		zap.Int("candidates", len(counts)),
		zap.Int("processed", processed),
	)

	return processed, nil
}
