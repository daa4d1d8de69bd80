package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// FeeMetrics counts fee pipeline outcomes. Generated, suppressed and failed
// are disjoint: every generation attempt lands in exactly one counter.
type FeeMetrics struct {
	logger *zap.Logger

	generatedTotal  metric.Int64Counter
	suppressedTotal metric.Int64Counter
	failedTotal     metric.Int64Counter
}

// NewFeeMetrics registers the fee pipeline counters on the given meter.
func NewFeeMetrics(meter metric.Meter, logger *zap.Logger) (*FeeMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fm := &FeeMetrics{logger: logger}

	var err error
	fm.generatedTotal, err = meter.Int64Counter(
		"klinik_fee_generated_total",
		metric.WithDescription("Total number of fee records generated"),
		metric.WithUnit("{records}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fee generated counter: %w", err)
	}

	fm.suppressedTotal, err = meter.Int64Counter(
		"klinik_fee_suppressed_total",
		metric.WithDescription("Total number of fee generations suppressed because the fee already exists"),
		metric.WithUnit("{records}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fee suppressed counter: %w", err)
	}

	fm.failedTotal, err = meter.Int64Counter(
		"klinik_fee_failed_total",
		metric.WithDescription("Total number of fee generations rejected by domain rules"),
		metric.WithUnit("{records}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fee failed counter: %w", err)
	}

	return fm, nil
}

// RecordGenerated counts one persisted fee record
func (fm *FeeMetrics) RecordGenerated(ctx context.Context) {
	fm.generatedTotal.Add(ctx, 1)
}

// RecordSuppressed counts one generation skipped because the fee key exists
func (fm *FeeMetrics) RecordSuppressed(ctx context.Context) {
	fm.suppressedTotal.Add(ctx, 1)
}

// RecordFailed counts one generation rejected by domain rules
func (fm *FeeMetrics) RecordFailed(ctx context.Context) {
	fm.failedTotal.Add(ctx, 1)
}
