package telemetry

import (
	"errors"

	"github.com/clinic/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDBTracing attaches the otelgorm plugin so every query becomes a
// child span of the request trace. Query variables are never recorded.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}

	if err := registerSpanEnrichment(db); err != nil {
		return err
	}

	logger.Info("database tracing enabled")
	return nil
}

// registerSpanEnrichment adds rows-affected and error details to the
// query span opened by otelgorm.
func registerSpanEnrichment(db *gorm.DB) error {
	after := func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if span == nil || !span.IsRecording() {
			return
		}

		if db.Statement.RowsAffected >= 0 {
			span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		}
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		// A missing row is an answer, not a failure
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}
	}

	if err := db.Callback().Create().After("gorm:create").Register("otel_enrich:create", after); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("otel_enrich:query", after); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("otel_enrich:update", after); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("otel_enrich:delete", after); err != nil {
		return err
	}
	if err := db.Callback().Raw().After("gorm:raw").Register("otel_enrich:raw", after); err != nil {
		return err
	}
	return nil
}
