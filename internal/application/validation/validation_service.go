// Package validation implements the review workflow: treasurers approve,
// reject and revert submitted records, every decision lands in the audit
// trail, and the resulting domain events drive fee generation.
package validation

import (
	"context"
	"fmt"

	"github.com/clinic/backend/internal/domain/audit"
	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/finance"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Record type names used in the audit trail
const (
	RecordTypeFinancialEntry    = "FinancialEntry"
	RecordTypeProcedureRecord   = "ProcedureRecord"
	RecordTypeDailyPatientCount = "DailyPatientCount"
	RecordTypeFeeRecord         = "FeeRecord"
)

// Decision is a single approve/reject request
type Decision struct {
	RecordID uuid.UUID `json:"-"`
	Actor    uuid.UUID `json:"-"`
	Comment  string    `json:"comment"`
}

// Service coordinates the validation workflow across all reviewable
// record types
type Service struct {
	entryRepo finance.FinancialEntryRepository
	procRepo  clinical.ProcedureRecordRepository
	countRepo clinical.DailyPatientCountRepository
	feeRepo   fee.RecordRepository
	auditRepo audit.Repository
	publisher shared.EventPublisher
	clock     shared.Clock
	logger    *zap.Logger
}

// NewService creates a new validation Service
func NewService(
	entryRepo finance.FinancialEntryRepository,
	procRepo clinical.ProcedureRecordRepository,
	countRepo clinical.DailyPatientCountRepository,
	feeRepo fee.RecordRepository,
	auditRepo audit.Repository,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		entryRepo: entryRepo,
		procRepo:  procRepo,
		countRepo: countRepo,
		feeRepo:   feeRepo,
		auditRepo: auditRepo,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// ApproveFinancialEntry approves a pending financial entry
func (s *Service) ApproveFinancialEntry(ctx context.Context, d Decision) error {
	entry, err := s.findEntry(ctx, d.RecordID)
	if err != nil {
		return err
	}
	from := entry.Status()
	if err := entry.Approve(d.Actor, d.Comment, s.clock.Now()); err != nil {
		return err
	}
	return s.commit(ctx, RecordTypeFinancialEntry, entry.ID, d, from, entry.Status().String(),
		func() error { return s.entryRepo.Save(ctx, entry) }, entry)
}

// RejectFinancialEntry rejects a pending financial entry. The comment is
// mandatory.
func (s *Service) RejectFinancialEntry(ctx context.Context, d Decision) error {
	entry, err := s.findEntry(ctx, d.RecordID)
	if err != nil {
		return err
	}
	from := entry.Status()
	if err := entry.Reject(d.Actor, d.Comment, s.clock.Now()); err != nil {
		return err
	}
	return s.commit(ctx, RecordTypeFinancialEntry, entry.ID, d, from, entry.Status().String(),
		func() error { return s.entryRepo.Save(ctx, entry) }, entry)
}

// RevertFinancialEntry puts a validated financial entry back to pending
func (s *Service) RevertFinancialEntry(ctx context.Context, d Decision) error {
	entry, err := s.findEntry(ctx, d.RecordID)
	if err != nil {
		return err
	}
	from := entry.Status()
	if err := entry.Revert(d.Actor, s.clock.Now()); err != nil {
		return err
	}
	return s.commit(ctx, RecordTypeFinancialEntry, entry.ID, d, from, entry.Status().String(),
		func() error { return s.entryRepo.Save(ctx, entry) }, entry)
}

// ApproveProcedureRecord approves a pending procedure record. The approved
// event triggers per-procedure fee generation downstream.
func (s *Service) ApproveProcedureRecord(ctx context.Context, d Decision) error {
	record, err := s.findProcedure(ctx, d.RecordID)
	if err != nil {
		return err
	}
	from := record.Status()
	if err := record.Approve(d.Actor, d.Comment, s.clock.Now()); err != nil {
		return err
	}
	return s.commit(ctx, RecordTypeProcedureRecord, record.ID, d, from, record.Status().String(),
		func() error { return s.procRepo.Save(ctx, record) }, record)
}

// RejectProcedureRecord rejects a pending procedure record
func (s *Service) RejectProcedureRecord(ctx context.Context, d Decision) error {
	record, err := s.findProcedure(ctx, d.RecordID)
	if err != nil {
		return err
	}
	from := record.Status()
	if err := record.Reject(d.Actor, d.Comment, s.clock.Now()); err != nil {
		return err
	}
	return s.commit(ctx, RecordTypeProcedureRecord, record.ID, d, from, record.Status().String(),
		func() error { return s.procRepo.Save(ctx, record) }, record)
}

// RevertProcedureRecord puts a validated procedure back to pending. Fee
// records generated from it are flagged by the reverted-source handler.
func (s *Service) RevertProcedureRecord(ctx context.Context, d Decision) error {
	record, err := s.findProcedure(ctx, d.RecordID)
	if err != nil {
		return err
	}
	from := record.Status()
	if err := record.Revert(d.Actor, s.clock.Now()); err != nil {
		return err
	}
	return s.commit(ctx, RecordTypeProcedureRecord, record.ID, d, from, record.Status().String(),
		func() error { return s.procRepo.Save(ctx, record) }, record)
}

// ApproveDailyCount approves a pending daily patient count. The approved
// event triggers daily-aggregate fee generation downstream.
func (s *Service) ApproveDailyCount(ctx context.Context, d Decision) error {
	count, err := s.findCount(ctx, d.RecordID)
	if err != nil {
		return err
	}
	from := count.Status()
	if err := count.Approve(d.Actor, d.Comment, s.clock.Now()); err != nil {
		return err
	}
	return s.commit(ctx, RecordTypeDailyPatientCount, count.ID, d, from, count.Status().String(),
		func() error { return s.countRepo.Save(ctx, count) }, count)
}

// RejectDailyCount rejects a pending daily patient count
func (s *Service) RejectDailyCount(ctx context.Context, d Decision) error {
	count, err := s.findCount(ctx, d.RecordID)
	if err != nil {
		return err
	}
	from := count.Status()
	if err := count.Reject(d.Actor, d.Comment, s.clock.Now()); err != nil {
		return err
	}
	return s.commit(ctx, RecordTypeDailyPatientCount, count.ID, d, from, count.Status().String(),
		func() error { return s.countRepo.Save(ctx, count) }, count)
}

// RevertDailyCount puts a validated daily count back to pending
func (s *Service) RevertDailyCount(ctx context.Context, d Decision) error {
	count, err := s.findCount(ctx, d.RecordID)
	if err != nil {
		return err
	}
	from := count.Status()
	if err := count.Revert(d.Actor, s.clock.Now()); err != nil {
		return err
	}
	return s.commit(ctx, RecordTypeDailyPatientCount, count.ID, d, from, count.Status().String(),
		func() error { return s.countRepo.Save(ctx, count) }, count)
}

// ApproveFeeRecord re-approves a fee record that was flagged for review
// after its source was reverted
func (s *Service) ApproveFeeRecord(ctx context.Context, d Decision) error {
	record, err := s.feeRepo.FindByID(ctx, d.RecordID)
	if err != nil {
		return err
	}
	if record == nil {
		return shared.NewDomainError("NOT_FOUND", "Fee record not found")
	}
	from := record.Status()
	if err := record.Approve(d.Actor, d.Comment, s.clock.Now()); err != nil {
		return err
	}
	return s.commit(ctx, RecordTypeFeeRecord, record.ID, d, from, record.Status().String(),
		func() error { return s.feeRepo.Save(ctx, record) }, record)
}

// GetAuditTrail returns the decision history for a record, oldest first
func (s *Service) GetAuditTrail(ctx context.Context, recordType string, recordID uuid.UUID) ([]audit.Entry, error) {
	return s.auditRepo.FindByRecord(ctx, recordType, recordID)
}

// GetActorHistory returns recent decisions made by one reviewer, newest
// first
func (s *Service) GetActorHistory(ctx context.Context, actor uuid.UUID, limit int) ([]audit.Entry, error) {
	if limit < 1 {
		limit = 50
	}
	return s.auditRepo.FindByActor(ctx, actor, limit)
}

type eventCarrier interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// commit saves the mutated aggregate, appends the audit entry and publishes
// the raised events. The audit append failing after a successful save is
// logged, not rolled back; the trail is best-effort relative to state.
func (s *Service) commit(
	ctx context.Context,
	recordType string,
	recordID uuid.UUID,
	d Decision,
	from validation.Status,
	to string,
	save func() error,
	carrier eventCarrier,
) error {
	events := carrier.GetDomainEvents()
	carrier.ClearDomainEvents()

	if err := save(); err != nil {
		return fmt.Errorf("failed to save %s: %w", recordType, err)
	}

	entry := audit.NewEntry(recordType, recordID, d.Actor, from.String(), to, d.Comment, s.clock.Now())
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append audit entry",
			zap.String("record_type", recordType),
			zap.String("record_id", recordID.String()),
			zap.Error(err),
		)
	}

	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish validation events",
			zap.String("record_type", recordType),
			zap.String("record_id", recordID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("validation decision recorded",
		zap.String("record_type", recordType),
		zap.String("record_id", recordID.String()),
		zap.String("from", from.String()),
		zap.String("to", to),
		zap.String("actor", d.Actor.String()),
	)

	return nil
}

func (s *Service) findEntry(ctx context.Context, id uuid.UUID) (*finance.FinancialEntry, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Financial entry not found")
	}
	return entry, nil
}

func (s *Service) findProcedure(ctx context.Context, id uuid.UUID) (*clinical.ProcedureRecord, error) {
	record, err := s.procRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Procedure record not found")
	}
	return record, nil
}

func (s *Service) findCount(ctx context.Context, id uuid.UUID) (*clinical.DailyPatientCount, error) {
	count, err := s.countRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Daily patient count not found")
	}
	return count, nil
}
