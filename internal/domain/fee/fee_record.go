package fee

import (
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is a computed service fee owed to a staff member. At most one
// record may exist per (beneficiary, service date, basis); the persistence
// layer enforces this with a unique index so concurrent generation cannot
// produce duplicates.
type Record struct {
	shared.BaseAggregateRoot
	BeneficiaryID uuid.UUID
	ServiceDate   time.Time // Date only, normalized to midnight UTC
	Shift         clinical.Shift
	Basis         Basis
	Amount        decimal.Decimal
	Description   string
	SourceID      uuid.UUID // The approved record the fee was derived from
	FormulaID     uuid.UUID
	Validation    validation.Validation
}

// NewAutoApprovedRecord creates a fee record born approved, attributed to
// the approver of the source record. Generated fees never pass through
// manual pending review.
func NewAutoApprovedRecord(
	beneficiaryID uuid.UUID,
	serviceDate time.Time,
	shift clinical.Shift,
	basis Basis,
	amount decimal.Decimal,
	description string,
	sourceID, formulaID, approvedBy uuid.UUID,
	now time.Time,
) (*Record, error) {
	if beneficiaryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BENEFICIARY", "Beneficiary ID cannot be empty")
	}
	if !shift.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIFT", "Shift is not valid")
	}
	if !basis.IsValid() {
		return nil, shared.NewDomainError("INVALID_BASIS", "Fee basis is not valid")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fee amount cannot be negative")
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source record ID cannot be empty")
	}
	if approvedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Approver user ID cannot be empty")
	}

	record := &Record{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		BeneficiaryID:     beneficiaryID,
		ServiceDate:       time.Date(serviceDate.Year(), serviceDate.Month(), serviceDate.Day(), 0, 0, 0, 0, time.UTC),
		Shift:             shift,
		Basis:             basis,
		Amount:            amount,
		Description:       description,
		SourceID:          sourceID,
		FormulaID:         formulaID,
		Validation:        validation.Autovalidate(approvedBy, "Generated from approved source record", now),
	}

	record.AddDomainEvent(NewRecordGeneratedEvent(record, now))

	return record, nil
}

// FlagForReview puts the fee back to pending after its source record was
// reverted. The record is kept for audit; it is never deleted.
func (r *Record) FlagForReview(actor uuid.UUID, now time.Time) error {
	if actor == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Actor user ID cannot be empty")
	}
	prior := r.Validation.Status
	if err := r.Validation.Revert(); err != nil {
		return err
	}
	r.UpdatedAt = now
	r.AddDomainEvent(NewRecordFlaggedEvent(r, prior, actor, now))
	return nil
}

// Approve re-validates a flagged fee record after review
func (r *Record) Approve(validator uuid.UUID, comment string, now time.Time) error {
	if err := r.Validation.Approve(validator, comment, now); err != nil {
		return err
	}
	r.UpdatedAt = now
	return nil
}

// Status returns the current validation status
func (r *Record) Status() validation.Status {
	return r.Validation.Status
}
