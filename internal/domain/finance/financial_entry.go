package finance

import (
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/shared/valueobject"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType distinguishes revenue from expense line items
type EntryType string

const (
	EntryTypeRevenue EntryType = "REVENUE"
	EntryTypeExpense EntryType = "EXPENSE"
)

// IsValid checks if the type is a valid EntryType
func (t EntryType) IsValid() bool {
	return t == EntryTypeRevenue || t == EntryTypeExpense
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// EntryCategory represents the category of a financial entry
type EntryCategory string

const (
	CategoryConsultation EntryCategory = "CONSULTATION" // Pendapatan konsultasi
	CategoryPharmacy     EntryCategory = "PHARMACY"     // Penjualan obat
	CategoryLaboratory   EntryCategory = "LABORATORY"   // Pemeriksaan lab
	CategoryInsuranceCap EntryCategory = "INSURANCE_CAPITATION"
	CategorySalary       EntryCategory = "SALARY"
	CategoryUtilities    EntryCategory = "UTILITIES"
	CategoryMedicalStock EntryCategory = "MEDICAL_STOCK" // Pembelian alkes/obat
	CategoryMaintenance  EntryCategory = "MAINTENANCE"
	CategoryOther        EntryCategory = "OTHER"
)

// IsValid checks if the category is a valid EntryCategory
func (c EntryCategory) IsValid() bool {
	switch c {
	case CategoryConsultation, CategoryPharmacy, CategoryLaboratory,
		CategoryInsuranceCap, CategorySalary, CategoryUtilities,
		CategoryMedicalStock, CategoryMaintenance, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of EntryCategory
func (c EntryCategory) String() string {
	return string(c)
}

// FinancialEntry represents a revenue or expense line item submitted by
// staff and reviewed by a treasurer. Approving a financial entry never
// triggers fee generation; only clinical records do that.
type FinancialEntry struct {
	shared.OwnedAggregateRoot
	EntryNumber string
	Type        EntryType
	Category    EntryCategory
	Amount      decimal.Decimal
	Note        string
	EntryDate   time.Time
	Validation  validation.Validation
	DeletedAt   *time.Time // Soft delete only; entries are never hard-deleted
}

// NewFinancialEntry creates a new pending financial entry
func NewFinancialEntry(
	entryNumber string,
	entryType EntryType,
	category EntryCategory,
	amount valueobject.Money,
	note string,
	entryDate time.Time,
	createdBy uuid.UUID,
	now time.Time,
) (*FinancialEntry, error) {
	if entryNumber == "" {
		return nil, shared.NewDomainError("INVALID_ENTRY_NUMBER", "Entry number cannot be empty")
	}
	if len(entryNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ENTRY_NUMBER", "Entry number cannot exceed 50 characters")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Entry type is not valid")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Entry category is not valid")
	}
	if amount.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if len(note) > 500 {
		return nil, shared.NewDomainError("INVALID_NOTE", "Note cannot exceed 500 characters")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Creator user ID cannot be empty")
	}

	entry := &FinancialEntry{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy, now),
		EntryNumber:        entryNumber,
		Type:               entryType,
		Category:           category,
		Amount:             amount.Amount(),
		Note:               note,
		EntryDate:          entryDate,
		Validation:         validation.NewPendingValidation(),
	}

	entry.AddDomainEvent(NewFinancialEntryCreatedEvent(entry, now))

	return entry, nil
}

// Approve validates the entry. Allowed only from pending.
func (e *FinancialEntry) Approve(validator uuid.UUID, comment string, now time.Time) error {
	if err := e.Validation.Approve(validator, comment, now); err != nil {
		return err
	}
	e.UpdatedAt = now
	e.AddDomainEvent(NewFinancialEntryApprovedEvent(e, now))
	return nil
}

// Reject refuses the entry. A non-blank comment is mandatory.
func (e *FinancialEntry) Reject(validator uuid.UUID, comment string, now time.Time) error {
	if err := e.Validation.Reject(validator, comment, now); err != nil {
		return err
	}
	e.UpdatedAt = now
	e.AddDomainEvent(NewFinancialEntryRejectedEvent(e, now))
	return nil
}

// Revert puts an approved or rejected entry back to pending review.
// The reason is recorded in the audit trail by the caller.
func (e *FinancialEntry) Revert(actor uuid.UUID, now time.Time) error {
	if actor == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Actor user ID cannot be empty")
	}
	prior := e.Validation.Status
	if err := e.Validation.Revert(); err != nil {
		return err
	}
	e.UpdatedAt = now
	e.AddDomainEvent(NewFinancialEntryRevertedEvent(e, prior, actor, now))
	return nil
}

// Update updates the entry details (only allowed while pending)
func (e *FinancialEntry) Update(
	category EntryCategory,
	amount valueobject.Money,
	note string,
	entryDate time.Time,
	now time.Time,
) error {
	if e.Validation.Status != validation.StatusPending {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Can only update a pending entry")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Entry category is not valid")
	}
	if amount.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if len(note) > 500 {
		return shared.NewDomainError("INVALID_NOTE", "Note cannot exceed 500 characters")
	}

	e.Category = category
	e.Amount = amount.Amount()
	e.Note = note
	e.EntryDate = entryDate
	e.UpdatedAt = now
	return nil
}

// SoftDelete marks the entry deleted without removing the row
func (e *FinancialEntry) SoftDelete(now time.Time) {
	e.DeletedAt = &now
	e.UpdatedAt = now
}

// Status returns the current validation status
func (e *FinancialEntry) Status() validation.Status {
	return e.Validation.Status
}

// GetAmountMoney returns amount as Money
func (e *FinancialEntry) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(e.Amount)
}

// IsPending returns true if the entry awaits review
func (e *FinancialEntry) IsPending() bool {
	return e.Validation.Status == validation.StatusPending
}

// IsApproved returns true if the entry is approved
func (e *FinancialEntry) IsApproved() bool {
	return e.Validation.Status == validation.StatusApproved
}

// IsRejected returns true if the entry is rejected
func (e *FinancialEntry) IsRejected() bool {
	return e.Validation.Status == validation.StatusRejected
}
