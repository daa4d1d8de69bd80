package finance

import (
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names for the finance domain
const (
	EventTypeFinancialEntryCreated  = "FinancialEntryCreated"
	EventTypeFinancialEntryApproved = "FinancialEntryApproved"
	EventTypeFinancialEntryRejected = "FinancialEntryRejected"
	EventTypeFinancialEntryReverted = "FinancialEntryReverted"
)

// FinancialEntryCreatedEvent is raised when a new entry is submitted
type FinancialEntryCreatedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID       `json:"entry_id"`
	EntryNumber string          `json:"entry_number"`
	EntryType   EntryType       `json:"entry_type"`
	Category    EntryCategory   `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	EntryDate   time.Time       `json:"entry_date"`
}

// EventType returns the event type name
func (e *FinancialEntryCreatedEvent) EventType() string {
	return EventTypeFinancialEntryCreated
}

// NewFinancialEntryCreatedEvent creates a new FinancialEntryCreatedEvent
func NewFinancialEntryCreatedEvent(entry *FinancialEntry, now time.Time) *FinancialEntryCreatedEvent {
	return &FinancialEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFinancialEntryCreated, "FinancialEntry", entry.ID, now),
		EntryID:         entry.ID,
		EntryNumber:     entry.EntryNumber,
		EntryType:       entry.Type,
		Category:        entry.Category,
		Amount:          entry.Amount,
		EntryDate:       entry.EntryDate,
	}
}

// FinancialEntryApprovedEvent is raised when an entry is approved.
// It deliberately does not trigger fee generation.
type FinancialEntryApprovedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID       `json:"entry_id"`
	EntryNumber string          `json:"entry_number"`
	EntryType   EntryType       `json:"entry_type"`
	Amount      decimal.Decimal `json:"amount"`
	ApprovedBy  uuid.UUID       `json:"approved_by"`
	ApprovedAt  time.Time       `json:"approved_at"`
	Comment     string          `json:"comment,omitempty"`
}

// EventType returns the event type name
func (e *FinancialEntryApprovedEvent) EventType() string {
	return EventTypeFinancialEntryApproved
}

// NewFinancialEntryApprovedEvent creates a new FinancialEntryApprovedEvent
func NewFinancialEntryApprovedEvent(entry *FinancialEntry, now time.Time) *FinancialEntryApprovedEvent {
	approvedAt := now
	if entry.Validation.ValidatedAt != nil {
		approvedAt = *entry.Validation.ValidatedAt
	}
	var approvedBy uuid.UUID
	if entry.Validation.ValidatedBy != nil {
		approvedBy = *entry.Validation.ValidatedBy
	}
	return &FinancialEntryApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFinancialEntryApproved, "FinancialEntry", entry.ID, now),
		EntryID:         entry.ID,
		EntryNumber:     entry.EntryNumber,
		EntryType:       entry.Type,
		Amount:          entry.Amount,
		ApprovedBy:      approvedBy,
		ApprovedAt:      approvedAt,
		Comment:         entry.Validation.Comment,
	}
}

// FinancialEntryRejectedEvent is raised when an entry is rejected
type FinancialEntryRejectedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID       `json:"entry_id"`
	EntryNumber string          `json:"entry_number"`
	Amount      decimal.Decimal `json:"amount"`
	RejectedBy  uuid.UUID       `json:"rejected_by"`
	RejectedAt  time.Time       `json:"rejected_at"`
	Comment     string          `json:"comment"`
}

// EventType returns the event type name
func (e *FinancialEntryRejectedEvent) EventType() string {
	return EventTypeFinancialEntryRejected
}

// NewFinancialEntryRejectedEvent creates a new FinancialEntryRejectedEvent
func NewFinancialEntryRejectedEvent(entry *FinancialEntry, now time.Time) *FinancialEntryRejectedEvent {
	rejectedAt := now
	if entry.Validation.ValidatedAt != nil {
		rejectedAt = *entry.Validation.ValidatedAt
	}
	var rejectedBy uuid.UUID
	if entry.Validation.ValidatedBy != nil {
		rejectedBy = *entry.Validation.ValidatedBy
	}
	return &FinancialEntryRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFinancialEntryRejected, "FinancialEntry", entry.ID, now),
		EntryID:         entry.ID,
		EntryNumber:     entry.EntryNumber,
		Amount:          entry.Amount,
		RejectedBy:      rejectedBy,
		RejectedAt:      rejectedAt,
		Comment:         entry.Validation.Comment,
	}
}

// FinancialEntryRevertedEvent is raised when a validated entry is put back
// to pending review
type FinancialEntryRevertedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID         `json:"entry_id"`
	EntryNumber string            `json:"entry_number"`
	FromStatus  validation.Status `json:"from_status"`
	RevertedBy  uuid.UUID         `json:"reverted_by"`
	RevertedAt  time.Time         `json:"reverted_at"`
}

// EventType returns the event type name
func (e *FinancialEntryRevertedEvent) EventType() string {
	return EventTypeFinancialEntryReverted
}

// NewFinancialEntryRevertedEvent creates a new FinancialEntryRevertedEvent
func NewFinancialEntryRevertedEvent(entry *FinancialEntry, from validation.Status, actor uuid.UUID, now time.Time) *FinancialEntryRevertedEvent {
	return &FinancialEntryRevertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFinancialEntryReverted, "FinancialEntry", entry.ID, now),
		EntryID:         entry.ID,
		EntryNumber:     entry.EntryNumber,
		FromStatus:      from,
		RevertedBy:      actor,
		RevertedAt:      now,
	}
}
