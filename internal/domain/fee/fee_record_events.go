package fee

import (
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names for fee records
const (
	EventTypeRecordGenerated  = "FeeRecordGenerated"
	EventTypeRecordFlagged    = "FeeRecordFlagged"
	EventTypeGenerationFailed = "FeeGenerationFailed"
)

// RecordGeneratedEvent is raised when a fee record is persisted. The
// notification hook forwards it to the messaging channel.
type RecordGeneratedEvent struct {
	shared.BaseDomainEvent
	RecordID      uuid.UUID       `json:"record_id"`
	SourceID      uuid.UUID       `json:"source_id"`
	BeneficiaryID uuid.UUID       `json:"beneficiary_id"`
	Basis         Basis           `json:"basis"`
	Amount        decimal.Decimal `json:"amount"`
	ServiceDate   time.Time       `json:"service_date"`
}

// EventType returns the event type name
func (e *RecordGeneratedEvent) EventType() string {
	return EventTypeRecordGenerated
}

// NewRecordGeneratedEvent creates a new RecordGeneratedEvent
func NewRecordGeneratedEvent(record *Record, now time.Time) *RecordGeneratedEvent {
	return &RecordGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordGenerated, "FeeRecord", record.ID, now),
		RecordID:        record.ID,
		SourceID:        record.SourceID,
		BeneficiaryID:   record.BeneficiaryID,
		Basis:           record.Basis,
		Amount:          record.Amount,
		ServiceDate:     record.ServiceDate,
	}
}

// RecordFlaggedEvent is raised when a fee record is put back to pending
// because its source record was reverted
type RecordFlaggedEvent struct {
	shared.BaseDomainEvent
	RecordID      uuid.UUID         `json:"record_id"`
	BeneficiaryID uuid.UUID         `json:"beneficiary_id"`
	FromStatus    validation.Status `json:"from_status"`
	FlaggedBy     uuid.UUID         `json:"flagged_by"`
	FlaggedAt     time.Time         `json:"flagged_at"`
}

// EventType returns the event type name
func (e *RecordFlaggedEvent) EventType() string {
	return EventTypeRecordFlagged
}

// NewRecordFlaggedEvent creates a new RecordFlaggedEvent
func NewRecordFlaggedEvent(record *Record, from validation.Status, actor uuid.UUID, now time.Time) *RecordFlaggedEvent {
	return &RecordFlaggedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordFlagged, "FeeRecord", record.ID, now),
		RecordID:        record.ID,
		BeneficiaryID:   record.BeneficiaryID,
		FromStatus:      from,
		FlaggedBy:       actor,
		FlaggedAt:       now,
	}
}

// GenerationFailedEvent is raised when fee generation exhausted its retries.
// It feeds the operator queue and the notification hook; it is never
// surfaced to the submitting user.
type GenerationFailedEvent struct {
	shared.BaseDomainEvent
	SourceID      uuid.UUID `json:"source_id"`
	SourceType    string    `json:"source_type"`
	BeneficiaryID uuid.UUID `json:"beneficiary_id"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *GenerationFailedEvent) EventType() string {
	return EventTypeGenerationFailed
}

// NewGenerationFailedEvent creates a new GenerationFailedEvent
func NewGenerationFailedEvent(sourceID uuid.UUID, sourceType string, beneficiaryID uuid.UUID, reason string, now time.Time) *GenerationFailedEvent {
	return &GenerationFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGenerationFailed, sourceType, sourceID, now),
		SourceID:        sourceID,
		SourceType:      sourceType,
		BeneficiaryID:   beneficiaryID,
		Reason:          reason,
	}
}
