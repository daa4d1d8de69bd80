package clinical

import (
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names for procedure records
const (
	EventTypeProcedureRecordCreated  = "ProcedureRecordCreated"
	EventTypeProcedureRecordApproved = "ProcedureRecordApproved"
	EventTypeProcedureRecordRejected = "ProcedureRecordRejected"
	EventTypeProcedureRecordReverted = "ProcedureRecordReverted"
)

// ProcedureRecordCreatedEvent is raised when staff logs a procedure
type ProcedureRecordCreatedEvent struct {
	shared.BaseDomainEvent
	RecordID      uuid.UUID       `json:"record_id"`
	PatientID     uuid.UUID       `json:"patient_id"`
	ProcedureType string          `json:"procedure_type"`
	Department    Department      `json:"department"`
	Shift         Shift           `json:"shift"`
	Price         decimal.Decimal `json:"price"`
	PerformedAt   time.Time       `json:"performed_at"`
}

// EventType returns the event type name
func (e *ProcedureRecordCreatedEvent) EventType() string {
	return EventTypeProcedureRecordCreated
}

// NewProcedureRecordCreatedEvent creates a new ProcedureRecordCreatedEvent
func NewProcedureRecordCreatedEvent(record *ProcedureRecord, now time.Time) *ProcedureRecordCreatedEvent {
	return &ProcedureRecordCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProcedureRecordCreated, "ProcedureRecord", record.ID, now),
		RecordID:        record.ID,
		PatientID:       record.PatientID,
		ProcedureType:   record.ProcedureType,
		Department:      record.Department,
		Shift:           record.Shift,
		Price:           record.Price,
		PerformedAt:     record.PerformedAt,
	}
}

// ProcedureRecordApprovedEvent is raised when a treasurer approves the
// record. It is the trigger for per-procedure fee generation.
type ProcedureRecordApprovedEvent struct {
	shared.BaseDomainEvent
	RecordID      uuid.UUID       `json:"record_id"`
	ProcedureType string          `json:"procedure_type"`
	Department    Department      `json:"department"`
	Shift         Shift           `json:"shift"`
	BeneficiaryID uuid.UUID       `json:"beneficiary_id"`
	Price         decimal.Decimal `json:"price"`
	PerformedAt   time.Time       `json:"performed_at"`
	ApprovedBy    uuid.UUID       `json:"approved_by"`
	ApprovedAt    time.Time       `json:"approved_at"`
}

// EventType returns the event type name
func (e *ProcedureRecordApprovedEvent) EventType() string {
	return EventTypeProcedureRecordApproved
}

// NewProcedureRecordApprovedEvent creates a new ProcedureRecordApprovedEvent
func NewProcedureRecordApprovedEvent(record *ProcedureRecord, now time.Time) *ProcedureRecordApprovedEvent {
	approvedAt := now
	if record.Validation.ValidatedAt != nil {
		approvedAt = *record.Validation.ValidatedAt
	}
	var approvedBy uuid.UUID
	if record.Validation.ValidatedBy != nil {
		approvedBy = *record.Validation.ValidatedBy
	}
	return &ProcedureRecordApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProcedureRecordApproved, "ProcedureRecord", record.ID, now),
		RecordID:        record.ID,
		ProcedureType:   record.ProcedureType,
		Department:      record.Department,
		Shift:           record.Shift,
		BeneficiaryID:   record.Beneficiary(),
		Price:           record.Price,
		PerformedAt:     record.PerformedAt,
		ApprovedBy:      approvedBy,
		ApprovedAt:      approvedAt,
	}
}

// ProcedureRecordRejectedEvent is raised when the record is rejected
type ProcedureRecordRejectedEvent struct {
	shared.BaseDomainEvent
	RecordID   uuid.UUID `json:"record_id"`
	RejectedBy uuid.UUID `json:"rejected_by"`
	RejectedAt time.Time `json:"rejected_at"`
	Comment    string    `json:"comment"`
}

// EventType returns the event type name
func (e *ProcedureRecordRejectedEvent) EventType() string {
	return EventTypeProcedureRecordRejected
}

// NewProcedureRecordRejectedEvent creates a new ProcedureRecordRejectedEvent
func NewProcedureRecordRejectedEvent(record *ProcedureRecord, now time.Time) *ProcedureRecordRejectedEvent {
	rejectedAt := now
	if record.Validation.ValidatedAt != nil {
		rejectedAt = *record.Validation.ValidatedAt
	}
	var rejectedBy uuid.UUID
	if record.Validation.ValidatedBy != nil {
		rejectedBy = *record.Validation.ValidatedBy
	}
	return &ProcedureRecordRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProcedureRecordRejected, "ProcedureRecord", record.ID, now),
		RecordID:        record.ID,
		RejectedBy:      rejectedBy,
		RejectedAt:      rejectedAt,
		Comment:         record.Validation.Comment,
	}
}

// ProcedureRecordRevertedEvent is raised when a validated record goes back
// to pending. Fee handlers use it to flag dependent fee records.
type ProcedureRecordRevertedEvent struct {
	shared.BaseDomainEvent
	RecordID      uuid.UUID         `json:"record_id"`
	BeneficiaryID uuid.UUID         `json:"beneficiary_id"`
	PerformedAt   time.Time         `json:"performed_at"`
	FromStatus    validation.Status `json:"from_status"`
	RevertedBy    uuid.UUID         `json:"reverted_by"`
	RevertedAt    time.Time         `json:"reverted_at"`
}

// EventType returns the event type name
func (e *ProcedureRecordRevertedEvent) EventType() string {
	return EventTypeProcedureRecordReverted
}

// NewProcedureRecordRevertedEvent creates a new ProcedureRecordRevertedEvent
func NewProcedureRecordRevertedEvent(record *ProcedureRecord, from validation.Status, actor uuid.UUID, now time.Time) *ProcedureRecordRevertedEvent {
	return &ProcedureRecordRevertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProcedureRecordReverted, "ProcedureRecord", record.ID, now),
		RecordID:        record.ID,
		BeneficiaryID:   record.Beneficiary(),
		PerformedAt:     record.PerformedAt,
		FromStatus:      from,
		RevertedBy:      actor,
		RevertedAt:      now,
	}
}
