package clinical

import (
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
)

// Event type names for daily patient counts
const (
	EventTypeDailyPatientCountCreated  = "DailyPatientCountCreated"
	EventTypeDailyPatientCountApproved = "DailyPatientCountApproved"
	EventTypeDailyPatientCountRejected = "DailyPatientCountRejected"
	EventTypeDailyPatientCountReverted = "DailyPatientCountReverted"
)

// DailyPatientCountCreatedEvent is raised when staff submits a daily count
type DailyPatientCountCreatedEvent struct {
	shared.BaseDomainEvent
	CountID      uuid.UUID  `json:"count_id"`
	Department   Department `json:"department"`
	Shift        Shift      `json:"shift"`
	PhysicianID  uuid.UUID  `json:"physician_id"`
	CountDate    time.Time  `json:"count_date"`
	GeneralCount int        `json:"general_count"`
	InsuredCount int        `json:"insured_count"`
}

// EventType returns the event type name
func (e *DailyPatientCountCreatedEvent) EventType() string {
	return EventTypeDailyPatientCountCreated
}

// NewDailyPatientCountCreatedEvent creates a new DailyPatientCountCreatedEvent
func NewDailyPatientCountCreatedEvent(count *DailyPatientCount, now time.Time) *DailyPatientCountCreatedEvent {
	return &DailyPatientCountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDailyPatientCountCreated, "DailyPatientCount", count.ID, now),
		CountID:         count.ID,
		Department:      count.Department,
		Shift:           count.Shift,
		PhysicianID:     count.PhysicianID,
		CountDate:       count.CountDate,
		GeneralCount:    count.GeneralCount,
		InsuredCount:    count.InsuredCount,
	}
}

// DailyPatientCountApprovedEvent is raised when a treasurer approves the
// count. It is the trigger for daily-aggregate fee generation.
type DailyPatientCountApprovedEvent struct {
	shared.BaseDomainEvent
	CountID      uuid.UUID  `json:"count_id"`
	Department   Department `json:"department"`
	Shift        Shift      `json:"shift"`
	PhysicianID  uuid.UUID  `json:"physician_id"`
	CountDate    time.Time  `json:"count_date"`
	GeneralCount int        `json:"general_count"`
	InsuredCount int        `json:"insured_count"`
	ApprovedBy   uuid.UUID  `json:"approved_by"`
	ApprovedAt   time.Time  `json:"approved_at"`
}

// EventType returns the event type name
func (e *DailyPatientCountApprovedEvent) EventType() string {
	return EventTypeDailyPatientCountApproved
}

// NewDailyPatientCountApprovedEvent creates a new DailyPatientCountApprovedEvent
func NewDailyPatientCountApprovedEvent(count *DailyPatientCount, now time.Time) *DailyPatientCountApprovedEvent {
	approvedAt := now
	if count.Validation.ValidatedAt != nil {
		approvedAt = *count.Validation.ValidatedAt
	}
	var approvedBy uuid.UUID
	if count.Validation.ValidatedBy != nil {
		approvedBy = *count.Validation.ValidatedBy
	}
	return &DailyPatientCountApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDailyPatientCountApproved, "DailyPatientCount", count.ID, now),
		CountID:         count.ID,
		Department:      count.Department,
		Shift:           count.Shift,
		PhysicianID:     count.PhysicianID,
		CountDate:       count.CountDate,
		GeneralCount:    count.GeneralCount,
		InsuredCount:    count.InsuredCount,
		ApprovedBy:      approvedBy,
		ApprovedAt:      approvedAt,
	}
}

// DailyPatientCountRejectedEvent is raised when the count is rejected
type DailyPatientCountRejectedEvent struct {
	shared.BaseDomainEvent
	CountID    uuid.UUID `json:"count_id"`
	RejectedBy uuid.UUID `json:"rejected_by"`
	RejectedAt time.Time `json:"rejected_at"`
	Comment    string    `json:"comment"`
}

// EventType returns the event type name
func (e *DailyPatientCountRejectedEvent) EventType() string {
	return EventTypeDailyPatientCountRejected
}

// NewDailyPatientCountRejectedEvent creates a new DailyPatientCountRejectedEvent
func NewDailyPatientCountRejectedEvent(count *DailyPatientCount, now time.Time) *DailyPatientCountRejectedEvent {
	rejectedAt := now
	if count.Validation.ValidatedAt != nil {
		rejectedAt = *count.Validation.ValidatedAt
	}
	var rejectedBy uuid.UUID
	if count.Validation.ValidatedBy != nil {
		rejectedBy = *count.Validation.ValidatedBy
	}
	return &DailyPatientCountRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDailyPatientCountRejected, "DailyPatientCount", count.ID, now),
		CountID:         count.ID,
		RejectedBy:      rejectedBy,
		RejectedAt:      rejectedAt,
		Comment:         count.Validation.Comment,
	}
}

// DailyPatientCountRevertedEvent is raised when a validated count goes back
// to pending review
type DailyPatientCountRevertedEvent struct {
	shared.BaseDomainEvent
	CountID     uuid.UUID         `json:"count_id"`
	PhysicianID uuid.UUID         `json:"physician_id"`
	CountDate   time.Time         `json:"count_date"`
	FromStatus  validation.Status `json:"from_status"`
	RevertedBy  uuid.UUID         `json:"reverted_by"`
	RevertedAt  time.Time         `json:"reverted_at"`
}

// EventType returns the event type name
func (e *DailyPatientCountRevertedEvent) EventType() string {
	return EventTypeDailyPatientCountReverted
}

// NewDailyPatientCountRevertedEvent creates a new DailyPatientCountRevertedEvent
func NewDailyPatientCountRevertedEvent(count *DailyPatientCount, from validation.Status, actor uuid.UUID, now time.Time) *DailyPatientCountRevertedEvent {
	return &DailyPatientCountRevertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDailyPatientCountReverted, "DailyPatientCount", count.ID, now),
		CountID:         count.ID,
		PhysicianID:     count.PhysicianID,
		CountDate:       count.CountDate,
		FromStatus:      from,
		RevertedBy:      actor,
		RevertedAt:      now,
	}
}
