package clinical

import (
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
)

// DailyPatientCount aggregates the number of patients seen by one physician
// in one department on one day and shift. It drives the daily-aggregate fee
// path, distinct from the per-procedure path.
type DailyPatientCount struct {
	shared.OwnedAggregateRoot
	Department   Department
	Shift        Shift
	PhysicianID  uuid.UUID
	CountDate    time.Time // Date only, normalized to midnight UTC
	GeneralCount int       // Walk-in / cash patients
	InsuredCount int       // BPJS / insured patients
	Validation   validation.Validation
	DeletedAt    *time.Time
}

// NewDailyPatientCount creates a new pending daily count
func NewDailyPatientCount(
	department Department,
	shift Shift,
	physicianID uuid.UUID,
	countDate time.Time,
	generalCount, insuredCount int,
	createdBy uuid.UUID,
	now time.Time,
) (*DailyPatientCount, error) {
	if !department.IsValid() {
		return nil, shared.NewDomainError("INVALID_DEPARTMENT", "Department is not valid")
	}
	if !shift.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIFT", "Shift is not valid")
	}
	if physicianID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PHYSICIAN", "Physician ID cannot be empty")
	}
	if generalCount < 0 || insuredCount < 0 {
		return nil, shared.NewDomainError("INVALID_COUNT", "Patient counts cannot be negative")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Creator user ID cannot be empty")
	}

	count := &DailyPatientCount{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy, now),
		Department:         department,
		Shift:              shift,
		PhysicianID:        physicianID,
		CountDate:          normalizeDate(countDate),
		GeneralCount:       generalCount,
		InsuredCount:       insuredCount,
		Validation:         validation.NewPendingValidation(),
	}

	count.AddDomainEvent(NewDailyPatientCountCreatedEvent(count, now))

	return count, nil
}

// TotalCount returns the combined patient count
func (c *DailyPatientCount) TotalCount() int {
	return c.GeneralCount + c.InsuredCount
}

// Approve validates the count and schedules daily-aggregate fee generation
// through the approved event.
func (c *DailyPatientCount) Approve(validator uuid.UUID, comment string, now time.Time) error {
	if err := c.Validation.Approve(validator, comment, now); err != nil {
		return err
	}
	c.UpdatedAt = now
	c.AddDomainEvent(NewDailyPatientCountApprovedEvent(c, now))
	return nil
}

// Reject refuses the count. A non-blank comment is mandatory.
func (c *DailyPatientCount) Reject(validator uuid.UUID, comment string, now time.Time) error {
	if err := c.Validation.Reject(validator, comment, now); err != nil {
		return err
	}
	c.UpdatedAt = now
	c.AddDomainEvent(NewDailyPatientCountRejectedEvent(c, now))
	return nil
}

// Revert puts a validated count back to pending review
func (c *DailyPatientCount) Revert(actor uuid.UUID, now time.Time) error {
	if actor == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Actor user ID cannot be empty")
	}
	prior := c.Validation.Status
	if err := c.Validation.Revert(); err != nil {
		return err
	}
	c.UpdatedAt = now
	c.AddDomainEvent(NewDailyPatientCountRevertedEvent(c, prior, actor, now))
	return nil
}

// SoftDelete marks the count deleted without removing the row
func (c *DailyPatientCount) SoftDelete(now time.Time) {
	c.DeletedAt = &now
	c.UpdatedAt = now
}

// Status returns the current validation status
func (c *DailyPatientCount) Status() validation.Status {
	return c.Validation.Status
}

// IsApproved returns true if the count is approved
func (c *DailyPatientCount) IsApproved() bool {
	return c.Validation.Status == validation.StatusApproved
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
