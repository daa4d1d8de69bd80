package clinical

import (
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/shared/valueobject"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shift represents the duty shift during which care was delivered
type Shift string

const (
	ShiftMorning Shift = "MORNING" // Pagi
	ShiftEvening Shift = "EVENING" // Sore
	ShiftNight   Shift = "NIGHT"   // Malam
)

// IsValid checks if the shift is a valid Shift
func (s Shift) IsValid() bool {
	switch s {
	case ShiftMorning, ShiftEvening, ShiftNight:
		return true
	}
	return false
}

// String returns the string representation of Shift
func (s Shift) String() string {
	return string(s)
}

// Department represents the clinic department / service type
type Department string

const (
	DepartmentGeneral    Department = "GENERAL"    // Poli umum
	DepartmentDental     Department = "DENTAL"     // Poli gigi
	DepartmentMaternity  Department = "MATERNITY"  // KIA / kebidanan
	DepartmentLaboratory Department = "LABORATORY" // Laboratorium
	DepartmentEmergency  Department = "EMERGENCY"  // UGD
)

// IsValid checks if the department is a valid Department
func (d Department) IsValid() bool {
	switch d {
	case DepartmentGeneral, DepartmentDental, DepartmentMaternity,
		DepartmentLaboratory, DepartmentEmergency:
		return true
	}
	return false
}

// String returns the string representation of Department
func (d Department) String() string {
	return string(d)
}

// ProcedureRecord represents a clinical procedure performed on a patient.
// It is submitted by staff and reviewed by a treasurer; approval triggers
// per-procedure fee generation for the attending staff.
type ProcedureRecord struct {
	shared.OwnedAggregateRoot
	PatientID     uuid.UUID
	ProcedureType string
	Department    Department
	Shift         Shift
	PhysicianID   *uuid.UUID // Attending physician, optional
	SupportID     *uuid.UUID // Paramedical or admin support staff, optional
	Price         decimal.Decimal
	PerformedAt   time.Time
	Validation    validation.Validation
	DeletedAt     *time.Time
}

// NewProcedureRecord creates a new pending procedure record
func NewProcedureRecord(
	patientID uuid.UUID,
	procedureType string,
	department Department,
	shift Shift,
	physicianID, supportID *uuid.UUID,
	price valueobject.Money,
	performedAt time.Time,
	createdBy uuid.UUID,
	now time.Time,
) (*ProcedureRecord, error) {
	if patientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient ID cannot be empty")
	}
	if procedureType == "" {
		return nil, shared.NewDomainError("INVALID_PROCEDURE_TYPE", "Procedure type cannot be empty")
	}
	if len(procedureType) > 100 {
		return nil, shared.NewDomainError("INVALID_PROCEDURE_TYPE", "Procedure type cannot exceed 100 characters")
	}
	if !department.IsValid() {
		return nil, shared.NewDomainError("INVALID_DEPARTMENT", "Department is not valid")
	}
	if !shift.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIFT", "Shift is not valid")
	}
	if price.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if physicianID == nil && supportID == nil {
		return nil, shared.NewDomainError("INVALID_STAFF", "A procedure needs an attending physician or support staff")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Creator user ID cannot be empty")
	}

	record := &ProcedureRecord{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy, now),
		PatientID:          patientID,
		ProcedureType:      procedureType,
		Department:         department,
		Shift:              shift,
		PhysicianID:        physicianID,
		SupportID:          supportID,
		Price:              price.Amount(),
		PerformedAt:        performedAt,
		Validation:         validation.NewPendingValidation(),
	}

	record.AddDomainEvent(NewProcedureRecordCreatedEvent(record, now))

	return record, nil
}

// Beneficiary returns the staff member the service fee belongs to: the
// attending physician when present, otherwise the support staff.
func (r *ProcedureRecord) Beneficiary() uuid.UUID {
	if r.PhysicianID != nil {
		return *r.PhysicianID
	}
	if r.SupportID != nil {
		return *r.SupportID
	}
	return uuid.Nil
}

// Approve validates the record and schedules downstream fee generation
// through the approved event.
func (r *ProcedureRecord) Approve(validator uuid.UUID, comment string, now time.Time) error {
	if err := r.Validation.Approve(validator, comment, now); err != nil {
		return err
	}
	r.UpdatedAt = now
	r.AddDomainEvent(NewProcedureRecordApprovedEvent(r, now))
	return nil
}

// Reject refuses the record. A non-blank comment is mandatory.
func (r *ProcedureRecord) Reject(validator uuid.UUID, comment string, now time.Time) error {
	if err := r.Validation.Reject(validator, comment, now); err != nil {
		return err
	}
	r.UpdatedAt = now
	r.AddDomainEvent(NewProcedureRecordRejectedEvent(r, now))
	return nil
}

// Revert puts a validated record back to pending review. Any fee record
// already generated from it is flagged for re-review, never deleted.
func (r *ProcedureRecord) Revert(actor uuid.UUID, now time.Time) error {
	if actor == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Actor user ID cannot be empty")
	}
	prior := r.Validation.Status
	if err := r.Validation.Revert(); err != nil {
		return err
	}
	r.UpdatedAt = now
	r.AddDomainEvent(NewProcedureRecordRevertedEvent(r, prior, actor, now))
	return nil
}

// SoftDelete marks the record deleted without removing the row
func (r *ProcedureRecord) SoftDelete(now time.Time) {
	r.DeletedAt = &now
	r.UpdatedAt = now
}

// Status returns the current validation status
func (r *ProcedureRecord) Status() validation.Status {
	return r.Validation.Status
}

// IsApproved returns true if the record is approved
func (r *ProcedureRecord) IsApproved() bool {
	return r.Validation.Status == validation.StatusApproved
}
