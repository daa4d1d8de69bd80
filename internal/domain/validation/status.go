// Package validation holds the shared approval lifecycle used by every
// record that must be reviewed by a treasurer before it is trusted for
// downstream computation.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the validation status of a reviewable record
type Status string

const (
	StatusPending  Status = "PENDING"  // Submitted, awaiting review
	StatusApproved Status = "APPROVED" // Accepted by a validator
	StatusRejected Status = "REJECTED" // Refused by a validator, reason required
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanValidate returns true if the record can be approved or rejected
func (s Status) CanValidate() bool {
	return s == StatusPending
}

// CanRevert returns true if the record can be put back to pending review
func (s Status) CanRevert() bool {
	return s == StatusApproved || s == StatusRejected
}

// Validation carries the outcome of a review. It is embedded by every
// validatable aggregate. ValidatedBy, ValidatedAt and Comment are nil/empty
// exactly while the record is pending.
type Validation struct {
	Status      Status     `json:"status"`
	ValidatedBy *uuid.UUID `json:"validated_by"`
	ValidatedAt *time.Time `json:"validated_at"`
	Comment     string     `json:"comment"`
}

// NewPendingValidation returns the initial state of the lifecycle
func NewPendingValidation() Validation {
	return Validation{Status: StatusPending}
}

// Approve transitions pending -> approved. The comment is optional.
func (v *Validation) Approve(validator uuid.UUID, comment string, now time.Time) error {
	if !v.Status.CanValidate() {
		return invalidTransition(v.Status, StatusApproved)
	}
	if validator == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Validator user ID cannot be empty")
	}

	v.Status = StatusApproved
	v.ValidatedBy = &validator
	v.ValidatedAt = &now
	v.Comment = comment
	return nil
}

// Reject transitions pending -> rejected. The comment is mandatory and
// must not be blank.
func (v *Validation) Reject(validator uuid.UUID, comment string, now time.Time) error {
	if !v.Status.CanValidate() {
		return invalidTransition(v.Status, StatusRejected)
	}
	if validator == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Validator user ID cannot be empty")
	}
	if strings.TrimSpace(comment) == "" {
		return shared.ErrMissingComment
	}

	v.Status = StatusRejected
	v.ValidatedBy = &validator
	v.ValidatedAt = &now
	v.Comment = comment
	return nil
}

// Revert transitions approved/rejected -> pending, clearing the validator,
// timestamp and comment. The revert reason lives in the audit trail, not on
// the record itself.
func (v *Validation) Revert() error {
	if !v.Status.CanRevert() {
		return invalidTransition(v.Status, StatusPending)
	}

	v.Status = StatusPending
	v.ValidatedBy = nil
	v.ValidatedAt = nil
	v.Comment = ""
	return nil
}

// Autovalidate marks the record approved on creation, attributing the
// decision to the approver of the source record it was derived from.
func Autovalidate(approver uuid.UUID, comment string, now time.Time) Validation {
	at := now
	by := approver
	return Validation{
		Status:      StatusApproved,
		ValidatedBy: &by,
		ValidatedAt: &at,
		Comment:     comment,
	}
}

func invalidTransition(from, to Status) error {
	return shared.NewDomainError("INVALID_STATE_TRANSITION",
		fmt.Sprintf("Cannot transition from %s to %s", from, to))
}
