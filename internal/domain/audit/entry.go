// Package audit provides the append-only trail of validation decisions.
// Entries are written once and never updated or deleted.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry records a single state transition on a validatable record
type Entry struct {
	ID         uuid.UUID `json:"id"`
	RecordType string    `json:"record_type"`
	RecordID   uuid.UUID `json:"record_id"`
	Actor      uuid.UUID `json:"actor"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Comment    string    `json:"comment"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEntry creates a new audit entry
func NewEntry(recordType string, recordID, actor uuid.UUID, fromStatus, toStatus, comment string, occurredAt time.Time) *Entry {
	return &Entry{
		ID:         uuid.New(),
		RecordType: recordType,
		RecordID:   recordID,
		Actor:      actor,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		Comment:    comment,
		OccurredAt: occurredAt,
	}
}

// Repository defines the interface for audit trail persistence.
// The trail is append-only: there is no update or delete.
type Repository interface {
	// Append persists a new audit entry
	Append(ctx context.Context, entry *Entry) error
	// FindByRecord retrieves the trail for a single record, oldest first
	FindByRecord(ctx context.Context, recordType string, recordID uuid.UUID) ([]Entry, error)
	// FindByActor retrieves entries written by a single actor, newest first
	FindByActor(ctx context.Context, actor uuid.UUID, limit int) ([]Entry, error)
}
