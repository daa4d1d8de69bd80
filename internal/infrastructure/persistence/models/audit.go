package models

import (
	"time"

	"github.com/clinic/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditEntryModel is the persistence model for audit trail entries.
// Rows are insert-only; there is no version column because entries never change.
type AuditEntryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	RecordType string    `gorm:"type:varchar(30);not null;index:idx_audit_record,priority:1"`
	RecordID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_record,priority:2"`
	Actor      uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus string    `gorm:"type:varchar(20);not null"`
	ToStatus   string    `gorm:"type:varchar(20);not null"`
	Comment    string    `gorm:"type:varchar(500)"`
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the persistence model to a domain audit Entry.
func (m *AuditEntryModel) ToDomain() *audit.Entry {
	return &audit.Entry{
		ID:         m.ID,
		RecordType: m.RecordType,
		RecordID:   m.RecordID,
		Actor:      m.Actor,
		FromStatus: m.FromStatus,
		ToStatus:   m.ToStatus,
		Comment:    m.Comment,
		OccurredAt: m.OccurredAt,
	}
}

// AuditEntryModelFromDomain creates a new persistence model from a domain audit Entry.
func AuditEntryModelFromDomain(e *audit.Entry) *AuditEntryModel {
	return &AuditEntryModel{
		ID:         e.ID,
		RecordType: e.RecordType,
		RecordID:   e.RecordID,
		Actor:      e.Actor,
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		Comment:    e.Comment,
		OccurredAt: e.OccurredAt,
	}
}
