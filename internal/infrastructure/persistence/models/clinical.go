package models

import (
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcedureRecordModel is the persistence model for the ProcedureRecord aggregate root.
type ProcedureRecordModel struct {
	OwnedAggregateModel
	PatientID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProcedureType string              `gorm:"type:varchar(100);not null"`
	Department    clinical.Department `gorm:"type:varchar(20);not null;index"`
	Shift         clinical.Shift      `gorm:"type:varchar(10);not null"`
	PhysicianID   *uuid.UUID          `gorm:"type:uuid;index"`
	SupportID     *uuid.UUID          `gorm:"type:uuid;index"`
	Price         decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	PerformedAt   time.Time           `gorm:"not null;index"`
	ValidationColumns
	DeletedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProcedureRecordModel) TableName() string {
	return "procedure_records"
}

// ToDomain converts the persistence model to a domain ProcedureRecord entity.
func (m *ProcedureRecordModel) ToDomain() *clinical.ProcedureRecord {
	return &clinical.ProcedureRecord{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		PatientID:          m.PatientID,
		ProcedureType:      m.ProcedureType,
		Department:         m.Department,
		Shift:              m.Shift,
		PhysicianID:        m.PhysicianID,
		SupportID:          m.SupportID,
		Price:              m.Price,
		PerformedAt:        m.PerformedAt,
		Validation:         m.ValidationColumns.ToDomain(),
		DeletedAt:          m.DeletedAt,
	}
}

// FromDomain populates the persistence model from a domain ProcedureRecord entity.
func (m *ProcedureRecordModel) FromDomain(r *clinical.ProcedureRecord) {
	m.FromDomainOwnedAggregateRoot(r.OwnedAggregateRoot)
	m.PatientID = r.PatientID
	m.ProcedureType = r.ProcedureType
	m.Department = r.Department
	m.Shift = r.Shift
	m.PhysicianID = r.PhysicianID
	m.SupportID = r.SupportID
	m.Price = r.Price
	m.PerformedAt = r.PerformedAt
	m.FromDomainValidation(r.Validation)
	m.DeletedAt = r.DeletedAt
}

// ProcedureRecordModelFromDomain creates a new persistence model from a domain ProcedureRecord.
func ProcedureRecordModelFromDomain(r *clinical.ProcedureRecord) *ProcedureRecordModel {
	m := &ProcedureRecordModel{}
	m.FromDomain(r)
	return m
}

// DailyPatientCountModel is the persistence model for the DailyPatientCount aggregate root.
// The natural key (department, shift, physician, date) carries a unique index so the
// same tally cannot be submitted twice.
type DailyPatientCountModel struct {
	OwnedAggregateModel
	Department   clinical.Department `gorm:"type:varchar(20);not null;uniqueIndex:uq_daily_count_key,priority:1"`
	Shift        clinical.Shift      `gorm:"type:varchar(10);not null;uniqueIndex:uq_daily_count_key,priority:2"`
	PhysicianID  uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:uq_daily_count_key,priority:3"`
	CountDate    time.Time           `gorm:"type:date;not null;uniqueIndex:uq_daily_count_key,priority:4"`
	GeneralCount int                 `gorm:"not null"`
	InsuredCount int                 `gorm:"not null"`
	ValidationColumns
	DeletedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DailyPatientCountModel) TableName() string {
	return "daily_patient_counts"
}

// ToDomain converts the persistence model to a domain DailyPatientCount entity.
func (m *DailyPatientCountModel) ToDomain() *clinical.DailyPatientCount {
	return &clinical.DailyPatientCount{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Department:         m.Department,
		Shift:              m.Shift,
		PhysicianID:        m.PhysicianID,
		CountDate:          m.CountDate,
		GeneralCount:       m.GeneralCount,
		InsuredCount:       m.InsuredCount,
		Validation:         m.ValidationColumns.ToDomain(),
		DeletedAt:          m.DeletedAt,
	}
}

// FromDomain populates the persistence model from a domain DailyPatientCount entity.
func (m *DailyPatientCountModel) FromDomain(c *clinical.DailyPatientCount) {
	m.FromDomainOwnedAggregateRoot(c.OwnedAggregateRoot)
	m.Department = c.Department
	m.Shift = c.Shift
	m.PhysicianID = c.PhysicianID
	m.CountDate = c.CountDate
	m.GeneralCount = c.GeneralCount
	m.InsuredCount = c.InsuredCount
	m.FromDomainValidation(c.Validation)
	m.DeletedAt = c.DeletedAt
}

// DailyPatientCountModelFromDomain creates a new persistence model from a domain DailyPatientCount.
func DailyPatientCountModelFromDomain(c *clinical.DailyPatientCount) *DailyPatientCountModel {
	m := &DailyPatientCountModel{}
	m.FromDomain(c)
	return m
}
