package models

import (
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeFormulaModel is the persistence model for the fee Formula aggregate root.
// The computation mode is flattened into a name plus optional multiplier.
type FeeFormulaModel struct {
	AggregateModel
	Department clinical.Department `gorm:"type:varchar(20);not null;index:idx_fee_formula_tuple,priority:1"`
	Shift      clinical.Shift      `gorm:"type:varchar(10);not null;index:idx_fee_formula_tuple,priority:2"`
	Basis      fee.Basis           `gorm:"type:varchar(25);not null;index:idx_fee_formula_tuple,priority:3"`
	Active     bool                `gorm:"not null;default:true;index"`
	Threshold  int64               `gorm:"not null"`
	BaseAmount decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Mode       string              `gorm:"type:varchar(20);not null"`
	Multiplier decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (FeeFormulaModel) TableName() string {
	return "fee_formulas"
}

// ToDomain converts the persistence model to a domain Formula entity.
func (m *FeeFormulaModel) ToDomain() (*fee.Formula, error) {
	mode, err := fee.ModeFromName(m.Mode, m.Multiplier)
	if err != nil {
		return nil, err
	}
	return &fee.Formula{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Department:        m.Department,
		Shift:             m.Shift,
		Basis:             m.Basis,
		Active:            m.Active,
		Threshold:         m.Threshold,
		BaseAmount:        m.BaseAmount,
		Mode:              mode,
	}, nil
}

// FromDomain populates the persistence model from a domain Formula entity.
func (m *FeeFormulaModel) FromDomain(f *fee.Formula) {
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	m.Department = f.Department
	m.Shift = f.Shift
	m.Basis = f.Basis
	m.Active = f.Active
	m.Threshold = f.Threshold
	m.BaseAmount = f.BaseAmount
	m.Mode = f.Mode.Name()
	m.Multiplier = decimal.Zero
	if p, ok := f.Mode.(fee.Progressive); ok {
		m.Multiplier = p.Multiplier
	}
}

// FeeFormulaModelFromDomain creates a new persistence model from a domain Formula.
func FeeFormulaModelFromDomain(f *fee.Formula) *FeeFormulaModel {
	m := &FeeFormulaModel{}
	m.FromDomain(f)
	return m
}

// FeeRecordModel is the persistence model for the fee Record aggregate root.
// The unique index on (beneficiary, service date, basis) is the backstop that
// keeps concurrent generation from inserting a second fee for the same key.
type FeeRecordModel struct {
	AggregateModel
	BeneficiaryID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_fee_record_key,priority:1"`
	ServiceDate   time.Time       `gorm:"type:date;not null;uniqueIndex:uq_fee_record_key,priority:2"`
	Basis         fee.Basis       `gorm:"type:varchar(25);not null;uniqueIndex:uq_fee_record_key,priority:3"`
	Shift         clinical.Shift  `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description   string          `gorm:"type:varchar(500)"`
	SourceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	FormulaID     uuid.UUID       `gorm:"type:uuid;not null"`
	ValidationColumns
}

// TableName returns the table name for GORM
func (FeeRecordModel) TableName() string {
	return "fee_records"
}

// ToDomain converts the persistence model to a domain fee Record entity.
func (m *FeeRecordModel) ToDomain() *fee.Record {
	return &fee.Record{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BeneficiaryID:     m.BeneficiaryID,
		ServiceDate:       m.ServiceDate,
		Shift:             m.Shift,
		Basis:             m.Basis,
		Amount:            m.Amount,
		Description:       m.Description,
		SourceID:          m.SourceID,
		FormulaID:         m.FormulaID,
		Validation:        m.ValidationColumns.ToDomain(),
	}
}

// FromDomain populates the persistence model from a domain fee Record entity.
func (m *FeeRecordModel) FromDomain(r *fee.Record) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.BeneficiaryID = r.BeneficiaryID
	m.ServiceDate = r.ServiceDate
	m.Shift = r.Shift
	m.Basis = r.Basis
	m.Amount = r.Amount
	m.Description = r.Description
	m.SourceID = r.SourceID
	m.FormulaID = r.FormulaID
	m.FromDomainValidation(r.Validation)
}

// FeeRecordModelFromDomain creates a new persistence model from a domain fee Record.
func FeeRecordModelFromDomain(r *fee.Record) *FeeRecordModel {
	m := &FeeRecordModel{}
	m.FromDomain(r)
	return m
}
