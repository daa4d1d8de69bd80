package models

import (
	"time"

	"github.com/clinic/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// FinancialEntryModel is the persistence model for the FinancialEntry aggregate root.
type FinancialEntryModel struct {
	OwnedAggregateModel
	EntryNumber string                `gorm:"type:varchar(30);not null;uniqueIndex"`
	Type        finance.EntryType     `gorm:"type:varchar(10);not null;index"`
	Category    finance.EntryCategory `gorm:"type:varchar(30);not null;index"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Note        string                `gorm:"type:varchar(500)"`
	EntryDate   time.Time             `gorm:"not null;index"`
	ValidationColumns
	DeletedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (FinancialEntryModel) TableName() string {
	return "financial_entries"
}

// ToDomain converts the persistence model to a domain FinancialEntry entity.
func (m *FinancialEntryModel) ToDomain() *finance.FinancialEntry {
	return &finance.FinancialEntry{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		EntryNumber:        m.EntryNumber,
		Type:               m.Type,
		Category:           m.Category,
		Amount:             m.Amount,
		Note:               m.Note,
		EntryDate:          m.EntryDate,
		Validation:         m.ValidationColumns.ToDomain(),
		DeletedAt:          m.DeletedAt,
	}
}

// FromDomain populates the persistence model from a domain FinancialEntry entity.
func (m *FinancialEntryModel) FromDomain(e *finance.FinancialEntry) {
	m.FromDomainOwnedAggregateRoot(e.OwnedAggregateRoot)
	m.EntryNumber = e.EntryNumber
	m.Type = e.Type
	m.Category = e.Category
	m.Amount = e.Amount
	m.Note = e.Note
	m.EntryDate = e.EntryDate
	m.FromDomainValidation(e.Validation)
	m.DeletedAt = e.DeletedAt
}

// FinancialEntryModelFromDomain creates a new persistence model from a domain FinancialEntry.
func FinancialEntryModelFromDomain(e *finance.FinancialEntry) *FinancialEntryModel {
	m := &FinancialEntryModel{}
	m.FromDomain(e)
	return m
}
