package finance

import (
	"context"
	"time"

	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
)

// FinancialEntryFilter contains filter options for querying entries
type FinancialEntryFilter struct {
	Type     *EntryType
	Category *EntryCategory
	Status   *validation.Status
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// FinancialEntryRepository defines the interface for financial entry persistence
type FinancialEntryRepository interface {
	// FindByID finds an entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialEntry, error)

	// FindByEntryNumber finds an entry by its number
	FindByEntryNumber(ctx context.Context, entryNumber string) (*FinancialEntry, error)

	// FindAll finds entries matching the filter, excluding soft-deleted rows
	FindAll(ctx context.Context, filter FinancialEntryFilter) ([]FinancialEntry, error)

	// FindPending finds all entries awaiting review, oldest first
	FindPending(ctx context.Context) ([]FinancialEntry, error)

	// Save creates or updates an entry
	Save(ctx context.Context, entry *FinancialEntry) error

	// Count counts entries matching the filter
	Count(ctx context.Context, filter FinancialEntryFilter) (int64, error)

	// GenerateEntryNumber generates a new sequential entry number
	GenerateEntryNumber(ctx context.Context, entryType EntryType) (string, error)
}
