package fee

import (
	"context"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
)

// FormulaRepository defines the interface for fee formula persistence
type FormulaRepository interface {
	// FindByID finds a formula by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Formula, error)

	// FindActive finds active formulas for the tuple, ordered by threshold
	// descending then created-at descending
	FindActive(ctx context.Context, department clinical.Department, shift clinical.Shift, basis Basis) ([]Formula, error)

	// FindAll finds all formulas including inactive ones
	FindAll(ctx context.Context) ([]Formula, error)

	// Save creates or updates a formula
	Save(ctx context.Context, formula *Formula) error

	// Delete removes a formula
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecordFilter contains filter options for querying fee records
type RecordFilter struct {
	Beneficiary *uuid.UUID
	Basis       *Basis
	Status      *validation.Status
	DateFrom    *time.Time
	DateTo      *time.Time
	Page        int
	PageSize    int
}

// RecordRepository defines the interface for fee record persistence
type RecordRepository interface {
	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// FindByKey finds a record by its uniqueness key
	FindByKey(ctx context.Context, beneficiaryID uuid.UUID, serviceDate time.Time, basis Basis) (*Record, error)

	// FindBySource finds records derived from a source record
	FindBySource(ctx context.Context, sourceID uuid.UUID) ([]Record, error)

	// FindAll finds records matching the filter
	FindAll(ctx context.Context, filter RecordFilter) ([]Record, error)

	// ExistsByKey checks whether a record exists for the uniqueness key
	ExistsByKey(ctx context.Context, beneficiaryID uuid.UUID, serviceDate time.Time, basis Basis) (bool, error)

	// CreateIfAbsent persists the record unless one already exists for its
	// (beneficiary, service date, basis) key. The check is backed by a
	// database unique index, so a concurrent insert surfaces as
	// shared.ErrDuplicateFee rather than a second row.
	CreateIfAbsent(ctx context.Context, record *Record) error

	// Save updates an existing record
	Save(ctx context.Context, record *Record) error

	// Count counts records matching the filter
	Count(ctx context.Context, filter RecordFilter) (int64, error)
}
