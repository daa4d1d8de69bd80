package clinical

import (
	"context"
	"time"

	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
)

// ProcedureRecordFilter contains filter options for querying procedure records
type ProcedureRecordFilter struct {
	Department *Department
	Shift      *Shift
	Status     *validation.Status
	Physician  *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
}

// ProcedureRecordRepository defines the interface for procedure record persistence
type ProcedureRecordRepository interface {
	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProcedureRecord, error)

	// FindAll finds records matching the filter, excluding soft-deleted rows
	FindAll(ctx context.Context, filter ProcedureRecordFilter) ([]ProcedureRecord, error)

	// FindPending finds all records awaiting review, oldest first
	FindPending(ctx context.Context) ([]ProcedureRecord, error)

	// Save creates or updates a record
	Save(ctx context.Context, record *ProcedureRecord) error

	// Count counts records matching the filter
	Count(ctx context.Context, filter ProcedureRecordFilter) (int64, error)
}

// DailyPatientCountFilter contains filter options for querying daily counts
type DailyPatientCountFilter struct {
	Department *Department
	Shift      *Shift
	Status     *validation.Status
	Physician  *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
}

// DailyPatientCountRepository defines the interface for daily count persistence
type DailyPatientCountRepository interface {
	// FindByID finds a count by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*DailyPatientCount, error)

	// FindByKey finds a count by its natural key
	FindByKey(ctx context.Context, department Department, shift Shift, physicianID uuid.UUID, countDate time.Time) (*DailyPatientCount, error)

	// FindAll finds counts matching the filter, excluding soft-deleted rows
	FindAll(ctx context.Context, filter DailyPatientCountFilter) ([]DailyPatientCount, error)

	// FindPending finds all counts awaiting review, oldest first
	FindPending(ctx context.Context) ([]DailyPatientCount, error)

	// FindApprovedWithoutFee finds approved counts that still lack a fee
	// record, used by the sweep scheduler as a safety net
	FindApprovedWithoutFee(ctx context.Context, limit int) ([]DailyPatientCount, error)

	// Save creates or updates a count
	Save(ctx context.Context, count *DailyPatientCount) error

	// Count counts records matching the filter
	Count(ctx context.Context, filter DailyPatientCountFilter) (int64, error)
}
