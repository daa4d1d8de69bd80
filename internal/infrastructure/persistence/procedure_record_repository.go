package persistence

import (
	"context"
	"errors"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/clinic/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProcedureRecordRepository implements ProcedureRecordRepository using GORM
type GormProcedureRecordRepository struct {
	db *gorm.DB
}

// NewGormProcedureRecordRepository creates a new GormProcedureRecordRepository
func NewGormProcedureRecordRepository(db *gorm.DB) *GormProcedureRecordRepository {
	return &GormProcedureRecordRepository{db: db}
}

// FindByID finds a record by its ID. Returns (nil, nil) when no record exists.
func (r *GormProcedureRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinical.ProcedureRecord, error) {
	var model models.ProcedureRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds records matching the filter, excluding soft-deleted rows
func (r *GormProcedureRecordRepository) FindAll(ctx context.Context, filter clinical.ProcedureRecordFilter) ([]clinical.ProcedureRecord, error) {
	var recordModels []models.ProcedureRecordModel
	query := r.db.WithContext(ctx).Model(&models.ProcedureRecordModel{}).
		Where("deleted_at IS NULL")
	query = r.applyFilter(query, filter)

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]clinical.ProcedureRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// FindPending finds all records awaiting review, oldest first
func (r *GormProcedureRecordRepository) FindPending(ctx context.Context) ([]clinical.ProcedureRecord, error) {
	var recordModels []models.ProcedureRecordModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND deleted_at IS NULL", validation.StatusPending).
		Order("performed_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]clinical.ProcedureRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Save creates or updates a record
func (r *GormProcedureRecordRepository) Save(ctx context.Context, record *clinical.ProcedureRecord) error {
	model := models.ProcedureRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts records matching the filter
func (r *GormProcedureRecordRepository) Count(ctx context.Context, filter clinical.ProcedureRecordFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ProcedureRecordModel{}).
		Where("deleted_at IS NULL")
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to query
func (r *GormProcedureRecordRepository) applyFilter(query *gorm.DB, filter clinical.ProcedureRecordFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = query.Order("performed_at DESC, created_at DESC")

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormProcedureRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter clinical.ProcedureRecordFilter) *gorm.DB {
	if filter.Department != nil {
		query = query.Where("department = ?", *filter.Department)
	}
	if filter.Shift != nil {
		query = query.Where("shift = ?", *filter.Shift)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Physician != nil {
		query = query.Where("physician_id = ?", *filter.Physician)
	}
	if filter.DateFrom != nil {
		query = query.Where("performed_at >= ?", filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("performed_at <= ?", filter.DateTo)
	}
	return query
}

// Ensure GormProcedureRecordRepository implements ProcedureRecordRepository
var _ clinical.ProcedureRecordRepository = (*GormProcedureRecordRepository)(nil)
