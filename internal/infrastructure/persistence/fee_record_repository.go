package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFeeRecordRepository implements RecordRepository using GORM
type GormFeeRecordRepository struct {
	db *gorm.DB
}

// NewGormFeeRecordRepository creates a new GormFeeRecordRepository
func NewGormFeeRecordRepository(db *gorm.DB) *GormFeeRecordRepository {
	return &GormFeeRecordRepository{db: db}
}

// FindByID finds a record by its ID. Returns (nil, nil) when no record exists.
func (r *GormFeeRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*fee.Record, error) {
	var model models.FeeRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByKey finds a record by its uniqueness key. Returns (nil, nil) when no record exists.
func (r *GormFeeRecordRepository) FindByKey(ctx context.Context, beneficiaryID uuid.UUID, serviceDate time.Time, basis fee.Basis) (*fee.Record, error) {
	var model models.FeeRecordModel
	if err := r.db.WithContext(ctx).
		Where("beneficiary_id = ? AND service_date = ? AND basis = ?",
			beneficiaryID, normalizeDate(serviceDate), basis).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySource finds records derived from a source record
func (r *GormFeeRecordRepository) FindBySource(ctx context.Context, sourceID uuid.UUID) ([]fee.Record, error) {
	var recordModels []models.FeeRecordModel
	if err := r.db.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Order("created_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]fee.Record, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// FindAll finds records matching the filter
func (r *GormFeeRecordRepository) FindAll(ctx context.Context, filter fee.RecordFilter) ([]fee.Record, error) {
	var recordModels []models.FeeRecordModel
	query := r.db.WithContext(ctx).Model(&models.FeeRecordModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]fee.Record, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// ExistsByKey checks whether a record exists for the uniqueness key
func (r *GormFeeRecordRepository) ExistsByKey(ctx context.Context, beneficiaryID uuid.UUID, serviceDate time.Time, basis fee.Basis) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FeeRecordModel{}).
		Where("beneficiary_id = ? AND service_date = ? AND basis = ?",
			beneficiaryID, normalizeDate(serviceDate), basis).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateIfAbsent persists the record unless one already exists for its key.
// ON CONFLICT DO NOTHING rides on the unique index, so two generators racing
// on the same key resolve inside the database: exactly one row wins and the
// loser sees shared.ErrDuplicateFee.
func (r *GormFeeRecordRepository) CreateIfAbsent(ctx context.Context, record *fee.Record) error {
	model := models.FeeRecordModelFromDomain(record)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "beneficiary_id"},
				{Name: "service_date"},
				{Name: "basis"},
			},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrDuplicateFee
	}
	return nil
}

// Save updates an existing record
func (r *GormFeeRecordRepository) Save(ctx context.Context, record *fee.Record) error {
	model := models.FeeRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts records matching the filter
func (r *GormFeeRecordRepository) Count(ctx context.Context, filter fee.RecordFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.FeeRecordModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to query
func (r *GormFeeRecordRepository) applyFilter(query *gorm.DB, filter fee.RecordFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = query.Order("service_date DESC, created_at DESC")

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
func (r *GormFeeRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter fee.RecordFilter) *gorm.DB {
	if filter.Beneficiary != nil {
		query = query.Where("beneficiary_id = ?", *filter.Beneficiary)
	}
	if filter.Basis != nil {
		query = query.Where("basis = ?", *filter.Basis)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("service_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("service_date <= ?", filter.DateTo)
	}
	return query
}

// Ensure GormFeeRecordRepository implements RecordRepository
var _ fee.RecordRepository = (*GormFeeRecordRepository)(nil)
