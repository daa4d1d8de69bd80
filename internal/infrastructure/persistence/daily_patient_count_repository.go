package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/clinic/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDailyPatientCountRepository implements DailyPatientCountRepository using GORM
type GormDailyPatientCountRepository struct {
	db *gorm.DB
}

// NewGormDailyPatientCountRepository creates a new GormDailyPatientCountRepository
func NewGormDailyPatientCountRepository(db *gorm.DB) *GormDailyPatientCountRepository {
	return &GormDailyPatientCountRepository{db: db}
}

// FindByID finds a count by its ID. Returns (nil, nil) when no count exists.
func (r *GormDailyPatientCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinical.DailyPatientCount, error) {
	var model models.DailyPatientCountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByKey finds a count by its natural key. Returns (nil, nil) when no count exists.
func (r *GormDailyPatientCountRepository) FindByKey(ctx context.Context, department clinical.Department, shift clinical.Shift, physicianID uuid.UUID, countDate time.Time) (*clinical.DailyPatientCount, error) {
	var model models.DailyPatientCountModel
	if err := r.db.WithContext(ctx).
		Where("department = ? AND shift = ? AND physician_id = ? AND count_date = ?",
			department, shift, physicianID, normalizeDate(countDate)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds counts matching the filter, excluding soft-deleted rows
func (r *GormDailyPatientCountRepository) FindAll(ctx context.Context, filter clinical.DailyPatientCountFilter) ([]clinical.DailyPatientCount, error) {
	var countModels []models.DailyPatientCountModel
	query := r.db.WithContext(ctx).Model(&models.DailyPatientCountModel{}).
		Where("deleted_at IS NULL")
	query = r.applyFilter(query, filter)

	if err := query.Find(&countModels).Error; err != nil {
		return nil, err
	}
	counts := make([]clinical.DailyPatientCount, len(countModels))
	for i, model := range countModels {
		counts[i] = *model.ToDomain()
	}
	return counts, nil
}

// FindPending finds all counts awaiting review, oldest first
func (r *GormDailyPatientCountRepository) FindPending(ctx context.Context) ([]clinical.DailyPatientCount, error) {
	var countModels []models.DailyPatientCountModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND deleted_at IS NULL", validation.StatusPending).
		Order("count_date ASC").
		Find(&countModels).Error; err != nil {
		return nil, err
	}
	counts := make([]clinical.DailyPatientCount, len(countModels))
	for i, model := range countModels {
		counts[i] = *model.ToDomain()
	}
	return counts, nil
}

// FindApprovedWithoutFee finds approved counts whose fee record is missing.
// The anti-join keys on the fee uniqueness tuple, so a count whose fee was
// generated and later flagged still does not reappear here.
func (r *GormDailyPatientCountRepository) FindApprovedWithoutFee(ctx context.Context, limit int) ([]clinical.DailyPatientCount, error) {
	var countModels []models.DailyPatientCountModel
	query := r.db.WithContext(ctx).Model(&models.DailyPatientCountModel{}).
		Joins(`LEFT JOIN fee_records ON fee_records.beneficiary_id = daily_patient_counts.physician_id
			AND fee_records.service_date = daily_patient_counts.count_date
			AND fee_records.basis = ?`, fee.BasisDailyCount).
		Where("daily_patient_counts.status = ? AND daily_patient_counts.deleted_at IS NULL", validation.StatusApproved).
		Where("fee_records.id IS NULL").
		Order("daily_patient_counts.count_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&countModels).Error; err != nil {
		return nil, err
	}
	counts := make([]clinical.DailyPatientCount, len(countModels))
	for i, model := range countModels {
		counts[i] = *model.ToDomain()
	}
	return counts, nil
}

// Save creates or updates a count
func (r *GormDailyPatientCountRepository) Save(ctx context.Context, count *clinical.DailyPatientCount) error {
	model := models.DailyPatientCountModelFromDomain(count)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts records matching the filter
func (r *GormDailyPatientCountRepository) Count(ctx context.Context, filter clinical.DailyPatientCountFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DailyPatientCountModel{}).
		Where("deleted_at IS NULL")
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to query
func (r *GormDailyPatientCountRepository) applyFilter(query *gorm.DB, filter clinical.DailyPatientCountFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = query.Order("count_date DESC, created_at DESC")

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
func (r *GormDailyPatientCountRepository) applyFilterWithoutPagination(query *gorm.DB, filter clinical.DailyPatientCountFilter) *gorm.DB {
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
		query = query.Where("count_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("count_date <= ?", filter.DateTo)
	}
	return query
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Ensure GormDailyPatientCountRepository implements DailyPatientCountRepository
var _ clinical.DailyPatientCountRepository = (*GormDailyPatientCountRepository)(nil)
