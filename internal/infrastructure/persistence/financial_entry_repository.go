package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinic/backend/internal/domain/finance"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/clinic/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFinancialEntryRepository implements FinancialEntryRepository using GORM
type GormFinancialEntryRepository struct {
	db *gorm.DB
}

// NewGormFinancialEntryRepository creates a new GormFinancialEntryRepository
func NewGormFinancialEntryRepository(db *gorm.DB) *GormFinancialEntryRepository {
	return &GormFinancialEntryRepository{db: db}
}

// FindByID finds an entry by its ID. Returns (nil, nil) when no entry exists.
func (r *GormFinancialEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialEntry, error) {
	var model models.FinancialEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEntryNumber finds an entry by its number. Returns (nil, nil) when no entry exists.
func (r *GormFinancialEntryRepository) FindByEntryNumber(ctx context.Context, entryNumber string) (*finance.FinancialEntry, error) {
	var model models.FinancialEntryModel
	if err := r.db.WithContext(ctx).
		Where("entry_number = ?", entryNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds entries matching the filter, excluding soft-deleted rows
func (r *GormFinancialEntryRepository) FindAll(ctx context.Context, filter finance.FinancialEntryFilter) ([]finance.FinancialEntry, error) {
	var entryModels []models.FinancialEntryModel
	query := r.db.WithContext(ctx).Model(&models.FinancialEntryModel{}).
		Where("deleted_at IS NULL")
	query = r.applyFilter(query, filter)

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]finance.FinancialEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// FindPending finds all entries awaiting review, oldest first
func (r *GormFinancialEntryRepository) FindPending(ctx context.Context) ([]finance.FinancialEntry, error) {
	var entryModels []models.FinancialEntryModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND deleted_at IS NULL", validation.StatusPending).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]finance.FinancialEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Save creates or updates an entry
func (r *GormFinancialEntryRepository) Save(ctx context.Context, entry *finance.FinancialEntry) error {
	model := models.FinancialEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts entries matching the filter
func (r *GormFinancialEntryRepository) Count(ctx context.Context, filter finance.FinancialEntryFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.FinancialEntryModel{}).
		Where("deleted_at IS NULL")
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateEntryNumber generates a new sequential entry number. Numbers are
// scoped to the month, e.g. REV-202503-00014.
func (r *GormFinancialEntryRepository) GenerateEntryNumber(ctx context.Context, entryType finance.EntryType) (string, error) {
	prefix := "REV"
	if entryType == finance.EntryTypeExpense {
		prefix = "EXP"
	}
	yearMonth := time.Now().UTC().Format("200601")

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FinancialEntryModel{}).
		Where("entry_number LIKE ?", fmt.Sprintf("%s-%s-%%", prefix, yearMonth)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%05d", prefix, yearMonth, count+1), nil
}

// applyFilter applies filter conditions to query
func (r *GormFinancialEntryRepository) applyFilter(query *gorm.DB, filter finance.FinancialEntryFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = query.Order("entry_date DESC, created_at DESC")

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
func (r *GormFinancialEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter finance.FinancialEntryFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("entry_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("entry_date <= ?", filter.DateTo)
	}
	return query
}

// Ensure GormFinancialEntryRepository implements FinancialEntryRepository
var _ finance.FinancialEntryRepository = (*GormFinancialEntryRepository)(nil)
