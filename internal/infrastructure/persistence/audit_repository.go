package persistence

import (
	"context"

	"github.com/clinic/backend/internal/domain/audit"
	"github.com/clinic/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append persists a new audit entry
func (r *GormAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	model := models.AuditEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByRecord retrieves the trail for a single record, oldest first
func (r *GormAuditRepository) FindByRecord(ctx context.Context, recordType string, recordID uuid.UUID) ([]audit.Entry, error) {
	var entryModels []models.AuditEntryModel
	if err := r.db.WithContext(ctx).
		Where("record_type = ? AND record_id = ?", recordType, recordID).
		Order("occurred_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]audit.Entry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// FindByActor retrieves entries written by a single actor, newest first
func (r *GormAuditRepository) FindByActor(ctx context.Context, actor uuid.UUID, limit int) ([]audit.Entry, error) {
	var entryModels []models.AuditEntryModel
	query := r.db.WithContext(ctx).
		Where("actor = ?", actor).
		Order("occurred_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]audit.Entry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Ensure GormAuditRepository implements audit.Repository
var _ audit.Repository = (*GormAuditRepository)(nil)
