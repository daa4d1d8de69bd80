package persistence

import (
	"context"
	"errors"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFeeFormulaRepository implements FormulaRepository using GORM
type GormFeeFormulaRepository struct {
	db *gorm.DB
}

// NewGormFeeFormulaRepository creates a new GormFeeFormulaRepository
func NewGormFeeFormulaRepository(db *gorm.DB) *GormFeeFormulaRepository {
	return &GormFeeFormulaRepository{db: db}
}

// FindByID finds a formula by its ID. Returns (nil, nil) when no formula exists.
func (r *GormFeeFormulaRepository) FindByID(ctx context.Context, id uuid.UUID) (*fee.Formula, error) {
	var model models.FeeFormulaModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindActive finds active formulas for the tuple, ordered by threshold
// descending then created-at descending. The resolver picks the first
// qualifying one, so the highest threshold wins.
func (r *GormFeeFormulaRepository) FindActive(ctx context.Context, department clinical.Department, shift clinical.Shift, basis fee.Basis) ([]fee.Formula, error) {
	var formulaModels []models.FeeFormulaModel
	if err := r.db.WithContext(ctx).
		Where("department = ? AND shift = ? AND basis = ? AND active = ?", department, shift, basis, true).
		Order("threshold DESC, created_at DESC").
		Find(&formulaModels).Error; err != nil {
		return nil, err
	}
	return toDomainFormulas(formulaModels)
}

// FindAll finds all formulas including inactive ones
func (r *GormFeeFormulaRepository) FindAll(ctx context.Context) ([]fee.Formula, error) {
	var formulaModels []models.FeeFormulaModel
	if err := r.db.WithContext(ctx).
		Order("department ASC, shift ASC, basis ASC, threshold DESC").
		Find(&formulaModels).Error; err != nil {
		return nil, err
	}
	return toDomainFormulas(formulaModels)
}

// Save creates or updates a formula
func (r *GormFeeFormulaRepository) Save(ctx context.Context, formula *fee.Formula) error {
	model := models.FeeFormulaModelFromDomain(formula)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a formula
func (r *GormFeeFormulaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FeeFormulaModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainFormulas(formulaModels []models.FeeFormulaModel) ([]fee.Formula, error) {
	formulas := make([]fee.Formula, len(formulaModels))
	for i, model := range formulaModels {
		formula, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		formulas[i] = *formula
	}
	return formulas, nil
}

// Ensure GormFeeFormulaRepository implements FormulaRepository
var _ fee.FormulaRepository = (*GormFeeFormulaRepository)(nil)
