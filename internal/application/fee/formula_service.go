package fee

import (
	"context"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FormulaService provides administrative fee formula configuration
type FormulaService struct {
	formulaRepo fee.FormulaRepository
	clock       shared.Clock
	logger      *zap.Logger
}

// NewFormulaService creates a new FormulaService
func NewFormulaService(formulaRepo fee.FormulaRepository, clock shared.Clock, logger *zap.Logger) *FormulaService {
	return &FormulaService{
		formulaRepo: formulaRepo,
		clock:       clock,
		logger:      logger,
	}
}

// FormulaResponse represents a fee formula in API responses
type FormulaResponse struct {
	ID         uuid.UUID       `json:"id"`
	Department string          `json:"department"`
	Shift      string          `json:"shift"`
	Basis      string          `json:"basis"`
	Active     bool            `json:"active"`
	Threshold  int64           `json:"threshold"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	Mode       string          `json:"mode"`
	Multiplier decimal.Decimal `json:"multiplier"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateFormulaRequest represents a request to create a fee formula
type CreateFormulaRequest struct {
	Department string          `json:"department" binding:"required"`
	Shift      string          `json:"shift" binding:"required"`
	Basis      string          `json:"basis" binding:"required"`
	Threshold  int64           `json:"threshold"`
	BaseAmount decimal.Decimal `json:"base_amount" binding:"required"`
	Mode       string          `json:"mode" binding:"required"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// Create creates a new active fee formula
func (s *FormulaService) Create(ctx context.Context, req CreateFormulaRequest) (*FormulaResponse, error) {
	mode, err := fee.ModeFromName(req.Mode, req.Multiplier)
	if err != nil {
		return nil, err
	}

	formula, err := fee.NewFormula(
		clinical.Department(req.Department),
		clinical.Shift(req.Shift),
		fee.Basis(req.Basis),
		req.Threshold,
		req.BaseAmount,
		mode,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.formulaRepo.Save(ctx, formula); err != nil {
		return nil, err
	}

	s.logger.Info("fee formula created",
		zap.String("formula_id", formula.ID.String()),
		zap.String("department", req.Department),
		zap.String("shift", req.Shift),
		zap.String("basis", req.Basis),
		zap.Int64("threshold", req.Threshold),
	)

	return toFormulaResponse(formula), nil
}

// GetByID gets a formula by ID
func (s *FormulaService) GetByID(ctx context.Context, id uuid.UUID) (*FormulaResponse, error) {
	formula, err := s.findFormula(ctx, id)
	if err != nil {
		return nil, err
	}
	return toFormulaResponse(formula), nil
}

// List lists all formulas including inactive ones
func (s *FormulaService) List(ctx context.Context) ([]FormulaResponse, error) {
	formulas, err := s.formulaRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]FormulaResponse, 0, len(formulas))
	for i := range formulas {
		responses = append(responses, *toFormulaResponse(&formulas[i]))
	}
	return responses, nil
}

// Activate makes a formula eligible for resolution again
func (s *FormulaService) Activate(ctx context.Context, id uuid.UUID) (*FormulaResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate removes a formula from resolution without deleting it.
// Existing fee records keep referencing it.
func (s *FormulaService) Deactivate(ctx context.Context, id uuid.UUID) (*FormulaResponse, error) {
	return s.setActive(ctx, id, false)
}

// Delete removes a formula permanently
func (s *FormulaService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findFormula(ctx, id); err != nil {
		return err
	}
	return s.formulaRepo.Delete(ctx, id)
}

func (s *FormulaService) setActive(ctx context.Context, id uuid.UUID, active bool) (*FormulaResponse, error) {
	formula, err := s.findFormula(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		formula.Activate(s.clock.Now())
	} else {
		formula.Deactivate(s.clock.Now())
	}

	if err := s.formulaRepo.Save(ctx, formula); err != nil {
		return nil, err
	}
	return toFormulaResponse(formula), nil
}

func (s *FormulaService) findFormula(ctx context.Context, id uuid.UUID) (*fee.Formula, error) {
	formula, err := s.formulaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if formula == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Fee formula not found")
	}
	return formula, nil
}

func toFormulaResponse(formula *fee.Formula) *FormulaResponse {
	multiplier := decimal.Zero
	if progressive, ok := formula.Mode.(fee.Progressive); ok {
		multiplier = progressive.Multiplier
	}
	return &FormulaResponse{
		ID:         formula.ID,
		Department: formula.Department.String(),
		Shift:      formula.Shift.String(),
		Basis:      formula.Basis.String(),
		Active:     formula.Active,
		Threshold:  formula.Threshold,
		BaseAmount: formula.BaseAmount,
		Mode:       formula.Mode.Name(),
		Multiplier: multiplier,
		CreatedAt:  formula.CreatedAt,
		UpdatedAt:  formula.UpdatedAt,
	}
}
