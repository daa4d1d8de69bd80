package fee

import (
	"context"
	"time"

	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordQueryService provides read access to generated fee records
type RecordQueryService struct {
	recordRepo fee.RecordRepository
}

// NewRecordQueryService creates a new RecordQueryService
func NewRecordQueryService(recordRepo fee.RecordRepository) *RecordQueryService {
	return &RecordQueryService{recordRepo: recordRepo}
}

// RecordResponse represents a fee record in API responses
type RecordResponse struct {
	ID            uuid.UUID       `json:"id"`
	BeneficiaryID uuid.UUID       `json:"beneficiary_id"`
	ServiceDate   time.Time       `json:"service_date"`
	Shift         string          `json:"shift"`
	Basis         string          `json:"basis"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	SourceID      uuid.UUID       `json:"source_id"`
	FormulaID     uuid.UUID       `json:"formula_id"`
	Status        string          `json:"status"`
	ValidatedBy   *uuid.UUID      `json:"validated_by,omitempty"`
	ValidatedAt   *time.Time      `json:"validated_at,omitempty"`
	Comment       string          `json:"comment,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// RecordListFilter defines filtering options for fee record list queries
type RecordListFilter struct {
	Beneficiary *uuid.UUID         `form:"beneficiary_id"`
	Basis       *string            `form:"basis"`
	Status      *validation.Status `form:"status"`
	FromDate    *time.Time         `form:"from_date"`
	ToDate      *time.Time         `form:"to_date"`
	Page        int                `form:"page"`
	PageSize    int                `form:"page_size"`
}

// BeneficiarySummary aggregates fee totals for one staff member over a period
type BeneficiarySummary struct {
	BeneficiaryID uuid.UUID       `json:"beneficiary_id"`
	RecordCount   int             `json:"record_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// GetByID gets a fee record by ID
func (s *RecordQueryService) GetByID(ctx context.Context, id uuid.UUID) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Fee record not found")
	}
	return toRecordResponse(record), nil
}

// List lists fee records with filtering and pagination
func (s *RecordQueryService) List(ctx context.Context, filter RecordListFilter) ([]RecordResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	records, err := s.recordRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.recordRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *toRecordResponse(&records[i]))
	}
	return responses, total, nil
}

// SummarizeByBeneficiary totals approved fees per staff member for a period.
// Used by the payroll recap export.
func (s *RecordQueryService) SummarizeByBeneficiary(ctx context.Context, from, to time.Time) ([]BeneficiarySummary, error) {
	approved := validation.StatusApproved
	records, err := s.recordRepo.FindAll(ctx, fee.RecordFilter{
		Status:   &approved,
		DateFrom: &from,
		DateTo:   &to,
	})
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]*BeneficiarySummary)
	order := make([]uuid.UUID, 0)
	for i := range records {
		record := &records[i]
		summary, ok := totals[record.BeneficiaryID]
		if !ok {
			summary = &BeneficiarySummary{
				BeneficiaryID: record.BeneficiaryID,
				TotalAmount:   decimal.Zero,
			}
			totals[record.BeneficiaryID] = summary
			order = append(order, record.BeneficiaryID)
		}
		summary.RecordCount++
		summary.TotalAmount = summary.TotalAmount.Add(record.Amount)
	}

	result := make([]BeneficiarySummary, 0, len(order))
	for _, id := range order {
		result = append(result, *totals[id])
	}
	return result, nil
}

func toDomainFilter(filter RecordListFilter) fee.RecordFilter {
	domainFilter := fee.RecordFilter{
		Beneficiary: filter.Beneficiary,
		Status:      filter.Status,
		DateFrom:    filter.FromDate,
		DateTo:      filter.ToDate,
		Page:        filter.Page,
		PageSize:    filter.PageSize,
	}
	if filter.Basis != nil {
		basis := fee.Basis(*filter.Basis)
		domainFilter.Basis = &basis
	}
	return domainFilter
}

func toRecordResponse(record *fee.Record) *RecordResponse {
	return &RecordResponse{
		ID:            record.ID,
		BeneficiaryID: record.BeneficiaryID,
		ServiceDate:   record.ServiceDate,
		Shift:         record.Shift.String(),
		Basis:         record.Basis.String(),
		Amount:        record.Amount,
		Description:   record.Description,
		SourceID:      record.SourceID,
		FormulaID:     record.FormulaID,
		Status:        string(record.Validation.Status),
		ValidatedBy:   record.Validation.ValidatedBy,
		ValidatedAt:   record.Validation.ValidatedAt,
		Comment:       record.Validation.Comment,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}
