// Package clinical provides application services for procedure records and
// daily patient counts, the two sources of service-fee generation.
package clinical

import (
	"context"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/shared/valueobject"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProcedureService provides application-level procedure record operations
type ProcedureService struct {
	procRepo  clinical.ProcedureRecordRepository
	publisher shared.EventPublisher
	clock     shared.Clock
	logger    *zap.Logger
}

// NewProcedureService creates a new ProcedureService
func NewProcedureService(
	procRepo clinical.ProcedureRecordRepository,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *ProcedureService {
	return &ProcedureService{
		procRepo:  procRepo,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// ProcedureResponse represents a procedure record in API responses
type ProcedureResponse struct {
	ID            uuid.UUID       `json:"id"`
	PatientID     uuid.UUID       `json:"patient_id"`
	ProcedureType string          `json:"procedure_type"`
	Department    string          `json:"department"`
	Shift         string          `json:"shift"`
	PhysicianID   *uuid.UUID      `json:"physician_id,omitempty"`
	SupportID     *uuid.UUID      `json:"support_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	PerformedAt   time.Time       `json:"performed_at"`
	Status        string          `json:"status"`
	ValidatedBy   *uuid.UUID      `json:"validated_by,omitempty"`
	ValidatedAt   *time.Time      `json:"validated_at,omitempty"`
	Comment       string          `json:"comment,omitempty"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateProcedureRequest represents a request to log a procedure
type CreateProcedureRequest struct {
	PatientID     uuid.UUID       `json:"patient_id" binding:"required"`
	ProcedureType string          `json:"procedure_type" binding:"required"`
	Department    string          `json:"department" binding:"required"`
	Shift         string          `json:"shift" binding:"required"`
	PhysicianID   *uuid.UUID      `json:"physician_id"`
	SupportID     *uuid.UUID      `json:"support_id"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	PerformedAt   time.Time       `json:"performed_at" binding:"required"`
	CreatedBy     uuid.UUID       `json:"-"` // Set from JWT context
}

// ProcedureListFilter defines filtering options for procedure list queries
type ProcedureListFilter struct {
	Department *string            `form:"department"`
	Shift      *string            `form:"shift"`
	Status     *validation.Status `form:"status"`
	Physician  *uuid.UUID         `form:"physician_id"`
	FromDate   *time.Time         `form:"from_date"`
	ToDate     *time.Time         `form:"to_date"`
	Page       int                `form:"page"`
	PageSize   int                `form:"page_size"`
}

// Create logs a new pending procedure record
func (s *ProcedureService) Create(ctx context.Context, req CreateProcedureRequest) (*ProcedureResponse, error) {
	record, err := clinical.NewProcedureRecord(
		req.PatientID,
		req.ProcedureType,
		clinical.Department(req.Department),
		clinical.Shift(req.Shift),
		req.PhysicianID,
		req.SupportID,
		valueobject.NewMoneyIDR(req.Price),
		req.PerformedAt,
		req.CreatedBy,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	events := record.GetDomainEvents()
	record.ClearDomainEvents()

	if err := s.procRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish procedure events",
			zap.String("record_id", record.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("procedure record created",
		zap.String("record_id", record.ID.String()),
		zap.String("procedure_type", req.ProcedureType),
		zap.String("department", req.Department),
	)

	return toProcedureResponse(record), nil
}

// GetByID gets a procedure record by ID
func (s *ProcedureService) GetByID(ctx context.Context, id uuid.UUID) (*ProcedureResponse, error) {
	record, err := s.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProcedureResponse(record), nil
}

// Delete soft-deletes a pending procedure record
func (s *ProcedureService) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.findRecord(ctx, id)
	if err != nil {
		return err
	}
	if record.Status() != validation.StatusPending {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Can only delete a pending record")
	}
	record.SoftDelete(s.clock.Now())
	return s.procRepo.Save(ctx, record)
}

// List lists procedure records with filtering and pagination
func (s *ProcedureService) List(ctx context.Context, filter ProcedureListFilter) ([]ProcedureResponse, int64, error) {
	domainFilter := clinical.ProcedureRecordFilter{
		Status:    filter.Status,
		Physician: filter.Physician,
		DateFrom:  filter.FromDate,
		DateTo:    filter.ToDate,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}
	if filter.Department != nil {
		department := clinical.Department(*filter.Department)
		domainFilter.Department = &department
	}
	if filter.Shift != nil {
		shift := clinical.Shift(*filter.Shift)
		domainFilter.Shift = &shift
	}

	records, err := s.procRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.procRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProcedureResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *toProcedureResponse(&records[i]))
	}
	return responses, total, nil
}

// ListPending lists all procedure records awaiting review, oldest first
func (s *ProcedureService) ListPending(ctx context.Context) ([]ProcedureResponse, error) {
	records, err := s.procRepo.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ProcedureResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *toProcedureResponse(&records[i]))
	}
	return responses, nil
}

func (s *ProcedureService) findRecord(ctx context.Context, id uuid.UUID) (*clinical.ProcedureRecord, error) {
	record, err := s.procRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Procedure record not found")
	}
	return record, nil
}

func toProcedureResponse(record *clinical.ProcedureRecord) *ProcedureResponse {
	return &ProcedureResponse{
		ID:            record.ID,
		PatientID:     record.PatientID,
		ProcedureType: record.ProcedureType,
		Department:    record.Department.String(),
		Shift:         record.Shift.String(),
		PhysicianID:   record.PhysicianID,
		SupportID:     record.SupportID,
		Price:         record.Price,
		PerformedAt:   record.PerformedAt,
		Status:        record.Status().String(),
		ValidatedBy:   record.Validation.ValidatedBy,
		ValidatedAt:   record.Validation.ValidatedAt,
		Comment:       record.Validation.Comment,
		CreatedBy:     record.CreatedBy,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}
