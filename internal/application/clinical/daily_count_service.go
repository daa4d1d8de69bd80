package clinical

import (
	"context"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DailyCountService provides application-level daily patient count operations
type DailyCountService struct {
	countRepo clinical.DailyPatientCountRepository
	publisher shared.EventPublisher
	clock     shared.Clock
	logger    *zap.Logger
}

// NewDailyCountService creates a new DailyCountService
func NewDailyCountService(
	countRepo clinical.DailyPatientCountRepository,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *DailyCountService {
	return &DailyCountService{
		countRepo: countRepo,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// DailyCountResponse represents a daily patient count in API responses
type DailyCountResponse struct {
	ID           uuid.UUID  `json:"id"`
	Department   string     `json:"department"`
	Shift        string     `json:"shift"`
	PhysicianID  uuid.UUID  `json:"physician_id"`
	CountDate    time.Time  `json:"count_date"`
	GeneralCount int        `json:"general_count"`
	InsuredCount int        `json:"insured_count"`
	TotalCount   int        `json:"total_count"`
	Status       string     `json:"status"`
	ValidatedBy  *uuid.UUID `json:"validated_by,omitempty"`
	ValidatedAt  *time.Time `json:"validated_at,omitempty"`
	Comment      string     `json:"comment,omitempty"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateDailyCountRequest represents a request to submit a daily count
type CreateDailyCountRequest struct {
	Department   string    `json:"department" binding:"required"`
	Shift        string    `json:"shift" binding:"required"`
	PhysicianID  uuid.UUID `json:"physician_id" binding:"required"`
	CountDate    time.Time `json:"count_date" binding:"required"`
	GeneralCount int       `json:"general_count"`
	InsuredCount int       `json:"insured_count"`
	CreatedBy    uuid.UUID `json:"-"` // Set from JWT context
}

// DailyCountListFilter defines filtering options for daily count queries
type DailyCountListFilter struct {
	Department *string            `form:"department"`
	Shift      *string            `form:"shift"`
	Status     *validation.Status `form:"status"`
	Physician  *uuid.UUID         `form:"physician_id"`
	FromDate   *time.Time         `form:"from_date"`
	ToDate     *time.Time         `form:"to_date"`
	Page       int                `form:"page"`
	PageSize   int                `form:"page_size"`
}

// Create submits a new pending daily count. One count may exist per
// (department, shift, physician, date); resubmission is rejected.
func (s *DailyCountService) Create(ctx context.Context, req CreateDailyCountRequest) (*DailyCountResponse, error) {
	existing, err := s.countRepo.FindByKey(ctx,
		clinical.Department(req.Department),
		clinical.Shift(req.Shift),
		req.PhysicianID,
		req.CountDate,
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_COUNT", "A count for this physician, department, shift and date already exists")
	}

	count, err := clinical.NewDailyPatientCount(
		clinical.Department(req.Department),
		clinical.Shift(req.Shift),
		req.PhysicianID,
		req.CountDate,
		req.GeneralCount,
		req.InsuredCount,
		req.CreatedBy,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	events := count.GetDomainEvents()
	count.ClearDomainEvents()

	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish daily count events",
			zap.String("count_id", count.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("daily patient count submitted",
		zap.String("count_id", count.ID.String()),
		zap.String("department", req.Department),
		zap.String("shift", req.Shift),
		zap.Int("total", count.TotalCount()),
	)

	return toDailyCountResponse(count), nil
}

// GetByID gets a daily count by ID
func (s *DailyCountService) GetByID(ctx context.Context, id uuid.UUID) (*DailyCountResponse, error) {
	count, err := s.findCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDailyCountResponse(count), nil
}

// UpdateCounts corrects the patient numbers of a pending count
func (s *DailyCountService) UpdateCounts(ctx context.Context, id uuid.UUID, generalCount, insuredCount int) (*DailyCountResponse, error) {
	count, err := s.findCount(ctx, id)
	if err != nil {
		return nil, err
	}
	if count.Status() != validation.StatusPending {
		return nil, shared.NewDomainError("INVALID_STATE_TRANSITION", "Can only update a pending count")
	}
	if generalCount < 0 || insuredCount < 0 {
		return nil, shared.NewDomainError("INVALID_COUNT", "Patient counts cannot be negative")
	}

	count.GeneralCount = generalCount
	count.InsuredCount = insuredCount
	count.UpdatedAt = s.clock.Now()

	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}
	return toDailyCountResponse(count), nil
}

// Delete soft-deletes a pending daily count
func (s *DailyCountService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.findCount(ctx, id)
	if err != nil {
		return err
	}
	if count.Status() != validation.StatusPending {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Can only delete a pending count")
	}
	count.SoftDelete(s.clock.Now())
	return s.countRepo.Save(ctx, count)
}

// List lists daily counts with filtering and pagination
func (s *DailyCountService) List(ctx context.Context, filter DailyCountListFilter) ([]DailyCountResponse, int64, error) {
	domainFilter := clinical.DailyPatientCountFilter{
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

	counts, err := s.countRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.countRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DailyCountResponse, 0, len(counts))
	for i := range counts {
		responses = append(responses, *toDailyCountResponse(&counts[i]))
	}
	return responses, total, nil
}

// ListPending lists all daily counts awaiting review, oldest first
func (s *DailyCountService) ListPending(ctx context.Context) ([]DailyCountResponse, error) {
	counts, err := s.countRepo.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]DailyCountResponse, 0, len(counts))
	for i := range counts {
		responses = append(responses, *toDailyCountResponse(&counts[i]))
	}
	return responses, nil
}

func (s *DailyCountService) findCount(ctx context.Context, id uuid.UUID) (*clinical.DailyPatientCount, error) {
	count, err := s.countRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Daily patient count not found")
	}
	return count, nil
}

func toDailyCountResponse(count *clinical.DailyPatientCount) *DailyCountResponse {
	return &DailyCountResponse{
		ID:           count.ID,
		Department:   count.Department.String(),
		Shift:        count.Shift.String(),
		PhysicianID:  count.PhysicianID,
		CountDate:    count.CountDate,
		GeneralCount: count.GeneralCount,
		InsuredCount: count.InsuredCount,
		TotalCount:   count.TotalCount(),
		Status:       count.Status().String(),
		ValidatedBy:  count.Validation.ValidatedBy,
		ValidatedAt:  count.Validation.ValidatedAt,
		Comment:      count.Validation.Comment,
		CreatedBy:    count.CreatedBy,
		CreatedAt:    count.CreatedAt,
		UpdatedAt:    count.UpdatedAt,
	}
}
