// Package finance provides application services for bookkeeping entries.
package finance

import (
	"context"
	"time"

	"github.com/clinic/backend/internal/domain/finance"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/shared/valueobject"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FinancialEntryService provides application-level financial entry operations
type FinancialEntryService struct {
	entryRepo finance.FinancialEntryRepository
	publisher shared.EventPublisher
	clock     shared.Clock
	logger    *zap.Logger
}

// NewFinancialEntryService creates a new FinancialEntryService
func NewFinancialEntryService(
	entryRepo finance.FinancialEntryRepository,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *FinancialEntryService {
	return &FinancialEntryService{
		entryRepo: entryRepo,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// FinancialEntryResponse represents a financial entry in API responses
type FinancialEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	EntryNumber string          `json:"entry_number"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note,omitempty"`
	EntryDate   time.Time       `json:"entry_date"`
	Status      string          `json:"status"`
	ValidatedBy *uuid.UUID      `json:"validated_by,omitempty"`
	ValidatedAt *time.Time      `json:"validated_at,omitempty"`
	Comment     string          `json:"comment,omitempty"`
	CreatedBy   *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateFinancialEntryRequest represents a request to create an entry
type CreateFinancialEntryRequest struct {
	Type      string          `json:"type" binding:"required"`
	Category  string          `json:"category" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Note      string          `json:"note"`
	EntryDate time.Time       `json:"entry_date" binding:"required"`
	CreatedBy uuid.UUID       `json:"-"` // Set from JWT context, not from request body
}

// UpdateFinancialEntryRequest represents a request to update a pending entry
type UpdateFinancialEntryRequest struct {
	Category  string          `json:"category" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Note      string          `json:"note"`
	EntryDate time.Time       `json:"entry_date" binding:"required"`
}

// FinancialEntryListFilter defines filtering options for list queries
type FinancialEntryListFilter struct {
	Type     *string            `form:"type"`
	Category *string            `form:"category"`
	Status   *validation.Status `form:"status"`
	FromDate *time.Time         `form:"from_date"`
	ToDate   *time.Time         `form:"to_date"`
	Page     int                `form:"page"`
	PageSize int                `form:"page_size"`
}

// Create creates a new pending financial entry
func (s *FinancialEntryService) Create(ctx context.Context, req CreateFinancialEntryRequest) (*FinancialEntryResponse, error) {
	entryType := finance.EntryType(req.Type)
	entryNumber, err := s.entryRepo.GenerateEntryNumber(ctx, entryType)
	if err != nil {
		return nil, err
	}

	entry, err := finance.NewFinancialEntry(
		entryNumber,
		entryType,
		finance.EntryCategory(req.Category),
		valueobject.NewMoneyIDR(req.Amount),
		req.Note,
		req.EntryDate,
		req.CreatedBy,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	events := entry.GetDomainEvents()
	entry.ClearDomainEvents()

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish entry events",
			zap.String("entry_id", entry.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("financial entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("entry_number", entryNumber),
		zap.String("type", req.Type),
		zap.String("amount", req.Amount.String()),
	)

	return toFinancialEntryResponse(entry), nil
}

// GetByID gets a financial entry by ID
func (s *FinancialEntryService) GetByID(ctx context.Context, id uuid.UUID) (*FinancialEntryResponse, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return toFinancialEntryResponse(entry), nil
}

// Update updates a pending financial entry
func (s *FinancialEntryService) Update(ctx context.Context, id uuid.UUID, req UpdateFinancialEntryRequest) (*FinancialEntryResponse, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	err = entry.Update(
		finance.EntryCategory(req.Category),
		valueobject.NewMoneyIDR(req.Amount),
		req.Note,
		req.EntryDate,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	return toFinancialEntryResponse(entry), nil
}

// Delete soft-deletes a pending financial entry
func (s *FinancialEntryService) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return err
	}
	if !entry.IsPending() {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Can only delete a pending entry")
	}
	entry.SoftDelete(s.clock.Now())
	return s.entryRepo.Save(ctx, entry)
}

// List lists financial entries with filtering and pagination
func (s *FinancialEntryService) List(ctx context.Context, filter FinancialEntryListFilter) ([]FinancialEntryResponse, int64, error) {
	domainFilter := finance.FinancialEntryFilter{
		Status:   filter.Status,
		DateFrom: filter.FromDate,
		DateTo:   filter.ToDate,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Type != nil {
		entryType := finance.EntryType(*filter.Type)
		domainFilter.Type = &entryType
	}
	if filter.Category != nil {
		category := finance.EntryCategory(*filter.Category)
		domainFilter.Category = &category
	}

	entries, err := s.entryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]FinancialEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *toFinancialEntryResponse(&entries[i]))
	}
	return responses, total, nil
}

// ListPending lists all entries awaiting review, oldest first
func (s *FinancialEntryService) ListPending(ctx context.Context) ([]FinancialEntryResponse, error) {
	entries, err := s.entryRepo.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]FinancialEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *toFinancialEntryResponse(&entries[i]))
	}
	return responses, nil
}

func (s *FinancialEntryService) findEntry(ctx context.Context, id uuid.UUID) (*finance.FinancialEntry, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Financial entry not found")
	}
	return entry, nil
}

func toFinancialEntryResponse(entry *finance.FinancialEntry) *FinancialEntryResponse {
	return &FinancialEntryResponse{
		ID:          entry.ID,
		EntryNumber: entry.EntryNumber,
		Type:        entry.Type.String(),
		Category:    entry.Category.String(),
		Amount:      entry.Amount,
		Note:        entry.Note,
		EntryDate:   entry.EntryDate,
		Status:      entry.Status().String(),
		ValidatedBy: entry.Validation.ValidatedBy,
		ValidatedAt: entry.Validation.ValidatedAt,
		Comment:     entry.Validation.Comment,
		CreatedBy:   entry.CreatedBy,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}
