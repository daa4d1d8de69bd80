package handler

import (
	"context"
	"time"

	feeapp "github.com/clinic/backend/internal/application/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/interfaces/http/dto"
	"github.com/clinic/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SystemHandler exposes operator endpoints: the outbox dead-letter
// queue and the manual fee sweep trigger. Admin-only.
type SystemHandler struct {
	BaseHandler
	outboxRepo   shared.OutboxRepository
	sweepService *feeapp.SweepService
	sweepTimeout time.Duration
	logger       *zap.Logger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(
	outboxRepo shared.OutboxRepository,
	sweepService *feeapp.SweepService,
	sweepTimeout time.Duration,
	logger *zap.Logger,
) *SystemHandler {
	return &SystemHandler{
		outboxRepo:   outboxRepo,
		sweepService: sweepService,
		sweepTimeout: sweepTimeout,
		logger:       logger,
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	system.Use(middleware.RequireAdmin())
	system.GET("/outbox/stats", h.OutboxStats)
	system.GET("/outbox/dead", h.ListDeadLetters)
	system.GET("/outbox/:id", h.GetOutboxEntry)
	system.POST("/outbox/:id/retry", h.RetryDeadLetter)
	system.POST("/fee-sweep", h.TriggerFeeSweep)
}

// outboxEntryResponse is the operator view of an outbox entry. The raw
// payload stays internal.
type outboxEntryResponse struct {
	ID            string     `json:"id"`
	EventID       string     `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   string     `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toOutboxEntryResponse(entry *shared.OutboxEntry) outboxEntryResponse {
	return outboxEntryResponse{
		ID:            entry.ID.String(),
		EventID:       entry.EventID.String(),
		EventType:     entry.EventType,
		AggregateID:   entry.AggregateID.String(),
		AggregateType: entry.AggregateType,
		Status:        string(entry.Status),
		RetryCount:    entry.RetryCount,
		MaxRetries:    entry.MaxRetries,
		LastError:     entry.LastError,
		NextRetryAt:   entry.NextRetryAt,
		ProcessedAt:   entry.ProcessedAt,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}

// OutboxStats returns entry counts per outbox status
func (h *SystemHandler) OutboxStats(c *gin.Context) {
	counts, err := h.outboxRepo.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// ListDeadLetters lists dead-letter entries with pagination
func (h *SystemHandler) ListDeadLetters(c *gin.Context) {
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}
	page.Normalize()

	entries, total, err := h.outboxRepo.FindDead(c.Request.Context(), page.Page, page.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]outboxEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toOutboxEntryResponse(entry))
	}
	h.SuccessWithMeta(c, responses, total, page.Page, page.PageSize)
}

// GetOutboxEntry returns a single outbox entry
func (h *SystemHandler) GetOutboxEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	entry, err := h.outboxRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if entry == nil {
		h.HandleError(c, shared.NewDomainError("NOT_FOUND", "Outbox entry not found"))
		return
	}
	h.Success(c, toOutboxEntryResponse(entry))
}

// RetryDeadLetter puts a dead-letter entry back in the delivery queue
func (h *SystemHandler) RetryDeadLetter(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	entry, err := h.outboxRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if entry == nil {
		h.HandleError(c, shared.NewDomainError("NOT_FOUND", "Outbox entry not found"))
		return
	}

	if err := entry.ResetForRetry(); err != nil {
		h.HandleError(c, shared.NewDomainError("INVALID_STATE_TRANSITION", "Only dead-letter entries can be retried"))
		return
	}
	if err := h.outboxRepo.Update(c.Request.Context(), entry); err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("dead-letter entry requeued",
		zap.String("entry_id", entry.ID.String()),
		zap.String("event_type", entry.EventType),
	)
	h.Success(c, toOutboxEntryResponse(entry))
}

// TriggerFeeSweep runs one fee sweep pass outside the scheduler.
// Useful after fixing a formula gap.
func (h *SystemHandler) TriggerFeeSweep(c *gin.Context) {
	ctx := c.Request.Context()
	if h.sweepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.sweepTimeout)
		defer cancel()
	}

	generated, err := h.sweepService.Run(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"generated": generated})
}
