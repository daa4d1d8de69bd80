package handler

import (
	"context"
	"strconv"

	validationapp "github.com/clinic/backend/internal/application/validation"
	"github.com/clinic/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ValidationHandler exposes the review workflow: approve, reject and
// revert submitted records, plus the audit trail per record
type ValidationHandler struct {
	BaseHandler
	validationService *validationapp.Service
}

// NewValidationHandler creates a new ValidationHandler
func NewValidationHandler(validationService *validationapp.Service) *ValidationHandler {
	return &ValidationHandler{validationService: validationService}
}

// RegisterRoutes registers validation routes. Every decision endpoint
// requires a validating role.
func (h *ValidationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	validation := rg.Group("/validation")
	validation.Use(middleware.RequireValidator())

	entries := validation.Group("/financial-entries")
	entries.POST("/:id/approve", h.decide(h.validationService.ApproveFinancialEntry))
	entries.POST("/:id/reject", h.decide(h.validationService.RejectFinancialEntry))
	entries.POST("/:id/revert", h.decide(h.validationService.RevertFinancialEntry))
	entries.GET("/:id/history", h.history(validationapp.RecordTypeFinancialEntry))

	procedures := validation.Group("/procedures")
	procedures.POST("/:id/approve", h.decide(h.validationService.ApproveProcedureRecord))
	procedures.POST("/:id/reject", h.decide(h.validationService.RejectProcedureRecord))
	procedures.POST("/:id/revert", h.decide(h.validationService.RevertProcedureRecord))
	procedures.GET("/:id/history", h.history(validationapp.RecordTypeProcedureRecord))

	counts := validation.Group("/daily-counts")
	counts.POST("/:id/approve", h.decide(h.validationService.ApproveDailyCount))
	counts.POST("/:id/reject", h.decide(h.validationService.RejectDailyCount))
	counts.POST("/:id/revert", h.decide(h.validationService.RevertDailyCount))
	counts.GET("/:id/history", h.history(validationapp.RecordTypeDailyPatientCount))

	// Fee records only support re-approval after their source was
	// reverted; rejection happens by correcting the source instead.
	feeRecords := validation.Group("/fee-records")
	feeRecords.POST("/:id/approve", h.decide(h.validationService.ApproveFeeRecord))
	feeRecords.GET("/:id/history", h.history(validationapp.RecordTypeFeeRecord))

	validation.GET("/actors/:id/history", h.actorHistory)
}

type decisionRequest struct {
	Comment string `json:"comment"`
}

// decide adapts one validation service operation into a gin handler
func (h *ValidationHandler) decide(op func(ctx context.Context, d validationapp.Decision) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}

		actor, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "Authentication required")
			return
		}

		var req decisionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				h.BadRequest(c, "Invalid decision payload: "+err.Error())
				return
			}
		}

		if err := op(c.Request.Context(), validationapp.Decision{
			RecordID: id,
			Actor:    actor,
			Comment:  req.Comment,
		}); err != nil {
			h.HandleError(c, err)
			return
		}
		h.NoContent(c)
	}
}

// actorHistory returns recent decisions made by one reviewer
func (h *ValidationHandler) actorHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			h.BadRequest(c, "Query parameter 'limit' must be between 1 and 200")
			return
		}
		limit = parsed
	}

	entries, err := h.validationService.GetActorHistory(c.Request.Context(), id, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// history returns the decision trail for a record, oldest first
func (h *ValidationHandler) history(recordType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}

		entries, err := h.validationService.GetAuditTrail(c.Request.Context(), recordType, id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, entries)
	}
}
