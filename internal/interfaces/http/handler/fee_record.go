package handler

import (
	"time"

	feeapp "github.com/clinic/backend/internal/application/fee"
	"github.com/clinic/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// FeeRecordHandler handles read access to generated fee records
type FeeRecordHandler struct {
	BaseHandler
	queryService *feeapp.RecordQueryService
}

// NewFeeRecordHandler creates a new FeeRecordHandler
func NewFeeRecordHandler(queryService *feeapp.RecordQueryService) *FeeRecordHandler {
	return &FeeRecordHandler{queryService: queryService}
}

// RegisterRoutes registers fee record routes
func (h *FeeRecordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	records := rg.Group("/fee-records")
	records.GET("", h.List)
	records.GET("/summary", h.Summary)
	records.GET("/:id", h.GetByID)
}

// GetByID returns a single fee record
func (h *FeeRecordHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := h.queryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// List lists fee records with filtering and pagination
func (h *FeeRecordHandler) List(c *gin.Context) {
	var filter feeapp.RecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid filter parameters: "+err.Error())
		return
	}

	page := dto.PageRequest{Page: filter.Page, PageSize: filter.PageSize}
	page.Normalize()
	filter.Page = page.Page
	filter.PageSize = page.PageSize

	records, total, err := h.queryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

type summaryRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// Summary totals approved fees per beneficiary for a period. Feeds the
// payroll recap.
func (h *FeeRecordHandler) Summary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Query parameters 'from' and 'to' are required as YYYY-MM-DD")
		return
	}
	if req.To.Before(req.From) {
		h.BadRequest(c, "'to' must not be before 'from'")
		return
	}

	summaries, err := h.queryService.SummarizeByBeneficiary(c.Request.Context(), req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summaries)
}
