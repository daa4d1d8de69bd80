package handler

import (
	clinicalapp "github.com/clinic/backend/internal/application/clinical"
	"github.com/clinic/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DailyCountHandler handles daily patient count endpoints
type DailyCountHandler struct {
	BaseHandler
	countService *clinicalapp.DailyCountService
}

// NewDailyCountHandler creates a new DailyCountHandler
func NewDailyCountHandler(countService *clinicalapp.DailyCountService) *DailyCountHandler {
	return &DailyCountHandler{countService: countService}
}

// RegisterRoutes registers daily count routes
func (h *DailyCountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	counts := rg.Group("/daily-counts")
	counts.POST("", h.Create)
	counts.GET("", h.List)
	counts.GET("/pending", h.ListPending)
	counts.GET("/:id", h.GetByID)
	counts.PUT("/:id/counts", h.UpdateCounts)
	counts.DELETE("/:id", h.Delete)
}

// Create submits a new pending daily patient count
func (h *DailyCountHandler) Create(c *gin.Context) {
	var req clinicalapp.CreateDailyCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid daily count payload: "+err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	req.CreatedBy = userID

	count, err := h.countService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, count)
}

// GetByID returns a single daily count
func (h *DailyCountHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	count, err := h.countService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

type updateCountsRequest struct {
	GeneralCount int `json:"general_count"`
	InsuredCount int `json:"insured_count"`
}

// UpdateCounts corrects the patient numbers of a pending count
func (h *DailyCountHandler) UpdateCounts(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid count payload: "+err.Error())
		return
	}

	count, err := h.countService.UpdateCounts(c.Request.Context(), id, req.GeneralCount, req.InsuredCount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// Delete soft-deletes a pending daily count
func (h *DailyCountHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.countService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List lists daily counts with filtering and pagination
func (h *DailyCountHandler) List(c *gin.Context) {
	var filter clinicalapp.DailyCountListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid filter parameters: "+err.Error())
		return
	}

	page := dto.PageRequest{Page: filter.Page, PageSize: filter.PageSize}
	page.Normalize()
	filter.Page = page.Page
	filter.PageSize = page.PageSize

	counts, total, err := h.countService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, counts, total, filter.Page, filter.PageSize)
}

// ListPending lists daily counts awaiting review, oldest first
func (h *DailyCountHandler) ListPending(c *gin.Context) {
	counts, err := h.countService.ListPending(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}
