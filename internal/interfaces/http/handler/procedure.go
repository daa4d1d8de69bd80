package handler

import (
	clinicalapp "github.com/clinic/backend/internal/application/clinical"
	"github.com/clinic/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ProcedureHandler handles procedure record endpoints
type ProcedureHandler struct {
	BaseHandler
	procedureService *clinicalapp.ProcedureService
}

// NewProcedureHandler creates a new ProcedureHandler
func NewProcedureHandler(procedureService *clinicalapp.ProcedureService) *ProcedureHandler {
	return &ProcedureHandler{procedureService: procedureService}
}

// RegisterRoutes registers procedure record routes
func (h *ProcedureHandler) RegisterRoutes(rg *gin.RouterGroup) {
	procedures := rg.Group("/procedures")
	procedures.POST("", h.Create)
	procedures.GET("", h.List)
	procedures.GET("/pending", h.ListPending)
	procedures.GET("/:id", h.GetByID)
	procedures.DELETE("/:id", h.Delete)
}

// Create logs a new pending procedure record
func (h *ProcedureHandler) Create(c *gin.Context) {
	var req clinicalapp.CreateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid procedure payload: "+err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	req.CreatedBy = userID

	record, err := h.procedureService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// GetByID returns a single procedure record
func (h *ProcedureHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := h.procedureService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete soft-deletes a pending procedure record
func (h *ProcedureHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.procedureService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List lists procedure records with filtering and pagination
func (h *ProcedureHandler) List(c *gin.Context) {
	var filter clinicalapp.ProcedureListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid filter parameters: "+err.Error())
		return
	}

	page := dto.PageRequest{Page: filter.Page, PageSize: filter.PageSize}
	page.Normalize()
	filter.Page = page.Page
	filter.PageSize = page.PageSize

	records, total, err := h.procedureService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// ListPending lists procedure records awaiting review, oldest first
func (h *ProcedureHandler) ListPending(c *gin.Context) {
	records, err := h.procedureService.ListPending(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}
