package handler

import (
	feeapp "github.com/clinic/backend/internal/application/fee"
	"github.com/clinic/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// FeeFormulaHandler handles fee formula administration endpoints
type FeeFormulaHandler struct {
	BaseHandler
	formulaService *feeapp.FormulaService
}

// NewFeeFormulaHandler creates a new FeeFormulaHandler
func NewFeeFormulaHandler(formulaService *feeapp.FormulaService) *FeeFormulaHandler {
	return &FeeFormulaHandler{formulaService: formulaService}
}

// RegisterRoutes registers fee formula routes. Changing the fee
// configuration is admin-only; reading it is open to all staff.
func (h *FeeFormulaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	formulas := rg.Group("/fee-formulas")
	formulas.GET("", h.List)
	formulas.GET("/:id", h.GetByID)

	admin := formulas.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.POST("", h.Create)
	admin.POST("/:id/activate", h.Activate)
	admin.POST("/:id/deactivate", h.Deactivate)
	admin.DELETE("/:id", h.Delete)
}

// Create creates a new active fee formula
func (h *FeeFormulaHandler) Create(c *gin.Context) {
	var req feeapp.CreateFormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid formula payload: "+err.Error())
		return
	}

	formula, err := h.formulaService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, formula)
}

// GetByID returns a single fee formula
func (h *FeeFormulaHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	formula, err := h.formulaService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, formula)
}

// List lists all fee formulas including inactive ones
func (h *FeeFormulaHandler) List(c *gin.Context) {
	formulas, err := h.formulaService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, formulas)
}

// Activate makes a formula eligible for resolution again
func (h *FeeFormulaHandler) Activate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	formula, err := h.formulaService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, formula)
}

// Deactivate removes a formula from resolution without deleting it
func (h *FeeFormulaHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	formula, err := h.formulaService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, formula)
}

// Delete removes a formula permanently
func (h *FeeFormulaHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.formulaService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
