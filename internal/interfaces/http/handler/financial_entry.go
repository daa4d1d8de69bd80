package handler

import (
	financeapp "github.com/clinic/backend/internal/application/finance"
	"github.com/clinic/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// FinancialEntryHandler handles bookkeeping entry endpoints, including
// the receipt attachment flow
type FinancialEntryHandler struct {
	BaseHandler
	entryService   *financeapp.FinancialEntryService
	receiptService *financeapp.ReceiptService
}

// NewFinancialEntryHandler creates a new FinancialEntryHandler
func NewFinancialEntryHandler(
	entryService *financeapp.FinancialEntryService,
	receiptService *financeapp.ReceiptService,
) *FinancialEntryHandler {
	return &FinancialEntryHandler{
		entryService:   entryService,
		receiptService: receiptService,
	}
}

// RegisterRoutes registers financial entry routes
func (h *FinancialEntryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/financial-entries")
	entries.POST("", h.Create)
	entries.GET("", h.List)
	entries.GET("/pending", h.ListPending)
	entries.GET("/:id", h.GetByID)
	entries.PUT("/:id", h.Update)
	entries.DELETE("/:id", h.Delete)

	receipts := entries.Group("/:id/receipts")
	receipts.POST("/upload-url", h.RequestReceiptUpload)
	receipts.GET("/download-url", h.GetReceiptDownloadURL)
	receipts.DELETE("", h.DeleteReceipt)
}

// Create creates a new pending financial entry
func (h *FinancialEntryHandler) Create(c *gin.Context) {
	var req financeapp.CreateFinancialEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid entry payload: "+err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	req.CreatedBy = userID

	entry, err := h.entryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// GetByID returns a single financial entry
func (h *FinancialEntryHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	entry, err := h.entryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Update updates a pending financial entry
func (h *FinancialEntryHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req financeapp.UpdateFinancialEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid entry payload: "+err.Error())
		return
	}

	entry, err := h.entryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Delete soft-deletes a pending financial entry
func (h *FinancialEntryHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.entryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List lists financial entries with filtering and pagination
func (h *FinancialEntryHandler) List(c *gin.Context) {
	var filter financeapp.FinancialEntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid filter parameters: "+err.Error())
		return
	}

	page := dto.PageRequest{Page: filter.Page, PageSize: filter.PageSize}
	page.Normalize()
	filter.Page = page.Page
	filter.PageSize = page.PageSize

	entries, total, err := h.entryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// ListPending lists entries awaiting review, oldest first
func (h *FinancialEntryHandler) ListPending(c *gin.Context) {
	entries, err := h.entryService.ListPending(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

type receiptUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// RequestReceiptUpload issues a presigned upload URL for a receipt
func (h *FinancialEntryHandler) RequestReceiptUpload(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req receiptUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Filename and content type are required")
		return
	}

	ticket, err := h.receiptService.RequestUpload(c.Request.Context(), id, req.Filename, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}

type receiptKeyRequest struct {
	StorageKey string `form:"storage_key" binding:"required"`
}

// GetReceiptDownloadURL issues a presigned download URL for an uploaded
// receipt
func (h *FinancialEntryHandler) GetReceiptDownloadURL(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req receiptKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Query parameter 'storage_key' is required")
		return
	}

	ticket, err := h.receiptService.GetDownloadURL(c.Request.Context(), id, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// DeleteReceipt removes an uploaded receipt from storage
func (h *FinancialEntryHandler) DeleteReceipt(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req receiptKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Query parameter 'storage_key' is required")
		return
	}

	if err := h.receiptService.DeleteReceipt(c.Request.Context(), id, req.StorageKey); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
