package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/ndutagrace25/esperanza-internal/internal/application/billing"
)

// RequestExtensionRequest represents a client's request to push the next
// payment out to a new date
type RequestExtensionRequest struct {
	NewDueDate time.Time `json:"new_due_date" binding:"required"`
}

// SaleHandler handles sale and installment ledger endpoints
type SaleHandler struct {
	BaseHandler
	saleService   *billingapp.SaleService
	ledgerService *billingapp.InstallmentLedgerService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *billingapp.SaleService, ledgerService *billingapp.InstallmentLedgerService) *SaleHandler {
	return &SaleHandler{saleService: saleService, ledgerService: ledgerService}
}

// Create creates a new sale
func (h *SaleHandler) Create(c *gin.Context) {
	var req billingapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	sale, err := h.saleService.CreateSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// GetByID retrieves a sale by ID
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.GetSaleByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// List returns a page of sales
func (h *SaleHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.saleService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update updates a sale's editable fields
func (h *SaleHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req billingapp.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	sale, err := h.saleService.UpdateSale(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Cancel cancels a sale
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.CancelSale(c.Request.Context(), id, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// RecordInstallment records a payment installment against a sale
func (h *SaleHandler) RecordInstallment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req billingapp.RecordInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	sale, err := h.ledgerService.RecordInstallment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// UpdateInstallment corrects an installment row on a sale
func (h *SaleHandler) UpdateInstallment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}
	installmentID, ok := parseIDParam(c, "installmentId")
	if !ok {
		h.BadRequest(c, "Invalid installment ID format")
		return
	}

	var req billingapp.UpdateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	sale, err := h.ledgerService.UpdateInstallment(c.Request.Context(), id, installmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// DeleteInstallment removes an installment row from a sale
func (h *SaleHandler) DeleteInstallment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}
	installmentID, ok := parseIDParam(c, "installmentId")
	if !ok {
		h.BadRequest(c, "Invalid installment ID format")
		return
	}

	sale, err := h.ledgerService.DeleteInstallment(c.Request.Context(), id, installmentID, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// RequestExtension records a client's request to defer the next payment
func (h *SaleHandler) RequestExtension(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req RequestExtensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.ledgerService.RequestExtension(c.Request.Context(), id, req.NewDueDate, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("", h.List)
		sales.GET("/:id", h.GetByID)
		sales.PUT("/:id", h.Update)
		sales.POST("/:id/cancel", h.Cancel)
		sales.POST("/:id/installments", h.RecordInstallment)
		sales.PUT("/:id/installments/:installmentId", h.UpdateInstallment)
		sales.DELETE("/:id/installments/:installmentId", h.DeleteInstallment)
		sales.POST("/:id/request-extension", h.RequestExtension)
	}
}
