package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	financeapp "github.com/ndutagrace25/esperanza-internal/internal/application/finance"
	"github.com/ndutagrace25/esperanza-internal/internal/interfaces/http/middleware"
)

// maxReceiptSize limits receipt uploads to 5 MB
const maxReceiptSize = 5 << 20

// ExpenseHandler handles expense lifecycle endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *financeapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *financeapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// Create creates a new expense in draft
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req financeapp.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, expense)
}

// GetByID retrieves an expense by ID
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// List returns a page of expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.expenseService.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update updates a draft expense
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	var req financeapp.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// Submit submits an expense for approval
func (h *ExpenseHandler) Submit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}
	actorID, ok := h.requireActorID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.SubmitExpense(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// Approve approves a submitted expense
func (h *ExpenseHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}
	actorID, ok := h.requireActorID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.ApproveExpense(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// Reject rejects a submitted expense with a reason
func (h *ExpenseHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}
	actorID, ok := h.requireActorID(c)
	if !ok {
		return
	}

	var req financeapp.RejectExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = &actorID

	expense, err := h.expenseService.RejectExpense(c.Request.Context(), id, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// MarkPaid marks an approved expense as paid out
func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	expense, err := h.expenseService.MarkExpensePaid(c.Request.Context(), id, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// Cancel cancels an expense
func (h *ExpenseHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	expense, err := h.expenseService.CancelExpense(c.Request.Context(), id, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// UploadReceipt attaches a receipt file to an expense
func (h *ExpenseHandler) UploadReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		h.BadRequest(c, "A receipt file is required")
		return
	}
	if fileHeader.Size > maxReceiptSize {
		h.BadRequest(c, "Receipt file exceeds the 5MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}

	expense, err := h.expenseService.UploadReceipt(
		c.Request.Context(),
		id,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
		getActorID(c),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// RegisterRoutes registers expense routes. Approval decisions are
// restricted to directors.
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.Create)
		expenses.GET("", h.List)
		expenses.GET("/:id", h.GetByID)
		expenses.PUT("/:id", h.Update)
		expenses.POST("/:id/submit", h.Submit)
		expenses.POST("/:id/approve", middleware.RequireDirector(), h.Approve)
		expenses.POST("/:id/reject", middleware.RequireDirector(), h.Reject)
		expenses.POST("/:id/mark-paid", h.MarkPaid)
		expenses.POST("/:id/cancel", h.Cancel)
		expenses.POST("/:id/receipt", h.UploadReceipt)
	}
}
