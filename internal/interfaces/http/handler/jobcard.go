package handler

import (
	"github.com/gin-gonic/gin"
	jobcardapp "github.com/ndutagrace25/esperanza-internal/internal/application/jobcard"
)

// AddApprovalRequest represents a director's sign-off on a job card
type AddApprovalRequest struct {
	Comment string `json:"comment"`
}

// JobCardHandler handles job card endpoints
type JobCardHandler struct {
	BaseHandler
	jobCardService *jobcardapp.JobCardService
}

// NewJobCardHandler creates a new JobCardHandler
func NewJobCardHandler(jobCardService *jobcardapp.JobCardService) *JobCardHandler {
	return &JobCardHandler{jobCardService: jobCardService}
}

// Create creates a new job card
func (h *JobCardHandler) Create(c *gin.Context) {
	var req jobcardapp.CreateJobCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	card, err := h.jobCardService.CreateJobCard(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, card)
}

// GetByID retrieves a job card by ID
func (h *JobCardHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job card ID format")
		return
	}

	card, err := h.jobCardService.GetJobCardByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, card)
}

// List returns a page of job cards
func (h *JobCardHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.jobCardService.ListJobCards(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ChangeStatus moves a job card through its workflow
func (h *JobCardHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job card ID format")
		return
	}

	var req jobcardapp.ChangeJobCardStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	card, err := h.jobCardService.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, card)
}

// AddTask appends a task to a job card
func (h *JobCardHandler) AddTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job card ID format")
		return
	}

	var req jobcardapp.AddJobTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	card, err := h.jobCardService.AddTask(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, card)
}

// CompleteTask marks a job card task as done
func (h *JobCardHandler) CompleteTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job card ID format")
		return
	}
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	card, err := h.jobCardService.CompleteTask(c.Request.Context(), id, taskID, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, card)
}

// AddExpense records a field expense against a job card
func (h *JobCardHandler) AddExpense(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job card ID format")
		return
	}

	var req jobcardapp.AddJobExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	card, err := h.jobCardService.AddExpense(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, card)
}

// AddApproval records the caller's approval on a job card
func (h *JobCardHandler) AddApproval(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job card ID format")
		return
	}
	actorID, ok := h.requireActorID(c)
	if !ok {
		return
	}

	var req AddApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	card, err := h.jobCardService.AddApproval(c.Request.Context(), id, actorID, req.Comment)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, card)
}

// RegisterRoutes registers job card routes
func (h *JobCardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cards := rg.Group("/job-cards")
	{
		cards.POST("", h.Create)
		cards.GET("", h.List)
		cards.GET("/:id", h.GetByID)
		cards.POST("/:id/status", h.ChangeStatus)
		cards.POST("/:id/tasks", h.AddTask)
		cards.POST("/:id/tasks/:taskId/complete", h.CompleteTask)
		cards.POST("/:id/expenses", h.AddExpense)
		cards.POST("/:id/approvals", h.AddApproval)
	}
}
