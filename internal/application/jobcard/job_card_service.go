package jobcard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/finance"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/jobcard"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// JobCardService provides application-level job card operations. Adding an
// expense row also creates the linked formal expense, and every lifecycle
// transition is pushed through the status bridge.
type JobCardService struct {
	jobCardRepo jobcard.JobCardRepository
	expenseRepo finance.ExpenseRepository
	bridge      *StatusBridge
	audit       shared.AuditRecorder
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewJobCardService creates a new JobCardService
func NewJobCardService(
	jobCardRepo jobcard.JobCardRepository,
	expenseRepo finance.ExpenseRepository,
	bridge *StatusBridge,
	audit shared.AuditRecorder,
	logger *zap.Logger,
) *JobCardService {
	return &JobCardService{
		jobCardRepo: jobCardRepo,
		expenseRepo: expenseRepo,
		bridge:      bridge,
		audit:       audit,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for post-save domain events
func (s *JobCardService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// JobTaskResponse represents a task in API responses
type JobTaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	SortOrder   int       `json:"sort_order"`
}

// JobExpenseResponse represents a job expense row in API responses
type JobExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	HasReceipt  bool            `json:"has_receipt"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	Description string          `json:"description,omitempty"`
}

// JobCardApprovalResponse represents an approval in API responses
type JobCardApprovalResponse struct {
	ID           uuid.UUID `json:"id"`
	ApprovedByID uuid.UUID `json:"approved_by_id"`
	Comment      string    `json:"comment,omitempty"`
	ApprovedAt   time.Time `json:"approved_at"`
}

// JobCardResponse represents a job card in API responses
type JobCardResponse struct {
	ID          uuid.UUID                 `json:"id"`
	JobNumber   string                    `json:"job_number"`
	ClientID    uuid.UUID                 `json:"client_id"`
	Title       string                    `json:"title"`
	Description string                    `json:"description,omitempty"`
	Status      string                    `json:"status"`
	Tasks       []JobTaskResponse         `json:"tasks"`
	Expenses    []JobExpenseResponse      `json:"expenses"`
	Approvals   []JobCardApprovalResponse `json:"approvals"`
	ScheduledAt *time.Time                `json:"scheduled_at,omitempty"`
	CompletedAt *time.Time                `json:"completed_at,omitempty"`
	CancelledAt *time.Time                `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
	Version     int                       `json:"version"`
}

// CreateJobCardRequest represents a request to create a job card
type CreateJobCardRequest struct {
	ClientID    uuid.UUID  `json:"client_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	ActorID     *uuid.UUID `json:"-"`
}

// AddJobTaskRequest represents a request to add a task
type AddJobTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	ActorID     *uuid.UUID `json:"-"`
}

// AddJobExpenseRequest represents a request to add a job expense row
type AddJobExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	HasReceipt  bool            `json:"has_receipt"`
	ReceiptURL  string          `json:"receipt_url"`
	ActorID     *uuid.UUID      `json:"-"`
}

// ChangeJobCardStatusRequest represents a lifecycle transition request
type ChangeJobCardStatusRequest struct {
	Status  string     `json:"status" binding:"required"`
	ActorID *uuid.UUID `json:"-"`
}

// CreateJobCard creates a job card in DRAFT
func (s *JobCardService) CreateJobCard(ctx context.Context, req CreateJobCardRequest) (*JobCardResponse, error) {
	jobNumber, err := s.jobCardRepo.GenerateJobNumber(ctx, time.Now().Year())
	if err != nil {
		return nil, err
	}

	card, err := jobcard.NewJobCard(jobNumber, req.ClientID, req.Title, req.Description, req.ScheduledAt)
	if err != nil {
		return nil, err
	}
	if req.ActorID != nil {
		card.SetCreatedBy(*req.ActorID)
	}

	if err := s.jobCardRepo.Save(ctx, card); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "jobcard.created", card, req.ActorID)
	publishEvents(ctx, s.events, s.logger, card)

	return toJobCardResponse(card), nil
}

// GetJobCardByID gets a job card by ID
func (s *JobCardService) GetJobCardByID(ctx context.Context, id uuid.UUID) (*JobCardResponse, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}
	return toJobCardResponse(card), nil
}

// ListJobCards lists job cards with pagination
func (s *JobCardService) ListJobCards(ctx context.Context, filter shared.Filter) (*shared.Paginated[*JobCardResponse], error) {
	page, err := s.jobCardRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*JobCardResponse, 0, len(page.Items))
	for _, card := range page.Items {
		items = append(items, toJobCardResponse(card))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ChangeStatus moves the job card through its lifecycle and bridges the new
// status onto the linked expenses
func (s *JobCardService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeJobCardStatusRequest) (*JobCardResponse, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := jobcard.JobCardStatus(req.Status)
	if err := card.TransitionTo(newStatus); err != nil {
		return nil, err
	}

	if err := s.jobCardRepo.Save(ctx, card); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "jobcard.status_changed", card, req.ActorID)
	publishEvents(ctx, s.events, s.logger, card)

	if err := s.bridge.OnJobCardStatusChanged(ctx, card.ID, newStatus); err != nil {
		return nil, err
	}

	return toJobCardResponse(card), nil
}

// AddTask appends a task to a job card
func (s *JobCardService) AddTask(ctx context.Context, id uuid.UUID, req AddJobTaskRequest) (*JobCardResponse, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := card.AddTask(req.Title, req.Description); err != nil {
		return nil, err
	}
	if err := s.jobCardRepo.Save(ctx, card); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "jobcard.task_added", card, req.ActorID)
	publishEvents(ctx, s.events, s.logger, card)

	return toJobCardResponse(card), nil
}

// CompleteTask marks a task DONE
func (s *JobCardService) CompleteTask(ctx context.Context, id, taskID uuid.UUID, actorID *uuid.UUID) (*JobCardResponse, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := card.CompleteTask(taskID); err != nil {
		return nil, err
	}
	if err := s.jobCardRepo.Save(ctx, card); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "jobcard.task_completed", card, actorID)
	publishEvents(ctx, s.events, s.logger, card)

	return toJobCardResponse(card), nil
}

// AddExpense appends a job expense row and creates its linked formal
// expense, status mapped from the card's current lifecycle status
func (s *JobCardService) AddExpense(ctx context.Context, id uuid.UUID, req AddJobExpenseRequest) (*JobCardResponse, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}

	amount := valueobject.NewMoneyKES(req.Amount)
	jobExpense, err := card.AddExpense(req.Category, amount, req.Description, req.HasReceipt, req.ReceiptURL)
	if err != nil {
		return nil, err
	}

	if err := s.jobCardRepo.Save(ctx, card); err != nil {
		return nil, err
	}

	expenseNumber, err := s.expenseRepo.GenerateExpenseNumber(ctx, time.Now().Year())
	if err != nil {
		return nil, err
	}

	expense, err := finance.NewJobCardExpense(
		expenseNumber, req.Category, amount, req.Description,
		card.ID, jobExpense.ID, MapJobCardStatus(card.Status))
	if err != nil {
		return nil, err
	}
	expense.HasReceipt = req.HasReceipt
	expense.ReceiptURL = req.ReceiptURL
	if req.ActorID != nil {
		expense.SetCreatedBy(*req.ActorID)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "jobcard.expense_added", card, req.ActorID)
	publishEvents(ctx, s.events, s.logger, card)
	publishEvents(ctx, s.events, s.logger, expense)

	return toJobCardResponse(card), nil
}

// AddApproval records a sign-off on a job card
func (s *JobCardService) AddApproval(ctx context.Context, id uuid.UUID, approvedBy uuid.UUID, comment string) (*JobCardResponse, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := card.AddApproval(approvedBy, comment); err != nil {
		return nil, err
	}
	if err := s.jobCardRepo.Save(ctx, card); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "jobcard.approved", card, &approvedBy)
	publishEvents(ctx, s.events, s.logger, card)

	return toJobCardResponse(card), nil
}

func (s *JobCardService) findCard(ctx context.Context, id uuid.UUID) (*jobcard.JobCard, error) {
	card, err := s.jobCardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Job card not found")
	}
	return card, nil
}

func (s *JobCardService) recordAudit(ctx context.Context, action string, card *jobcard.JobCard, actorID *uuid.UUID) {
	entry := shared.NewAuditEntry(action, "JobCard", card.ID)
	if actorID != nil {
		entry = entry.WithActor(*actorID)
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func toJobCardResponse(card *jobcard.JobCard) *JobCardResponse {
	tasks := make([]JobTaskResponse, 0, len(card.Tasks))
	for i := range card.Tasks {
		task := &card.Tasks[i]
		tasks = append(tasks, JobTaskResponse{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Status:      string(task.Status),
			SortOrder:   task.SortOrder,
		})
	}

	expenses := make([]JobExpenseResponse, 0, len(card.Expenses))
	for i := range card.Expenses {
		expense := &card.Expenses[i]
		expenses = append(expenses, JobExpenseResponse{
			ID:          expense.ID,
			Category:    expense.Category,
			Amount:      expense.Amount,
			HasReceipt:  expense.HasReceipt,
			ReceiptURL:  expense.ReceiptURL,
			Description: expense.Description,
		})
	}

	approvals := make([]JobCardApprovalResponse, 0, len(card.Approvals))
	for i := range card.Approvals {
		approval := &card.Approvals[i]
		approvals = append(approvals, JobCardApprovalResponse{
			ID:           approval.ID,
			ApprovedByID: approval.ApprovedByID,
			Comment:      approval.Comment,
			ApprovedAt:   approval.ApprovedAt,
		})
	}

	return &JobCardResponse{
		ID:          card.ID,
		JobNumber:   card.JobNumber,
		ClientID:    card.ClientID,
		Title:       card.Title,
		Description: card.Description,
		Status:      card.Status.String(),
		Tasks:       tasks,
		Expenses:    expenses,
		Approvals:   approvals,
		ScheduledAt: card.ScheduledAt,
		CompletedAt: card.CompletedAt,
		CancelledAt: card.CancelledAt,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
		Version:     card.GetVersion(),
	}
}
