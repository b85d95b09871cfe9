package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appjobcard "github.com/ndutagrace25/esperanza-internal/internal/application/jobcard"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/finance"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptStorage stores expense receipt files and returns a public URL
type ReceiptStorage interface {
	UploadReceipt(ctx context.Context, filename string, contentType string, data []byte) (string, error)
}

// ExpenseService provides application-level expense operations. Every status
// change on a job-card-derived expense is pushed through the status bridge,
// and field changes are mirrored onto the linked job expense row.
type ExpenseService struct {
	expenseRepo finance.ExpenseRepository
	bridge      *appjobcard.StatusBridge
	receipts    ReceiptStorage
	audit       shared.AuditRecorder
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo finance.ExpenseRepository,
	bridge *appjobcard.StatusBridge,
	receipts ReceiptStorage,
	audit shared.AuditRecorder,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		bridge:      bridge,
		receipts:    receipts,
		audit:       audit,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for post-save domain events
func (s *ExpenseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID              uuid.UUID       `json:"id"`
	ExpenseNumber   string          `json:"expense_number"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	Status          string          `json:"status"`
	HasReceipt      bool            `json:"has_receipt"`
	ReceiptURL      string          `json:"receipt_url,omitempty"`
	JobCardID       *uuid.UUID      `json:"job_card_id,omitempty"`
	JobExpenseID    *uuid.UUID      `json:"job_expense_id,omitempty"`
	SubmittedByID   *uuid.UUID      `json:"submitted_by_id,omitempty"`
	SubmittedAt     *time.Time      `json:"submitted_at,omitempty"`
	ApprovedByID    *uuid.UUID      `json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CreateExpenseRequest represents a request to create a standalone expense
type CreateExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	ActorID     *uuid.UUID      `json:"-"`
}

// UpdateExpenseRequest represents a request to update an expense's details
type UpdateExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	HasReceipt  bool            `json:"has_receipt"`
	ReceiptURL  string          `json:"receipt_url"`
	ActorID     *uuid.UUID      `json:"-"`
}

// RejectExpenseRequest represents a rejection with its reason
type RejectExpenseRequest struct {
	Reason  string     `json:"reason" binding:"required"`
	ActorID *uuid.UUID `json:"-"`
}

// CreateExpense creates a standalone expense in DRAFT
func (s *ExpenseService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	expenseNumber, err := s.expenseRepo.GenerateExpenseNumber(ctx, time.Now().Year())
	if err != nil {
		return nil, err
	}

	expense, err := finance.NewExpense(expenseNumber, req.Category, valueobject.NewMoneyKES(req.Amount), req.Description)
	if err != nil {
		return nil, err
	}
	if req.ActorID != nil {
		expense.SetCreatedBy(*req.ActorID)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "expense.created", expense, req.ActorID)
	publishEvents(ctx, s.events, s.logger, expense)

	return toExpenseResponse(expense), nil
}

// GetExpenseByID gets an expense by ID
func (s *ExpenseService) GetExpenseByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// ListExpenses lists expenses with pagination
func (s *ExpenseService) ListExpenses(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ExpenseResponse], error) {
	page, err := s.expenseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*ExpenseResponse, 0, len(page.Items))
	for _, expense := range page.Items {
		items = append(items, toExpenseResponse(expense))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// UpdateExpense updates an expense's details and mirrors the changed fields
// onto the linked job expense row when the expense is job-card derived
func (s *ExpenseService) UpdateExpense(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	err = expense.UpdateDetails(req.Category, valueobject.NewMoneyKES(req.Amount), req.Description, req.HasReceipt, req.ReceiptURL)
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "expense.updated", expense, req.ActorID)
	publishEvents(ctx, s.events, s.logger, expense)

	if err := s.bridge.SyncExpenseFields(ctx, expense); err != nil {
		return nil, err
	}

	return toExpenseResponse(expense), nil
}

// SubmitExpense moves a DRAFT expense to PENDING
func (s *ExpenseService) SubmitExpense(ctx context.Context, id, submittedBy uuid.UUID) (*ExpenseResponse, error) {
	return s.transition(ctx, id, "expense.submitted", &submittedBy, func(e *finance.Expense) error {
		return e.Submit(submittedBy)
	})
}

// ApproveExpense moves a PENDING expense to APPROVED
func (s *ExpenseService) ApproveExpense(ctx context.Context, id, approvedBy uuid.UUID) (*ExpenseResponse, error) {
	return s.transition(ctx, id, "expense.approved", &approvedBy, func(e *finance.Expense) error {
		return e.Approve(approvedBy)
	})
}

// RejectExpense moves a PENDING expense to REJECTED
func (s *ExpenseService) RejectExpense(ctx context.Context, id, rejectedBy uuid.UUID, req RejectExpenseRequest) (*ExpenseResponse, error) {
	return s.transition(ctx, id, "expense.rejected", &rejectedBy, func(e *finance.Expense) error {
		return e.Reject(rejectedBy, req.Reason)
	})
}

// MarkExpensePaid moves an APPROVED expense to PAID
func (s *ExpenseService) MarkExpensePaid(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*ExpenseResponse, error) {
	return s.transition(ctx, id, "expense.paid", actorID, func(e *finance.Expense) error {
		return e.MarkPaid()
	})
}

// CancelExpense voids a non-terminal expense
func (s *ExpenseService) CancelExpense(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*ExpenseResponse, error) {
	return s.transition(ctx, id, "expense.cancelled", actorID, func(e *finance.Expense) error {
		return e.Cancel()
	})
}

// UploadReceipt stores a receipt file and attaches its URL to the expense,
// mirroring the receipt fields onto a linked job expense row
func (s *ExpenseService) UploadReceipt(ctx context.Context, id uuid.UUID, filename, contentType string, data []byte, actorID *uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("receipts/%s/%s", expense.ExpenseNumber, filename)
	url, err := s.receipts.UploadReceipt(ctx, key, contentType, data)
	if err != nil {
		return nil, shared.NewExternalServiceError("receipt-storage", err)
	}

	expense.AttachReceipt(url)
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "expense.receipt_uploaded", expense, actorID)
	publishEvents(ctx, s.events, s.logger, expense)

	if err := s.bridge.SyncExpenseFields(ctx, expense); err != nil {
		return nil, err
	}

	return toExpenseResponse(expense), nil
}

// transition runs a domain status transition, persists it, records the
// audit entry and drives the reverse bridge.
func (s *ExpenseService) transition(ctx context.Context, id uuid.UUID, action string, actorID *uuid.UUID, fn func(*finance.Expense) error) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := expense.Status
	if err := fn(expense); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, action, expense, actorID)
	publishEvents(ctx, s.events, s.logger, expense)

	if err := s.bridge.OnExpenseStatusChanged(ctx, expense, expense.Status, oldStatus); err != nil {
		return nil, err
	}

	return toExpenseResponse(expense), nil
}

func (s *ExpenseService) findExpense(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Expense not found")
	}
	return expense, nil
}

func (s *ExpenseService) recordAudit(ctx context.Context, action string, expense *finance.Expense, actorID *uuid.UUID) {
	entry := shared.NewAuditEntry(action, "Expense", expense.ID)
	if actorID != nil {
		entry = entry.WithActor(*actorID)
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func toExpenseResponse(expense *finance.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:              expense.ID,
		ExpenseNumber:   expense.ExpenseNumber,
		Category:        expense.Category,
		Amount:          expense.Amount,
		Description:     expense.Description,
		Status:          expense.Status.String(),
		HasReceipt:      expense.HasReceipt,
		ReceiptURL:      expense.ReceiptURL,
		JobCardID:       expense.JobCardID,
		JobExpenseID:    expense.JobExpenseID,
		SubmittedByID:   expense.SubmittedByID,
		SubmittedAt:     expense.SubmittedAt,
		ApprovedByID:    expense.ApprovedByID,
		ApprovedAt:      expense.ApprovedAt,
		PaidAt:          expense.PaidAt,
		RejectedAt:      expense.RejectedAt,
		RejectionReason: expense.RejectionReason,
		CreatedAt:       expense.CreatedAt,
		UpdatedAt:       expense.UpdatedAt,
		Version:         expense.GetVersion(),
	}
}
