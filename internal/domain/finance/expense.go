package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseStatus represents the status of an expense in the approval workflow
type ExpenseStatus string

const (
	ExpenseStatusDraft     ExpenseStatus = "DRAFT"     // Being prepared, not yet submitted
	ExpenseStatusPending   ExpenseStatus = "PENDING"   // Submitted, awaiting approval
	ExpenseStatusApproved  ExpenseStatus = "APPROVED"  // Approved, awaiting payment
	ExpenseStatusPaid      ExpenseStatus = "PAID"      // Paid out
	ExpenseStatusRejected  ExpenseStatus = "REJECTED"  // Rejected by an approver
	ExpenseStatusCancelled ExpenseStatus = "CANCELLED" // Withdrawn or voided
)

// IsValid checks if the status is a valid ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusDraft, ExpenseStatusPending, ExpenseStatusApproved,
		ExpenseStatusPaid, ExpenseStatusRejected, ExpenseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ExpenseStatus
func (s ExpenseStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the status ends the workflow
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseStatusPaid || s == ExpenseStatusRejected || s == ExpenseStatusCancelled
}

// Expense represents a formal expense in the approval workflow.
// It is either standalone (user-created) or derived from a job-card expense
// row, in which case JobCardID and JobExpenseID are set and the status is
// driven by the job card's lifecycle.
type Expense struct {
	shared.BaseAggregateRoot
	ExpenseNumber   string          `json:"expense_number"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Status          ExpenseStatus   `json:"status"`
	HasReceipt      bool            `json:"has_receipt"`
	ReceiptURL      string          `json:"receipt_url"`
	JobCardID       *uuid.UUID      `json:"job_card_id"`
	JobExpenseID    *uuid.UUID      `json:"job_expense_id"`
	SubmittedByID   *uuid.UUID      `json:"submitted_by_id"`
	SubmittedAt     *time.Time      `json:"submitted_at"`
	ApprovedByID    *uuid.UUID      `json:"approved_by_id"`
	ApprovedAt      *time.Time      `json:"approved_at"`
	PaidAt          *time.Time      `json:"paid_at"`
	RejectedAt      *time.Time      `json:"rejected_at"`
	RejectionReason string          `json:"rejection_reason"`
}

// NewExpense creates a standalone expense in DRAFT
func NewExpense(expenseNumber, category string, amount valueobject.Money, description string) (*Expense, error) {
	if expenseNumber == "" {
		return nil, shared.NewDomainError("INVALID_EXPENSE_NUMBER", "Expense number cannot be empty")
	}
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}

	expense := &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpenseNumber:     expenseNumber,
		Category:          category,
		Amount:            amount.Amount(),
		Description:       description,
		Status:            ExpenseStatusDraft,
	}

	expense.AddDomainEvent(NewExpenseCreatedEvent(expense))

	return expense, nil
}

// NewJobCardExpense creates an expense derived from a job-card expense row.
// The initial status mirrors the job card's lifecycle instead of DRAFT.
func NewJobCardExpense(expenseNumber, category string, amount valueobject.Money, description string, jobCardID, jobExpenseID uuid.UUID, initialStatus ExpenseStatus) (*Expense, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if jobCardID == uuid.Nil || jobExpenseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LINK", "Job card and job expense IDs are required")
	}
	if !initialStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid expense status: %s", initialStatus))
	}

	expense := &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpenseNumber:     expenseNumber,
		Category:          category,
		Amount:            amount.Amount(),
		Description:       description,
		Status:            initialStatus,
		JobCardID:         &jobCardID,
		JobExpenseID:      &jobExpenseID,
	}

	expense.AddDomainEvent(NewExpenseCreatedEvent(expense))

	return expense, nil
}

// IsJobCardDerived returns true if the expense is linked to a job-card row
func (e *Expense) IsJobCardDerived() bool {
	return e.JobCardID != nil && e.JobExpenseID != nil
}

// Submit moves a DRAFT expense to PENDING
func (e *Expense) Submit(submittedBy uuid.UUID) error {
	if e.Status != ExpenseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit expense in %s status", e.Status))
	}

	now := time.Now()
	e.Status = ExpenseStatusPending
	e.SubmittedByID = &submittedBy
	e.SubmittedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseStatusChangedEvent(e, ExpenseStatusDraft))
	return nil
}

// Approve moves a PENDING expense to APPROVED
func (e *Expense) Approve(approvedBy uuid.UUID) error {
	if e.Status != ExpenseStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve expense in %s status", e.Status))
	}

	now := time.Now()
	previous := e.Status
	e.Status = ExpenseStatusApproved
	e.ApprovedByID = &approvedBy
	e.ApprovedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseStatusChangedEvent(e, previous))
	return nil
}

// Reject moves a PENDING expense to REJECTED with a reason
func (e *Expense) Reject(rejectedBy uuid.UUID, reason string) error {
	if e.Status != ExpenseStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject expense in %s status", e.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	previous := e.Status
	e.Status = ExpenseStatusRejected
	e.ApprovedByID = &rejectedBy
	e.RejectedAt = &now
	e.RejectionReason = reason
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseStatusChangedEvent(e, previous))
	return nil
}

// MarkPaid moves an APPROVED expense to PAID
func (e *Expense) MarkPaid() error {
	if e.Status != ExpenseStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay expense in %s status", e.Status))
	}

	now := time.Now()
	previous := e.Status
	e.Status = ExpenseStatusPaid
	e.PaidAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseStatusChangedEvent(e, previous))
	return nil
}

// Cancel voids the expense from any non-terminal state
func (e *Expense) Cancel() error {
	if e.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel expense in %s status", e.Status))
	}

	previous := e.Status
	e.Status = ExpenseStatusCancelled
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseStatusChangedEvent(e, previous))
	return nil
}

// ApplyBridgeStatus sets the status directly, bypassing workflow transition
// guards. Used only by the job-card status bridge, which owns the mapping
// and its guard conditions.
func (e *Expense) ApplyBridgeStatus(status ExpenseStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid expense status: %s", status))
	}
	if e.Status == status {
		return nil
	}

	previous := e.Status
	now := time.Now()
	e.Status = status
	if status == ExpenseStatusPaid {
		e.PaidAt = &now
	}
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseStatusChangedEvent(e, previous))
	return nil
}

// UpdateDetails replaces the mutable fields on a non-terminal expense
func (e *Expense) UpdateDetails(category string, amount valueobject.Money, description string, hasReceipt bool, receiptURL string) error {
	if e.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify expense in %s status", e.Status))
	}
	if category == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Expense category cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}

	e.Category = category
	e.Amount = amount.Amount()
	e.Description = description
	e.HasReceipt = hasReceipt
	e.ReceiptURL = receiptURL
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// AttachReceipt sets the receipt fields
func (e *Expense) AttachReceipt(receiptURL string) {
	e.HasReceipt = receiptURL != ""
	e.ReceiptURL = receiptURL
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// GetAmountMoney returns the amount as Money
func (e *Expense) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKES(e.Amount)
}
