package finance

import (
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeExpenseCreated       = "finance.expense.created"
	EventTypeExpenseStatusChanged = "finance.expense.status_changed"
)

// ExpenseCreatedEvent is raised when an expense is created
type ExpenseCreatedEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber string          `json:"expense_number"`
	Amount        decimal.Decimal `json:"amount"`
	Status        ExpenseStatus   `json:"status"`
}

// NewExpenseCreatedEvent creates a new ExpenseCreatedEvent
func NewExpenseCreatedEvent(expense *Expense) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseCreated, expense.ID, "Expense"),
		ExpenseNumber:   expense.ExpenseNumber,
		Amount:          expense.Amount,
		Status:          expense.Status,
	}
}

// ExpenseStatusChangedEvent is raised on every status transition
type ExpenseStatusChangedEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber  string        `json:"expense_number"`
	PreviousStatus ExpenseStatus `json:"previous_status"`
	NewStatus      ExpenseStatus `json:"new_status"`
}

// NewExpenseStatusChangedEvent creates a new ExpenseStatusChangedEvent
func NewExpenseStatusChangedEvent(expense *Expense, previous ExpenseStatus) *ExpenseStatusChangedEvent {
	return &ExpenseStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseStatusChanged, expense.ID, "Expense"),
		ExpenseNumber:   expense.ExpenseNumber,
		PreviousStatus:  previous,
		NewStatus:       expense.Status,
	}
}
