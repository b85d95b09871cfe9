package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
)

// ExpenseRepository defines the persistence contract for expenses
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindByExpenseNumber(ctx context.Context, expenseNumber string) (*Expense, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Expense], error)
	// FindByJobCardID returns every expense linked to a job card.
	FindByJobCardID(ctx context.Context, jobCardID uuid.UUID) ([]*Expense, error)
	FindByJobExpenseID(ctx context.Context, jobExpenseID uuid.UUID) (*Expense, error)

	// GenerateExpenseNumber produces the next EXP-YYYY-NNN for the given year.
	GenerateExpenseNumber(ctx context.Context, year int) (string, error)

	Save(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}
