package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
)

// EmployeeRepository defines the persistence contract for employees
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Employee], error)
	// FindActiveDirectors returns active employees with the DIRECTOR role.
	FindActiveDirectors(ctx context.Context) ([]*Employee, error)
	Save(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}
