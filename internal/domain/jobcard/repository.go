package jobcard

import (
	"context"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
)

// JobCardRepository defines the persistence contract for job cards.
// Implementations load job cards with their tasks, expenses and approvals.
type JobCardRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*JobCard, error)
	FindByJobNumber(ctx context.Context, jobNumber string) (*JobCard, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*JobCard], error)
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*JobCard, error)

	// GenerateJobNumber produces the next JC-YYYY-NNN for the given year.
	GenerateJobNumber(ctx context.Context, year int) (string, error)

	Save(ctx context.Context, card *JobCard) error
	Delete(ctx context.Context, id uuid.UUID) error
}
