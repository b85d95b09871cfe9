package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
)

// SaleRepository defines the persistence contract for sales.
// Implementations load sales with their items and installments.
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Sale], error)
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*Sale, error)

	// FindDueForRenewalReminder returns non-cancelled sales with a positive
	// total, no pending extension request, and an unpaid balance. Last-paid
	// filtering is applied by the caller.
	FindDueForRenewalReminder(ctx context.Context) ([]*Sale, error)

	// FindDueForExtensionReminder returns extension-flagged sales with a
	// positive total, an unpaid balance, and a due date in [from, to).
	FindDueForExtensionReminder(ctx context.Context, from, to time.Time) ([]*Sale, error)

	// GenerateSaleNumber produces the next SALE-YYYY-NNN for the given year.
	GenerateSaleNumber(ctx context.Context, year int) (string, error)

	Save(ctx context.Context, sale *Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
}
