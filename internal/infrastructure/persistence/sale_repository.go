package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/billing"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements billing.SaleRepository using GORM.
// Sales are always loaded with their items and installments.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GORM-based sale repository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

var _ billing.SaleRepository = (*GormSaleRepository)(nil)

func (r *GormSaleRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at ASC")
		})
}

// FindByID finds a sale by ID. Returns (nil, nil) when no record exists.
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Sale, error) {
	var model models.SaleModel
	err := r.withChildren(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleNumber finds a sale by its number. Returns (nil, nil) when no record exists.
func (r *GormSaleRepository) FindBySaleNumber(ctx context.Context, saleNumber string) (*billing.Sale, error) {
	var model models.SaleModel
	err := r.withChildren(ctx).Where("sale_number = ?", saleNumber).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*billing.Sale], error) {
	filter = normalizePagination(filter)

	base := r.db.WithContext(ctx).Model(&models.SaleModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where("sale_number ILIKE ?", pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var modelList []models.SaleModel
	err := base.
		Preload("Items").
		Preload("Installments").
		Order(orderBy + " " + orderDir).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	sales := make([]*billing.Sale, len(modelList))
	for i := range modelList {
		sales[i] = modelList[i].ToDomain()
	}

	page := shared.NewPaginated(sales, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindByClientID returns every sale for a client, newest first
func (r *GormSaleRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*billing.Sale, error) {
	var modelList []models.SaleModel
	err := r.withChildren(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	sales := make([]*billing.Sale, len(modelList))
	for i := range modelList {
		sales[i] = modelList[i].ToDomain()
	}
	return sales, nil
}

// FindDueForRenewalReminder returns non-cancelled sales with a positive
// total, no pending extension request, and an unpaid balance. The caller
// applies last-paid-date filtering against the loaded installments.
func (r *GormSaleRepository) FindDueForRenewalReminder(ctx context.Context) ([]*billing.Sale, error) {
	var modelList []models.SaleModel
	err := r.withChildren(ctx).
		Where("status <> ?", billing.SaleStatusCancelled).
		Where("total_amount > 0").
		Where("requested_payment_date_extension = ?", false).
		Where("paid_amount < total_amount").
		Order("created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	sales := make([]*billing.Sale, len(modelList))
	for i := range modelList {
		sales[i] = modelList[i].ToDomain()
	}
	return sales, nil
}

// FindDueForExtensionReminder returns extension-flagged sales with a positive
// total, an unpaid balance, and a due date within the half-open [from, to).
// Due dates carry the caller's time of day, so the upper bound must be the
// start of the day after the window.
func (r *GormSaleRepository) FindDueForExtensionReminder(ctx context.Context, from, to time.Time) ([]*billing.Sale, error) {
	var modelList []models.SaleModel
	err := r.withChildren(ctx).
		Where("status <> ?", billing.SaleStatusCancelled).
		Where("requested_payment_date_extension = ?", true).
		Where("total_amount > 0").
		Where("paid_amount < total_amount").
		Where("payment_extension_due_date >= ? AND payment_extension_due_date < ?", from, to).
		Order("payment_extension_due_date ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	sales := make([]*billing.Sale, len(modelList))
	for i := range modelList {
		sales[i] = modelList[i].ToDomain()
	}
	return sales, nil
}

// GenerateSaleNumber produces the next sequential sale number for the year
func (r *GormSaleRepository) GenerateSaleNumber(ctx context.Context, year int) (string, error) {
	var count int64
	prefix := fmt.Sprintf("SALE-%d-", year)
	if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("sale_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

// Save creates or updates a sale along with its items and installments.
// Updates are version-checked; child rows removed from the aggregate are
// deleted.
func (r *GormSaleRepository) Save(ctx context.Context, sale *billing.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveAggregate(tx, model, model.ID); err != nil {
			return err
		}
		return syncSaleChildren(tx, model)
	})
}

func syncSaleChildren(tx *gorm.DB, model *models.SaleModel) error {
	itemIDs := make([]uuid.UUID, len(model.Items))
	for i := range model.Items {
		itemIDs[i] = model.Items[i].ID
	}
	if err := deleteOrphans(tx, &models.SaleItemModel{}, "sale_id", model.ID, itemIDs); err != nil {
		return err
	}
	for i := range model.Items {
		if err := tx.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}

	instIDs := make([]uuid.UUID, len(model.Installments))
	for i := range model.Installments {
		instIDs[i] = model.Installments[i].ID
	}
	if err := deleteOrphans(tx, &models.SaleInstallmentModel{}, "sale_id", model.ID, instIDs); err != nil {
		return err
	}
	for i := range model.Installments {
		if err := tx.Save(&model.Installments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// deleteOrphans removes child rows of a parent that are no longer part of
// the aggregate.
func deleteOrphans(tx *gorm.DB, childModel interface{}, parentColumn string, parentID uuid.UUID, keepIDs []uuid.UUID) error {
	query := tx.Where(parentColumn+" = ?", parentID)
	if len(keepIDs) > 0 {
		query = query.Where("id NOT IN ?", keepIDs)
	}
	return query.Delete(childModel).Error
}

// Delete removes a sale and its child rows
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&models.SaleItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sale_id = ?", id).Delete(&models.SaleInstallmentModel{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.SaleModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
