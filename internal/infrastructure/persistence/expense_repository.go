package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/finance"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExpenseRepository implements finance.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GORM-based expense repository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

var _ finance.ExpenseRepository = (*GormExpenseRepository)(nil)

// FindByID finds an expense by ID. Returns (nil, nil) when no record exists.
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExpenseNumber finds an expense by its number. Returns (nil, nil) when no record exists.
func (r *GormExpenseRepository) FindByExpenseNumber(ctx context.Context, expenseNumber string) (*finance.Expense, error) {
	var model models.ExpenseModel
	err := r.db.WithContext(ctx).Where("expense_number = ?", expenseNumber).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of expenses matching the filter
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*finance.Expense], error) {
	filter = normalizePagination(filter)

	base := r.db.WithContext(ctx).Model(&models.ExpenseModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where("expense_number ILIKE ? OR category ILIKE ? OR description ILIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ExpenseSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var modelList []models.ExpenseModel
	err := base.
		Order(orderBy + " " + orderDir).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	expenses := make([]*finance.Expense, len(modelList))
	for i := range modelList {
		expenses[i] = modelList[i].ToDomain()
	}

	page := shared.NewPaginated(expenses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindByJobCardID returns every expense linked to a job card
func (r *GormExpenseRepository) FindByJobCardID(ctx context.Context, jobCardID uuid.UUID) ([]*finance.Expense, error) {
	var modelList []models.ExpenseModel
	err := r.db.WithContext(ctx).
		Where("job_card_id = ?", jobCardID).
		Order("created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	expenses := make([]*finance.Expense, len(modelList))
	for i := range modelList {
		expenses[i] = modelList[i].ToDomain()
	}
	return expenses, nil
}

// FindByJobExpenseID finds the expense linked to a job card expense row.
// Returns (nil, nil) when no record exists.
func (r *GormExpenseRepository) FindByJobExpenseID(ctx context.Context, jobExpenseID uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
	err := r.db.WithContext(ctx).Where("job_expense_id = ?", jobExpenseID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GenerateExpenseNumber produces the next sequential expense number for the year
func (r *GormExpenseRepository) GenerateExpenseNumber(ctx context.Context, year int) (string, error) {
	var count int64
	prefix := fmt.Sprintf("EXP-%d-", year)
	if err := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Where("expense_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

// Save creates or updates an expense. Updates are version-checked.
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	model := models.ExpenseModelFromDomain(expense)
	return saveAggregate(r.db.WithContext(ctx), model, model.ID)
}

// Delete removes an expense by ID
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ExpenseModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
