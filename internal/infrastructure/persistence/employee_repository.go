package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/identity"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements identity.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GORM-based employee repository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

var _ identity.EmployeeRepository = (*GormEmployeeRepository)(nil)

// FindByID finds an employee by ID. Returns (nil, nil) when no record exists.
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Employee, error) {
	var model models.EmployeeModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds an employee by email, case-insensitively.
// Returns (nil, nil) when no record exists.
func (r *GormEmployeeRepository) FindByEmail(ctx context.Context, email string) (*identity.Employee, error) {
	var model models.EmployeeModel
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of employees matching the filter
func (r *GormEmployeeRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.Employee], error) {
	filter = normalizePagination(filter)

	base := r.db.WithContext(ctx).Model(&models.EmployeeModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, EmployeeSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var modelList []models.EmployeeModel
	err := base.
		Order(orderBy + " " + orderDir).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	employees := make([]*identity.Employee, len(modelList))
	for i := range modelList {
		employees[i] = modelList[i].ToDomain()
	}

	page := shared.NewPaginated(employees, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindActiveDirectors returns active employees with the DIRECTOR role
func (r *GormEmployeeRepository) FindActiveDirectors(ctx context.Context) ([]*identity.Employee, error) {
	var modelList []models.EmployeeModel
	err := r.db.WithContext(ctx).
		Where("role = ? AND status = ?", identity.RoleDirector, identity.EmployeeStatusActive).
		Order("full_name ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	directors := make([]*identity.Employee, len(modelList))
	for i := range modelList {
		directors[i] = modelList[i].ToDomain()
	}
	return directors, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *identity.Employee) error {
	model := models.EmployeeModelFromDomain(employee)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an employee by ID
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.EmployeeModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// normalizePagination fills in default page values so offset math and
// total-page division are always defined.
func normalizePagination(filter shared.Filter) shared.Filter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	return filter
}
