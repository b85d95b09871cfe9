package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/jobcard"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormJobCardRepository implements jobcard.JobCardRepository using GORM.
// Job cards are always loaded with their tasks, expenses and approvals.
type GormJobCardRepository struct {
	db *gorm.DB
}

// NewGormJobCardRepository creates a new GORM-based job card repository
func NewGormJobCardRepository(db *gorm.DB) *GormJobCardRepository {
	return &GormJobCardRepository{db: db}
}

var _ jobcard.JobCardRepository = (*GormJobCardRepository)(nil)

func (r *GormJobCardRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Expenses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("approved_at ASC")
		})
}

// FindByID finds a job card by ID. Returns (nil, nil) when no record exists.
func (r *GormJobCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*jobcard.JobCard, error) {
	var model models.JobCardModel
	err := r.withChildren(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByJobNumber finds a job card by its number. Returns (nil, nil) when no record exists.
func (r *GormJobCardRepository) FindByJobNumber(ctx context.Context, jobNumber string) (*jobcard.JobCard, error) {
	var model models.JobCardModel
	err := r.withChildren(ctx).Where("job_number = ?", jobNumber).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of job cards matching the filter
func (r *GormJobCardRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*jobcard.JobCard], error) {
	filter = normalizePagination(filter)

	base := r.db.WithContext(ctx).Model(&models.JobCardModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where("job_number ILIKE ? OR title ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, JobCardSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var modelList []models.JobCardModel
	err := base.
		Preload("Tasks").
		Preload("Expenses").
		Preload("Approvals").
		Order(orderBy + " " + orderDir).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	cards := make([]*jobcard.JobCard, len(modelList))
	for i := range modelList {
		cards[i] = modelList[i].ToDomain()
	}

	page := shared.NewPaginated(cards, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindByClientID returns every job card for a client, newest first
func (r *GormJobCardRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*jobcard.JobCard, error) {
	var modelList []models.JobCardModel
	err := r.withChildren(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	cards := make([]*jobcard.JobCard, len(modelList))
	for i := range modelList {
		cards[i] = modelList[i].ToDomain()
	}
	return cards, nil
}

// GenerateJobNumber produces the next sequential job number for the year
func (r *GormJobCardRepository) GenerateJobNumber(ctx context.Context, year int) (string, error) {
	var count int64
	prefix := fmt.Sprintf("JC-%d-", year)
	if err := r.db.WithContext(ctx).Model(&models.JobCardModel{}).
		Where("job_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

// Save creates or updates a job card along with its tasks, expenses and
// approvals. Updates are version-checked; child rows removed from the
// aggregate are deleted.
func (r *GormJobCardRepository) Save(ctx context.Context, card *jobcard.JobCard) error {
	model := models.JobCardModelFromDomain(card)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveAggregate(tx, model, model.ID); err != nil {
			return err
		}
		return syncJobCardChildren(tx, model)
	})
}

func syncJobCardChildren(tx *gorm.DB, model *models.JobCardModel) error {
	taskIDs := make([]uuid.UUID, len(model.Tasks))
	for i := range model.Tasks {
		taskIDs[i] = model.Tasks[i].ID
	}
	if err := deleteOrphans(tx, &models.JobTaskModel{}, "job_card_id", model.ID, taskIDs); err != nil {
		return err
	}
	for i := range model.Tasks {
		if err := tx.Save(&model.Tasks[i]).Error; err != nil {
			return err
		}
	}

	expenseIDs := make([]uuid.UUID, len(model.Expenses))
	for i := range model.Expenses {
		expenseIDs[i] = model.Expenses[i].ID
	}
	if err := deleteOrphans(tx, &models.JobExpenseModel{}, "job_card_id", model.ID, expenseIDs); err != nil {
		return err
	}
	for i := range model.Expenses {
		if err := tx.Save(&model.Expenses[i]).Error; err != nil {
			return err
		}
	}

	approvalIDs := make([]uuid.UUID, len(model.Approvals))
	for i := range model.Approvals {
		approvalIDs[i] = model.Approvals[i].ID
	}
	if err := deleteOrphans(tx, &models.JobCardApprovalModel{}, "job_card_id", model.ID, approvalIDs); err != nil {
		return err
	}
	for i := range model.Approvals {
		if err := tx.Save(&model.Approvals[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a job card and its child rows
func (r *GormJobCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_card_id = ?", id).Delete(&models.JobTaskModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_card_id = ?", id).Delete(&models.JobExpenseModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_card_id = ?", id).Delete(&models.JobCardApprovalModel{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.JobCardModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
