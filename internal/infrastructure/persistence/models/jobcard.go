package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/jobcard"
	"github.com/shopspring/decimal"
)

// JobCardModel is the persistence model for the JobCard aggregate root.
type JobCardModel struct {
	AggregateModel
	JobNumber   string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	Title       string                 `gorm:"type:varchar(200);not null"`
	Description string                 `gorm:"type:text"`
	Status      jobcard.JobCardStatus  `gorm:"type:varchar(30);not null;default:'DRAFT';index"`
	ScheduledAt *time.Time             `gorm:"index"`
	CompletedAt *time.Time
	CancelledAt *time.Time
	Tasks       []JobTaskModel         `gorm:"foreignKey:JobCardID;references:ID"`
	Expenses    []JobExpenseModel      `gorm:"foreignKey:JobCardID;references:ID"`
	Approvals   []JobCardApprovalModel `gorm:"foreignKey:JobCardID;references:ID"`
}

// TableName returns the table name for GORM
func (JobCardModel) TableName() string {
	return "job_cards"
}

// JobTaskModel is the persistence model for a job card task.
type JobTaskModel struct {
	BaseModel
	JobCardID   uuid.UUID          `gorm:"type:uuid;not null;index"`
	Title       string             `gorm:"type:varchar(200);not null"`
	Description string             `gorm:"type:text"`
	Status      jobcard.TaskStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	SortOrder   int                `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (JobTaskModel) TableName() string {
	return "job_tasks"
}

// JobExpenseModel is the persistence model for a job card expense row.
type JobExpenseModel struct {
	BaseModel
	JobCardID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Category    string          `gorm:"type:varchar(100);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	HasReceipt  bool            `gorm:"not null;default:false"`
	ReceiptURL  string          `gorm:"type:varchar(1000)"`
	Description string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (JobExpenseModel) TableName() string {
	return "job_expenses"
}

// JobCardApprovalModel is the persistence model for a job card sign-off.
type JobCardApprovalModel struct {
	BaseModel
	JobCardID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ApprovedByID uuid.UUID `gorm:"type:uuid;not null;index"`
	Comment      string    `gorm:"type:text"`
	ApprovedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (JobCardApprovalModel) TableName() string {
	return "job_card_approvals"
}

// ToDomain converts the persistence model to a domain JobCard entity with
// its tasks, expenses and approvals.
func (m *JobCardModel) ToDomain() *jobcard.JobCard {
	card := &jobcard.JobCard{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		JobNumber:         m.JobNumber,
		ClientID:          m.ClientID,
		Title:             m.Title,
		Description:       m.Description,
		Status:            m.Status,
		Tasks:             make([]jobcard.JobTask, 0, len(m.Tasks)),
		Expenses:          make([]jobcard.JobExpense, 0, len(m.Expenses)),
		Approvals:         make([]jobcard.JobCardApproval, 0, len(m.Approvals)),
		ScheduledAt:       m.ScheduledAt,
		CompletedAt:       m.CompletedAt,
		CancelledAt:       m.CancelledAt,
	}

	for i := range m.Tasks {
		task := &m.Tasks[i]
		card.Tasks = append(card.Tasks, jobcard.JobTask{
			BaseEntity:  task.ToDomain(),
			JobCardID:   task.JobCardID,
			Title:       task.Title,
			Description: task.Description,
			Status:      task.Status,
			SortOrder:   task.SortOrder,
		})
	}

	for i := range m.Expenses {
		exp := &m.Expenses[i]
		card.Expenses = append(card.Expenses, jobcard.JobExpense{
			BaseEntity:  exp.ToDomain(),
			JobCardID:   exp.JobCardID,
			Category:    exp.Category,
			Amount:      exp.Amount,
			HasReceipt:  exp.HasReceipt,
			ReceiptURL:  exp.ReceiptURL,
			Description: exp.Description,
		})
	}

	for i := range m.Approvals {
		appr := &m.Approvals[i]
		card.Approvals = append(card.Approvals, jobcard.JobCardApproval{
			BaseEntity:   appr.ToDomain(),
			JobCardID:    appr.JobCardID,
			ApprovedByID: appr.ApprovedByID,
			Comment:      appr.Comment,
			ApprovedAt:   appr.ApprovedAt,
		})
	}

	return card
}

// FromDomain populates the persistence model from a domain JobCard entity.
func (m *JobCardModel) FromDomain(jc *jobcard.JobCard) {
	m.FromDomainAggregateRoot(jc.BaseAggregateRoot)
	m.JobNumber = jc.JobNumber
	m.ClientID = jc.ClientID
	m.Title = jc.Title
	m.Description = jc.Description
	m.Status = jc.Status
	m.ScheduledAt = jc.ScheduledAt
	m.CompletedAt = jc.CompletedAt
	m.CancelledAt = jc.CancelledAt

	m.Tasks = make([]JobTaskModel, 0, len(jc.Tasks))
	for i := range jc.Tasks {
		task := &jc.Tasks[i]
		taskModel := JobTaskModel{
			JobCardID:   jc.ID,
			Title:       task.Title,
			Description: task.Description,
			Status:      task.Status,
			SortOrder:   task.SortOrder,
		}
		taskModel.FromDomainBaseEntity(task.BaseEntity)
		m.Tasks = append(m.Tasks, taskModel)
	}

	m.Expenses = make([]JobExpenseModel, 0, len(jc.Expenses))
	for i := range jc.Expenses {
		exp := &jc.Expenses[i]
		expModel := JobExpenseModel{
			JobCardID:   jc.ID,
			Category:    exp.Category,
			Amount:      exp.Amount,
			HasReceipt:  exp.HasReceipt,
			ReceiptURL:  exp.ReceiptURL,
			Description: exp.Description,
		}
		expModel.FromDomainBaseEntity(exp.BaseEntity)
		m.Expenses = append(m.Expenses, expModel)
	}

	m.Approvals = make([]JobCardApprovalModel, 0, len(jc.Approvals))
	for i := range jc.Approvals {
		appr := &jc.Approvals[i]
		apprModel := JobCardApprovalModel{
			JobCardID:    jc.ID,
			ApprovedByID: appr.ApprovedByID,
			Comment:      appr.Comment,
			ApprovedAt:   appr.ApprovedAt,
		}
		apprModel.FromDomainBaseEntity(appr.BaseEntity)
		m.Approvals = append(m.Approvals, apprModel)
	}
}

// JobCardModelFromDomain creates a new persistence model from a domain JobCard.
func JobCardModelFromDomain(jc *jobcard.JobCard) *JobCardModel {
	m := &JobCardModel{}
	m.FromDomain(jc)
	return m
}
