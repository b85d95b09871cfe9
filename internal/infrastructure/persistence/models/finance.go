package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// ExpenseModel is the persistence model for the Expense aggregate root.
type ExpenseModel struct {
	AggregateModel
	ExpenseNumber   string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Category        string                `gorm:"type:varchar(100);not null;index"`
	Amount          decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Description     string                `gorm:"type:text"`
	Status          finance.ExpenseStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	HasReceipt      bool                  `gorm:"not null;default:false"`
	ReceiptURL      string                `gorm:"type:varchar(1000)"`
	JobCardID       *uuid.UUID            `gorm:"type:uuid;index"`
	JobExpenseID    *uuid.UUID            `gorm:"type:uuid;uniqueIndex"`
	SubmittedByID   *uuid.UUID            `gorm:"type:uuid;index"`
	SubmittedAt     *time.Time
	ApprovedByID    *uuid.UUID `gorm:"type:uuid;index"`
	ApprovedAt      *time.Time
	PaidAt          *time.Time
	RejectedAt      *time.Time
	RejectionReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense entity.
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ExpenseNumber:     m.ExpenseNumber,
		Category:          m.Category,
		Amount:            m.Amount,
		Description:       m.Description,
		Status:            m.Status,
		HasReceipt:        m.HasReceipt,
		ReceiptURL:        m.ReceiptURL,
		JobCardID:         m.JobCardID,
		JobExpenseID:      m.JobExpenseID,
		SubmittedByID:     m.SubmittedByID,
		SubmittedAt:       m.SubmittedAt,
		ApprovedByID:      m.ApprovedByID,
		ApprovedAt:        m.ApprovedAt,
		PaidAt:            m.PaidAt,
		RejectedAt:        m.RejectedAt,
		RejectionReason:   m.RejectionReason,
	}
}

// FromDomain populates the persistence model from a domain Expense entity.
func (m *ExpenseModel) FromDomain(e *finance.Expense) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.ExpenseNumber = e.ExpenseNumber
	m.Category = e.Category
	m.Amount = e.Amount
	m.Description = e.Description
	m.Status = e.Status
	m.HasReceipt = e.HasReceipt
	m.ReceiptURL = e.ReceiptURL
	m.JobCardID = e.JobCardID
	m.JobExpenseID = e.JobExpenseID
	m.SubmittedByID = e.SubmittedByID
	m.SubmittedAt = e.SubmittedAt
	m.ApprovedByID = e.ApprovedByID
	m.ApprovedAt = e.ApprovedAt
	m.PaidAt = e.PaidAt
	m.RejectedAt = e.RejectedAt
	m.RejectionReason = e.RejectionReason
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense.
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}
