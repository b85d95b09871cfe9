package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	AggregateModel
	SaleNumber                    string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID                      uuid.UUID              `gorm:"type:uuid;not null;index"`
	TotalAmount                   decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	PaidAmount                    decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Status                        billing.SaleStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	CompletedAt                   *time.Time             `gorm:"index"`
	RequestedPaymentDateExtension bool                   `gorm:"not null;default:false;index"`
	PaymentExtensionDueDate       *time.Time             `gorm:"index"`
	Notes                         string                 `gorm:"type:text"`
	Items                         []SaleItemModel        `gorm:"foreignKey:SaleID;references:ID"`
	Installments                  []SaleInstallmentModel `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is the persistence model for a sale line item.
type SaleItemModel struct {
	BaseModel
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// SaleInstallmentModel is the persistence model for a sale installment.
type SaleInstallmentModel struct {
	BaseModel
	SaleID  uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Amount  decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	DueDate *time.Time                `gorm:"index"`
	PaidAt  time.Time                 `gorm:"not null;index"`
	Status  billing.InstallmentStatus `gorm:"type:varchar(20);not null;default:'PAID';index"`
	Notes   string                    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SaleInstallmentModel) TableName() string {
	return "sale_installments"
}

// ToDomain converts the persistence model to a domain Sale entity with its
// items and installments.
func (m *SaleModel) ToDomain() *billing.Sale {
	sale := &billing.Sale{
		BaseAggregateRoot:             m.ToDomainAggregateRoot(),
		SaleNumber:                    m.SaleNumber,
		ClientID:                      m.ClientID,
		Items:                         make([]billing.SaleItem, 0, len(m.Items)),
		Installments:                  make([]billing.SaleInstallment, 0, len(m.Installments)),
		TotalAmount:                   m.TotalAmount,
		PaidAmount:                    m.PaidAmount,
		Status:                        m.Status,
		CompletedAt:                   m.CompletedAt,
		RequestedPaymentDateExtension: m.RequestedPaymentDateExtension,
		PaymentExtensionDueDate:       m.PaymentExtensionDueDate,
		Notes:                         m.Notes,
	}

	for i := range m.Items {
		item := &m.Items[i]
		sale.Items = append(sale.Items, billing.SaleItem{
			BaseEntity:  item.ToDomain(),
			SaleID:      item.SaleID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}

	for i := range m.Installments {
		inst := &m.Installments[i]
		sale.Installments = append(sale.Installments, billing.SaleInstallment{
			BaseEntity: inst.ToDomain(),
			SaleID:     inst.SaleID,
			Amount:     inst.Amount,
			DueDate:    inst.DueDate,
			PaidAt:     inst.PaidAt,
			Status:     inst.Status,
			Notes:      inst.Notes,
		})
	}

	return sale
}

// FromDomain populates the persistence model from a domain Sale entity.
func (m *SaleModel) FromDomain(s *billing.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SaleNumber = s.SaleNumber
	m.ClientID = s.ClientID
	m.TotalAmount = s.TotalAmount
	m.PaidAmount = s.PaidAmount
	m.Status = s.Status
	m.CompletedAt = s.CompletedAt
	m.RequestedPaymentDateExtension = s.RequestedPaymentDateExtension
	m.PaymentExtensionDueDate = s.PaymentExtensionDueDate
	m.Notes = s.Notes

	m.Items = make([]SaleItemModel, 0, len(s.Items))
	for i := range s.Items {
		item := &s.Items[i]
		itemModel := SaleItemModel{
			SaleID:      s.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
		itemModel.FromDomainBaseEntity(item.BaseEntity)
		m.Items = append(m.Items, itemModel)
	}

	m.Installments = make([]SaleInstallmentModel, 0, len(s.Installments))
	for i := range s.Installments {
		inst := &s.Installments[i]
		instModel := SaleInstallmentModel{
			SaleID:  s.ID,
			Amount:  inst.Amount,
			DueDate: inst.DueDate,
			PaidAt:  inst.PaidAt,
			Status:  inst.Status,
			Notes:   inst.Notes,
		}
		instModel.FromDomainBaseEntity(inst.BaseEntity)
		m.Installments = append(m.Installments, instModel)
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale.
func SaleModelFromDomain(s *billing.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}
