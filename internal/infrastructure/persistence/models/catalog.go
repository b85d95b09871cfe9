package models

import (
	"github.com/ndutagrace25/esperanza-internal/internal/domain/catalog"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
// Prices are KES only; the currency column exists for forward compatibility.
type ProductModel struct {
	AggregateModel
	Name        string          `gorm:"type:varchar(200);not null;index"`
	SKU         string          `gorm:"type:varchar(50);uniqueIndex"`
	Description string          `gorm:"type:text"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency    string          `gorm:"type:char(3);not null;default:'KES'"`
	Active      bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		SKU:               m.SKU,
		Description:       m.Description,
		UnitPrice:         valueobject.NewMoneyKES(m.UnitPrice),
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.SKU = p.SKU
	m.Description = p.Description
	m.UnitPrice = p.UnitPrice.Amount()
	m.Currency = string(p.UnitPrice.Currency())
	m.Active = p.Active
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
