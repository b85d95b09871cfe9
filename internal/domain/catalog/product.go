package catalog

import (
	"strings"
	"time"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
)

// Product represents a sellable service or item in the catalog
type Product struct {
	shared.BaseAggregateRoot
	Name        string            `json:"name"`
	SKU         string            `json:"sku"`
	Description string            `json:"description"`
	UnitPrice   valueobject.Money `json:"unit_price"`
	Active      bool              `json:"active"`
}

// NewProduct creates a new active product
func NewProduct(name, sku, description string, unitPrice valueobject.Money) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		Description:       description,
		UnitPrice:         unitPrice,
		Active:            true,
	}, nil
}

// Update replaces the mutable fields
func (p *Product) Update(name, description string, unitPrice valueobject.Money) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	p.Name = name
	p.Description = description
	p.UnitPrice = unitPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Deactivate removes the product from the active catalog without deleting it
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate returns the product to the active catalog
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
