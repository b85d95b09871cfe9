package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/catalog"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService provides application-level product operations
type ProductService struct {
	productRepo catalog.ProductRepository
	audit       shared.AuditRecorder
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, audit shared.AuditRecorder, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, audit: audit, logger: logger}
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Currency    string          `json:"currency"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	SKU         string          `json:"sku" binding:"required"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	ActorID     *uuid.UUID      `json:"-"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	ActorID     *uuid.UUID      `json:"-"`
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	existing, err := s.productRepo.FindBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(req.Name, req.SKU, req.Description, valueobject.NewMoneyKES(req.UnitPrice))
	if err != nil {
		return nil, err
	}
	if req.ActorID != nil {
		product.SetCreatedBy(*req.ActorID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "product.created", product, req.ActorID)

	return toProductResponse(product), nil
}

// GetProductByID gets a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// ListProducts lists products with pagination
func (s *ProductService) ListProducts(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ProductResponse], error) {
	page, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*ProductResponse, 0, len(page.Items))
	for _, product := range page.Items {
		items = append(items, toProductResponse(product))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// UpdateProduct updates a product's details
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, valueobject.NewMoneyKES(req.UnitPrice)); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "product.updated", product, req.ActorID)

	return toProductResponse(product), nil
}

// DeactivateProduct removes a product from the active catalog
func (s *ProductService) DeactivateProduct(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Deactivate()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "product.deactivated", product, actorID)

	return toProductResponse(product), nil
}

func (s *ProductService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
	}
	return product, nil
}

func (s *ProductService) recordAudit(ctx context.Context, action string, product *catalog.Product, actorID *uuid.UUID) {
	entry := shared.NewAuditEntry(action, "Product", product.ID)
	if actorID != nil {
		entry = entry.WithActor(*actorID)
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func toProductResponse(product *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		SKU:         product.SKU,
		Description: product.Description,
		UnitPrice:   product.UnitPrice.Amount(),
		Currency:    string(product.UnitPrice.Currency()),
		Active:      product.Active,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
