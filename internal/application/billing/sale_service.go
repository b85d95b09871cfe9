package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/billing"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService provides application-level sale operations
type SaleService struct {
	saleRepo billing.SaleRepository
	ledger   *InstallmentLedgerService
	audit    shared.AuditRecorder
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo billing.SaleRepository,
	ledger *InstallmentLedgerService,
	audit shared.AuditRecorder,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo: saleRepo,
		ledger:   ledger,
		audit:    audit,
		logger:   logger,
	}
}

// SetEventPublisher sets the publisher for post-save domain events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// SaleItemResponse represents a sale line item in API responses
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InstallmentResponse represents an installment in API responses
type InstallmentResponse struct {
	ID      uuid.UUID       `json:"id"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate *time.Time      `json:"due_date,omitempty"`
	PaidAt  time.Time       `json:"paid_at"`
	Status  string          `json:"status"`
	Notes   string          `json:"notes,omitempty"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID                            uuid.UUID             `json:"id"`
	SaleNumber                    string                `json:"sale_number"`
	ClientID                      uuid.UUID             `json:"client_id"`
	Items                         []SaleItemResponse    `json:"items"`
	Installments                  []InstallmentResponse `json:"installments"`
	TotalAmount                   decimal.Decimal       `json:"total_amount"`
	PaidAmount                    decimal.Decimal       `json:"paid_amount"`
	OutstandingAmount             decimal.Decimal       `json:"outstanding_amount"`
	Status                        string                `json:"status"`
	CompletedAt                   *time.Time            `json:"completed_at,omitempty"`
	RequestedPaymentDateExtension bool                  `json:"requested_payment_date_extension"`
	PaymentExtensionDueDate       *time.Time            `json:"payment_extension_due_date,omitempty"`
	Notes                         string                `json:"notes,omitempty"`
	CreatedAt                     time.Time             `json:"created_at"`
	UpdatedAt                     time.Time             `json:"updated_at"`
	Version                       int                   `json:"version"`
}

// SaleItemRequest represents a line item in a sale creation request
type SaleItemRequest struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateSaleRequest represents a request to create a sale, optionally with a
// deposit installment recorded at creation
type CreateSaleRequest struct {
	ClientID uuid.UUID         `json:"client_id" binding:"required"`
	Items    []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes    string            `json:"notes"`
	Deposit  *decimal.Decimal  `json:"deposit"`
	ActorID  *uuid.UUID        `json:"-"`
}

// UpdateSaleRequest represents a request to update a sale's mutable fields.
// Setting PaymentExtensionDueDate requests a payment date extension.
type UpdateSaleRequest struct {
	Notes                   string     `json:"notes"`
	PaymentExtensionDueDate *time.Time `json:"payment_extension_due_date"`
	ActorID                 *uuid.UUID `json:"-"`
}

// CreateSale creates a sale from its line items. A deposit, when provided,
// is recorded as the first PAID installment and must not exceed the total.
func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	saleNumber, err := s.saleRepo.GenerateSaleNumber(ctx, time.Now().Year())
	if err != nil {
		return nil, err
	}

	items := make([]*billing.SaleItem, 0, len(req.Items))
	for _, ir := range req.Items {
		item, err := billing.NewSaleItem(ir.ProductID, ir.Description, ir.Quantity, valueobject.NewMoneyKES(ir.UnitPrice))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	sale, err := billing.NewSale(saleNumber, req.ClientID, items, req.Notes)
	if err != nil {
		return nil, err
	}
	if req.ActorID != nil {
		sale.SetCreatedBy(*req.ActorID)
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "sale.created", sale, req.ActorID)
	publishEvents(ctx, s.events, s.logger, sale)

	if req.Deposit != nil && req.Deposit.IsPositive() {
		return s.ledger.RecordInstallment(ctx, sale.ID, RecordInstallmentRequest{
			Amount:    *req.Deposit,
			Notes:     "Deposit at sale creation",
			IsDeposit: true,
			ActorID:   req.ActorID,
		})
	}

	return toSaleResponse(sale), nil
}

// GetSaleByID gets a sale by ID
func (s *SaleService) GetSaleByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}
	return toSaleResponse(sale), nil
}

// ListSales lists sales with pagination
func (s *SaleService) ListSales(ctx context.Context, filter shared.Filter) (*shared.Paginated[*SaleResponse], error) {
	page, err := s.saleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*SaleResponse, 0, len(page.Items))
	for _, sale := range page.Items {
		items = append(items, toSaleResponse(sale))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// UpdateSale updates a sale's mutable fields. When the request sets a
// payment extension due date, the extension flow runs with its side effects.
func (s *SaleService) UpdateSale(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}

	sale.UpdateNotes(req.Notes)
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "sale.updated", sale, req.ActorID)
	publishEvents(ctx, s.events, s.logger, sale)

	if req.PaymentExtensionDueDate != nil {
		return s.ledger.RequestExtension(ctx, sale.ID, *req.PaymentExtensionDueDate, req.ActorID)
	}

	return toSaleResponse(sale), nil
}

// CancelSale voids a sale
func (s *SaleService) CancelSale(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}

	if err := sale.Cancel(); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "sale.cancelled", sale, actorID)
	publishEvents(ctx, s.events, s.logger, sale)

	return toSaleResponse(sale), nil
}

func (s *SaleService) recordAudit(ctx context.Context, action string, sale *billing.Sale, actorID *uuid.UUID) {
	entry := shared.NewAuditEntry(action, "Sale", sale.ID)
	if actorID != nil {
		entry = entry.WithActor(*actorID)
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func toSaleResponse(sale *billing.Sale) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for i := range sale.Items {
		item := &sale.Items[i]
		items = append(items, SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}

	installments := make([]InstallmentResponse, 0, len(sale.Installments))
	for i := range sale.Installments {
		inst := &sale.Installments[i]
		installments = append(installments, InstallmentResponse{
			ID:      inst.ID,
			Amount:  inst.Amount,
			DueDate: inst.DueDate,
			PaidAt:  inst.PaidAt,
			Status:  string(inst.Status),
			Notes:   inst.Notes,
		})
	}

	return &SaleResponse{
		ID:                            sale.ID,
		SaleNumber:                    sale.SaleNumber,
		ClientID:                      sale.ClientID,
		Items:                         items,
		Installments:                  installments,
		TotalAmount:                   sale.TotalAmount,
		PaidAmount:                    sale.PaidAmount,
		OutstandingAmount:             sale.OutstandingAmount(),
		Status:                        sale.Status.String(),
		CompletedAt:                   sale.CompletedAt,
		RequestedPaymentDateExtension: sale.RequestedPaymentDateExtension,
		PaymentExtensionDueDate:       sale.PaymentExtensionDueDate,
		Notes:                         sale.Notes,
		CreatedAt:                     sale.CreatedAt,
		UpdatedAt:                     sale.UpdatedAt,
		Version:                       sale.GetVersion(),
	}
}
