package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the payment status of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDING"   // Outstanding balance remains
	SaleStatusCompleted SaleStatus = "COMPLETED" // Paid amount covers the total
	SaleStatusCancelled SaleStatus = "CANCELLED" // Voided, never recomputed
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// InstallmentStatus represents the status of a single installment
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING" // Scheduled, not yet paid
	InstallmentStatusPaid    InstallmentStatus = "PAID"    // Counts toward the sale's paid amount
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	return s == InstallmentStatusPending || s == InstallmentStatusPaid
}

// SaleItem is a line item on a sale
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID       `json:"sale_id"`
	ProductID   *uuid.UUID      `json:"product_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// NewSaleItem creates a sale line item; the line total is derived
func NewSaleItem(productID *uuid.UUID, description string, quantity int, unitPrice valueobject.Money) (*SaleItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Sale item description cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Sale item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Sale item unit price cannot be negative")
	}

	return &SaleItem{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		LineTotal:   unitPrice.Amount().Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// SaleInstallment records a partial payment against a sale
type SaleInstallment struct {
	shared.BaseEntity
	SaleID  uuid.UUID         `json:"sale_id"`
	Amount  decimal.Decimal   `json:"amount"`
	DueDate *time.Time        `json:"due_date"`
	PaidAt  time.Time         `json:"paid_at"`
	Status  InstallmentStatus `json:"status"`
	Notes   string            `json:"notes"`
}

// IsPaid returns true if the installment counts toward the paid amount
func (i *SaleInstallment) IsPaid() bool {
	return i.Status == InstallmentStatusPaid
}

// Sale represents a sale billed in installments
// PaidAmount and Status are derived from the installment rows via Recalculate.
type Sale struct {
	shared.BaseAggregateRoot
	SaleNumber                    string            `json:"sale_number"`
	ClientID                      uuid.UUID         `json:"client_id"`
	Items                         []SaleItem        `json:"items"`
	Installments                  []SaleInstallment `json:"installments"`
	TotalAmount                   decimal.Decimal   `json:"total_amount"`
	PaidAmount                    decimal.Decimal   `json:"paid_amount"`
	Status                        SaleStatus        `json:"status"`
	CompletedAt                   *time.Time        `json:"completed_at"`
	RequestedPaymentDateExtension bool              `json:"requested_payment_date_extension"`
	PaymentExtensionDueDate       *time.Time        `json:"payment_extension_due_date"`
	Notes                         string            `json:"notes"`
}

// NewSale creates a sale from its line items; TotalAmount is the sum of line totals
func NewSale(saleNumber string, clientID uuid.UUID, items []*SaleItem, notes string) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Sale must have at least one line item")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleNumber:        saleNumber,
		ClientID:          clientID,
		Items:             make([]SaleItem, 0, len(items)),
		Installments:      []SaleInstallment{},
		TotalAmount:       decimal.Zero,
		PaidAmount:        decimal.Zero,
		Status:            SaleStatusPending,
		Notes:             notes,
	}

	for _, item := range items {
		item.SaleID = sale.ID
		sale.Items = append(sale.Items, *item)
		sale.TotalAmount = sale.TotalAmount.Add(item.LineTotal)
	}

	sale.AddDomainEvent(NewSaleCreatedEvent(sale))

	return sale, nil
}

// AddInstallment appends an installment row and recalculates the sale.
// isDeposit marks the first installment taken at sale creation, which must
// not exceed the sale total.
func (s *Sale) AddInstallment(amount valueobject.Money, paidAt *time.Time, status InstallmentStatus, dueDate *time.Time, notes string, isDeposit bool) (*SaleInstallment, error) {
	if s.Status == SaleStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot record installments on a cancelled sale")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Installment amount must be positive")
	}
	if isDeposit && amount.Amount().GreaterThan(s.TotalAmount) {
		return nil, shared.NewValidationError("Deposit %s exceeds sale total %s", amount.Amount().StringFixed(2), s.TotalAmount.StringFixed(2))
	}
	if status == "" {
		status = InstallmentStatusPaid
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid installment status: %s", status))
	}

	when := time.Now()
	if paidAt != nil {
		when = *paidAt
	}

	installment := SaleInstallment{
		BaseEntity: shared.NewBaseEntity(),
		SaleID:     s.ID,
		Amount:     amount.Amount(),
		DueDate:    dueDate,
		PaidAt:     when,
		Status:     status,
		Notes:      notes,
	}
	s.Installments = append(s.Installments, installment)

	s.Recalculate()

	if installment.IsPaid() {
		// A payment supersedes any pending extension request.
		s.ClearExtensionRequest()
		s.AddDomainEvent(NewInstallmentRecordedEvent(s, &installment))
	}

	return &s.Installments[len(s.Installments)-1], nil
}

// UpdateInstallment mutates an installment row and recalculates the sale
func (s *Sale) UpdateInstallment(installmentID uuid.UUID, amount valueobject.Money, paidAt *time.Time, status InstallmentStatus, dueDate *time.Time, notes string) error {
	if s.Status == SaleStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify installments on a cancelled sale")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Installment amount must be positive")
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid installment status: %s", status))
	}

	idx := s.findInstallment(installmentID)
	if idx < 0 {
		return shared.ErrNotFound
	}

	inst := &s.Installments[idx]
	inst.Amount = amount.Amount()
	inst.Status = status
	inst.DueDate = dueDate
	inst.Notes = notes
	if paidAt != nil {
		inst.PaidAt = *paidAt
	}
	inst.UpdatedAt = time.Now()

	s.Recalculate()
	return nil
}

// RemoveInstallment deletes an installment row and recalculates the sale
func (s *Sale) RemoveInstallment(installmentID uuid.UUID) error {
	idx := s.findInstallment(installmentID)
	if idx < 0 {
		return shared.ErrNotFound
	}

	s.Installments = append(s.Installments[:idx], s.Installments[idx+1:]...)
	s.Recalculate()
	return nil
}

func (s *Sale) findInstallment(installmentID uuid.UUID) int {
	for i := range s.Installments {
		if s.Installments[i].ID == installmentID {
			return i
		}
	}
	return -1
}

// Recalculate rederives PaidAmount and Status from the installment rows.
// PaidAmount is the exact sum of PAID installments. A sale completes when
// the paid amount covers the total; dropping below the total reverts a
// completed sale to pending. Cancelled sales are never recomputed.
func (s *Sale) Recalculate() {
	paid := decimal.Zero
	for i := range s.Installments {
		if s.Installments[i].IsPaid() {
			paid = paid.Add(s.Installments[i].Amount)
		}
	}
	s.PaidAmount = paid

	if s.Status != SaleStatusCancelled {
		if paid.GreaterThanOrEqual(s.TotalAmount) {
			if s.Status != SaleStatusCompleted {
				now := time.Now()
				s.Status = SaleStatusCompleted
				s.CompletedAt = &now
				s.AddDomainEvent(NewSaleCompletedEvent(s))
			}
		} else if s.Status == SaleStatusCompleted {
			s.Status = SaleStatusPending
			s.CompletedAt = nil
		}
	}

	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// UpdateNotes replaces the sale notes
func (s *Sale) UpdateNotes(notes string) {
	s.Notes = notes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// RequestExtension flags the sale for a payment date extension
func (s *Sale) RequestExtension(newDueDate time.Time) error {
	if s.Status == SaleStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot request extension on a cancelled sale")
	}

	s.RequestedPaymentDateExtension = true
	s.PaymentExtensionDueDate = &newDueDate
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleExtensionRequestedEvent(s, newDueDate))
	return nil
}

// ClearExtensionRequest drops any pending extension request
func (s *Sale) ClearExtensionRequest() {
	s.RequestedPaymentDateExtension = false
	s.PaymentExtensionDueDate = nil
}

// Cancel voids the sale
func (s *Sale) Cancel() error {
	if s.Status == SaleStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Sale is already cancelled")
	}

	s.Status = SaleStatusCancelled
	s.ClearExtensionRequest()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// OutstandingAmount returns the unpaid balance, never negative
func (s *Sale) OutstandingAmount() decimal.Decimal {
	outstanding := s.TotalAmount.Sub(s.PaidAmount)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

// IsFullyPaid returns true if the paid amount covers the total
func (s *Sale) IsFullyPaid() bool {
	return s.PaidAmount.GreaterThanOrEqual(s.TotalAmount)
}

// LastPaidInstallment returns the PAID installment with the latest PaidAt, or nil
func (s *Sale) LastPaidInstallment() *SaleInstallment {
	var last *SaleInstallment
	for i := range s.Installments {
		inst := &s.Installments[i]
		if !inst.IsPaid() {
			continue
		}
		if last == nil || inst.PaidAt.After(last.PaidAt) {
			last = inst
		}
	}
	return last
}
