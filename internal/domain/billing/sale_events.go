package billing

import (
	"time"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeSaleCreated            = "billing.sale.created"
	EventTypeSaleCompleted          = "billing.sale.completed"
	EventTypeInstallmentRecorded    = "billing.sale.installment_recorded"
	EventTypeSaleExtensionRequested = "billing.sale.extension_requested"
)

// SaleCreatedEvent is raised when a sale is created
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleNumber  string          `json:"sale_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, sale.ID, "Sale"),
		SaleNumber:      sale.SaleNumber,
		TotalAmount:     sale.TotalAmount,
	}
}

// SaleCompletedEvent is raised when the paid amount covers the sale total
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleNumber string          `json:"sale_number"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(sale *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, sale.ID, "Sale"),
		SaleNumber:      sale.SaleNumber,
		PaidAmount:      sale.PaidAmount,
	}
}

// InstallmentRecordedEvent is raised when a PAID installment is recorded
type InstallmentRecordedEvent struct {
	shared.BaseDomainEvent
	SaleNumber string          `json:"sale_number"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAt     time.Time       `json:"paid_at"`
}

// NewInstallmentRecordedEvent creates a new InstallmentRecordedEvent
func NewInstallmentRecordedEvent(sale *Sale, installment *SaleInstallment) *InstallmentRecordedEvent {
	return &InstallmentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInstallmentRecorded, sale.ID, "Sale"),
		SaleNumber:      sale.SaleNumber,
		Amount:          installment.Amount,
		PaidAt:          installment.PaidAt,
	}
}

// SaleExtensionRequestedEvent is raised when a payment date extension is requested
type SaleExtensionRequestedEvent struct {
	shared.BaseDomainEvent
	SaleNumber string    `json:"sale_number"`
	NewDueDate time.Time `json:"new_due_date"`
}

// NewSaleExtensionRequestedEvent creates a new SaleExtensionRequestedEvent
func NewSaleExtensionRequestedEvent(sale *Sale, newDueDate time.Time) *SaleExtensionRequestedEvent {
	return &SaleExtensionRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleExtensionRequested, sale.ID, "Sale"),
		SaleNumber:      sale.SaleNumber,
		NewDueDate:      newDueDate,
	}
}
