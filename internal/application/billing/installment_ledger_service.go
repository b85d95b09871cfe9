package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/billing"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/identity"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/partner"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InstallmentLedgerService maintains the installment ledger of a sale and
// drives the side effects of payment: remote license extension and SMS
// notifications. Side-effect failures are logged and never fail the write.
type InstallmentLedgerService struct {
	saleRepo      billing.SaleRepository
	clientRepo    partner.ClientRepository
	employeeRepo  identity.EmployeeRepository
	smsGateway    billing.SmsGateway
	licenseClient billing.LicenseClient
	audit         shared.AuditRecorder
	events        shared.EventPublisher
	logger        *zap.Logger
}

// NewInstallmentLedgerService creates a new InstallmentLedgerService
func NewInstallmentLedgerService(
	saleRepo billing.SaleRepository,
	clientRepo partner.ClientRepository,
	employeeRepo identity.EmployeeRepository,
	smsGateway billing.SmsGateway,
	licenseClient billing.LicenseClient,
	audit shared.AuditRecorder,
	logger *zap.Logger,
) *InstallmentLedgerService {
	return &InstallmentLedgerService{
		saleRepo:      saleRepo,
		clientRepo:    clientRepo,
		employeeRepo:  employeeRepo,
		smsGateway:    smsGateway,
		licenseClient: licenseClient,
		audit:         audit,
		logger:        logger,
	}
}

// SetEventPublisher sets the publisher for post-save domain events
func (s *InstallmentLedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// RecordInstallmentRequest represents a request to record an installment payment
type RecordInstallmentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	PaidAt    *time.Time      `json:"paid_at"`
	Status    string          `json:"status"`
	DueDate   *time.Time      `json:"due_date"`
	Notes     string          `json:"notes"`
	IsDeposit bool            `json:"-"` // Set by the sale service for the deposit at creation
	ActorID   *uuid.UUID      `json:"-"` // Set from JWT context
}

// UpdateInstallmentRequest represents a request to mutate an installment row
type UpdateInstallmentRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	PaidAt  *time.Time      `json:"paid_at"`
	Status  string          `json:"status" binding:"required"`
	DueDate *time.Time      `json:"due_date"`
	Notes   string          `json:"notes"`
	ActorID *uuid.UUID      `json:"-"`
}

// RecordInstallment appends an installment to a sale and recalculates it.
// A PAID installment additionally clears any pending extension request and
// triggers the license extension and payment SMS side effects.
func (s *InstallmentLedgerService) RecordInstallment(ctx context.Context, saleID uuid.UUID, req RecordInstallmentRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}

	installment, err := sale.AddInstallment(
		valueobject.NewMoneyKES(req.Amount),
		req.PaidAt,
		billing.InstallmentStatus(req.Status),
		req.DueDate,
		req.Notes,
		req.IsDeposit,
	)
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "installment.recorded", sale, req.ActorID)
	publishEvents(ctx, s.events, s.logger, sale)

	if installment.IsPaid() {
		s.runPaymentSideEffects(ctx, sale, installment)
	}

	return toSaleResponse(sale), nil
}

// UpdateInstallment mutates an installment row and recalculates the sale
func (s *InstallmentLedgerService) UpdateInstallment(ctx context.Context, saleID, installmentID uuid.UUID, req UpdateInstallmentRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}

	err = sale.UpdateInstallment(
		installmentID,
		valueobject.NewMoneyKES(req.Amount),
		req.PaidAt,
		billing.InstallmentStatus(req.Status),
		req.DueDate,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "installment.updated", sale, req.ActorID)
	publishEvents(ctx, s.events, s.logger, sale)

	return toSaleResponse(sale), nil
}

// DeleteInstallment removes an installment row and recalculates the sale
func (s *InstallmentLedgerService) DeleteInstallment(ctx context.Context, saleID, installmentID uuid.UUID, actorID *uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}

	if err := sale.RemoveInstallment(installmentID); err != nil {
		return nil, err
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "installment.deleted", sale, actorID)
	publishEvents(ctx, s.events, s.logger, sale)

	return toSaleResponse(sale), nil
}

// RequestExtension flags a sale for a payment date extension, extends the
// client's license to the new due date and sends extension-confirmation SMS.
// This shares the remote license call with the payment flow but uses its own
// notification template.
func (s *InstallmentLedgerService) RequestExtension(ctx context.Context, saleID uuid.UUID, newDueDate time.Time, actorID *uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}

	if err := sale.RequestExtension(newDueDate); err != nil {
		return nil, err
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "sale.extension_requested", sale, actorID)
	publishEvents(ctx, s.events, s.logger, sale)

	s.runExtensionSideEffects(ctx, sale, newDueDate)

	return toSaleResponse(sale), nil
}

// LicenseExpiryAfterPayment computes the license expiry that follows an
// installment payment: the 3rd day of the month after PaidAt, in UTC.
func LicenseExpiryAfterPayment(paidAt time.Time) time.Time {
	t := paidAt.UTC()
	return time.Date(t.Year(), t.Month()+1, 3, 0, 0, 0, 0, time.UTC)
}

// runPaymentSideEffects extends the client's license and sends the
// payment-received SMS. All failures are logged and swallowed.
func (s *InstallmentLedgerService) runPaymentSideEffects(ctx context.Context, sale *billing.Sale, installment *billing.SaleInstallment) {
	client, err := s.clientRepo.FindByID(ctx, sale.ClientID)
	if err != nil || client == nil {
		s.logger.Warn("payment side effects skipped: client lookup failed",
			zap.String("sale_number", sale.SaleNumber),
			zap.Error(err))
		return
	}

	newExpiry := LicenseExpiryAfterPayment(installment.PaidAt)
	s.extendClientLicense(ctx, client, newExpiry)

	amount := installment.Amount.StringFixed(2)
	clientMsg := fmt.Sprintf(
		"Dear %s, we have received your payment of KES %s for %s. Your license has been renewed to %s. Thank you.",
		client.DisplayName(), amount, sale.SaleNumber, newExpiry.Format("02/01/2006"))
	directorMsg := fmt.Sprintf(
		"Payment received: KES %s from %s for %s.",
		amount, client.DisplayName(), sale.SaleNumber)

	s.notifyClientAndDirectors(ctx, client, clientMsg, directorMsg)
}

// runExtensionSideEffects extends the client's license to the requested due
// date and sends the extension-confirmation SMS. Failures logged, swallowed.
func (s *InstallmentLedgerService) runExtensionSideEffects(ctx context.Context, sale *billing.Sale, newDueDate time.Time) {
	client, err := s.clientRepo.FindByID(ctx, sale.ClientID)
	if err != nil || client == nil {
		s.logger.Warn("extension side effects skipped: client lookup failed",
			zap.String("sale_number", sale.SaleNumber),
			zap.Error(err))
		return
	}

	s.extendClientLicense(ctx, client, newDueDate)

	clientMsg := fmt.Sprintf(
		"Dear %s, your payment date for %s has been extended to %s. Your license remains active until then.",
		client.DisplayName(), sale.SaleNumber, newDueDate.Format("02/01/2006"))
	directorMsg := fmt.Sprintf(
		"Payment extension granted to %s for %s, new due date %s.",
		client.DisplayName(), sale.SaleNumber, newDueDate.Format("02/01/2006"))

	s.notifyClientAndDirectors(ctx, client, clientMsg, directorMsg)
}

// extendClientLicense performs the remote license update when the client has
// full credentials, then records the new expiry locally.
func (s *InstallmentLedgerService) extendClientLicense(ctx context.Context, client *partner.Client, newExpiry time.Time) {
	creds, err := client.LicenseCredentials()
	if err != nil {
		s.logger.Info("license extension skipped: client not configured",
			zap.String("client", client.CompanyName))
		return
	}

	if err := s.licenseClient.ExtendLicense(ctx, creds, newExpiry); err != nil {
		s.logger.Error("license extension failed",
			zap.String("client", client.CompanyName),
			zap.Time("new_expiry", newExpiry),
			zap.Error(err))
		return
	}

	client.RecordLicenseExpiry(newExpiry)
	if err := s.clientRepo.Save(ctx, client); err != nil {
		s.logger.Error("failed to record license expiry",
			zap.String("client", client.CompanyName),
			zap.Error(err))
		return
	}
	publishEvents(ctx, s.events, s.logger, client)
}

func (s *InstallmentLedgerService) notifyClientAndDirectors(ctx context.Context, client *partner.Client, clientMsg, directorMsg string) {
	if mobile, ok := client.PreferredMobile(); ok {
		if err := s.smsGateway.SendSMS(ctx, mobile, clientMsg); err != nil {
			s.logger.Error("client SMS failed",
				zap.String("client", client.CompanyName),
				zap.Error(err))
		}
	} else {
		s.logger.Warn("client SMS skipped: no usable phone",
			zap.String("client", client.CompanyName))
	}

	directors, err := s.employeeRepo.FindActiveDirectors(ctx)
	if err != nil {
		s.logger.Error("director notification skipped: lookup failed", zap.Error(err))
		return
	}
	for _, director := range directors {
		mobile, ok := director.Mobile()
		if !ok {
			continue
		}
		if err := s.smsGateway.SendSMS(ctx, mobile, directorMsg); err != nil {
			s.logger.Error("director SMS failed",
				zap.String("director", director.FullName),
				zap.Error(err))
		}
	}
}

func (s *InstallmentLedgerService) recordAudit(ctx context.Context, action string, sale *billing.Sale, actorID *uuid.UUID) {
	entry := shared.NewAuditEntry(action, "Sale", sale.ID)
	if actorID != nil {
		entry = entry.WithActor(*actorID)
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}
