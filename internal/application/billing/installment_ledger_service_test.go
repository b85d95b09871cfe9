package billing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/billing"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/identity"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/partner"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ledgerFixture struct {
	saleRepo      *MockSaleRepository
	clientRepo    *MockClientRepository
	employeeRepo  *MockEmployeeRepository
	smsGateway    *MockSmsGateway
	licenseClient *MockLicenseClient
	audit         *MockAuditRecorder
	service       *InstallmentLedgerService
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		saleRepo:      new(MockSaleRepository),
		clientRepo:    new(MockClientRepository),
		employeeRepo:  new(MockEmployeeRepository),
		smsGateway:    new(MockSmsGateway),
		licenseClient: new(MockLicenseClient),
		audit:         new(MockAuditRecorder),
	}
	f.service = NewInstallmentLedgerService(
		f.saleRepo, f.clientRepo, f.employeeRepo,
		f.smsGateway, f.licenseClient, f.audit, zap.NewNop())
	return f
}

func newLedgerSale(t *testing.T, total float64) *billing.Sale {
	t.Helper()
	item, err := billing.NewSaleItem(nil, "Annual software license", 1, valueobject.NewMoneyKESFromFloat(total))
	require.NoError(t, err)
	sale, err := billing.NewSale("SALE-2026-007", uuid.New(), []*billing.SaleItem{item}, "")
	require.NoError(t, err)
	return sale
}

func newConfiguredClient(t *testing.T) *partner.Client {
	t.Helper()
	client, err := partner.NewClient("Acme Supplies Ltd", "Jane Wanjiku", "0712345678", "jane@acme.co.ke")
	require.NoError(t, err)
	client.SetLicenseCredentials("https://backend.acme.co.ke", "api-user", "api-pass")
	return client
}

func newDirector(t *testing.T, phone string) *identity.Employee {
	t.Helper()
	director, err := identity.NewEmployee("Grace Nduta", "grace@esperanza.co.ke", phone, identity.RoleDirector, "secret-pass-1")
	require.NoError(t, err)
	return director
}

func TestInstallmentLedgerService_RecordInstallment(t *testing.T) {
	ctx := context.Background()

	t.Run("full payment completes sale and extends license to 3rd of next month", func(t *testing.T) {
		f := newLedgerFixture()
		sale := newLedgerSale(t, 1000)
		client := newConfiguredClient(t)
		director := newDirector(t, "0722111222")
		paidAt := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
		wantExpiry := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

		f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		f.saleRepo.On("Save", ctx, sale).Return(nil)
		f.audit.On("Record", ctx, mock.Anything).Return(nil)
		f.clientRepo.On("FindByID", ctx, sale.ClientID).Return(client, nil)
		f.licenseClient.On("ExtendLicense", ctx, mock.Anything, wantExpiry).Return(nil)
		f.clientRepo.On("Save", ctx, client).Return(nil)
		f.employeeRepo.On("FindActiveDirectors", ctx).Return([]*identity.Employee{director}, nil)
		f.smsGateway.On("SendSMS", ctx, "254712345678", mock.Anything).Return(nil)
		f.smsGateway.On("SendSMS", ctx, "254722111222", mock.Anything).Return(nil)

		resp, err := f.service.RecordInstallment(ctx, sale.ID, RecordInstallmentRequest{
			Amount: decimal.NewFromInt(1000),
			PaidAt: &paidAt,
		})
		require.NoError(t, err)

		assert.Equal(t, "COMPLETED", resp.Status)
		assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(1000)))
		require.NotNil(t, client.LicenseExpiryDate)
		assert.True(t, client.LicenseExpiryDate.Equal(wantExpiry))
		f.licenseClient.AssertExpectations(t)
		f.smsGateway.AssertNumberOfCalls(t, "SendSMS", 2)
		f.audit.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("license failure never fails the payment write", func(t *testing.T) {
		f := newLedgerFixture()
		sale := newLedgerSale(t, 1000)
		client := newConfiguredClient(t)

		f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		f.saleRepo.On("Save", ctx, sale).Return(nil)
		f.audit.On("Record", ctx, mock.Anything).Return(nil)
		f.clientRepo.On("FindByID", ctx, sale.ClientID).Return(client, nil)
		f.licenseClient.On("ExtendLicense", ctx, mock.Anything, mock.Anything).Return(errors.New("login failed"))
		f.employeeRepo.On("FindActiveDirectors", ctx).Return([]*identity.Employee{}, nil)
		f.smsGateway.On("SendSMS", ctx, mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.RecordInstallment(ctx, sale.ID, RecordInstallmentRequest{
			Amount: decimal.NewFromInt(500),
		})
		require.NoError(t, err)

		assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(500)))
		assert.Nil(t, client.LicenseExpiryDate)
	})

	t.Run("unconfigured client skips license call but still notifies", func(t *testing.T) {
		f := newLedgerFixture()
		sale := newLedgerSale(t, 1000)
		client, err := partner.NewClient("Bare Metal Ltd", "", "0712345678", "")
		require.NoError(t, err)

		f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		f.saleRepo.On("Save", ctx, sale).Return(nil)
		f.audit.On("Record", ctx, mock.Anything).Return(nil)
		f.clientRepo.On("FindByID", ctx, sale.ClientID).Return(client, nil)
		f.employeeRepo.On("FindActiveDirectors", ctx).Return([]*identity.Employee{}, nil)
		f.smsGateway.On("SendSMS", ctx, "254712345678", mock.Anything).Return(nil)

		_, err = f.service.RecordInstallment(ctx, sale.ID, RecordInstallmentRequest{
			Amount: decimal.NewFromInt(200),
		})
		require.NoError(t, err)

		f.licenseClient.AssertNotCalled(t, "ExtendLicense", mock.Anything, mock.Anything, mock.Anything)
		f.smsGateway.AssertExpectations(t)
	})

	t.Run("pending installment triggers no side effects", func(t *testing.T) {
		f := newLedgerFixture()
		sale := newLedgerSale(t, 1000)

		f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		f.saleRepo.On("Save", ctx, sale).Return(nil)
		f.audit.On("Record", ctx, mock.Anything).Return(nil)

		resp, err := f.service.RecordInstallment(ctx, sale.ID, RecordInstallmentRequest{
			Amount: decimal.NewFromInt(200),
			Status: "PENDING",
		})
		require.NoError(t, err)

		assert.True(t, resp.PaidAmount.IsZero())
		f.clientRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.smsGateway.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deposit exceeding total is a validation error with no side effects", func(t *testing.T) {
		f := newLedgerFixture()
		sale := newLedgerSale(t, 1000)

		f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		_, err := f.service.RecordInstallment(ctx, sale.ID, RecordInstallmentRequest{
			Amount:    decimal.NewFromInt(1500),
			IsDeposit: true,
		})
		require.Error(t, err)

		f.saleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.smsGateway.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sale not found", func(t *testing.T) {
		f := newLedgerFixture()
		id := uuid.New()
		f.saleRepo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := f.service.RecordInstallment(ctx, id, RecordInstallmentRequest{Amount: decimal.NewFromInt(1)})
		assert.Error(t, err)
	})
}

// recordingPublisher captures published domain events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	types := make([]string, 0, len(p.events))
	for _, evt := range p.events {
		types = append(types, evt.EventType())
	}
	return types
}

func TestInstallmentLedgerService_RecordInstallment_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	publisher := &recordingPublisher{}
	f.service.SetEventPublisher(publisher)

	sale := newLedgerSale(t, 1000)
	client := newConfiguredClient(t)

	f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
	f.saleRepo.On("Save", ctx, sale).Return(nil)
	f.audit.On("Record", ctx, mock.Anything).Return(nil)
	f.clientRepo.On("FindByID", ctx, sale.ClientID).Return(client, nil)
	f.licenseClient.On("ExtendLicense", ctx, mock.Anything, mock.Anything).Return(nil)
	f.clientRepo.On("Save", ctx, client).Return(nil)
	f.employeeRepo.On("FindActiveDirectors", ctx).Return([]*identity.Employee{}, nil)
	f.smsGateway.On("SendSMS", ctx, mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.RecordInstallment(ctx, sale.ID, RecordInstallmentRequest{
		Amount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	types := publisher.eventTypes()
	assert.Contains(t, types, billing.EventTypeInstallmentRecorded)
	assert.Contains(t, types, billing.EventTypeSaleCompleted)
	assert.Contains(t, types, partner.EventTypeClientLicenseExtended)
	assert.Empty(t, sale.GetDomainEvents())
	assert.Empty(t, client.GetDomainEvents())
}

func TestInstallmentLedgerService_RecordInstallment_ClearsExtensionRequest(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	sale := newLedgerSale(t, 1000)
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sale.RequestExtension(due))

	f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
	f.saleRepo.On("Save", ctx, sale).Return(nil)
	f.audit.On("Record", ctx, mock.Anything).Return(nil)
	f.clientRepo.On("FindByID", ctx, sale.ClientID).Return(nil, nil)

	resp, err := f.service.RecordInstallment(ctx, sale.ID, RecordInstallmentRequest{
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.False(t, resp.RequestedPaymentDateExtension)
	assert.Nil(t, resp.PaymentExtensionDueDate)
}

func TestInstallmentLedgerService_UpdateInstallment(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	sale := newLedgerSale(t, 1000)
	inst, err := sale.AddInstallment(valueobject.NewMoneyKESFromFloat(1000), nil, billing.InstallmentStatusPaid, nil, "", false)
	require.NoError(t, err)
	require.Equal(t, billing.SaleStatusCompleted, sale.Status)

	f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
	f.saleRepo.On("Save", ctx, sale).Return(nil)
	f.audit.On("Record", ctx, mock.Anything).Return(nil)

	resp, err := f.service.UpdateInstallment(ctx, sale.ID, inst.ID, UpdateInstallmentRequest{
		Amount: decimal.NewFromInt(1000),
		Status: "PENDING",
	})
	require.NoError(t, err)

	assert.Equal(t, "PENDING", resp.Status)
	assert.True(t, resp.PaidAmount.IsZero())
	assert.Nil(t, resp.CompletedAt)
}

func TestInstallmentLedgerService_DeleteInstallment(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	sale := newLedgerSale(t, 1000)
	inst, err := sale.AddInstallment(valueobject.NewMoneyKESFromFloat(400), nil, billing.InstallmentStatusPaid, nil, "", false)
	require.NoError(t, err)

	f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
	f.saleRepo.On("Save", ctx, sale).Return(nil)
	f.audit.On("Record", ctx, mock.Anything).Return(nil)

	resp, err := f.service.DeleteInstallment(ctx, sale.ID, inst.ID, nil)
	require.NoError(t, err)

	assert.True(t, resp.PaidAmount.IsZero())
	assert.Empty(t, resp.Installments)
}

func TestInstallmentLedgerService_RequestExtension(t *testing.T) {
	ctx := context.Background()

	t.Run("extends license to the requested date with its own template", func(t *testing.T) {
		f := newLedgerFixture()
		sale := newLedgerSale(t, 1000)
		client := newConfiguredClient(t)
		newDue := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

		f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		f.saleRepo.On("Save", ctx, sale).Return(nil)
		f.audit.On("Record", ctx, mock.Anything).Return(nil)
		f.clientRepo.On("FindByID", ctx, sale.ClientID).Return(client, nil)
		f.licenseClient.On("ExtendLicense", ctx, mock.Anything, newDue).Return(nil)
		f.clientRepo.On("Save", ctx, client).Return(nil)
		f.employeeRepo.On("FindActiveDirectors", ctx).Return([]*identity.Employee{}, nil)
		f.smsGateway.On("SendSMS", ctx, "254712345678", mock.MatchedBy(func(msg string) bool {
			return strings.Contains(msg, "extended to 20/03/2026")
		})).Return(nil)

		resp, err := f.service.RequestExtension(ctx, sale.ID, newDue, nil)
		require.NoError(t, err)

		assert.True(t, resp.RequestedPaymentDateExtension)
		require.NotNil(t, resp.PaymentExtensionDueDate)
		f.licenseClient.AssertCalled(t, "ExtendLicense", ctx, mock.Anything, newDue)
	})

	t.Run("cancelled sale rejects extension", func(t *testing.T) {
		f := newLedgerFixture()
		sale := newLedgerSale(t, 1000)
		require.NoError(t, sale.Cancel())

		f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		_, err := f.service.RequestExtension(ctx, sale.ID, time.Now(), nil)
		assert.Error(t, err)
	})
}

func TestLicenseExpiryAfterPayment(t *testing.T) {
	tests := []struct {
		name   string
		paidAt time.Time
		want   time.Time
	}{
		{
			name:   "mid-month payment",
			paidAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
			want:   time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "december rolls into january",
			paidAt: time.Date(2026, 12, 28, 23, 0, 0, 0, time.UTC),
			want:   time.Date(2027, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "non-UTC paid time converted first",
			paidAt: time.Date(2026, 1, 31, 23, 30, 0, 0, time.FixedZone("EAT", 3*3600)),
			want:   time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LicenseExpiryAfterPayment(tt.paidAt)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}
