package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/billing"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/identity"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/partner"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockSaleRepository is a mock implementation of billing.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindBySaleNumber(ctx context.Context, saleNumber string) (*billing.Sale, error) {
	args := m.Called(ctx, saleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*billing.Sale], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*billing.Sale]), args.Error(1)
}

func (m *MockSaleRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*billing.Sale, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]*billing.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindDueForRenewalReminder(ctx context.Context) ([]*billing.Sale, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindDueForExtensionReminder(ctx context.Context, from, to time.Time) ([]*billing.Sale, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Sale), args.Error(1)
}

func (m *MockSaleRepository) GenerateSaleNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *billing.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockClientRepository is a mock implementation of partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Client, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindActive(ctx context.Context, filter shared.Filter) ([]partner.Client, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEmployeeRepository is a mock implementation of identity.EmployeeRepository
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindByEmail(ctx context.Context, email string) (*identity.Employee, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.Employee], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*identity.Employee]), args.Error(1)
}

func (m *MockEmployeeRepository) FindActiveDirectors(ctx context.Context) ([]*identity.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, employee *identity.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSmsGateway is a mock implementation of billing.SmsGateway
type MockSmsGateway struct {
	mock.Mock
}

func (m *MockSmsGateway) SendSMS(ctx context.Context, mobile, message string) error {
	args := m.Called(ctx, mobile, message)
	return args.Error(0)
}

// MockLicenseClient is a mock implementation of billing.LicenseClient
type MockLicenseClient struct {
	mock.Mock
}

func (m *MockLicenseClient) ExtendLicense(ctx context.Context, creds partner.LicenseCredentials, expiry time.Time) error {
	args := m.Called(ctx, creds, expiry)
	return args.Error(0)
}

// MockReminderRunStore is a mock implementation of ReminderRunStore
type MockReminderRunStore struct {
	mock.Mock
}

func (m *MockReminderRunStore) TryBegin(ctx context.Context, runKey string) (bool, error) {
	args := m.Called(ctx, runKey)
	return args.Bool(0), args.Error(1)
}

// MockAuditRecorder is a mock implementation of shared.AuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, entry shared.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
