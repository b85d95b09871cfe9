package finance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appjobcard "github.com/ndutagrace25/esperanza-internal/internal/application/jobcard"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/finance"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/jobcard"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockExpenseRepository is a mock implementation of finance.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindByExpenseNumber(ctx context.Context, expenseNumber string) (*finance.Expense, error) {
	args := m.Called(ctx, expenseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*finance.Expense], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*finance.Expense]), args.Error(1)
}

func (m *MockExpenseRepository) FindByJobCardID(ctx context.Context, jobCardID uuid.UUID) ([]*finance.Expense, error) {
	args := m.Called(ctx, jobCardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindByJobExpenseID(ctx context.Context, jobExpenseID uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, jobExpenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) GenerateExpenseNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockJobCardRepository is a mock implementation of jobcard.JobCardRepository
type MockJobCardRepository struct {
	mock.Mock
}

func (m *MockJobCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*jobcard.JobCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobcard.JobCard), args.Error(1)
}

func (m *MockJobCardRepository) FindByJobNumber(ctx context.Context, jobNumber string) (*jobcard.JobCard, error) {
	args := m.Called(ctx, jobNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobcard.JobCard), args.Error(1)
}

func (m *MockJobCardRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*jobcard.JobCard], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*jobcard.JobCard]), args.Error(1)
}

func (m *MockJobCardRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*jobcard.JobCard, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]*jobcard.JobCard), args.Error(1)
}

func (m *MockJobCardRepository) GenerateJobNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

func (m *MockJobCardRepository) Save(ctx context.Context, card *jobcard.JobCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockJobCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuditRecorder is a mock implementation of shared.AuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, entry shared.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockReceiptStorage is a mock implementation of ReceiptStorage
type MockReceiptStorage struct {
	mock.Mock
}

func (m *MockReceiptStorage) UploadReceipt(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, filename, contentType, data)
	return args.String(0), args.Error(1)
}

type expenseFixture struct {
	expenseRepo *MockExpenseRepository
	cardRepo    *MockJobCardRepository
	receipts    *MockReceiptStorage
	audit       *MockAuditRecorder
	service     *ExpenseService
}

func newExpenseFixture() *expenseFixture {
	f := &expenseFixture{
		expenseRepo: new(MockExpenseRepository),
		cardRepo:    new(MockJobCardRepository),
		receipts:    new(MockReceiptStorage),
		audit:       new(MockAuditRecorder),
	}
	bridge := appjobcard.NewStatusBridge(f.cardRepo, f.expenseRepo, zap.NewNop())
	f.service = NewExpenseService(f.expenseRepo, bridge, f.receipts, f.audit, zap.NewNop())
	return f
}

func TestExpenseService_CreateExpense(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	f.expenseRepo.On("GenerateExpenseNumber", ctx, mock.Anything).Return("EXP-2026-001", nil)
	f.expenseRepo.On("Save", ctx, mock.Anything).Return(nil)
	f.audit.On("Record", ctx, mock.Anything).Return(nil)

	resp, err := f.service.CreateExpense(ctx, CreateExpenseRequest{
		Category: "Transport",
		Amount:   decimal.NewFromInt(2500),
	})
	require.NoError(t, err)

	assert.Equal(t, "EXP-2026-001", resp.ExpenseNumber)
	assert.Equal(t, "DRAFT", resp.Status)
	f.audit.AssertNumberOfCalls(t, "Record", 1)
}

func TestExpenseService_ApprovalDrivesBridge(t *testing.T) {
	ctx := context.Background()

	t.Run("marking a derived expense paid completes a single-expense card", func(t *testing.T) {
		f := newExpenseFixture()
		card, err := jobcard.NewJobCard("JC-2026-001", uuid.New(), "Site visit", "", nil)
		require.NoError(t, err)
		require.NoError(t, card.TransitionTo(jobcard.JobCardStatusInProgress))

		expense, err := finance.NewJobCardExpense("EXP-2026-002", "Transport",
			valueobject.NewMoneyKESFromFloat(500), "", card.ID, uuid.New(), finance.ExpenseStatusPending)
		require.NoError(t, err)
		require.NoError(t, expense.Approve(uuid.New()))

		f.expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		f.expenseRepo.On("Save", ctx, expense).Return(nil)
		f.audit.On("Record", ctx, mock.Anything).Return(nil)
		f.cardRepo.On("FindByID", ctx, card.ID).Return(card, nil)
		f.expenseRepo.On("FindByJobCardID", ctx, card.ID).Return([]*finance.Expense{expense}, nil)
		f.cardRepo.On("Save", ctx, card).Return(nil)

		resp, err := f.service.MarkExpensePaid(ctx, expense.ID, nil)
		require.NoError(t, err)

		assert.Equal(t, "PAID", resp.Status)
		assert.Equal(t, jobcard.JobCardStatusCompleted, card.Status)
	})

	t.Run("standalone expense transition leaves bridge idle", func(t *testing.T) {
		f := newExpenseFixture()
		expense, err := finance.NewExpense("EXP-2026-003", "Transport", valueobject.NewMoneyKESFromFloat(500), "")
		require.NoError(t, err)

		f.expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		f.expenseRepo.On("Save", ctx, expense).Return(nil)
		f.audit.On("Record", ctx, mock.Anything).Return(nil)

		_, err = f.service.SubmitExpense(ctx, expense.ID, uuid.New())
		require.NoError(t, err)

		f.cardRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestExpenseService_UpdateExpense_SyncsJobExpense(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	card, err := jobcard.NewJobCard("JC-2026-002", uuid.New(), "Install", "", nil)
	require.NoError(t, err)
	row, err := card.AddExpense("Materials", valueobject.NewMoneyKESFromFloat(800), "Cabling", false, "")
	require.NoError(t, err)

	expense, err := finance.NewJobCardExpense("EXP-2026-004", "Materials",
		valueobject.NewMoneyKESFromFloat(800), "Cabling", card.ID, row.ID, finance.ExpenseStatusDraft)
	require.NoError(t, err)

	f.expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
	f.expenseRepo.On("Save", ctx, expense).Return(nil)
	f.audit.On("Record", ctx, mock.Anything).Return(nil)
	f.cardRepo.On("FindByID", ctx, card.ID).Return(card, nil)
	f.cardRepo.On("Save", ctx, card).Return(nil)

	_, err = f.service.UpdateExpense(ctx, expense.ID, UpdateExpenseRequest{
		Category:    "Materials",
		Amount:      decimal.NewFromInt(950),
		Description: "Cabling and trunking",
		HasReceipt:  true,
		ReceiptURL:  "https://receipts/7.jpg",
	})
	require.NoError(t, err)

	synced := card.FindExpense(row.ID)
	require.NotNil(t, synced)
	assert.True(t, synced.Amount.Equal(decimal.NewFromInt(950)))
	assert.True(t, synced.HasReceipt)
	assert.Equal(t, "Cabling and trunking", synced.Description)
}

func TestExpenseService_UploadReceipt(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	expense, err := finance.NewExpense("EXP-2026-005", "Transport", valueobject.NewMoneyKESFromFloat(100), "")
	require.NoError(t, err)

	f.expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
	f.receipts.On("UploadReceipt", ctx, "receipts/EXP-2026-005/fuel.jpg", "image/jpeg", mock.Anything).
		Return("https://bucket.s3.amazonaws.com/receipts/EXP-2026-005/fuel.jpg", nil)
	f.expenseRepo.On("Save", ctx, expense).Return(nil)
	f.audit.On("Record", ctx, mock.Anything).Return(nil)

	resp, err := f.service.UploadReceipt(ctx, expense.ID, "fuel.jpg", "image/jpeg", []byte{0xff, 0xd8}, nil)
	require.NoError(t, err)

	assert.True(t, resp.HasReceipt)
	assert.Contains(t, resp.ReceiptURL, "EXP-2026-005/fuel.jpg")
}
