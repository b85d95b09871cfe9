package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestExpense(t *testing.T) *Expense {
	t.Helper()
	expense, err := NewExpense("EXP-2026-001", "Transport", valueobject.NewMoneyKESFromFloat(2500), "Fuel for site visit")
	require.NoError(t, err)
	return expense
}

func TestNewExpense(t *testing.T) {
	t.Run("should create standalone expense in DRAFT", func(t *testing.T) {
		expense := createTestExpense(t)

		assert.Equal(t, ExpenseStatusDraft, expense.Status)
		assert.False(t, expense.IsJobCardDerived())
		assert.Nil(t, expense.SubmittedAt)
	})

	t.Run("should reject non-positive amount", func(t *testing.T) {
		_, err := NewExpense("EXP-2026-002", "Transport", valueobject.ZeroKES(), "")
		assert.Error(t, err)
	})
}

func TestNewJobCardExpense(t *testing.T) {
	t.Run("should link to job card and take initial status", func(t *testing.T) {
		jobCardID := uuid.New()
		jobExpenseID := uuid.New()

		expense, err := NewJobCardExpense("EXP-2026-003", "Materials", valueobject.NewMoneyKESFromFloat(800), "Cabling", jobCardID, jobExpenseID, ExpenseStatusPending)
		require.NoError(t, err)

		assert.True(t, expense.IsJobCardDerived())
		assert.Equal(t, ExpenseStatusPending, expense.Status)
		assert.Equal(t, jobCardID, *expense.JobCardID)
		assert.Equal(t, jobExpenseID, *expense.JobExpenseID)
	})

	t.Run("should require both link IDs", func(t *testing.T) {
		_, err := NewJobCardExpense("EXP-2026-004", "Materials", valueobject.NewMoneyKESFromFloat(800), "", uuid.New(), uuid.Nil, ExpenseStatusDraft)
		assert.Error(t, err)
	})
}

func TestExpense_Workflow(t *testing.T) {
	t.Run("full approval path", func(t *testing.T) {
		expense := createTestExpense(t)
		staff := uuid.New()
		director := uuid.New()

		require.NoError(t, expense.Submit(staff))
		assert.Equal(t, ExpenseStatusPending, expense.Status)
		require.NotNil(t, expense.SubmittedAt)

		require.NoError(t, expense.Approve(director))
		assert.Equal(t, ExpenseStatusApproved, expense.Status)
		require.NotNil(t, expense.ApprovedAt)

		require.NoError(t, expense.MarkPaid())
		assert.Equal(t, ExpenseStatusPaid, expense.Status)
		require.NotNil(t, expense.PaidAt)
	})

	t.Run("rejection requires a reason", func(t *testing.T) {
		expense := createTestExpense(t)
		require.NoError(t, expense.Submit(uuid.New()))

		assert.Error(t, expense.Reject(uuid.New(), ""))
		require.NoError(t, expense.Reject(uuid.New(), "No receipt attached"))
		assert.Equal(t, ExpenseStatusRejected, expense.Status)
	})

	t.Run("cannot approve unsubmitted expense", func(t *testing.T) {
		expense := createTestExpense(t)
		assert.Error(t, expense.Approve(uuid.New()))
	})

	t.Run("cannot pay unapproved expense", func(t *testing.T) {
		expense := createTestExpense(t)
		assert.Error(t, expense.MarkPaid())
	})

	t.Run("cannot cancel a terminal expense", func(t *testing.T) {
		expense := createTestExpense(t)
		require.NoError(t, expense.Submit(uuid.New()))
		require.NoError(t, expense.Approve(uuid.New()))
		require.NoError(t, expense.MarkPaid())

		assert.Error(t, expense.Cancel())
	})

	t.Run("cancel from draft", func(t *testing.T) {
		expense := createTestExpense(t)
		require.NoError(t, expense.Cancel())
		assert.Equal(t, ExpenseStatusCancelled, expense.Status)
	})
}

func TestExpense_ApplyBridgeStatus(t *testing.T) {
	t.Run("bypasses workflow guards", func(t *testing.T) {
		expense := createTestExpense(t)

		require.NoError(t, expense.ApplyBridgeStatus(ExpenseStatusPaid))
		assert.Equal(t, ExpenseStatusPaid, expense.Status)
		require.NotNil(t, expense.PaidAt)

		// Force-cancel applies even from a terminal state.
		require.NoError(t, expense.ApplyBridgeStatus(ExpenseStatusCancelled))
		assert.Equal(t, ExpenseStatusCancelled, expense.Status)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		expense := createTestExpense(t)
		before := expense.GetVersion()

		require.NoError(t, expense.ApplyBridgeStatus(ExpenseStatusDraft))
		assert.Equal(t, before, expense.GetVersion())
	})
}

func TestExpense_UpdateDetails(t *testing.T) {
	expense := createTestExpense(t)

	err := expense.UpdateDetails("Materials", valueobject.NewMoneyKESFromFloat(3000), "Extra cabling", true, "https://receipts/abc.jpg")
	require.NoError(t, err)

	assert.Equal(t, "Materials", expense.Category)
	assert.True(t, expense.HasReceipt)
	assert.Equal(t, "https://receipts/abc.jpg", expense.ReceiptURL)

	require.NoError(t, expense.Cancel())
	assert.Error(t, expense.UpdateDetails("Materials", valueobject.NewMoneyKESFromFloat(1), "", false, ""))
}
