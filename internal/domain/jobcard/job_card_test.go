package jobcard

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestJobCard(t *testing.T) *JobCard {
	t.Helper()
	card, err := NewJobCard("JC-2026-001", uuid.New(), "Alarm service visit", "Quarterly maintenance", nil)
	require.NoError(t, err)
	return card
}

func TestNewJobCard(t *testing.T) {
	t.Run("should create job card in DRAFT", func(t *testing.T) {
		card := createTestJobCard(t)

		assert.Equal(t, JobCardStatusDraft, card.Status)
		assert.Empty(t, card.Tasks)
		assert.Empty(t, card.Expenses)
	})

	t.Run("should reject empty title", func(t *testing.T) {
		_, err := NewJobCard("JC-2026-002", uuid.New(), "", "", nil)
		assert.Error(t, err)
	})
}

func TestJobCard_TransitionTo(t *testing.T) {
	t.Run("forward lifecycle", func(t *testing.T) {
		card := createTestJobCard(t)

		require.NoError(t, card.TransitionTo(JobCardStatusPendingClientConfirmation))
		require.NoError(t, card.TransitionTo(JobCardStatusInProgress))
		require.NoError(t, card.TransitionTo(JobCardStatusCompleted))

		assert.Equal(t, JobCardStatusCompleted, card.Status)
		require.NotNil(t, card.CompletedAt)
	})

	t.Run("draft may skip straight to in progress", func(t *testing.T) {
		card := createTestJobCard(t)
		require.NoError(t, card.TransitionTo(JobCardStatusInProgress))
	})

	t.Run("cannot skip to completed from draft", func(t *testing.T) {
		card := createTestJobCard(t)
		assert.Error(t, card.TransitionTo(JobCardStatusCompleted))
	})

	t.Run("cancel from any non-terminal state", func(t *testing.T) {
		card := createTestJobCard(t)
		require.NoError(t, card.TransitionTo(JobCardStatusInProgress))

		require.NoError(t, card.TransitionTo(JobCardStatusCancelled))
		assert.Equal(t, JobCardStatusCancelled, card.Status)
		require.NotNil(t, card.CancelledAt)
	})

	t.Run("terminal card rejects further transitions", func(t *testing.T) {
		card := createTestJobCard(t)
		require.NoError(t, card.TransitionTo(JobCardStatusCancelled))

		assert.Error(t, card.TransitionTo(JobCardStatusInProgress))
	})
}

func TestJobCard_ApplyBridgeStatus(t *testing.T) {
	t.Run("completes an in-progress card", func(t *testing.T) {
		card := createTestJobCard(t)
		require.NoError(t, card.TransitionTo(JobCardStatusInProgress))

		require.NoError(t, card.ApplyBridgeStatus(JobCardStatusCompleted))
		assert.Equal(t, JobCardStatusCompleted, card.Status)
	})

	t.Run("cancel overrides a completed card", func(t *testing.T) {
		card := createTestJobCard(t)
		require.NoError(t, card.TransitionTo(JobCardStatusInProgress))
		require.NoError(t, card.TransitionTo(JobCardStatusCompleted))

		require.NoError(t, card.ApplyBridgeStatus(JobCardStatusCancelled))
		assert.Equal(t, JobCardStatusCancelled, card.Status)
	})

	t.Run("complete does not override a cancelled card", func(t *testing.T) {
		card := createTestJobCard(t)
		require.NoError(t, card.TransitionTo(JobCardStatusCancelled))

		assert.Error(t, card.ApplyBridgeStatus(JobCardStatusCompleted))
	})

	t.Run("only terminal targets allowed", func(t *testing.T) {
		card := createTestJobCard(t)
		assert.Error(t, card.ApplyBridgeStatus(JobCardStatusInProgress))
	})
}

func TestJobCard_Expenses(t *testing.T) {
	t.Run("add and sum expenses", func(t *testing.T) {
		card := createTestJobCard(t)

		_, err := card.AddExpense("Transport", valueobject.NewMoneyKESFromFloat(1200), "Fuel", false, "")
		require.NoError(t, err)
		_, err = card.AddExpense("Materials", valueobject.NewMoneyKESFromFloat(800), "Cabling", true, "https://receipts/1.jpg")
		require.NoError(t, err)

		assert.Len(t, card.Expenses, 2)
		assert.True(t, card.TotalExpenseAmount().Equal(decimal.NewFromInt(2000)))
	})

	t.Run("sync mirrors fields from formal expense", func(t *testing.T) {
		card := createTestJobCard(t)
		exp, err := card.AddExpense("Transport", valueobject.NewMoneyKESFromFloat(1200), "Fuel", false, "")
		require.NoError(t, err)

		err = card.SyncExpenseFields(exp.ID, decimal.NewFromInt(1500), true, "https://receipts/2.jpg", "Fuel and parking")
		require.NoError(t, err)

		synced := card.FindExpense(exp.ID)
		require.NotNil(t, synced)
		assert.True(t, synced.Amount.Equal(decimal.NewFromInt(1500)))
		assert.True(t, synced.HasReceipt)
		assert.Equal(t, "https://receipts/2.jpg", synced.ReceiptURL)
		assert.Equal(t, "Fuel and parking", synced.Description)
	})

	t.Run("cannot add expense to terminal card", func(t *testing.T) {
		card := createTestJobCard(t)
		require.NoError(t, card.TransitionTo(JobCardStatusCancelled))

		_, err := card.AddExpense("Transport", valueobject.NewMoneyKESFromFloat(100), "", false, "")
		assert.Error(t, err)
	})
}

func TestJobCard_Tasks(t *testing.T) {
	card := createTestJobCard(t)

	task, err := card.AddTask("Inspect panel", "Check battery backup")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusPending, task.Status)

	require.NoError(t, card.CompleteTask(task.ID))
	assert.Equal(t, TaskStatusDone, card.Tasks[0].Status)

	assert.Error(t, card.CompleteTask(uuid.New()))
}
