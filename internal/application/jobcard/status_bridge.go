package jobcard

import (
	"context"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/finance"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/jobcard"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"go.uber.org/zap"
)

// StatusBridge keeps a job card's lifecycle status consistent with the
// aggregate status of its derived expenses and vice versa. The two
// directions are explicit guarded procedures, never a generic event relay;
// the guards are what prevent ping-ponging.
type StatusBridge struct {
	jobCardRepo jobcard.JobCardRepository
	expenseRepo finance.ExpenseRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewStatusBridge creates a new StatusBridge
func NewStatusBridge(
	jobCardRepo jobcard.JobCardRepository,
	expenseRepo finance.ExpenseRepository,
	logger *zap.Logger,
) *StatusBridge {
	return &StatusBridge{
		jobCardRepo: jobCardRepo,
		expenseRepo: expenseRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for post-save domain events
func (b *StatusBridge) SetEventPublisher(publisher shared.EventPublisher) {
	b.events = publisher
}

// MapJobCardStatus maps a job card lifecycle status to the expense status a
// derived expense takes on
func MapJobCardStatus(status jobcard.JobCardStatus) finance.ExpenseStatus {
	switch status {
	case jobcard.JobCardStatusDraft:
		return finance.ExpenseStatusDraft
	case jobcard.JobCardStatusPendingClientConfirmation, jobcard.JobCardStatusInProgress:
		return finance.ExpenseStatusPending
	case jobcard.JobCardStatusCompleted:
		return finance.ExpenseStatusPaid
	case jobcard.JobCardStatusCancelled:
		return finance.ExpenseStatusCancelled
	}
	return finance.ExpenseStatusDraft
}

// OnJobCardStatusChanged propagates a job card status change onto its
// linked expenses. Non-terminal expenses take the mapped status; a
// CANCELLED card force-cancels every linked expense, terminal or not.
func (b *StatusBridge) OnJobCardStatusChanged(ctx context.Context, jobCardID uuid.UUID, newStatus jobcard.JobCardStatus) error {
	expenses, err := b.expenseRepo.FindByJobCardID(ctx, jobCardID)
	if err != nil {
		return err
	}

	mapped := MapJobCardStatus(newStatus)
	forceCancel := newStatus == jobcard.JobCardStatusCancelled

	for _, expense := range expenses {
		if !forceCancel && expense.Status.IsTerminal() {
			continue
		}
		if expense.Status == mapped {
			continue
		}

		if err := expense.ApplyBridgeStatus(mapped); err != nil {
			return err
		}
		if err := b.expenseRepo.Save(ctx, expense); err != nil {
			return err
		}
		publishEvents(ctx, b.events, b.logger, expense)

		b.logger.Debug("bridged job card status onto expense",
			zap.String("expense_number", expense.ExpenseNumber),
			zap.String("status", mapped.String()))
	}

	return nil
}

// OnExpenseStatusChanged propagates an expense status change back onto its
// job card. Only PAID and CANCELLED map to a card target, and the target is
// applied only when every sibling expense agrees, counting the triggering
// expense at its new in-memory status rather than its stale persisted row.
// A terminal card is never touched unless the target is CANCELLED.
func (b *StatusBridge) OnExpenseStatusChanged(ctx context.Context, expense *finance.Expense, newStatus, oldStatus finance.ExpenseStatus) error {
	if expense.JobCardID == nil || newStatus == oldStatus {
		return nil
	}

	var target jobcard.JobCardStatus
	switch newStatus {
	case finance.ExpenseStatusPaid:
		target = jobcard.JobCardStatusCompleted
	case finance.ExpenseStatusCancelled:
		target = jobcard.JobCardStatusCancelled
	default:
		return nil
	}

	card, err := b.jobCardRepo.FindByID(ctx, *expense.JobCardID)
	if err != nil {
		return err
	}
	if card == nil {
		return shared.NewDomainError("NOT_FOUND", "Job card not found")
	}

	if card.Status.IsTerminal() && target != jobcard.JobCardStatusCancelled {
		return nil
	}

	agreed, err := b.allSiblingsAre(ctx, card.ID, expense, newStatus)
	if err != nil {
		return err
	}
	if !agreed {
		return nil
	}

	if err := card.ApplyBridgeStatus(target); err != nil {
		return err
	}
	if err := b.jobCardRepo.Save(ctx, card); err != nil {
		return err
	}
	publishEvents(ctx, b.events, b.logger, card)

	b.logger.Debug("bridged expense consensus onto job card",
		zap.String("job_number", card.JobNumber),
		zap.String("status", target.String()))

	return nil
}

// SyncExpenseFields mirrors the mutable fields of a derived expense onto
// its job expense row. One-directional, expense to job card.
func (b *StatusBridge) SyncExpenseFields(ctx context.Context, expense *finance.Expense) error {
	if !expense.IsJobCardDerived() {
		return nil
	}

	card, err := b.jobCardRepo.FindByID(ctx, *expense.JobCardID)
	if err != nil {
		return err
	}
	if card == nil {
		return shared.NewDomainError("NOT_FOUND", "Job card not found")
	}

	err = card.SyncExpenseFields(*expense.JobExpenseID, expense.Amount, expense.HasReceipt, expense.ReceiptURL, expense.Description)
	if err != nil {
		return err
	}

	if err := b.jobCardRepo.Save(ctx, card); err != nil {
		return err
	}
	publishEvents(ctx, b.events, b.logger, card)
	return nil
}

// allSiblingsAre re-reads every expense linked to the card and checks they
// all hold wanted, substituting the triggering expense's new status for its
// persisted one.
func (b *StatusBridge) allSiblingsAre(ctx context.Context, jobCardID uuid.UUID, triggering *finance.Expense, wanted finance.ExpenseStatus) (bool, error) {
	siblings, err := b.expenseRepo.FindByJobCardID(ctx, jobCardID)
	if err != nil {
		return false, err
	}

	for _, sibling := range siblings {
		status := sibling.Status
		if sibling.ID == triggering.ID {
			status = wanted
		}
		if status != wanted {
			return false, nil
		}
	}
	return true, nil
}
