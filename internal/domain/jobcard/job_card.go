package jobcard

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// JobCardStatus represents the lifecycle status of a job card
type JobCardStatus string

const (
	JobCardStatusDraft                     JobCardStatus = "DRAFT"
	JobCardStatusPendingClientConfirmation JobCardStatus = "PENDING_CLIENT_CONFIRMATION"
	JobCardStatusInProgress                JobCardStatus = "IN_PROGRESS"
	JobCardStatusCompleted                 JobCardStatus = "COMPLETED"
	JobCardStatusCancelled                 JobCardStatus = "CANCELLED"
)

// IsValid checks if the status is a valid JobCardStatus
func (s JobCardStatus) IsValid() bool {
	switch s {
	case JobCardStatusDraft, JobCardStatusPendingClientConfirmation,
		JobCardStatusInProgress, JobCardStatusCompleted, JobCardStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of JobCardStatus
func (s JobCardStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the job card's lifecycle has ended
func (s JobCardStatus) IsTerminal() bool {
	return s == JobCardStatusCompleted || s == JobCardStatusCancelled
}

// TaskStatus represents the status of a single task on a job card
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "PENDING"
	TaskStatusDone    TaskStatus = "DONE"
)

// JobTask is a unit of work recorded on a job card
type JobTask struct {
	shared.BaseEntity
	JobCardID   uuid.UUID  `json:"job_card_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	SortOrder   int        `json:"sort_order"`
}

// JobExpense is a cost recorded on a job card with a free-text category.
// At most one formal Expense links to a JobExpense row.
type JobExpense struct {
	shared.BaseEntity
	JobCardID   uuid.UUID       `json:"job_card_id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	HasReceipt  bool            `json:"has_receipt"`
	ReceiptURL  string          `json:"receipt_url"`
	Description string          `json:"description"`
}

// JobCardApproval records a sign-off on a job card
type JobCardApproval struct {
	shared.BaseEntity
	JobCardID    uuid.UUID `json:"job_card_id"`
	ApprovedByID uuid.UUID `json:"approved_by_id"`
	Comment      string    `json:"comment"`
	ApprovedAt   time.Time `json:"approved_at"`
}

// JobCard records a client site visit, aggregating tasks, expenses and
// approvals. Its status drives the status of linked formal expenses.
type JobCard struct {
	shared.BaseAggregateRoot
	JobNumber   string            `json:"job_number"`
	ClientID    uuid.UUID         `json:"client_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      JobCardStatus     `json:"status"`
	Tasks       []JobTask         `json:"tasks"`
	Expenses    []JobExpense      `json:"expenses"`
	Approvals   []JobCardApproval `json:"approvals"`
	ScheduledAt *time.Time        `json:"scheduled_at"`
	CompletedAt *time.Time        `json:"completed_at"`
	CancelledAt *time.Time        `json:"cancelled_at"`
}

// NewJobCard creates a job card in DRAFT
func NewJobCard(jobNumber string, clientID uuid.UUID, title, description string, scheduledAt *time.Time) (*JobCard, error) {
	if jobNumber == "" {
		return nil, shared.NewDomainError("INVALID_JOB_NUMBER", "Job number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Job card title cannot be empty")
	}

	card := &JobCard{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		JobNumber:         jobNumber,
		ClientID:          clientID,
		Title:             title,
		Description:       description,
		Status:            JobCardStatusDraft,
		Tasks:             []JobTask{},
		Expenses:          []JobExpense{},
		Approvals:         []JobCardApproval{},
		ScheduledAt:       scheduledAt,
	}

	card.AddDomainEvent(NewJobCardCreatedEvent(card))

	return card, nil
}

// allowed forward transitions; CANCELLED is reachable from any non-terminal state
var jobCardTransitions = map[JobCardStatus][]JobCardStatus{
	JobCardStatusDraft:                     {JobCardStatusPendingClientConfirmation, JobCardStatusInProgress},
	JobCardStatusPendingClientConfirmation: {JobCardStatusInProgress},
	JobCardStatusInProgress:                {JobCardStatusCompleted},
}

// TransitionTo moves the job card to a new lifecycle status.
// CANCELLED is allowed from any non-terminal state; other transitions
// follow the forward lifecycle only.
func (jc *JobCard) TransitionTo(newStatus JobCardStatus) error {
	if !newStatus.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid job card status: %s", newStatus))
	}
	if jc.Status == newStatus {
		return nil
	}
	if jc.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change status of a %s job card", jc.Status))
	}

	if newStatus == JobCardStatusCancelled {
		jc.applyStatus(newStatus)
		return nil
	}

	for _, allowed := range jobCardTransitions[jc.Status] {
		if allowed == newStatus {
			jc.applyStatus(newStatus)
			return nil
		}
	}
	return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot move job card from %s to %s", jc.Status, newStatus))
}

// ApplyBridgeStatus sets COMPLETED or CANCELLED directly when the linked
// expenses reach consensus. The bridge owns the guard conditions; a
// terminal card is only overridden when the target is CANCELLED.
func (jc *JobCard) ApplyBridgeStatus(newStatus JobCardStatus) error {
	if newStatus != JobCardStatusCompleted && newStatus != JobCardStatusCancelled {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Bridge cannot set job card status %s", newStatus))
	}
	if jc.Status == newStatus {
		return nil
	}
	if jc.Status.IsTerminal() && newStatus != JobCardStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change status of a %s job card", jc.Status))
	}

	jc.applyStatus(newStatus)
	return nil
}

func (jc *JobCard) applyStatus(newStatus JobCardStatus) {
	previous := jc.Status
	now := time.Now()
	jc.Status = newStatus

	switch newStatus {
	case JobCardStatusCompleted:
		jc.CompletedAt = &now
	case JobCardStatusCancelled:
		jc.CancelledAt = &now
	}

	jc.UpdatedAt = now
	jc.IncrementVersion()
	jc.AddDomainEvent(NewJobCardStatusChangedEvent(jc, previous))
}

// AddTask appends a task to the job card
func (jc *JobCard) AddTask(title, description string) (*JobTask, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if jc.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add tasks to a %s job card", jc.Status))
	}

	task := JobTask{
		BaseEntity:  shared.NewBaseEntity(),
		JobCardID:   jc.ID,
		Title:       title,
		Description: description,
		Status:      TaskStatusPending,
		SortOrder:   len(jc.Tasks),
	}
	jc.Tasks = append(jc.Tasks, task)
	jc.UpdatedAt = time.Now()
	jc.IncrementVersion()
	return &jc.Tasks[len(jc.Tasks)-1], nil
}

// CompleteTask marks a task DONE
func (jc *JobCard) CompleteTask(taskID uuid.UUID) error {
	for i := range jc.Tasks {
		if jc.Tasks[i].ID == taskID {
			jc.Tasks[i].Status = TaskStatusDone
			jc.Tasks[i].UpdatedAt = time.Now()
			jc.UpdatedAt = time.Now()
			jc.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// AddExpense appends a job expense row
func (jc *JobCard) AddExpense(category string, amount valueobject.Money, description string, hasReceipt bool, receiptURL string) (*JobExpense, error) {
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if jc.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add expenses to a %s job card", jc.Status))
	}

	expense := JobExpense{
		BaseEntity:  shared.NewBaseEntity(),
		JobCardID:   jc.ID,
		Category:    category,
		Amount:      amount.Amount(),
		HasReceipt:  hasReceipt,
		ReceiptURL:  receiptURL,
		Description: description,
	}
	jc.Expenses = append(jc.Expenses, expense)
	jc.UpdatedAt = time.Now()
	jc.IncrementVersion()
	return &jc.Expenses[len(jc.Expenses)-1], nil
}

// SyncExpenseFields mirrors amount, receipt fields and description from the
// linked formal expense onto the job expense row. One-directional.
func (jc *JobCard) SyncExpenseFields(jobExpenseID uuid.UUID, amount decimal.Decimal, hasReceipt bool, receiptURL, description string) error {
	for i := range jc.Expenses {
		if jc.Expenses[i].ID == jobExpenseID {
			jc.Expenses[i].Amount = amount
			jc.Expenses[i].HasReceipt = hasReceipt
			jc.Expenses[i].ReceiptURL = receiptURL
			jc.Expenses[i].Description = description
			jc.Expenses[i].UpdatedAt = time.Now()
			jc.UpdatedAt = time.Now()
			jc.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// FindExpense returns the job expense row with the given ID, or nil
func (jc *JobCard) FindExpense(jobExpenseID uuid.UUID) *JobExpense {
	for i := range jc.Expenses {
		if jc.Expenses[i].ID == jobExpenseID {
			return &jc.Expenses[i]
		}
	}
	return nil
}

// AddApproval records a sign-off
func (jc *JobCard) AddApproval(approvedBy uuid.UUID, comment string) (*JobCardApproval, error) {
	if approvedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	approval := JobCardApproval{
		BaseEntity:   shared.NewBaseEntity(),
		JobCardID:    jc.ID,
		ApprovedByID: approvedBy,
		Comment:      comment,
		ApprovedAt:   time.Now(),
	}
	jc.Approvals = append(jc.Approvals, approval)
	jc.UpdatedAt = time.Now()
	jc.IncrementVersion()
	return &jc.Approvals[len(jc.Approvals)-1], nil
}

// TotalExpenseAmount returns the sum of the job expense rows
func (jc *JobCard) TotalExpenseAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range jc.Expenses {
		total = total.Add(jc.Expenses[i].Amount)
	}
	return total
}
