package jobcard

import (
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
)

const (
	EventTypeJobCardCreated       = "jobcard.job_card.created"
	EventTypeJobCardStatusChanged = "jobcard.job_card.status_changed"
)

// JobCardCreatedEvent is raised when a job card is created
type JobCardCreatedEvent struct {
	shared.BaseDomainEvent
	JobNumber string `json:"job_number"`
}

// NewJobCardCreatedEvent creates a new JobCardCreatedEvent
func NewJobCardCreatedEvent(card *JobCard) *JobCardCreatedEvent {
	return &JobCardCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobCardCreated, card.ID, "JobCard"),
		JobNumber:       card.JobNumber,
	}
}

// JobCardStatusChangedEvent is raised on every lifecycle transition
type JobCardStatusChangedEvent struct {
	shared.BaseDomainEvent
	JobNumber      string        `json:"job_number"`
	PreviousStatus JobCardStatus `json:"previous_status"`
	NewStatus      JobCardStatus `json:"new_status"`
}

// NewJobCardStatusChangedEvent creates a new JobCardStatusChangedEvent
func NewJobCardStatusChangedEvent(card *JobCard, previous JobCardStatus) *JobCardStatusChangedEvent {
	return &JobCardStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobCardStatusChanged, card.ID, "JobCard"),
		JobNumber:       card.JobNumber,
		PreviousStatus:  previous,
		NewStatus:       card.Status,
	}
}
