package partner

import (
	"time"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
)

// Event type constants for the partner context
const (
	EventTypeClientCreated         = "partner.client.created"
	EventTypeClientLicenseExtended = "partner.client.license_extended"
)

// ClientCreatedEvent is raised when a client record is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	CompanyName string `json:"company_name"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, c.ID, "Client"),
		CompanyName:     c.CompanyName,
	}
}

// ClientLicenseExtendedEvent is raised after a successful remote license update
type ClientLicenseExtendedEvent struct {
	shared.BaseDomainEvent
	NewExpiry time.Time `json:"new_expiry"`
}

// NewClientLicenseExtendedEvent creates a new ClientLicenseExtendedEvent
func NewClientLicenseExtendedEvent(c *Client, newExpiry time.Time) *ClientLicenseExtendedEvent {
	return &ClientLicenseExtendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientLicenseExtended, c.ID, "Client"),
		NewExpiry:       newExpiry,
	}
}
