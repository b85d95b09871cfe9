package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/partner"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"go.uber.org/zap"
)

// ClientService provides application-level client operations
type ClientService struct {
	clientRepo partner.ClientRepository
	audit      shared.AuditRecorder
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository, audit shared.AuditRecorder, logger *zap.Logger) *ClientService {
	return &ClientService{clientRepo: clientRepo, audit: audit, logger: logger}
}

// SetEventPublisher sets the publisher for post-save domain events
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// ClientResponse represents a client in API responses.
// License credentials are never exposed; only a configured flag is.
type ClientResponse struct {
	ID                uuid.UUID  `json:"id"`
	CompanyName       string     `json:"company_name"`
	ContactPerson     string     `json:"contact_person,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	AlternatePhone    string     `json:"alternate_phone,omitempty"`
	Email             string     `json:"email,omitempty"`
	PhysicalAddress   string     `json:"physical_address,omitempty"`
	LicenseConfigured bool       `json:"license_configured"`
	LicenseExpiryDate *time.Time `json:"license_expiry_date,omitempty"`
	Status            string     `json:"status"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	CompanyName   string     `json:"company_name" binding:"required"`
	ContactPerson string     `json:"contact_person"`
	Phone         string     `json:"phone" binding:"omitempty,msisdn"`
	Email         string     `json:"email"`
	ActorID       *uuid.UUID `json:"-"`
}

// UpdateClientRequest represents a request to update a client's profile
type UpdateClientRequest struct {
	CompanyName     string     `json:"company_name" binding:"required"`
	ContactPerson   string     `json:"contact_person"`
	Phone           string     `json:"phone" binding:"omitempty,msisdn"`
	AlternatePhone  string     `json:"alternate_phone" binding:"omitempty,msisdn"`
	Email           string     `json:"email"`
	PhysicalAddress string     `json:"physical_address"`
	ActorID         *uuid.UUID `json:"-"`
}

// SetLicenseCredentialsRequest carries the client's remote backend credentials
type SetLicenseCredentialsRequest struct {
	BackendBaseURL string     `json:"backend_base_url" binding:"required,url"`
	APIUserName    string     `json:"api_user_name" binding:"required"`
	APIPassword    string     `json:"api_password" binding:"required"`
	ActorID        *uuid.UUID `json:"-"`
}

// CreateClient creates a new active client
func (s *ClientService) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(req.CompanyName, req.ContactPerson, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	if req.ActorID != nil {
		client.SetCreatedBy(*req.ActorID)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "client.created", client, req.ActorID)
	publishEvents(ctx, s.events, s.logger, client)

	return toClientResponse(client), nil
}

// GetClientByID gets a client by ID
func (s *ClientService) GetClientByID(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// ListClients lists clients with pagination
func (s *ClientService) ListClients(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ClientResponse], error) {
	page, err := s.clientRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*ClientResponse, 0, len(page.Items))
	for _, client := range page.Items {
		items = append(items, toClientResponse(client))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// UpdateClient updates a client's profile
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}

	err = client.Update(req.CompanyName, req.ContactPerson, req.Phone, req.AlternatePhone, req.Email, req.PhysicalAddress)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "client.updated", client, req.ActorID)
	publishEvents(ctx, s.events, s.logger, client)

	return toClientResponse(client), nil
}

// SetLicenseCredentials stores the client's remote backend credentials
func (s *ClientService) SetLicenseCredentials(ctx context.Context, id uuid.UUID, req SetLicenseCredentialsRequest) (*ClientResponse, error) {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}

	client.SetLicenseCredentials(req.BackendBaseURL, req.APIUserName, req.APIPassword)

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "client.license_credentials_set", client, req.ActorID)
	publishEvents(ctx, s.events, s.logger, client)

	return toClientResponse(client), nil
}

// DeactivateClient marks a client inactive
func (s *ClientService) DeactivateClient(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*ClientResponse, error) {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Deactivate()
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "client.deactivated", client, actorID)
	publishEvents(ctx, s.events, s.logger, client)

	return toClientResponse(client), nil
}

func (s *ClientService) findClient(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Client not found")
	}
	return client, nil
}

func (s *ClientService) recordAudit(ctx context.Context, action string, client *partner.Client, actorID *uuid.UUID) {
	entry := shared.NewAuditEntry(action, "Client", client.ID)
	if actorID != nil {
		entry = entry.WithActor(*actorID)
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func toClientResponse(client *partner.Client) *ClientResponse {
	_, credsErr := client.LicenseCredentials()
	return &ClientResponse{
		ID:                client.ID,
		CompanyName:       client.CompanyName,
		ContactPerson:     client.ContactPerson,
		Phone:             client.Phone,
		AlternatePhone:    client.AlternatePhone,
		Email:             client.Email,
		PhysicalAddress:   client.PhysicalAddress,
		LicenseConfigured: credsErr == nil,
		LicenseExpiryDate: client.LicenseExpiryDate,
		Status:            string(client.Status),
		Notes:             client.Notes,
		CreatedAt:         client.CreatedAt,
		UpdatedAt:         client.UpdatedAt,
	}
}
