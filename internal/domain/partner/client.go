package partner

import (
	"strings"
	"time"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
)

// ClientStatus represents the status of a client record
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "ACTIVE"
	ClientStatusInactive ClientStatus = "INACTIVE"
)

// IsValid checks if the status is a valid ClientStatus
func (s ClientStatus) IsValid() bool {
	return s == ClientStatusActive || s == ClientStatusInactive
}

// LicenseCredentials holds the connection details for a client's own
// deployed backend, used to push license expiry updates remotely.
type LicenseCredentials struct {
	BackendBaseURL string
	APIUserName    string
	APIPassword    string
}

// IsConfigured returns true when all three credential fields are present
func (c LicenseCredentials) IsConfigured() bool {
	return c.BackendBaseURL != "" && c.APIUserName != "" && c.APIPassword != ""
}

// Client represents a customer of the company: the organization whose
// software deployments are serviced and billed.
type Client struct {
	shared.BaseAggregateRoot
	CompanyName       string       `json:"company_name"`
	ContactPerson     string       `json:"contact_person"`
	Phone             string       `json:"phone"`
	AlternatePhone    string       `json:"alternate_phone"`
	Email             string       `json:"email"`
	PhysicalAddress   string       `json:"physical_address"`
	BackendBaseURL    string       `json:"backend_base_url"`
	APIUserName       string       `json:"api_user_name"`
	APIPassword       string       `json:"-"`
	LicenseExpiryDate *time.Time   `json:"license_expiry_date"`
	Status            ClientStatus `json:"status"`
	Notes             string       `json:"notes"`
}

// NewClient creates a new client record
func NewClient(companyName, contactPerson, phone, email string) (*Client, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if len(companyName) > 200 {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}

	c := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyName:       companyName,
		ContactPerson:     contactPerson,
		Phone:             phone,
		Email:             email,
		Status:            ClientStatusActive,
	}

	c.AddDomainEvent(NewClientCreatedEvent(c))

	return c, nil
}

// Update replaces the mutable contact fields
func (c *Client) Update(companyName, contactPerson, phone, alternatePhone, email, address string) error {
	if strings.TrimSpace(companyName) == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}

	c.CompanyName = companyName
	c.ContactPerson = contactPerson
	c.Phone = phone
	c.AlternatePhone = alternatePhone
	c.Email = email
	c.PhysicalAddress = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetLicenseCredentials sets the client's remote backend credentials
func (c *Client) SetLicenseCredentials(baseURL, userName, password string) {
	c.BackendBaseURL = baseURL
	c.APIUserName = userName
	c.APIPassword = password
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// LicenseCredentials returns the remote backend credentials, or
// ErrLicenseNotConfigured if any of the three fields is missing.
func (c *Client) LicenseCredentials() (LicenseCredentials, error) {
	creds := LicenseCredentials{
		BackendBaseURL: c.BackendBaseURL,
		APIUserName:    c.APIUserName,
		APIPassword:    c.APIPassword,
	}
	if !creds.IsConfigured() {
		return LicenseCredentials{}, shared.ErrLicenseNotConfigured
	}
	return creds, nil
}

// RecordLicenseExpiry stores the expiry date last pushed to the client's backend
func (c *Client) RecordLicenseExpiry(expiry time.Time) {
	c.LicenseExpiryDate = &expiry
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewClientLicenseExtendedEvent(c, expiry))
}

// Deactivate marks the client inactive
func (c *Client) Deactivate() {
	c.Status = ClientStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate marks the client active
func (c *Client) Activate() {
	c.Status = ClientStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsActive returns true if the client is active
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}

// DisplayName returns the contact person when set, else the company name
func (c *Client) DisplayName() string {
	if strings.TrimSpace(c.ContactPerson) != "" {
		return c.ContactPerson
	}
	return c.CompanyName
}

// PreferredMobile resolves the client's reachable SMS number: the primary
// phone first, then the alternate, normalized to 254XXXXXXXXX. Returns
// ("", false) when neither normalizes.
func (c *Client) PreferredMobile() (string, bool) {
	if mobile, ok := valueobject.NormalizeMobile(c.Phone); ok {
		return mobile, true
	}
	return valueobject.NormalizeMobile(c.AlternatePhone)
}
