package models

import (
	"time"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/partner"
)

// ClientModel is the persistence model for the Client aggregate root.
type ClientModel struct {
	AggregateModel
	CompanyName       string               `gorm:"type:varchar(200);not null;index"`
	ContactPerson     string               `gorm:"type:varchar(200)"`
	Phone             string               `gorm:"type:varchar(30)"`
	AlternatePhone    string               `gorm:"type:varchar(30)"`
	Email             string               `gorm:"type:varchar(200)"`
	PhysicalAddress   string               `gorm:"type:text"`
	BackendBaseURL    string               `gorm:"type:varchar(500)"`
	APIUserName       string               `gorm:"type:varchar(200)"`
	APIPassword       string               `gorm:"type:varchar(500)"`
	LicenseExpiryDate *time.Time           `gorm:"index"`
	Status            partner.ClientStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Notes             string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CompanyName:       m.CompanyName,
		ContactPerson:     m.ContactPerson,
		Phone:             m.Phone,
		AlternatePhone:    m.AlternatePhone,
		Email:             m.Email,
		PhysicalAddress:   m.PhysicalAddress,
		BackendBaseURL:    m.BackendBaseURL,
		APIUserName:       m.APIUserName,
		APIPassword:       m.APIPassword,
		LicenseExpiryDate: m.LicenseExpiryDate,
		Status:            m.Status,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CompanyName = c.CompanyName
	m.ContactPerson = c.ContactPerson
	m.Phone = c.Phone
	m.AlternatePhone = c.AlternatePhone
	m.Email = c.Email
	m.PhysicalAddress = c.PhysicalAddress
	m.BackendBaseURL = c.BackendBaseURL
	m.APIUserName = c.APIUserName
	m.APIPassword = c.APIPassword
	m.LicenseExpiryDate = c.LicenseExpiryDate
	m.Status = c.Status
	m.Notes = c.Notes
}

// ClientModelFromDomain creates a new persistence model from a domain Client.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
