package models

import (
	"time"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/identity"
)

// EmployeeModel is the persistence model for the Employee aggregate root.
type EmployeeModel struct {
	AggregateModel
	FullName     string                  `gorm:"type:varchar(200);not null"`
	Email        string                  `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone        string                  `gorm:"type:varchar(30)"`
	Role         identity.Role           `gorm:"type:varchar(20);not null;index"`
	Status       identity.EmployeeStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	PasswordHash string                  `gorm:"type:varchar(200);not null"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee entity.
func (m *EmployeeModel) ToDomain() *identity.Employee {
	return &identity.Employee{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FullName:          m.FullName,
		Email:             m.Email,
		Phone:             m.Phone,
		Role:              m.Role,
		Status:            m.Status,
		PasswordHash:      m.PasswordHash,
		LastLoginAt:       m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain Employee entity.
func (m *EmployeeModel) FromDomain(e *identity.Employee) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.FullName = e.FullName
	m.Email = e.Email
	m.Phone = e.Phone
	m.Role = e.Role
	m.Status = e.Status
	m.PasswordHash = e.PasswordHash
	m.LastLoginAt = e.LastLoginAt
}

// EmployeeModelFromDomain creates a new persistence model from a domain Employee.
func EmployeeModelFromDomain(e *identity.Employee) *EmployeeModel {
	m := &EmployeeModel{}
	m.FromDomain(e)
	return m
}
