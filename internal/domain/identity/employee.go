package identity

import (
	"strings"
	"time"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"golang.org/x/crypto/bcrypt"
)

// Role represents an employee's authorization level
type Role string

const (
	RoleDirector Role = "DIRECTOR" // approval and financial authority
	RoleStaff    Role = "STAFF"    // field and operational role
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	return r == RoleDirector || r == RoleStaff
}

// EmployeeStatus represents the status of an employee record
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "ACTIVE"
	EmployeeStatusInactive EmployeeStatus = "INACTIVE"
)

// Employee represents a member of staff who can log into the system
type Employee struct {
	shared.BaseAggregateRoot
	FullName     string         `json:"full_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Role         Role           `json:"role"`
	Status       EmployeeStatus `json:"status"`
	PasswordHash string         `json:"-"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
}

// NewEmployee creates a new employee with a bcrypt-hashed password
func NewEmployee(fullName, email, phone string, role Role, password string) (*Employee, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if strings.TrimSpace(email) == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Employee email cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be DIRECTOR or STAFF")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Employee{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          fullName,
		Email:             strings.ToLower(email),
		Phone:             phone,
		Role:              role,
		Status:            EmployeeStatusActive,
		PasswordHash:      string(hash),
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (e *Employee) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored password hash
func (e *Employee) ChangePassword(newPassword string) error {
	if len(newPassword) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.PasswordHash = string(hash)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// Update replaces the mutable profile fields
func (e *Employee) Update(fullName, phone string, role Role) error {
	if strings.TrimSpace(fullName) == "" {
		return shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be DIRECTOR or STAFF")
	}
	e.FullName = fullName
	e.Phone = phone
	e.Role = role
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// RecordLogin stores the last successful login time
func (e *Employee) RecordLogin() {
	now := time.Now()
	e.LastLoginAt = &now
}

// Deactivate marks the employee inactive; inactive employees cannot log in
// and are excluded from director notifications.
func (e *Employee) Deactivate() {
	e.Status = EmployeeStatusInactive
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// Activate marks the employee active
func (e *Employee) Activate() {
	e.Status = EmployeeStatusActive
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// IsActive returns true if the employee is active
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

// IsDirector returns true if the employee holds the DIRECTOR role
func (e *Employee) IsDirector() bool {
	return e.Role == RoleDirector
}

// Mobile returns the employee's phone normalized for SMS, or ("", false)
func (e *Employee) Mobile() (string, bool) {
	return valueobject.NormalizeMobile(e.Phone)
}
