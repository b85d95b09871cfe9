package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/identity"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"go.uber.org/zap"
)

// EmployeeService provides application-level employee operations
type EmployeeService struct {
	employeeRepo identity.EmployeeRepository
	audit        shared.AuditRecorder
	logger       *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo identity.EmployeeRepository, audit shared.AuditRecorder, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo, audit: audit, logger: logger}
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID          uuid.UUID  `json:"id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateEmployeeRequest represents a request to create an employee
type CreateEmployeeRequest struct {
	FullName string     `json:"full_name" binding:"required"`
	Email    string     `json:"email" binding:"required,email"`
	Phone    string     `json:"phone" binding:"omitempty,msisdn"`
	Role     string     `json:"role" binding:"required,oneof=DIRECTOR STAFF"`
	Password string     `json:"password" binding:"required,min=8"`
	ActorID  *uuid.UUID `json:"-"`
}

// UpdateEmployeeRequest represents a request to update an employee's profile
type UpdateEmployeeRequest struct {
	FullName string     `json:"full_name" binding:"required"`
	Phone    string     `json:"phone" binding:"omitempty,msisdn"`
	Role     string     `json:"role" binding:"required,oneof=DIRECTOR STAFF"`
	ActorID  *uuid.UUID `json:"-"`
}

// CreateEmployee creates a new active employee
func (s *EmployeeService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	existing, err := s.employeeRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An employee with this email already exists")
	}

	employee, err := identity.NewEmployee(req.FullName, req.Email, req.Phone, identity.Role(req.Role), req.Password)
	if err != nil {
		return nil, err
	}
	if req.ActorID != nil {
		employee.SetCreatedBy(*req.ActorID)
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "employee.created", employee, req.ActorID)

	return toEmployeeResponse(employee), nil
}

// GetEmployeeByID gets an employee by ID
func (s *EmployeeService) GetEmployeeByID(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.findEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(employee), nil
}

// ListEmployees lists employees with pagination
func (s *EmployeeService) ListEmployees(ctx context.Context, filter shared.Filter) (*shared.Paginated[*EmployeeResponse], error) {
	page, err := s.employeeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*EmployeeResponse, 0, len(page.Items))
	for _, employee := range page.Items {
		items = append(items, toEmployeeResponse(employee))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// UpdateEmployee updates an employee's profile
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.findEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := employee.Update(req.FullName, req.Phone, identity.Role(req.Role)); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "employee.updated", employee, req.ActorID)

	return toEmployeeResponse(employee), nil
}

// DeactivateEmployee marks an employee inactive
func (s *EmployeeService) DeactivateEmployee(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.findEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	employee.Deactivate()
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "employee.deactivated", employee, actorID)

	return toEmployeeResponse(employee), nil
}

func (s *EmployeeService) findEmployee(ctx context.Context, id uuid.UUID) (*identity.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Employee not found")
	}
	return employee, nil
}

func (s *EmployeeService) recordAudit(ctx context.Context, action string, employee *identity.Employee, actorID *uuid.UUID) {
	entry := shared.NewAuditEntry(action, "Employee", employee.ID)
	if actorID != nil {
		entry = entry.WithActor(*actorID)
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func toEmployeeResponse(employee *identity.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:          employee.ID,
		FullName:    employee.FullName,
		Email:       employee.Email,
		Phone:       employee.Phone,
		Role:        string(employee.Role),
		Status:      string(employee.Status),
		LastLoginAt: employee.LastLoginAt,
		CreatedAt:   employee.CreatedAt,
		UpdatedAt:   employee.UpdatedAt,
	}
}
