package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/identity"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"go.uber.org/zap"
)

// TokenIssuer issues and validates token pairs for authenticated employees.
type TokenIssuer interface {
	IssueTokenPair(employeeID uuid.UUID, email string, role string) (*TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
}

// TokenPair holds an access token and its paired refresh token
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// AuthService handles employee authentication
type AuthService struct {
	employeeRepo identity.EmployeeRepository
	tokens       TokenIssuer
	audit        shared.AuditRecorder
	logger       *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(employeeRepo identity.EmployeeRepository, tokens TokenIssuer, audit shared.AuditRecorder, logger *zap.Logger) *AuthService {
	return &AuthService{employeeRepo: employeeRepo, tokens: tokens, audit: audit, logger: logger}
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued tokens and the authenticated employee
type LoginResponse struct {
	Tokens   *TokenPair        `json:"tokens"`
	Employee *EmployeeResponse `json:"employee"`
}

// RefreshRequest represents a token refresh attempt
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login authenticates an employee by email and password.
// Invalid email, wrong password and inactive accounts all return the same
// error so the response does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	employee, err := s.employeeRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if employee == nil || !employee.IsActive() || !employee.CheckPassword(req.Password) {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	}

	tokens, err := s.tokens.IssueTokenPair(employee.ID, employee.Email, string(employee.Role))
	if err != nil {
		return nil, err
	}

	employee.RecordLogin()
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		s.logger.Warn("recording last login failed", zap.String("employee_id", employee.ID.String()), zap.Error(err))
	}

	entry := shared.NewAuditEntry("employee.logged_in", "Employee", employee.ID).WithActor(employee.ID)
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", "employee.logged_in"), zap.Error(err))
	}

	return &LoginResponse{Tokens: tokens, Employee: toEmployeeResponse(employee)}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error) {
	employeeID, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid or expired refresh token")
	}

	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil || !employee.IsActive() {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid or expired refresh token")
	}

	return s.tokens.IssueTokenPair(employee.ID, employee.Email, string(employee.Role))
}

// ChangePassword changes an employee's password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, employeeID uuid.UUID, currentPassword, newPassword string) error {
	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if employee == nil {
		return shared.NewDomainError("NOT_FOUND", "Employee not found")
	}
	if !employee.CheckPassword(currentPassword) {
		return shared.NewDomainError("UNAUTHORIZED", "Current password is incorrect")
	}

	if err := employee.ChangePassword(newPassword); err != nil {
		return err
	}
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return err
	}

	entry := shared.NewAuditEntry("employee.password_changed", "Employee", employee.ID).WithActor(employee.ID)
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", "employee.password_changed"), zap.Error(err))
	}
	return nil
}
