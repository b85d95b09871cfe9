package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/ndutagrace25/esperanza-internal/internal/application/identity"
	"github.com/ndutagrace25/esperanza-internal/internal/interfaces/http/middleware"
)

// EmployeeHandler handles employee management endpoints.
// All employee management requires the DIRECTOR role.
type EmployeeHandler struct {
	BaseHandler
	employeeService *identityapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *identityapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create creates a new employee
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req identityapp.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, employee)
}

// GetByID retrieves an employee by ID
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	employee, err := h.employeeService.GetEmployeeByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// List returns a page of employees
func (h *EmployeeHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.employeeService.ListEmployees(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update updates an employee's profile
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	var req identityapp.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = getActorID(c)

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// Deactivate marks an employee inactive
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	employee, err := h.employeeService.DeactivateEmployee(c.Request.Context(), id, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// RegisterRoutes registers employee routes
func (h *EmployeeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	employees := rg.Group("/employees")
	employees.Use(middleware.RequireDirector())
	{
		employees.POST("", h.Create)
		employees.GET("", h.List)
		employees.GET("/:id", h.GetByID)
		employees.PUT("/:id", h.Update)
		employees.POST("/:id/deactivate", h.Deactivate)
	}
}
