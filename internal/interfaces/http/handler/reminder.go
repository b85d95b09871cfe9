package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/scheduler"
	"github.com/ndutagrace25/esperanza-internal/internal/interfaces/http/dto"
	"github.com/ndutagrace25/esperanza-internal/internal/interfaces/http/middleware"
)

// ReminderHandler exposes manual controls for the reminder scheduler
type ReminderHandler struct {
	BaseHandler
	scheduler *scheduler.ReminderScheduler
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(sched *scheduler.ReminderScheduler) *ReminderHandler {
	return &ReminderHandler{scheduler: sched}
}

// RunMonthly triggers the monthly renewal reminder batch immediately.
// The batch runs in the background; the response only confirms dispatch.
func (h *ReminderHandler) RunMonthly(c *gin.Context) {
	if err := h.scheduler.TriggerMonthlyRun(); err != nil {
		h.handleSchedulerError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(gin.H{"status": "monthly run started"}))
}

// RunExtension triggers the extension-due reminder batch immediately
func (h *ReminderHandler) RunExtension(c *gin.Context) {
	if err := h.scheduler.TriggerExtensionRun(); err != nil {
		h.handleSchedulerError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(gin.H{"status": "extension run started"}))
}

// Status reports the scheduler's configuration and last run times
func (h *ReminderHandler) Status(c *gin.Context) {
	h.Success(c, h.scheduler.Status())
}

func (h *ReminderHandler) handleSchedulerError(c *gin.Context, err error) {
	if errors.Is(err, scheduler.ErrSchedulerNotRunning) {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
			"SCHEDULER_NOT_RUNNING", "The reminder scheduler is not running", middleware.GetRequestID(c)))
		return
	}
	h.HandleError(c, err)
}

// RegisterRoutes registers reminder control routes, restricted to directors
func (h *ReminderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reminders := rg.Group("/reminders", middleware.RequireDirector())
	{
		reminders.POST("/run-monthly", h.RunMonthly)
		reminders.POST("/run-extension", h.RunExtension)
		reminders.GET("/status", h.Status)
	}
}
