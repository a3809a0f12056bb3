package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/engine"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/errors"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

// ScheduleHandler handles reminder scheduling and cancellation requests
type ScheduleHandler struct {
	engines *engine.Manager
	log     *logger.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(engines *engine.Manager, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{engines: engines, log: log}
}

// ScheduleDailyReminder (re)creates the recurring daily reminder
func (h *ScheduleHandler) ScheduleDailyReminder(c *gin.Context) {
	userID := c.Param("user_id")

	var req domain.ScheduleDailyReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	eng := h.engines.Engine(c.Request.Context(), userID)
	if err := eng.Scheduler.ScheduleDailyReminder(c.Request.Context(), req.TargetCount); err != nil {
		h.log.Error("Failed to schedule daily reminder", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to schedule daily reminder", err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Daily reminder updated"})
}

// ScheduleLeadReminder schedules a one-off reminder before a lead's due time
func (h *ScheduleHandler) ScheduleLeadReminder(c *gin.Context) {
	userID := c.Param("user_id")

	var req domain.ScheduleLeadReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	eng := h.engines.Engine(c.Request.Context(), userID)
	if err := eng.Scheduler.ScheduleLeadReminder(c.Request.Context(), req.LeadName, req.LeadID, req.DueAt); err != nil {
		h.log.Error("Failed to schedule lead reminder", "error", err, "user_id", userID, "lead_id", req.LeadID)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to schedule lead reminder", err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Lead reminder scheduled"})
}

// SendImmediate fires a notification right away
func (h *ScheduleHandler) SendImmediate(c *gin.Context) {
	userID := c.Param("user_id")

	var req domain.SendImmediateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	eng := h.engines.Engine(c.Request.Context(), userID)
	if err := eng.Scheduler.SendImmediate(c.Request.Context(), req.Title, req.Body, req.Data); err != nil {
		h.log.Error("Failed to send immediate notification", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to send notification", err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Notification sent"})
}

// CancelCategory cancels every app-owned reminder in one category
func (h *ScheduleHandler) CancelCategory(c *gin.Context) {
	userID := c.Param("user_id")

	category := domain.Category(c.Param("category"))
	switch category {
	case domain.CategoryDailyReminder, domain.CategoryLeadReminder, domain.CategoryImmediate:
	default:
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Unknown category", nil))
		return
	}

	eng := h.engines.Engine(c.Request.Context(), userID)
	if err := eng.Scheduler.CancelByCategory(c.Request.Context(), category); err != nil {
		h.log.Error("Failed to cancel category", "error", err, "user_id", userID, "category", category)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to cancel reminders", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminders cancelled", "category": category})
}

// CancelAll cancels every app-owned reminder for the user
func (h *ScheduleHandler) CancelAll(c *gin.Context) {
	userID := c.Param("user_id")

	eng := h.engines.Engine(c.Request.Context(), userID)
	if err := eng.Scheduler.CancelAll(c.Request.Context()); err != nil {
		h.log.Error("Failed to cancel all reminders", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to cancel reminders", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All reminders cancelled"})
}

// GetOwnedReminders lists the app-owned notification IDs
func (h *ScheduleHandler) GetOwnedReminders(c *gin.Context) {
	userID := c.Param("user_id")

	eng := h.engines.Engine(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"data": eng.Registry.All()})
}
