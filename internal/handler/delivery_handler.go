package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/engine"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/errors"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

// DeliveryHandler exposes the host's delivery callbacks over HTTP: the host
// asks for a presentation decision before showing a notification and reports
// back when the user taps one.
type DeliveryHandler struct {
	engines *engine.Manager
	log     *logger.Logger
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(engines *engine.Manager, log *logger.Logger) *DeliveryHandler {
	return &DeliveryHandler{engines: engines, log: log}
}

// WillPresent returns the presentation decision for a notification about to
// be shown
func (h *DeliveryHandler) WillPresent(c *gin.Context) {
	userID := c.Param("user_id")

	var p domain.PendingNotification
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	eng := h.engines.Engine(c.Request.Context(), userID)
	decision := eng.Gate.OnWillPresent(c.Request.Context(), p)

	c.JSON(http.StatusOK, gin.H{"data": decision})
}

// Opened records a notification tap
func (h *DeliveryHandler) Opened(c *gin.Context) {
	userID := c.Param("user_id")

	var p domain.PendingNotification
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	eng := h.engines.Engine(c.Request.Context(), userID)
	eng.Gate.OnOpened(c.Request.Context(), p)

	c.JSON(http.StatusOK, gin.H{"message": "Open recorded"})
}
