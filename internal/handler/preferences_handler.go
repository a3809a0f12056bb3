package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/engine"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/errors"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

// PreferencesHandler handles notification preferences requests
type PreferencesHandler struct {
	engines *engine.Manager
	log     *logger.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(engines *engine.Manager, log *logger.Logger) *PreferencesHandler {
	return &PreferencesHandler{engines: engines, log: log}
}

// GetPreferences retrieves user notification preferences
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("user_id is required", nil))
		return
	}

	eng := h.engines.Engine(c.Request.Context(), userID)
	c.JSON(http.StatusOK, eng.Prefs.Get())
}

// UpdatePreferences applies a partial preferences update
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	userID := c.Param("user_id")

	var patch domain.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	eng := h.engines.Engine(c.Request.Context(), userID)
	merged, err := eng.Prefs.Update(c.Request.Context(), patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid preferences update", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Preferences updated successfully",
		"data":    merged,
	})
}

// ResetPreferences restores the hard-coded defaults
func (h *PreferencesHandler) ResetPreferences(c *gin.Context) {
	userID := c.Param("user_id")

	eng := h.engines.Engine(c.Request.Context(), userID)
	defaults := eng.Prefs.Reset(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Preferences reset to defaults",
		"data":    defaults,
	})
}

// ClearQuietHours removes the quiet-hours window
func (h *PreferencesHandler) ClearQuietHours(c *gin.Context) {
	userID := c.Param("user_id")

	eng := h.engines.Engine(c.Request.Context(), userID)
	merged, err := eng.Prefs.ClearQuietHours(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to clear quiet hours", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to clear quiet hours", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quiet hours cleared",
		"data":    merged,
	})
}
