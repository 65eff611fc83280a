package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"appointly/models"
	"appointly/services/booking"
	"appointly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantHandler exposes the booking assistant over HTTP.
type AssistantHandler struct {
	Assistant booking.AssistantService
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(svc booking.AssistantService) *AssistantHandler {
	return &AssistantHandler{Assistant: svc}
}

// ChatHandler runs one conversation turn.
func (h *AssistantHandler) ChatHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	resp, err := h.Assistant.HandleMessage(c.Request.Context(), req)
	if err != nil {
		logger.Error("Chat turn failed", zap.String("userId", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{
			Message: "I'm sorry, I encountered an error. Please try again.",
			Status:  string(models.StatusError),
			Error:   "internal_error",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmAppointmentHandler records a reviewer decision.
func (h *AssistantHandler) ConfirmAppointmentHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid confirmation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := h.Assistant.ResolveConfirmation(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, booking.ErrConfirmationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Confirmation ID not found"})
	case errors.Is(err, booking.ErrConfirmationBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "Confirmation is already being processed"})
	case errors.Is(err, booking.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, result)
	case errors.Is(err, booking.ErrBookingWriteFailed):
		c.JSON(http.StatusInternalServerError, result)
	default:
		logger.Error("Confirmation failed", zap.String("confirmationId", req.ConfirmationID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ConfirmationResult{
			Message: "Error creating appointment",
			Status:  models.StatusError,
		})
	}
}

// AvailableSlotsHandler lists free start times for a date.
func (h *AssistantHandler) AvailableSlotsHandler(c *gin.Context) {
	date := c.Param("date")

	duration := models.DefaultDurationMinutes
	if raw := c.Query("duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "duration must be an integer number of minutes", "invalid_duration")
			return
		}
		duration = d
	}

	slots, err := h.Assistant.AvailableSlots(c.Request.Context(), date, duration)
	if err != nil {
		var reqErr *booking.RequestError
		if errors.As(err, &reqErr) {
			utils.JSONError(c, http.StatusBadRequest, reqErr.Error(), "invalid_"+reqErr.Field)
			return
		}
		utils.GetLogger().Error("Failed to list available slots", zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list available slots"})
		return
	}

	c.JSON(http.StatusOK, models.AvailableSlotsResponse{Date: date, AvailableSlots: slots})
}

// PendingConfirmationsHandler returns every appointment awaiting a decision.
func (h *AssistantHandler) PendingConfirmationsHandler(c *gin.Context) {
	pending, err := h.Assistant.PendingConfirmations(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to list pending confirmations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending confirmations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending_confirmations": pending})
}

// DecisionHistoryHandler returns the reviewer decisions logged for one confirmation.
func (h *AssistantHandler) DecisionHistoryHandler(c *gin.Context) {
	id := c.Param("confirmation_id")

	records, err := h.Assistant.DecisionHistory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrDecisionLogDisabled) {
			utils.JSONError(c, http.StatusServiceUnavailable, "Decision log is not enabled", "decision_log_disabled")
			return
		}
		zap.L().Error("Failed to load decision history", zap.String("confirmationId", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load decision history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmation_id": id, "decisions": records})
}
