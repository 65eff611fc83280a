package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// ReviewerSecret signs reviewer bearer tokens. Empty leaves reviewer endpoints open.
	ReviewerSecret []byte

	// Conversation endpoints
	ChatHandler           gin.HandlerFunc
	AvailableSlotsHandler gin.HandlerFunc

	// Reviewer endpoints
	ConfirmAppointmentHandler   gin.HandlerFunc
	PendingConfirmationsHandler gin.HandlerFunc
	DecisionHistoryHandler      gin.HandlerFunc
}

// NewHandlerBundle wires the assistant handlers into a bundle.
func NewHandlerBundle(ah *AssistantHandler, reviewerSecret []byte) *HandlerBundle {
	return &HandlerBundle{
		ReviewerSecret:              reviewerSecret,
		ChatHandler:                 ah.ChatHandler,
		AvailableSlotsHandler:       ah.AvailableSlotsHandler,
		ConfirmAppointmentHandler:   ah.ConfirmAppointmentHandler,
		PendingConfirmationsHandler: ah.PendingConfirmationsHandler,
		DecisionHistoryHandler:      ah.DecisionHistoryHandler,
	}
}
