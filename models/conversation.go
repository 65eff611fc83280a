package models

import "time"

// ConversationState is the per-user state written after each chat turn.
// Nothing in the booking flow reads it back yet.
type ConversationState struct {
	UserID         string            `json:"userId"`
	LastStatus     Status            `json:"lastStatus"`
	Draft          *AppointmentDraft `json:"draft,omitempty"`
	ConfirmationID string            `json:"confirmationId,omitempty"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}
