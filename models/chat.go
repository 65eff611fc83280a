package models

// Status is the conversation state reported to the client.
type Status string

const (
	StatusCollectingInfo         Status = "collecting_info"
	StatusPendingConfirmation    Status = "pending_confirmation"
	StatusSuggestingAlternatives Status = "suggesting_alternatives"
	StatusNoAvailability         Status = "no_availability"
	StatusConfirmed              Status = "confirmed"
	StatusDenied                 Status = "denied"
	StatusError                  Status = "error"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string   `json:"message"`
	UserID  string   `json:"user_id"`
	History []string `json:"history"`
}

// ChatResponse is the orchestrator result for one incoming message.
type ChatResponse struct {
	Message         string            `json:"message"`
	Status          Status            `json:"status"`
	ConfirmationID  string            `json:"confirmation_id,omitempty"`
	AppointmentInfo *AppointmentDraft `json:"appointment_info,omitempty"`
	AvailableSlots  []string          `json:"available_slots,omitempty"`
	MissingFields   []string          `json:"missing_fields,omitempty"`
}

// ConfirmRequest is the body of POST /confirm_appointment.
type ConfirmRequest struct {
	ConfirmationID string `json:"confirmation_id"`
	Approved       bool   `json:"approved"`
	Notes          string `json:"notes"`
}

// AvailableSlotsResponse is returned by GET /available_slots/:date.
type AvailableSlotsResponse struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
}
