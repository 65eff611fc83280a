package models

import "time"

// PendingConfirmation is an available appointment awaiting a reviewer decision.
// CalendarEventID and RecordAppended track which writes already succeeded so a
// retried approval only repeats the failed one.
type PendingConfirmation struct {
	ID              string      `json:"confirmation_id"`
	UserID          string      `json:"user_id"`
	Appointment     Appointment `json:"appointment_info"`
	CreatedAt       time.Time   `json:"created_at"`
	CalendarEventID string      `json:"calendar_event_id,omitempty"`
	RecordAppended  bool        `json:"record_appended,omitempty"`
}

// ConfirmationResult is returned for a reviewer decision.
type ConfirmationResult struct {
	Message         string            `json:"message"`
	Status          Status            `json:"status"`
	AppointmentInfo *AppointmentDraft `json:"appointment_info,omitempty"`
}
