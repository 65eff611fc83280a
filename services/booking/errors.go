package booking

import (
	"errors"
	"fmt"
)

var (
	ErrConfirmationNotFound = errors.New("confirmation ID not found")
	ErrConfirmationBusy     = errors.New("confirmation is already being resolved")
	ErrDuplicateID          = errors.New("confirmation ID already exists")
	ErrBookingWriteFailed   = errors.New("booking write failed")
	ErrSlotUnavailable      = errors.New("slot is no longer available")
	ErrDecisionLogDisabled  = errors.New("decision log is not configured")
)

// RequestError is a caller mistake, such as a malformed date.
type RequestError struct {
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewRequestError(field, msg string) error {
	return &RequestError{Field: field, Message: msg}
}
