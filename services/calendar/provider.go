package calendar

import (
	"context"
	"time"
)

// Event is a calendar entry in the shape the booking flow needs.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string
}

// Overlaps reports whether the event intersects [start, end).
func (e Event) Overlaps(start, end time.Time) bool {
	return start.Before(e.End) && end.After(e.Start)
}

// Provider is the calendar API surface used for availability and booking.
type Provider interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error)
	InsertEvent(ctx context.Context, event Event) (string, error)
}
