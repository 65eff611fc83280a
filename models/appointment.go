package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	DefaultDurationMinutes = 60
	// MaxDurationMinutes is the 09:00-17:00 business window.
	MaxDurationMinutes = 8 * 60
)

// RequiredFields are the fields a draft must carry before availability is checked.
var RequiredFields = []string{"name", "phone", "date", "time", "service"}

// AppointmentDraft is what the extractor could read from the conversation.
// Every field is optional until Validate succeeds.
type AppointmentDraft struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Service  *string `json:"service"`
	Duration *int    `json:"duration"`
	Notes    *string `json:"notes"`
}

// Appointment is a draft that passed completeness validation.
type Appointment struct {
	Name     string `json:"name" bson:"name"`
	Phone    string `json:"phone" bson:"phone"`
	Email    string `json:"email" bson:"email"`
	Date     string `json:"date" bson:"date"`
	Time     string `json:"time" bson:"time"`
	Service  string `json:"service" bson:"service"`
	Duration int    `json:"duration" bson:"duration"`
	Notes    string `json:"notes" bson:"notes"`
}

// MissingFields lists required fields that are absent, blank or unparsable, in RequiredFields order,
// followed by "duration" when the requested duration is longer than a business day.
func (d AppointmentDraft) MissingFields() []string {
	var missing []string
	for _, field := range RequiredFields {
		var ok bool
		switch field {
		case "name":
			ok = present(d.Name)
		case "phone":
			ok = present(d.Phone)
		case "service":
			ok = present(d.Service)
		case "date":
			ok = present(d.Date) && validLayout(DateLayout, *d.Date)
		case "time":
			ok = present(d.Time) && validLayout(TimeLayout, *d.Time)
		}
		if !ok {
			missing = append(missing, field)
		}
	}
	if d.Duration != nil && *d.Duration > MaxDurationMinutes {
		missing = append(missing, "duration")
	}
	return missing
}

// Validate promotes the draft to an Appointment, or returns the missing fields.
func (d AppointmentDraft) Validate() (*Appointment, []string) {
	if missing := d.MissingFields(); len(missing) > 0 {
		return nil, missing
	}

	duration := DefaultDurationMinutes
	if d.Duration != nil && *d.Duration > 0 {
		duration = *d.Duration
	}

	return &Appointment{
		Name:     strings.TrimSpace(*d.Name),
		Phone:    strings.TrimSpace(*d.Phone),
		Email:    value(d.Email),
		Date:     strings.TrimSpace(*d.Date),
		Time:     strings.TrimSpace(*d.Time),
		Service:  strings.TrimSpace(*d.Service),
		Duration: duration,
		Notes:    value(d.Notes),
	}, nil
}

// Draft converts the appointment back to its wire shape.
func (a Appointment) Draft() *AppointmentDraft {
	duration := a.Duration
	return &AppointmentDraft{
		Name:     &a.Name,
		Phone:    &a.Phone,
		Email:    &a.Email,
		Date:     &a.Date,
		Time:     &a.Time,
		Service:  &a.Service,
		Duration: &duration,
		Notes:    &a.Notes,
	}
}

// ValidDuration reports whether minutes fits in one business day.
func ValidDuration(minutes int) bool {
	return minutes > 0 && minutes <= MaxDurationMinutes
}

// Window returns [start, end) of the appointment in loc.
func (a Appointment) Window(loc *time.Location) (time.Time, time.Time, error) {
	if !ValidDuration(a.Duration) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid appointment duration %d", a.Duration)
	}
	start, err := time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid appointment start %q %q: %w", a.Date, a.Time, err)
	}
	return start, start.Add(time.Duration(a.Duration) * time.Minute), nil
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func validLayout(layout, s string) bool {
	_, err := time.Parse(layout, strings.TrimSpace(s))
	return err == nil
}
