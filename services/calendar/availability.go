package calendar

import (
	"context"
	"fmt"
	"time"

	"appointly/models"

	"go.uber.org/zap"
)

// Business window for slot enumeration. Not configurable.
const (
	businessOpenHour  = 9
	businessCloseHour = 17
	slotStep          = 30 * time.Minute

	// MaxAlternatives caps the alternatives offered for a conflicting request.
	MaxAlternatives = 5
)

// Availability is the outcome of a single-slot check. Error is set when the
// lookup failed; Available is then always false.
type Availability struct {
	Available bool     `json:"available"`
	Conflicts []string `json:"conflicts"`
	Error     string   `json:"error,omitempty"`
}

// AvailabilityChecker answers slot questions against a calendar Provider.
type AvailabilityChecker struct {
	provider Provider
	loc      *time.Location
	timeout  time.Duration
	logger   *zap.Logger
}

func NewAvailabilityChecker(provider Provider, loc *time.Location, timeout time.Duration, logger *zap.Logger) *AvailabilityChecker {
	return &AvailabilityChecker{provider: provider, loc: loc, timeout: timeout, logger: logger}
}

// CheckAvailability reports whether [date time, +duration) is free. Lookup errors fail closed.
func (a *AvailabilityChecker) CheckAvailability(ctx context.Context, date, clock string, duration int) Availability {
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, a.loc)
	if err != nil {
		return Availability{Available: false, Conflicts: []string{}, Error: fmt.Sprintf("invalid date or time: %v", err)}
	}
	if !models.ValidDuration(duration) {
		return Availability{Available: false, Conflicts: []string{}, Error: fmt.Sprintf("invalid duration: %d minutes", duration)}
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	events, err := a.list(ctx, start, end)
	if err != nil {
		a.logger.Error("Calendar check failed", zap.String("date", date), zap.String("time", clock), zap.Error(err))
		return Availability{Available: false, Conflicts: []string{}, Error: err.Error()}
	}

	conflicts := []string{}
	for _, ev := range events {
		if !ev.Overlaps(start, end) {
			continue
		}
		title := ev.Summary
		if title == "" {
			title = "Busy"
		}
		conflicts = append(conflicts, title)
	}
	return Availability{Available: len(conflicts) == 0, Conflicts: conflicts}
}

// EnumerateSlots lists HH:MM start times in the business window, stepped every 30 minutes,
// whose [start, start+duration) is free and ends by closing time. Lookup errors yield an empty list.
func (a *AvailabilityChecker) EnumerateSlots(ctx context.Context, date string, duration int) []string {
	day, err := time.ParseInLocation("2006-01-02", date, a.loc)
	if err != nil {
		a.logger.Warn("Invalid date for slot enumeration", zap.String("date", date), zap.Error(err))
		return []string{}
	}
	if !models.ValidDuration(duration) {
		return []string{}
	}
	open := time.Date(day.Year(), day.Month(), day.Day(), businessOpenHour, 0, 0, 0, a.loc)
	closing := time.Date(day.Year(), day.Month(), day.Day(), businessCloseHour, 0, 0, 0, a.loc)

	events, err := a.list(ctx, open, closing)
	if err != nil {
		a.logger.Error("Error getting available slots", zap.String("date", date), zap.Error(err))
		return []string{}
	}

	return FreeSlots(open, closing, time.Duration(duration)*time.Minute, events)
}

// FreeSlots steps from open to closing and keeps starts whose slot fits and overlaps no event.
func FreeSlots(open, closing time.Time, length time.Duration, events []Event) []string {
	slots := []string{}
	if length <= 0 {
		return slots
	}
	for t := open; t.Before(closing); t = t.Add(slotStep) {
		slotEnd := t.Add(length)
		if slotEnd.After(closing) {
			break
		}
		free := true
		for _, ev := range events {
			if ev.Overlaps(t, slotEnd) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, t.Format("15:04"))
		}
	}
	return slots
}

func (a *AvailabilityChecker) list(ctx context.Context, start, end time.Time) ([]Event, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.provider.ListEvents(ctx, start, end)
}
