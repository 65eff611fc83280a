package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"appointly/models"
	"appointly/services/calendar"
)

var errBackendDown = errors.New("backend down")

type fakeCalendar struct {
	mu       sync.Mutex
	events   []calendar.Event
	inserted []calendar.Event
	id       string
	err      error
}

func (f *fakeCalendar) ListEvents(_ context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []calendar.Event
	for _, ev := range f.events {
		if ev.Overlaps(timeMin, timeMax) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeCalendar) InsertEvent(_ context.Context, ev calendar.Event) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.inserted = append(f.inserted, ev)
	return f.id, nil
}

type fakeSheet struct {
	mu   sync.Mutex
	rows [][]interface{}
	err  error
}

func (f *fakeSheet) AppendRow(_ context.Context, values []interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, values)
	return nil
}

type fakeExtractor struct {
	draft models.AppointmentDraft
	err   error
}

func (f *fakeExtractor) Extract(context.Context, string, []string) (models.AppointmentDraft, error) {
	return f.draft, f.err
}

type fakeFollowUp struct {
	calls   int
	missing []string
}

func (f *fakeFollowUp) AskForMissing(_ context.Context, _ string, _ models.AppointmentDraft, missing []string) string {
	f.calls++
	f.missing = missing
	return "Could you share your details?"
}

type fakeChecker struct {
	available bool
	slots     []string
	checks    int
	enumerate int
}

func (f *fakeChecker) CheckAvailability(context.Context, string, string, int) calendar.Availability {
	f.checks++
	if f.available {
		return calendar.Availability{Available: true, Conflicts: []string{}}
	}
	return calendar.Availability{Conflicts: []string{"Busy"}}
}

func (f *fakeChecker) EnumerateSlots(context.Context, string, int) []string {
	f.enumerate++
	return f.slots
}

type fakeWriter struct {
	eventOK     bool
	recordOK    bool
	eventCalls  int
	recordCalls int
}

func (f *fakeWriter) CreateEvent(context.Context, models.Appointment) (string, bool) {
	f.eventCalls++
	if !f.eventOK {
		return "", false
	}
	return "evt-1", true
}

func (f *fakeWriter) AppendRecord(context.Context, models.Appointment) bool {
	f.recordCalls++
	return f.recordOK
}

type fakeDecisions struct {
	records []models.DecisionRecord
	err     error
}

func (f *fakeDecisions) Create(_ context.Context, rec models.DecisionRecord) (string, error) {
	f.records = append(f.records, rec)
	return "rec", f.err
}

func (f *fakeDecisions) GetByConfirmationID(_ context.Context, id string) ([]models.DecisionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.DecisionRecord
	for _, rec := range f.records {
		if rec.ConfirmationID == id {
			out = append(out, rec)
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func completeDraft() models.AppointmentDraft {
	return models.AppointmentDraft{
		Name:    strPtr("Jane Doe"),
		Phone:   strPtr("555-0100"),
		Email:   strPtr("jane@example.com"),
		Date:    strPtr("2025-03-10"),
		Time:    strPtr("14:00"),
		Service: strPtr("Haircut"),
	}
}
