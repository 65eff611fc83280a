package booking

import (
	"context"
	"fmt"
	"time"

	"appointly/models"
	"appointly/services/calendar"
	"appointly/services/sheets"

	"go.uber.org/zap"
)

const (
	recordTimestampLayout = "2006-01-02 15:04:05"
	recordStatusConfirmed = "Confirmed"
)

// Writer commits an approved appointment to the calendar and the record sheet.
// The two writes are independent and never rolled back.
type Writer struct {
	Calendar calendar.Provider
	Sheet    sheets.RowAppender
	Location *time.Location
	Timeout  time.Duration
	Logger   *zap.Logger

	now func() time.Time
}

func NewWriter(provider calendar.Provider, sheet sheets.RowAppender, loc *time.Location, timeout time.Duration, logger *zap.Logger) *Writer {
	return &Writer{
		Calendar: provider,
		Sheet:    sheet,
		Location: loc,
		Timeout:  timeout,
		Logger:   logger,
		now:      time.Now,
	}
}

// CreateEvent inserts the appointment into the calendar and reports the new event id.
func (w *Writer) CreateEvent(ctx context.Context, appt models.Appointment) (string, bool) {
	start, end, err := appt.Window(w.Location)
	if err != nil {
		w.Logger.Error("Invalid appointment window", zap.String("date", appt.Date), zap.String("time", appt.Time), zap.Error(err))
		return "", false
	}

	event := calendar.Event{
		Summary:     fmt.Sprintf("%s - %s", appt.Service, appt.Name),
		Description: fmt.Sprintf("Customer: %s\nPhone: %s\nEmail: %s\nNotes: %s", appt.Name, appt.Phone, appt.Email, appt.Notes),
		Start:       start,
		End:         end,
		TimeZone:    w.Location.String(),
	}
	if appt.Email != "" {
		event.Attendees = []string{appt.Email}
	}

	ctx, cancel := w.bounded(ctx)
	defer cancel()

	id, err := w.Calendar.InsertEvent(ctx, event)
	if err != nil {
		w.Logger.Error("Failed to create calendar event", zap.String("summary", event.Summary), zap.Error(err))
		return "", false
	}
	if id == "" {
		// Created, but the provider returned no id; keep a marker so a retry skips it.
		id = "created"
	}
	w.Logger.Info("Calendar event created", zap.String("eventId", id), zap.String("summary", event.Summary))
	return id, true
}

// AppendRecord appends one row describing the confirmed appointment.
func (w *Writer) AppendRecord(ctx context.Context, appt models.Appointment) bool {
	now := time.Now
	if w.now != nil {
		now = w.now
	}
	row := []interface{}{
		now().In(w.Location).Format(recordTimestampLayout),
		appt.Name,
		appt.Phone,
		appt.Email,
		appt.Date,
		appt.Time,
		appt.Service,
		appt.Duration,
		appt.Notes,
		recordStatusConfirmed,
	}

	ctx, cancel := w.bounded(ctx)
	defer cancel()

	if err := w.Sheet.AppendRow(ctx, row); err != nil {
		w.Logger.Error("Failed to append appointment record", zap.String("name", appt.Name), zap.Error(err))
		return false
	}
	return true
}

func (w *Writer) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.Timeout)
}
