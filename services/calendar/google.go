package calendar

import (
	"context"
	"fmt"
	"time"

	"appointly/metrics"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendar implements Provider on top of the Calendar v3 API.
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
	loc        *time.Location
}

// NewGoogleCalendar builds the service from opts, e.g. option.WithCredentialsFile.
// loc is used to interpret all-day events.
func NewGoogleCalendar(ctx context.Context, calendarID string, loc *time.Location, opts ...option.ClientOption) (*GoogleCalendar, error) {
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleCalendar{svc: svc, calendarID: calendarID, loc: loc}, nil
}

func (g *GoogleCalendar) ListEvents(ctx context.Context, timeMin, timeMax time.Time) (events []Event, err error) {
	defer func(start time.Time) { metrics.ObserveExternal("calendar.list", start, err) }(time.Now())

	call := g.svc.Events.List(g.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	err = call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			ev, err := g.fromAPI(item)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (g *GoogleCalendar) InsertEvent(ctx context.Context, event Event) (id string, err error) {
	defer func(start time.Time) { metrics.ObserveExternal("calendar.insert", start, err) }(time.Now())

	body := &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &gcal.EventDateTime{
			DateTime: event.Start.Format("2006-01-02T15:04:05"),
			TimeZone: event.TimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: event.End.Format("2006-01-02T15:04:05"),
			TimeZone: event.TimeZone,
		},
	}
	for _, email := range event.Attendees {
		body.Attendees = append(body.Attendees, &gcal.EventAttendee{Email: email})
	}

	created, err := g.svc.Events.Insert(g.calendarID, body).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return created.Id, nil
}

func (g *GoogleCalendar) fromAPI(item *gcal.Event) (Event, error) {
	start, err := g.parseEventTime(item.Start)
	if err != nil {
		return Event{}, fmt.Errorf("event %s start: %w", item.Id, err)
	}
	end, err := g.parseEventTime(item.End)
	if err != nil {
		return Event{}, fmt.Errorf("event %s end: %w", item.Id, err)
	}
	return Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Start:       start,
		End:         end,
	}, nil
}

// parseEventTime handles timed events (RFC3339) and all-day events (date only, midnight in g.loc).
func (g *GoogleCalendar) parseEventTime(dt *gcal.EventDateTime) (time.Time, error) {
	if dt == nil {
		return time.Time{}, fmt.Errorf("missing event time")
	}
	if dt.DateTime != "" {
		return time.Parse(time.RFC3339, dt.DateTime)
	}
	return time.ParseInLocation("2006-01-02", dt.Date, g.loc)
}
