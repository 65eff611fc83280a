package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestCalendar(t *testing.T, handler http.HandlerFunc) *GoogleCalendar {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cal, err := NewGoogleCalendar(context.Background(), "primary", time.UTC,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return cal
}

func TestGoogleCalendar_ListEvents(t *testing.T) {
	var query map[string][]string
	cal := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [
			{"id": "a", "summary": "Consultation - Jane", "start": {"dateTime": "2025-03-10T10:00:00Z"}, "end": {"dateTime": "2025-03-10T11:00:00Z"}},
			{"id": "b", "summary": "Holiday", "start": {"date": "2025-03-10"}, "end": {"date": "2025-03-11"}}
		]}`))
	})

	events, err := cal.ListEvents(context.Background(), at(9, 0), at(17, 0))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "Consultation - Jane", events[0].Summary)
	assert.True(t, events[0].Start.Equal(at(10, 0)))
	assert.True(t, events[0].End.Equal(at(11, 0)))
	assert.True(t, events[1].Overlaps(at(9, 0), at(17, 0)), "all-day events block the business day")

	assert.Equal(t, []string{"2025-03-10T09:00:00Z"}, query["timeMin"])
	assert.Equal(t, []string{"2025-03-10T17:00:00Z"}, query["timeMax"])
	assert.Equal(t, []string{"true"}, query["singleEvents"])
	assert.Equal(t, []string{"startTime"}, query["orderBy"])
}

func TestGoogleCalendar_InsertEvent(t *testing.T) {
	var body map[string]any
	cal := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "evt-123"}`))
	})

	id, err := cal.InsertEvent(context.Background(), Event{
		Summary:   "Consultation - Jane",
		Start:     at(14, 0),
		End:       at(15, 0),
		TimeZone:  "America/New_York",
		Attendees: []string{"jane@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-123", id)

	start := body["start"].(map[string]any)
	assert.Equal(t, "2025-03-10T14:00:00", start["dateTime"])
	assert.Equal(t, "America/New_York", start["timeZone"])
	attendees := body["attendees"].([]any)
	require.Len(t, attendees, 1)
	assert.Equal(t, "jane@example.com", attendees[0].(map[string]any)["email"])
}

func TestGoogleCalendar_ListEventsError(t *testing.T) {
	cal := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "forbidden"}}`))
	})

	_, err := cal.ListEvents(context.Background(), at(9, 0), at(17, 0))
	assert.Error(t, err)
}
