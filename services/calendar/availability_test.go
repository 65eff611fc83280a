package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	events  []Event
	err     error
	queries [][2]time.Time
}

func (f *fakeProvider) ListEvents(_ context.Context, timeMin, timeMax time.Time) ([]Event, error) {
	f.queries = append(f.queries, [2]time.Time{timeMin, timeMax})
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeProvider) InsertEvent(_ context.Context, ev Event) (string, error) {
	f.events = append(f.events, ev)
	return "evt", nil
}

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func newChecker(p Provider) *AvailabilityChecker {
	return NewAvailabilityChecker(p, time.UTC, time.Second, zap.NewNop())
}

func TestCheckAvailability_Free(t *testing.T) {
	p := &fakeProvider{}
	res := newChecker(p).CheckAvailability(context.Background(), "2025-03-10", "14:00", 60)

	assert.True(t, res.Available)
	assert.Empty(t, res.Conflicts)
	assert.Empty(t, res.Error)
	require.Len(t, p.queries, 1)
	assert.Equal(t, at(14, 0), p.queries[0][0])
	assert.Equal(t, at(15, 0), p.queries[0][1])
}

func TestCheckAvailability_Conflict(t *testing.T) {
	p := &fakeProvider{events: []Event{
		{Summary: "Haircut - Bob", Start: at(13, 30), End: at(14, 30)},
		{Start: at(14, 45), End: at(15, 15)},
	}}
	res := newChecker(p).CheckAvailability(context.Background(), "2025-03-10", "14:00", 60)

	assert.False(t, res.Available)
	assert.Equal(t, []string{"Haircut - Bob", "Busy"}, res.Conflicts)
}

func TestCheckAvailability_AdjacentEventIsNotAConflict(t *testing.T) {
	p := &fakeProvider{events: []Event{{Summary: "Before", Start: at(13, 0), End: at(14, 0)}}}
	res := newChecker(p).CheckAvailability(context.Background(), "2025-03-10", "14:00", 60)
	assert.True(t, res.Available)
}

func TestCheckAvailability_FailsClosed(t *testing.T) {
	p := &fakeProvider{err: errors.New("quota exceeded")}
	res := newChecker(p).CheckAvailability(context.Background(), "2025-03-10", "14:00", 60)

	assert.False(t, res.Available)
	assert.Contains(t, res.Error, "quota exceeded")
}

func TestEnumerateSlots_EmptyDay(t *testing.T) {
	slots := newChecker(&fakeProvider{}).EnumerateSlots(context.Background(), "2025-03-10", 60)

	expected := []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
	}
	assert.Equal(t, expected, slots)
}

func TestEnumerateSlots_StepIndependentOfDuration(t *testing.T) {
	slots := newChecker(&fakeProvider{}).EnumerateSlots(context.Background(), "2025-03-10", 120)
	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "09:30", slots[1])
	assert.Equal(t, "15:00", slots[len(slots)-1])
}

func TestEnumerateSlots_SkipsBusyIntervals(t *testing.T) {
	p := &fakeProvider{events: []Event{
		{Summary: "Morning block", Start: at(9, 0), End: at(12, 0)},
		{Summary: "Late meeting", Start: at(15, 15), End: at(17, 0)},
	}}
	slots := newChecker(p).EnumerateSlots(context.Background(), "2025-03-10", 60)

	assert.Equal(t, []string{"12:00", "12:30", "13:00", "13:30", "14:00"}, slots)
	require.Len(t, p.queries, 1)
	assert.Equal(t, at(9, 0), p.queries[0][0])
	assert.Equal(t, at(17, 0), p.queries[0][1])
}

func TestEnumerateSlots_FullDayBlocked(t *testing.T) {
	p := &fakeProvider{events: []Event{{Summary: "Closed", Start: at(0, 0), End: at(23, 59)}}}
	assert.Empty(t, newChecker(p).EnumerateSlots(context.Background(), "2025-03-10", 60))
}

func TestEnumerateSlots_ErrorYieldsEmptyList(t *testing.T) {
	p := &fakeProvider{err: errors.New("boom")}
	slots := newChecker(p).EnumerateSlots(context.Background(), "2025-03-10", 60)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestEnumerateSlots_InvalidDate(t *testing.T) {
	p := &fakeProvider{}
	assert.Empty(t, newChecker(p).EnumerateSlots(context.Background(), "10/03/2025", 60))
	assert.Empty(t, p.queries)
}

func TestEnumerateSlots_DurationLongerThanWindow(t *testing.T) {
	assert.Empty(t, newChecker(&fakeProvider{}).EnumerateSlots(context.Background(), "2025-03-10", 9*60))
}

func TestCheckAvailability_OverflowingDurationFailsClosed(t *testing.T) {
	p := &fakeProvider{events: []Event{{Summary: "Closed", Start: at(0, 0), End: at(23, 59)}}}
	for _, minutes := range []int{0, -60, 9 * 60, 9_000_000_000} {
		res := newChecker(p).CheckAvailability(context.Background(), "2025-03-10", "14:00", minutes)
		assert.False(t, res.Available, "duration %d", minutes)
		assert.Contains(t, res.Error, "invalid duration")
	}
	assert.Empty(t, p.queries)
}

func TestEnumerateSlots_OverflowingDuration(t *testing.T) {
	p := &fakeProvider{}
	assert.Empty(t, newChecker(p).EnumerateSlots(context.Background(), "2025-03-10", 9_000_000_000))
	assert.Empty(t, p.queries)
}
