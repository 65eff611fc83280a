package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func fullDraft() AppointmentDraft {
	return AppointmentDraft{
		Name:    str(" Jane Doe "),
		Phone:   str("555-0100"),
		Date:    str("2025-03-10"),
		Time:    str("14:00"),
		Service: str("Haircut"),
	}
}

func TestMissingFields(t *testing.T) {
	assert.Equal(t, RequiredFields, AppointmentDraft{}.MissingFields())
	assert.Empty(t, fullDraft().MissingFields())

	d := fullDraft()
	d.Phone = str("   ")
	d.Date = str("10/03/2025")
	d.Time = str("2pm")
	assert.Equal(t, []string{"phone", "date", "time"}, d.MissingFields())
}

func TestMissingFields_EmailAndNotesAreOptional(t *testing.T) {
	d := fullDraft()
	d.Email = nil
	d.Notes = nil
	assert.Empty(t, d.MissingFields())
}

func TestValidate(t *testing.T) {
	appt, missing := fullDraft().Validate()
	require.Empty(t, missing)
	require.NotNil(t, appt)

	assert.Equal(t, "Jane Doe", appt.Name)
	assert.Equal(t, DefaultDurationMinutes, appt.Duration)
	assert.Empty(t, appt.Email)
	assert.Empty(t, appt.Notes)
}

func TestValidate_Duration(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   *int
		want int
	}{
		{"absent", nil, 60},
		{"zero", new(int), 60},
		{"set", func() *int { v := 90; return &v }(), 90},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := fullDraft()
			d.Duration = tc.in
			appt, _ := d.Validate()
			require.NotNil(t, appt)
			assert.Equal(t, tc.want, appt.Duration)
		})
	}
}

func TestValidate_Incomplete(t *testing.T) {
	d := fullDraft()
	d.Service = nil
	appt, missing := d.Validate()
	assert.Nil(t, appt)
	assert.Equal(t, []string{"service"}, missing)
}

func TestDraftRoundTrip(t *testing.T) {
	appt, _ := fullDraft().Validate()
	back, missing := appt.Draft().Validate()
	require.Empty(t, missing)
	assert.Equal(t, appt, back)
}

func TestWindow(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	appt := Appointment{Date: "2025-03-10", Time: "14:00", Duration: 45}

	start, end, err := appt.Window(loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 3, 10, 14, 0, 0, 0, loc).Equal(start))
	assert.Equal(t, 45*time.Minute, end.Sub(start))

	appt.Time = "noon"
	_, _, err = appt.Window(loc)
	assert.Error(t, err)
}

func TestValidate_DurationLongerThanBusinessDay(t *testing.T) {
	d := fullDraft()
	huge := 9_000_000_000
	d.Duration = &huge

	appt, missing := d.Validate()
	assert.Nil(t, appt)
	assert.Equal(t, []string{"duration"}, missing)

	limit := MaxDurationMinutes
	d.Duration = &limit
	appt, missing = d.Validate()
	require.Empty(t, missing)
	assert.Equal(t, MaxDurationMinutes, appt.Duration)
}

func TestWindow_RejectsOutOfRangeDuration(t *testing.T) {
	for _, minutes := range []int{0, -30, MaxDurationMinutes + 1, 9_000_000_000} {
		appt := Appointment{Date: "2025-03-10", Time: "14:00", Duration: minutes}
		_, _, err := appt.Window(time.UTC)
		assert.Error(t, err, "duration %d", minutes)
	}
}
