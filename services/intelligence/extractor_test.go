package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseAppointmentJSON_FullObjectInProse(t *testing.T) {
	text := "Sure! Here you go:\n```json\n" +
		`{"name": "Jane Roe", "phone": "+15550100", "email": "jane@example.com", "date": "2025-03-10", "time": "14:00", "service": "Consultation", "duration": 90, "notes": null}` +
		"\n```"

	draft, dropped, err := ParseAppointmentJSON(text)
	require.NoError(t, err)
	assert.Empty(t, dropped)

	require.NotNil(t, draft.Name)
	assert.Equal(t, "Jane Roe", *draft.Name)
	assert.Equal(t, "2025-03-10", *draft.Date)
	assert.Equal(t, "14:00", *draft.Time)
	require.NotNil(t, draft.Duration)
	assert.Equal(t, 90, *draft.Duration)
	assert.Nil(t, draft.Notes)
}

func TestParseAppointmentJSON_LooseValues(t *testing.T) {
	text := `{"name": "  ", "phone": 5550100, "date": "2025-03-10", "time": "9:30", "service": "null", "duration": "45 minutes"}`

	draft, dropped, err := ParseAppointmentJSON(text)
	require.NoError(t, err)
	assert.Empty(t, dropped)

	assert.Nil(t, draft.Name, "blank strings are treated as missing")
	assert.Nil(t, draft.Service, "the literal string null is treated as missing")
	require.NotNil(t, draft.Phone)
	assert.Equal(t, "5550100", *draft.Phone)
	assert.Equal(t, "09:30", *draft.Time)
	assert.Equal(t, 45, *draft.Duration)
}

func TestParseAppointmentJSON_DropsUnparsableDateAndTime(t *testing.T) {
	draft, dropped, err := ParseAppointmentJSON(`{"date": "next tuesday", "time": "afternoon"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "time"}, dropped)
	assert.Nil(t, draft.Date)
	assert.Nil(t, draft.Time)
}

func TestParseAppointmentJSON_FailureKinds(t *testing.T) {
	cases := []struct {
		name string
		text string
		kind ExtractionErrorKind
	}{
		{"no object", "I could not find any details.", ExtractionNoJSON},
		{"reversed braces", "} nothing {", ExtractionNoJSON},
		{"malformed", `{"name": "Jane", }`, ExtractionMalformedJSON},
		{"wrong type", `{"name": true}`, ExtractionMalformedJSON},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseAppointmentJSON(tc.text)
			var extErr *ExtractionError
			require.True(t, errors.As(err, &extErr), "expected *ExtractionError, got %v", err)
			assert.Equal(t, tc.kind, extErr.Kind)
		})
	}
}

func TestExtractor_ModelFailure(t *testing.T) {
	ext := NewExtractor(&fakeGenerator{err: errModelDown}, zap.NewNop())

	draft, err := ext.Extract(context.Background(), "hi", nil)
	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, ExtractionModel, extErr.Kind)
	assert.ErrorIs(t, err, errModelDown)
	assert.Equal(t, []string{"name", "phone", "date", "time", "service"}, draft.MissingFields())
}

func TestExtractor_SendsOnlyLastFiveTurns(t *testing.T) {
	gen := &fakeGenerator{text: `{"name": "Jane"}`}
	ext := NewExtractor(gen, zap.NewNop())
	history := []string{"turn-1", "turn-2", "turn-3", "turn-4", "turn-5", "turn-6", "turn-7"}

	draft, err := ext.Extract(context.Background(), "book me in", history)
	require.NoError(t, err)
	require.NotNil(t, draft.Name)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.NotContains(t, prompt, "turn-2")
	assert.Contains(t, prompt, "turn-3 turn-4 turn-5 turn-6 turn-7")
	assert.True(t, strings.Contains(prompt, "Current Message: book me in"))
}

func TestFollowUp_FallsBackOnModelError(t *testing.T) {
	f := NewFollowUp(&fakeGenerator{err: errModelDown}, zap.NewNop())
	msg := f.AskForMissing(context.Background(), "hello", emptyDraft(), []string{"name"})
	assert.Equal(t, FallbackFollowUp, msg)
}

func TestFollowUp_AsksForExactlyTheMissingFields(t *testing.T) {
	gen := &fakeGenerator{text: "  Could I have your phone number?  "}
	f := NewFollowUp(gen, zap.NewNop())

	msg := f.AskForMissing(context.Background(), "I'm Jane", emptyDraft(), []string{"phone", "date"})
	assert.Equal(t, "Could I have your phone number?", msg)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "is missing: phone, date.")
}
