package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"appointly/models"

	"go.uber.org/zap"
)

// historyWindow is how many prior turns are sent to the model.
const historyWindow = 5

type ExtractionErrorKind string

const (
	ExtractionModel         ExtractionErrorKind = "model"
	ExtractionNoJSON        ExtractionErrorKind = "no_json"
	ExtractionMalformedJSON ExtractionErrorKind = "malformed_json"
)

// ExtractionError reports why no draft could be read from the model.
type ExtractionError struct {
	Kind ExtractionErrorKind
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed (%s): %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

const extractionPrompt = `You are an AI appointment assistant. Analyze the following conversation and extract appointment information.

Conversation History: %s
Current Message: %s

Extract the following information if available:
- Customer Name
- Phone Number
- Email
- Preferred Date (format: YYYY-MM-DD)
- Preferred Time (format: HH:MM)
- Service Type
- Duration (in minutes, default 60)
- Additional Notes

Return ONLY a JSON object with the keys name, phone, email, date, time, service, duration, notes. Use null for missing information.
Example: {"name": "John Doe", "phone": "+1234567890", "email": "john@email.com", "date": "2024-12-15", "time": "14:30", "service": "Consultation", "duration": 60, "notes": "First time customer"}`

// Extractor reads an appointment draft out of free-form conversation text.
type Extractor struct {
	model  TextGenerator
	logger *zap.Logger
}

func NewExtractor(model TextGenerator, logger *zap.Logger) *Extractor {
	return &Extractor{model: model, logger: logger}
}

// BuildExtractionPrompt renders the fixed instruction for message and the last turns of history.
func BuildExtractionPrompt(message string, history []string) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	return fmt.Sprintf(extractionPrompt, strings.Join(history, " "), message)
}

// Extract returns the draft found in the conversation. On failure the error is an *ExtractionError.
func (e *Extractor) Extract(ctx context.Context, message string, history []string) (models.AppointmentDraft, error) {
	text, err := e.model.GenerateContent(ctx, BuildExtractionPrompt(message, history))
	if err != nil {
		return models.AppointmentDraft{}, &ExtractionError{Kind: ExtractionModel, Err: err}
	}

	draft, dropped, err := ParseAppointmentJSON(text)
	if err != nil {
		return models.AppointmentDraft{}, err
	}
	if len(dropped) > 0 {
		e.logger.Warn("Dropped badly formatted appointment fields", zap.Strings("fields", dropped))
	}
	return draft, nil
}

// ParseAppointmentJSON decodes the first brace-delimited object in text and normalizes
// date and time. Fields whose values cannot be normalized are cleared and reported in dropped.
func ParseAppointmentJSON(text string) (draft models.AppointmentDraft, dropped []string, err error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return draft, nil, &ExtractionError{Kind: ExtractionNoJSON, Err: fmt.Errorf("no JSON object in %d bytes of model output", len(text))}
	}

	var raw struct {
		Name     looseString `json:"name"`
		Phone    looseString `json:"phone"`
		Email    looseString `json:"email"`
		Date     looseString `json:"date"`
		Time     looseString `json:"time"`
		Service  looseString `json:"service"`
		Duration looseInt    `json:"duration"`
		Notes    looseString `json:"notes"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return draft, nil, &ExtractionError{Kind: ExtractionMalformedJSON, Err: err}
	}

	draft = models.AppointmentDraft{
		Name:     raw.Name.ptr(),
		Phone:    raw.Phone.ptr(),
		Email:    raw.Email.ptr(),
		Date:     raw.Date.ptr(),
		Time:     raw.Time.ptr(),
		Service:  raw.Service.ptr(),
		Duration: raw.Duration.ptr(),
		Notes:    raw.Notes.ptr(),
	}

	if draft.Date != nil {
		if d, ok := normalize(*draft.Date, models.DateLayout, models.DateLayout, time.RFC3339); ok {
			draft.Date = &d
		} else {
			draft.Date = nil
			dropped = append(dropped, "date")
		}
	}
	if draft.Time != nil {
		if t, ok := normalize(*draft.Time, models.TimeLayout, models.TimeLayout, "15:04:05", "3:04 PM", "3:04PM", "3PM"); ok {
			draft.Time = &t
		} else {
			draft.Time = nil
			dropped = append(dropped, "time")
		}
	}
	return draft, dropped, nil
}

func normalize(s, out string, layouts ...string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(out), true
		}
	}
	return "", false
}

// looseString accepts a JSON string, number or null. Blank strings count as null.
type looseString struct {
	value string
	set   bool
}

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		str = strings.TrimSpace(str)
		if str != "" && !strings.EqualFold(str, "null") {
			s.value, s.set = str, true
		}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	s.value, s.set = num.String(), true
	return nil
}

func (s looseString) ptr() *string {
	if !s.set {
		return nil
	}
	v := s.value
	return &v
}

// looseInt accepts a JSON number, a numeric string such as "90" or "90 minutes", or null.
type looseInt struct {
	value int
	set   bool
}

func (n *looseInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		n.value, n.set = int(f), true
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("expected number or string, got %s", b)
	}
	fields := strings.Fields(str)
	if len(fields) == 0 {
		return nil
	}
	v, err := strconv.Atoi(fields[0])
	if err != nil {
		// Unreadable durations fall back to the default instead of failing the whole draft.
		return nil
	}
	n.value, n.set = v, true
	return nil
}

func (n looseInt) ptr() *int {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}
