package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"appointly/metrics"
	"appointly/models"
	"appointly/services/calendar"
	ai "appointly/services/intelligence"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const anonymousUser = "anonymous"

var tracer = otel.Tracer("appointly/services/booking")

var _ AssistantService = (*DefaultAssistantService)(nil)

// AssistantService drives the booking conversation and the reviewer decisions.
type AssistantService interface {
	HandleMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	ResolveConfirmation(ctx context.Context, req models.ConfirmRequest) (*models.ConfirmationResult, error)
	AvailableSlots(ctx context.Context, date string, duration int) ([]string, error)
	PendingConfirmations(ctx context.Context) (map[string]models.PendingConfirmation, error)
	DecisionHistory(ctx context.Context, confirmationID string) ([]models.DecisionRecord, error)
}

type InfoExtractor interface {
	Extract(ctx context.Context, message string, history []string) (models.AppointmentDraft, error)
}

type FollowUpAsker interface {
	AskForMissing(ctx context.Context, message string, draft models.AppointmentDraft, missing []string) string
}

type SlotChecker interface {
	CheckAvailability(ctx context.Context, date, clock string, duration int) calendar.Availability
	EnumerateSlots(ctx context.Context, date string, duration int) []string
}

type BookingWriter interface {
	CreateEvent(ctx context.Context, appt models.Appointment) (string, bool)
	AppendRecord(ctx context.Context, appt models.Appointment) bool
}

// DecisionLog receives one record per reviewer decision.
type DecisionLog interface {
	Create(ctx context.Context, record models.DecisionRecord) (string, error)
	GetByConfirmationID(ctx context.Context, confirmationID string) ([]models.DecisionRecord, error)
}

// DefaultAssistantService wires the extractor, the availability checker and
// the writer around the pending-confirmation table. Contexts and Decisions are optional.
type DefaultAssistantService struct {
	Extractor InfoExtractor
	FollowUp  FollowUpAsker
	Checker   SlotChecker
	Writer    BookingWriter
	Store     ConfirmationStore
	Contexts  ai.ContextStore
	Decisions DecisionLog
	Logger    *zap.Logger

	// RecheckOnConfirm re-verifies the slot before the first write of an approval.
	RecheckOnConfirm bool
	// Timeout bounds model, store and decision-log calls.
	Timeout time.Duration
}

func (s *DefaultAssistantService) HandleMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = anonymousUser
	}

	ctx, span := tracer.Start(ctx, "assistant.handle_message")
	span.SetAttributes(attribute.String("user_id", userID))
	defer span.End()

	draft := s.extract(ctx, req.Message, req.History)

	appt, missing := draft.Validate()
	if len(missing) > 0 {
		askCtx, cancel := s.bounded(ctx)
		msg := s.FollowUp.AskForMissing(askCtx, req.Message, draft, missing)
		cancel()

		resp := &models.ChatResponse{
			Message:         msg,
			Status:          models.StatusCollectingInfo,
			AppointmentInfo: &draft,
			MissingFields:   missing,
		}
		s.remember(ctx, userID, resp)
		return resp, nil
	}

	var resp *models.ChatResponse
	availability := s.Checker.CheckAvailability(ctx, appt.Date, appt.Time, appt.Duration)
	if availability.Available {
		pending := models.PendingConfirmation{
			ID:          newConfirmationID(userID),
			UserID:      userID,
			Appointment: *appt,
			CreatedAt:   time.Now().UTC(),
		}
		storeCtx, cancel := s.bounded(ctx)
		err := s.Store.Save(storeCtx, pending)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to store pending confirmation: %w", err)
		}
		s.Logger.Info("Appointment awaiting confirmation",
			zap.String("confirmationId", pending.ID),
			zap.String("date", appt.Date),
			zap.String("time", appt.Time))

		resp = &models.ChatResponse{
			Message: fmt.Sprintf("Great! I found that %s at %s is available for %s. I'm now checking with our team to confirm your appointment. You'll receive a confirmation shortly.",
				appt.Date, appt.Time, appt.Service),
			Status:          models.StatusPendingConfirmation,
			ConfirmationID:  pending.ID,
			AppointmentInfo: appt.Draft(),
		}
	} else {
		slots := s.Checker.EnumerateSlots(ctx, appt.Date, appt.Duration)
		if len(slots) > calendar.MaxAlternatives {
			slots = slots[:calendar.MaxAlternatives]
		}
		if len(slots) > 0 {
			resp = &models.ChatResponse{
				Message: fmt.Sprintf("I'm sorry, but %s on %s is not available. Here are some available times on the same date: %s. Would any of these work for you?",
					appt.Time, appt.Date, strings.Join(slots, ", ")),
				Status:          models.StatusSuggestingAlternatives,
				AppointmentInfo: appt.Draft(),
				AvailableSlots:  slots,
			}
		} else {
			resp = &models.ChatResponse{
				Message:         fmt.Sprintf("Unfortunately, there are no available slots on %s. Could you suggest an alternative date?", appt.Date),
				Status:          models.StatusNoAvailability,
				AppointmentInfo: appt.Draft(),
			}
		}
	}

	s.remember(ctx, userID, resp)
	return resp, nil
}

// ResolveConfirmation applies a reviewer decision. On ErrBookingWriteFailed
// and ErrSlotUnavailable the returned result is still populated.
func (s *DefaultAssistantService) ResolveConfirmation(ctx context.Context, req models.ConfirmRequest) (*models.ConfirmationResult, error) {
	ctx, span := tracer.Start(ctx, "assistant.resolve_confirmation")
	span.SetAttributes(
		attribute.String("confirmation_id", req.ConfirmationID),
		attribute.Bool("approved", req.Approved),
	)
	defer span.End()

	if strings.TrimSpace(req.ConfirmationID) == "" {
		return nil, ErrConfirmationNotFound
	}

	lockCtx, cancel := s.bounded(ctx)
	unlock, err := s.Store.Lock(lockCtx, req.ConfirmationID)
	cancel()
	if err != nil {
		return nil, err
	}
	defer unlock()

	getCtx, cancel := s.bounded(ctx)
	pending, err := s.Store.Get(getCtx, req.ConfirmationID)
	cancel()
	if err != nil {
		return nil, err
	}
	appt := pending.Appointment

	if !req.Approved {
		if err := s.delete(ctx, pending.ID); err != nil {
			return nil, err
		}
		s.record(ctx, pending, models.StatusDenied, req.Notes, "")
		s.forget(ctx, pending)
		return &models.ConfirmationResult{
			Message:         fmt.Sprintf("Appointment request denied. Reason: %s", req.Notes),
			Status:          models.StatusDenied,
			AppointmentInfo: appt.Draft(),
		}, nil
	}

	// Without the recheck, an event added to the calendar after the chat turn
	// is not noticed and the slot can be double-booked.
	if s.RecheckOnConfirm && pending.CalendarEventID == "" {
		availability := s.Checker.CheckAvailability(ctx, appt.Date, appt.Time, appt.Duration)
		if !availability.Available {
			s.record(ctx, pending, models.StatusError, req.Notes, ErrSlotUnavailable.Error())
			return &models.ConfirmationResult{
				Message:         fmt.Sprintf("%s on %s is no longer available", appt.Time, appt.Date),
				Status:          models.StatusError,
				AppointmentInfo: appt.Draft(),
			}, ErrSlotUnavailable
		}
	}

	if pending.CalendarEventID == "" {
		if eventID, ok := s.Writer.CreateEvent(ctx, appt); ok {
			pending.CalendarEventID = eventID
		}
	}
	if !pending.RecordAppended {
		pending.RecordAppended = s.Writer.AppendRecord(ctx, appt)
	}

	if pending.CalendarEventID == "" || !pending.RecordAppended {
		updateCtx, cancel := s.bounded(ctx)
		if err := s.Store.Update(updateCtx, pending); err != nil {
			s.Logger.Error("Failed to persist write progress", zap.String("confirmationId", pending.ID), zap.Error(err))
		}
		cancel()

		failure := describeFailure(pending)
		s.Logger.Warn("Appointment approval incomplete",
			zap.String("confirmationId", pending.ID),
			zap.String("failure", failure))
		s.record(ctx, pending, models.StatusError, req.Notes, failure)
		return &models.ConfirmationResult{
			Message:         "Error creating appointment",
			Status:          models.StatusError,
			AppointmentInfo: appt.Draft(),
		}, ErrBookingWriteFailed
	}

	if err := s.delete(ctx, pending.ID); err != nil {
		s.Logger.Error("Failed to remove confirmed appointment", zap.String("confirmationId", pending.ID), zap.Error(err))
	}
	s.record(ctx, pending, models.StatusConfirmed, req.Notes, "")
	s.forget(ctx, pending)
	s.Logger.Info("Appointment confirmed",
		zap.String("confirmationId", pending.ID),
		zap.String("eventId", pending.CalendarEventID))

	return &models.ConfirmationResult{
		Message:         fmt.Sprintf("Appointment confirmed for %s on %s at %s", appt.Name, appt.Date, appt.Time),
		Status:          models.StatusConfirmed,
		AppointmentInfo: appt.Draft(),
	}, nil
}

func (s *DefaultAssistantService) AvailableSlots(ctx context.Context, date string, duration int) ([]string, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, NewRequestError("date", "must be YYYY-MM-DD")
	}
	if !models.ValidDuration(duration) {
		return nil, NewRequestError("duration", fmt.Sprintf("must be between 1 and %d minutes", models.MaxDurationMinutes))
	}
	return s.Checker.EnumerateSlots(ctx, date, duration), nil
}

func (s *DefaultAssistantService) PendingConfirmations(ctx context.Context) (map[string]models.PendingConfirmation, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	return s.Store.List(ctx)
}

// DecisionHistory lists every reviewer decision taken on a confirmation, oldest first.
func (s *DefaultAssistantService) DecisionHistory(ctx context.Context, confirmationID string) ([]models.DecisionRecord, error) {
	if s.Decisions == nil {
		return nil, ErrDecisionLogDisabled
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	records, err := s.Decisions.GetByConfirmationID(ctx, confirmationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load decisions: %w", err)
	}
	if records == nil {
		records = []models.DecisionRecord{}
	}
	return records, nil
}

// extract never fails; a broken model reply degrades to an empty draft.
func (s *DefaultAssistantService) extract(ctx context.Context, message string, history []string) models.AppointmentDraft {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	draft, err := s.Extractor.Extract(ctx, message, history)
	if err != nil {
		kind := ai.ExtractionErrorKind("unknown")
		var extractionErr *ai.ExtractionError
		if errors.As(err, &extractionErr) {
			kind = extractionErr.Kind
		}
		s.Logger.Warn("Appointment extraction failed", zap.String("kind", string(kind)), zap.Error(err))
		return models.AppointmentDraft{}
	}
	return draft
}

func (s *DefaultAssistantService) delete(ctx context.Context, id string) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	return s.Store.Delete(ctx, id)
}

func (s *DefaultAssistantService) remember(ctx context.Context, userID string, resp *models.ChatResponse) {
	metrics.ChatTurns.WithLabelValues(string(resp.Status)).Inc()
	if s.Contexts == nil {
		return
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	state := &models.ConversationState{
		UserID:         userID,
		LastStatus:     resp.Status,
		Draft:          resp.AppointmentInfo,
		ConfirmationID: resp.ConfirmationID,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := s.Contexts.Set(ctx, state); err != nil {
		s.Logger.Warn("Failed to save conversation state", zap.String("userId", userID), zap.Error(err))
	}
}

// forget drops the user's conversation state once its confirmation is resolved.
// A newer conversation that moved on to another confirmation is kept.
func (s *DefaultAssistantService) forget(ctx context.Context, pending models.PendingConfirmation) {
	if s.Contexts == nil || pending.UserID == "" {
		return
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	state, err := s.Contexts.Get(ctx, pending.UserID)
	if err != nil {
		s.Logger.Warn("Failed to read conversation state", zap.String("userId", pending.UserID), zap.Error(err))
		return
	}
	if state.ConfirmationID != pending.ID {
		return
	}
	if err := s.Contexts.Clear(ctx, pending.UserID); err != nil {
		s.Logger.Warn("Failed to clear conversation state", zap.String("userId", pending.UserID), zap.Error(err))
	}
}

func (s *DefaultAssistantService) record(ctx context.Context, pending models.PendingConfirmation, decision models.Status, notes, failure string) {
	metrics.Decisions.WithLabelValues(string(decision)).Inc()
	if s.Decisions == nil {
		return
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	rec := models.DecisionRecord{
		ConfirmationID: pending.ID,
		UserID:         pending.UserID,
		Appointment:    pending.Appointment,
		Decision:       decision,
		Notes:          notes,
		Error:          failure,
		DecidedAt:      time.Now().UTC(),
	}
	if _, err := s.Decisions.Create(ctx, rec); err != nil {
		s.Logger.Error("Failed to log decision", zap.String("confirmationId", pending.ID), zap.Error(err))
	}
}

func (s *DefaultAssistantService) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func newConfirmationID(userID string) string {
	return fmt.Sprintf("%s_%s", userID, uuid.NewString())
}

func describeFailure(p models.PendingConfirmation) string {
	var failed []string
	if p.CalendarEventID == "" {
		failed = append(failed, "calendar event")
	}
	if !p.RecordAppended {
		failed = append(failed, "sheet record")
	}
	return "failed to write " + strings.Join(failed, " and ")
}
