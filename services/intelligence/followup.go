package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"appointly/models"

	"go.uber.org/zap"
)

// FallbackFollowUp is sent when the model cannot phrase the follow-up question.
const FallbackFollowUp = "I'd be happy to help you book an appointment. Could you please provide your name, phone number, preferred date, time, and the service you need?"

const followUpPrompt = `You are a friendly appointment booking assistant. The customer has provided some information but is missing: %s.

Current conversation: %s
Available info: %s

Ask for the missing information in a natural, friendly way. Be specific about the format needed (e.g., date as YYYY-MM-DD, time as HH:MM).`

// FollowUp phrases the question asking the customer for missing fields.
type FollowUp struct {
	model  TextGenerator
	logger *zap.Logger
}

func NewFollowUp(model TextGenerator, logger *zap.Logger) *FollowUp {
	return &FollowUp{model: model, logger: logger}
}

// AskForMissing never fails: a model error degrades to FallbackFollowUp.
func (f *FollowUp) AskForMissing(ctx context.Context, message string, draft models.AppointmentDraft, missing []string) string {
	info, err := json.Marshal(draft)
	if err != nil {
		info = []byte("{}")
	}

	text, err := f.model.GenerateContent(ctx, fmt.Sprintf(followUpPrompt, strings.Join(missing, ", "), message, info))
	if err != nil {
		f.logger.Warn("Follow-up generation failed, using canned prompt", zap.Error(err))
		return FallbackFollowUp
	}
	return strings.TrimSpace(text)
}
