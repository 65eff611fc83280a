package models

import "time"

// DecisionRecord is an audit entry for one reviewer decision.
type DecisionRecord struct {
	ID             string      `bson:"id" json:"id"`
	ConfirmationID string      `bson:"confirmationId" json:"confirmationId"`
	UserID         string      `bson:"userId" json:"userId"`
	Appointment    Appointment `bson:"appointment" json:"appointment"`
	Decision       Status      `bson:"decision" json:"decision"`
	Notes          string      `bson:"notes,omitempty" json:"notes,omitempty"`
	Error          string      `bson:"error,omitempty" json:"error,omitempty"`
	DecidedAt      time.Time   `bson:"decidedAt" json:"decidedAt"`
}
