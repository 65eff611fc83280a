package recordsRepo

import (
	"context"
	"fmt"
	"time"

	"appointly/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a decision and returns its ID.
func (r *mongoDecisionRepo) Create(ctx context.Context, record models.DecisionRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.DecidedAt.IsZero() {
		record.DecidedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to insert decision: %w", err)
	}
	return record.ID, nil
}

// GetByConfirmationID returns every decision taken on a confirmation, oldest first.
func (r *mongoDecisionRepo) GetByConfirmationID(ctx context.Context, confirmationID string) ([]models.DecisionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "decidedAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"confirmationId": confirmationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.DecisionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
