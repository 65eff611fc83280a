package recordsRepo

import (
	"context"

	"appointly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// DecisionRepository stores reviewer decisions.
type DecisionRepository interface {
	Create(ctx context.Context, record models.DecisionRecord) (string, error)
	GetByConfirmationID(ctx context.Context, confirmationID string) ([]models.DecisionRecord, error)
}

type mongoDecisionRepo struct {
	coll *mongo.Collection
}

// NewMongoDecisionRepo returns a DecisionRepository backed by the decisions collection.
func NewMongoDecisionRepo(db *mongo.Database) DecisionRepository {
	return &mongoDecisionRepo{
		coll: db.Collection("decisions"),
	}
}
