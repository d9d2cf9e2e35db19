package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

const collectionApplicationEvents = "application_events"

// AuditLog implements ports.AuditLog on the application_events collection.
// Documents are keyed by event id so a redelivered event is stored once.
type AuditLog struct {
	col *mongo.Collection
}

func NewAuditLog(db *mongo.Database) *AuditLog {
	return &AuditLog{col: db.Collection(collectionApplicationEvents)}
}

// Append upserts the change by event id.
func (r *AuditLog) Append(ctx context.Context, change domain.StatusChange) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	change.OccurredAt = change.OccurredAt.UTC()
	change.RecordedAt = change.RecordedAt.UTC()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"event_id": change.EventID},
		bson.M{"$setOnInsert": change},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("append status change: %w", err)
	}
	return nil
}

// History returns the changes of one application, oldest first.
func (r *AuditLog) History(ctx context.Context, applicationID string) ([]domain.StatusChange, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"application_id": applicationID},
		options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find status changes: %w", err)
	}
	defer cur.Close(ctx)

	out := []domain.StatusChange{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode status changes: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the unique event index and the history lookup index.
func (r *AuditLog) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "application_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
