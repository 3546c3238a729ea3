package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) Enqueue(ctx context.Context, entry *OutboxEntry) error {
	col, err := mdb.GetCollection(ctx, OutboxCol)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	entry.Status = OutboxPending
	entry.Attempts = 0
	entry.NextAttemptAt = now
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if _, err := col.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error enqueueing outbox entry: %v", err)
	}
	return nil
}

// OutboxClaimLease bounds how long a claimed entry may sit in processing
// before another claim may take it over. Covers workers that crash between
// claiming and marking.
const OutboxClaimLease = 5 * time.Minute

// ClaimDue claims entries one at a time with FindOneAndUpdate so that two
// workers polling the same collection never pick up the same entry. Entries
// stuck in processing past the claim lease are reclaimed like pending ones.
func (mdb *MongodbRepo) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*OutboxEntry, error) {
	col, err := mdb.GetCollection(ctx, OutboxCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{
		"$or": bson.A{
			bson.M{
				"status":          OutboxPending,
				"next_attempt_at": bson.M{"$lte": now},
			},
			bson.M{
				"status":     OutboxProcessing,
				"updated_at": bson.M{"$lte": now.Add(-OutboxClaimLease)},
			},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     OutboxProcessing,
			"updated_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "next_attempt_at", Value: 1}}).
		SetReturnDocument(options.After)

	var claimed []*OutboxEntry
	for i := 0; i < limit; i++ {
		var entry OutboxEntry
		err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&entry)
		if err == mongo.ErrNoDocuments {
			break
		}
		if err != nil {
			return claimed, fmt.Errorf("error claiming outbox entry: %v", err)
		}
		claimed = append(claimed, &entry)
	}

	return claimed, nil
}

func (mdb *MongodbRepo) MarkSent(ctx context.Context, id string) error {
	return mdb.setOutboxStatus(ctx, id, bson.M{
		"status":     OutboxSent,
		"updated_at": time.Now(),
	})
}

func (mdb *MongodbRepo) Reschedule(ctx context.Context, id string, attempts int, nextAttemptAt time.Time, lastErr string) error {
	return mdb.setOutboxStatus(ctx, id, bson.M{
		"status":          OutboxPending,
		"attempts":        attempts,
		"next_attempt_at": nextAttemptAt,
		"last_error":      lastErr,
		"updated_at":      time.Now(),
	})
}

func (mdb *MongodbRepo) MarkFailed(ctx context.Context, id string, lastErr string) error {
	return mdb.setOutboxStatus(ctx, id, bson.M{
		"status":     OutboxFailed,
		"last_error": lastErr,
		"updated_at": time.Now(),
	})
}

func (mdb *MongodbRepo) setOutboxStatus(ctx context.Context, id string, set bson.M) error {
	col, err := mdb.GetCollection(ctx, OutboxCol)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("error updating outbox entry: %v", err)
	}
	return nil
}
