package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (mdb *MongodbRepo) InsertNotification(ctx context.Context, n *Notification) error {
	col, err := mdb.GetCollection(ctx, NotificationsCol)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.DeliveryStatus == "" {
		n.DeliveryStatus = DeliveryPending
	}

	if _, err := col.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("error inserting notification: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) MarkDelivery(ctx context.Context, id string, status DeliveryStatus, deliveryErr string) error {
	col, err := mdb.GetCollection(ctx, NotificationsCol)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	update := bson.M{
		"$set": bson.M{
			"delivery_status": status,
			"delivery_error":  deliveryErr,
			"updated_at":      time.Now(),
		},
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("error updating notification delivery: %v", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
