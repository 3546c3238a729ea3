package models

import (
	"context"
	"fmt"
	"time"
)

func (mdb *MongodbRepo) InsertAdminEvent(ctx context.Context, event *AdminEvent) error {
	col, err := mdb.GetCollection(ctx, AdminEventsCol)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	event.CreatedAt = time.Now()
	if _, err := col.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("error inserting admin event: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) InsertPortalEvent(ctx context.Context, event *PortalEvent) error {
	col, err := mdb.GetCollection(ctx, PortalEventsCol)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	event.CreatedAt = time.Now()
	if _, err := col.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("error inserting portal event: %v", err)
	}
	return nil
}
