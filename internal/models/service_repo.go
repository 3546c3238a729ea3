package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) ListServices(ctx context.Context, tenantID string) ([]*Service, error) {
	col, err := mdb.GetCollection(ctx, ServicesCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	// Tenant-specific services plus the global catalog (tenant_id = null).
	filter := bson.M{
		"$or": []bson.M{
			{"tenant_id": tenantID},
			{"tenant_id": nil},
		},
	}

	cursor, err := col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error finding services: %v", err)
	}
	defer cursor.Close(ctx)

	var services []*Service
	for cursor.Next(ctx) {
		var s Service
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("error decoding service: %v", err)
		}
		services = append(services, &s)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return services, nil
}

func (mdb *MongodbRepo) GetServiceByID(ctx context.Context, id string) (*Service, error) {
	col, err := mdb.GetCollection(ctx, ServicesCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var service Service
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&service)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding service: %v", err)
	}

	return &service, nil
}

func (mdb *MongodbRepo) UpdateService(ctx context.Context, id string, updates map[string]interface{}) (*Service, error) {
	col, err := mdb.GetCollection(ctx, ServicesCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{"updated_at": time.Now()}
	for k, v := range updates {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var service Service
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&service)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating service: %v", err)
	}

	return &service, nil
}

func (mdb *MongodbRepo) FindServiceByWhopProduct(ctx context.Context, productID string) (*Service, error) {
	col, err := mdb.GetCollection(ctx, ServicesCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var service Service
	err = col.FindOne(ctx, bson.M{"whop.product_id": productID}).Decode(&service)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding service by product id: %v", err)
	}

	return &service, nil
}
