package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) ListTenants(ctx context.Context) ([]*Tenant, error) {
	col, err := mdb.GetCollection(ctx, TenantsCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding tenants: %v", err)
	}
	defer cursor.Close(ctx)

	var tenants []*Tenant
	for cursor.Next(ctx) {
		var t Tenant
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("error decoding tenant: %v", err)
		}
		tenants = append(tenants, &t)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return tenants, nil
}

func (mdb *MongodbRepo) GetTenantByID(ctx context.Context, id string) (*Tenant, error) {
	col, err := mdb.GetCollection(ctx, TenantsCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var tenant Tenant
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&tenant)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding tenant: %v", err)
	}

	return &tenant, nil
}

func (mdb *MongodbRepo) UpdateTenant(ctx context.Context, id string, updates map[string]interface{}) (*Tenant, error) {
	col, err := mdb.GetCollection(ctx, TenantsCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{"updated_at": time.Now()}
	for k, v := range updates {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tenant Tenant
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&tenant)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating tenant: %v", err)
	}

	return &tenant, nil
}

func (mdb *MongodbRepo) CountTenantsByStatus(ctx context.Context, status TenantStatus) (int64, error) {
	col, err := mdb.GetCollection(ctx, TenantsCol)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	count, err := col.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("error counting tenants: %v", err)
	}
	return count, nil
}
