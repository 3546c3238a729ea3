package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id string) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var booking Booking
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding booking: %v", err)
	}

	return &booking, nil
}

func bookingFilterQuery(filter BookingFilter) bson.M {
	query := bson.M{}
	if filter.TenantID != "" {
		query["tenant_id"] = filter.TenantID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}

func (mdb *MongodbRepo) ListBookings(ctx context.Context, filter BookingFilter) ([]*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := col.Find(ctx, bookingFilterQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var bookings []*Booking
	for cursor.Next(ctx) {
		var b Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %v", err)
		}
		bookings = append(bookings, &b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return bookings, nil
}

// UpdateBookingStatus performs the conditional status write: the filter pins
// both the id and the version read by the caller, so an interleaved update
// leaves this one matching nothing instead of clobbering history.
func (mdb *MongodbRepo) UpdateBookingStatus(ctx context.Context, id string, version int64, event BookingStatusEvent) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"_id": id, "version": version}
	update := bson.M{
		"$set": bson.M{
			"status":     event.Status,
			"updated_at": time.Now(),
		},
		"$push": bson.M{"status_history": event},
		"$inc":  bson.M{"version": 1},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking Booking
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		// Either the booking is gone or someone else won the write.
		if _, getErr := mdb.GetBookingByID(ctx, id); getErr == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("error updating booking status: %v", err)
	}

	return &booking, nil
}

func (mdb *MongodbRepo) ApplyPayment(ctx context.Context, id string, version int64, payment PaymentUpdate, event *BookingStatusEvent) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{
		"payment_status":       payment.Status,
		"payment_provider":     payment.Provider,
		"payment_reference":    payment.Reference,
		"payment_amount_cents": payment.AmountCents,
		"payment_currency":     payment.Currency,
		"updated_at":           time.Now(),
	}

	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
	if event != nil {
		set["status"] = event.Status
		update["$push"] = bson.M{"status_history": event}
	}

	filter := bson.M{"_id": id, "version": version}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking Booking
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		if _, getErr := mdb.GetBookingByID(ctx, id); getErr == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("error applying payment: %v", err)
	}

	return &booking, nil
}

func (mdb *MongodbRepo) FindLatestOpenBooking(ctx context.Context, userID, serviceID string) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsCol)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{
		"user_id":    userID,
		"service_id": serviceID,
		"status":     bson.M{"$in": []BookingStatus{StatusPending, StatusDraft}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var booking Booking
	err = col.FindOne(ctx, filter, opts).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding open booking: %v", err)
	}

	return &booking, nil
}

func (mdb *MongodbRepo) CountBookings(ctx context.Context, filter BookingFilter) (int64, error) {
	col, err := mdb.GetCollection(ctx, BookingsCol)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	count, err := col.CountDocuments(ctx, bookingFilterQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("error counting bookings: %v", err)
	}
	return count, nil
}

func (mdb *MongodbRepo) CountUpcomingApproved(ctx context.Context, after time.Time) (int64, error) {
	col, err := mdb.GetCollection(ctx, BookingsCol)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{
		"status":       StatusApproved,
		"scheduled_at": bson.M{"$gt": after},
	}
	count, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting upcoming bookings: %v", err)
	}
	return count, nil
}
