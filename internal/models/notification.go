package models

import (
	"context"
	"time"
)

type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

type NotificationEventType string

const (
	NotificationBookingCreated       NotificationEventType = "booking_created"
	NotificationBookingStatusChanged NotificationEventType = "booking_status_changed"
)

// Notification is the append-only log of an attempted user notification.
// DeliveryStatus starts pending and is advanced by the outbox worker after
// the email attempt.
type Notification struct {
	ID             string                `bson:"_id" json:"id"`
	TenantID       string                `bson:"tenant_id" json:"tenant_id"`
	BookingID      string                `bson:"booking_id" json:"booking_id"`
	UserID         string                `bson:"user_id" json:"user_id"`
	Channel        string                `bson:"channel" json:"channel"`
	EventType      NotificationEventType `bson:"event_type" json:"event_type"`
	OldStatus      string                `bson:"old_status,omitempty" json:"old_status,omitempty"`
	NewStatus      string                `bson:"new_status,omitempty" json:"new_status,omitempty"`
	DeliveryStatus DeliveryStatus        `bson:"delivery_status" json:"delivery_status"`
	DeliveryError  string                `bson:"delivery_error,omitempty" json:"delivery_error,omitempty"`
	CreatedAt      time.Time             `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time             `bson:"updated_at" json:"updated_at"`
}

type NotificationRepo interface {
	InsertNotification(ctx context.Context, n *Notification) error
	MarkDelivery(ctx context.Context, id string, status DeliveryStatus, deliveryErr string) error
}
