package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventName string

const (
	EventBookingStatusUpdated EventName = "booking.status_updated"
	EventTenantConfigUpdated  EventName = "tenant.config_updated"
	EventPaymentCompleted     EventName = "payment.completed"
	EventBookingApproved      EventName = "booking.approved"
	EventBookingCompleted     EventName = "booking.completed"
)

// AdminEvent is a normalized "something happened" record written for
// downstream automation consumers. Write-once; nothing references it.
type AdminEvent struct {
	ID         string                 `bson:"_id" json:"id"`
	Name       EventName              `bson:"name" json:"name"`
	Source     string                 `bson:"source" json:"source"`
	TenantID   string                 `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	AdminID    string                 `bson:"admin_id,omitempty" json:"admin_id,omitempty"`
	ModuleIDs  []string               `bson:"module_ids,omitempty" json:"module_ids,omitempty"`
	OccurredAt time.Time              `bson:"occurred_at" json:"occurred_at"`
	Payload    map[string]interface{} `bson:"payload" json:"payload"`
	CreatedAt  time.Time              `bson:"created_at" json:"created_at"`
}

// PortalEvent mirrors a system/admin action into the client-facing automation
// stream, alongside client-initiated events.
type PortalEvent struct {
	ID         string                 `bson:"_id" json:"id"`
	Name       EventName              `bson:"name" json:"name"`
	Source     string                 `bson:"source" json:"source"`
	TenantID   string                 `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	UserID     string                 `bson:"user_id,omitempty" json:"user_id,omitempty"`
	ModuleIDs  []string               `bson:"module_ids,omitempty" json:"module_ids,omitempty"`
	OccurredAt time.Time              `bson:"occurred_at" json:"occurred_at"`
	Payload    map[string]interface{} `bson:"payload" json:"payload"`
	CreatedAt  time.Time              `bson:"created_at" json:"created_at"`
}

type BuildEventArgs struct {
	Name      EventName
	TenantID  string
	AdminID   string
	ModuleIDs []string
	Payload   map[string]interface{}
}

// BuildEvent stamps a new admin event with an id and occurrence time.
// Consumers reading both the durable store and the automation endpoint must
// deduplicate by this id.
func BuildEvent(args BuildEventArgs) *AdminEvent {
	return &AdminEvent{
		ID:         uuid.New().String(),
		Name:       args.Name,
		Source:     "admin-portal",
		TenantID:   args.TenantID,
		AdminID:    args.AdminID,
		ModuleIDs:  args.ModuleIDs,
		OccurredAt: time.Now().UTC(),
		Payload:    args.Payload,
	}
}

type EventRepo interface {
	InsertAdminEvent(ctx context.Context, event *AdminEvent) error
	InsertPortalEvent(ctx context.Context, event *PortalEvent) error
}
