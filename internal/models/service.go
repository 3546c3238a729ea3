package models

import (
	"context"
	"time"
)

type ServiceCategory string

const (
	CategoryArtist     ServiceCategory = "artist"
	CategoryConsulting ServiceCategory = "consulting"
	CategoryPodcast    ServiceCategory = "podcast"
	CategoryOther      ServiceCategory = "other"
)

type BillingProvider string

const (
	BillingWhop   BillingProvider = "whop"
	BillingStripe BillingProvider = "stripe"
	BillingManual BillingProvider = "manual"
	BillingNone   BillingProvider = "none"
)

// WhopConfig links a service to a commerce-platform product. When SyncEnabled
// is set, the sync operation may overwrite price, currency and checkout URL.
type WhopConfig struct {
	ProductID   string `bson:"product_id,omitempty" json:"product_id,omitempty"`
	URL         string `bson:"url,omitempty" json:"url,omitempty"`
	SyncEnabled bool   `bson:"sync_enabled,omitempty" json:"sync_enabled,omitempty"`
}

type Service struct {
	ID          string          `bson:"_id" json:"id"`
	TenantID    *string         `bson:"tenant_id" json:"tenant_id"` // nil = global catalog
	Name        string          `bson:"name" json:"name" validate:"required"`
	Category    ServiceCategory `bson:"category" json:"category"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	// BasePriceCents is the listed price; PriceCents/Currency mirror the
	// billing provider when sync is enabled.
	BasePriceCents     int64            `bson:"base_price_cents" json:"base_price_cents"`
	Active             bool             `bson:"active" json:"active"`
	DurationMinutes    int              `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	RequiresApproval   bool             `bson:"requires_approval" json:"requires_approval"`
	SchedulingProvider string           `bson:"scheduling_provider,omitempty" json:"scheduling_provider,omitempty"`
	SchedulingURL      string           `bson:"scheduling_url,omitempty" json:"scheduling_url,omitempty"`
	BillingProvider    BillingProvider  `bson:"billing_provider,omitempty" json:"billing_provider,omitempty"`
	PriceCents         int64            `bson:"price_cents,omitempty" json:"price_cents,omitempty"`
	Currency           string           `bson:"currency,omitempty" json:"currency,omitempty"`
	Whop               *WhopConfig      `bson:"whop,omitempty" json:"whop,omitempty"`
	CreatedAt          time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `bson:"updated_at" json:"updated_at"`
}

type ServiceRepo interface {
	// ListServices returns the tenant's services plus the global catalog.
	ListServices(ctx context.Context, tenantID string) ([]*Service, error)
	GetServiceByID(ctx context.Context, id string) (*Service, error)
	UpdateService(ctx context.Context, id string, updates map[string]interface{}) (*Service, error)
	FindServiceByWhopProduct(ctx context.Context, productID string) (*Service, error)
}
