package models

import (
	"context"
	"time"
)

type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
)

type TenantPlan string

const (
	PlanFree     TenantPlan = "free"
	PlanStandard TenantPlan = "standard"
	PlanPro      TenantPlan = "pro"
)

type Tenant struct {
	ID           string       `bson:"_id" json:"id"`
	Name         string       `bson:"name" json:"name" validate:"required"`
	Slug         string       `bson:"slug" json:"slug" validate:"required"`
	Status       TenantStatus `bson:"status" json:"status"`
	Plan         TenantPlan   `bson:"plan" json:"plan"`
	OwnerUserID  string       `bson:"owner_user_id" json:"owner_user_id"`
	PrimaryColor string       `bson:"primary_color,omitempty" json:"primary_color,omitempty"`
	LogoURL      string       `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at" json:"updated_at"`
}

type TenantRepo interface {
	ListTenants(ctx context.Context) ([]*Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*Tenant, error)
	// UpdateTenant applies a partial update and returns the updated record.
	UpdateTenant(ctx context.Context, id string, updates map[string]interface{}) (*Tenant, error)
	CountTenantsByStatus(ctx context.Context, status TenantStatus) (int64, error)
}
