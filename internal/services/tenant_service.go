package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/audiojones/admin-api/internal/helpers"
	"github.com/audiojones/admin-api/internal/models"
	"github.com/cloudinary/cloudinary-go/v2"
)

// TenantUpdateInput carries the editable subset of a tenant's branding and
// billing configuration. Nil fields are left untouched.
type TenantUpdateInput struct {
	Name         *string `json:"name,omitempty"`
	Status       *string `json:"status,omitempty"`
	Plan         *string `json:"plan,omitempty"`
	PrimaryColor *string `json:"primary_color,omitempty"`
	// LogoImage is a base64 data URI; when set it is uploaded and the
	// resulting URL stored on the tenant.
	LogoImage *string `json:"logo_image,omitempty"`
}

type TenantService struct {
	tenantRepo models.TenantRepo
	outboxRepo models.OutboxRepo
	cloudinary *cloudinary.Cloudinary
	logger     *slog.Logger
}

func NewTenantService(tenantRepo models.TenantRepo, outboxRepo models.OutboxRepo, cld *cloudinary.Cloudinary, logger *slog.Logger) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		outboxRepo: outboxRepo,
		cloudinary: cld,
		logger:     logger,
	}
}

func (ts *TenantService) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	tenants, err := ts.tenantRepo.ListTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %v", err)
	}
	return tenants, nil
}

func (ts *TenantService) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	if id == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	return ts.tenantRepo.GetTenantByID(ctx, id)
}

// UpdateTenant applies a partial update. Changed field names are listed on
// the emitted tenant.config_updated event so automation consumers can react
// to specific settings without diffing records.
func (ts *TenantService) UpdateTenant(ctx context.Context, id string, input TenantUpdateInput, adminID string) (*models.Tenant, error) {
	updates := map[string]interface{}{}
	changed := []string{}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("tenant name cannot be empty")
		}
		updates["name"] = *input.Name
		changed = append(changed, "name")
	}
	if input.Status != nil {
		status := models.TenantStatus(*input.Status)
		if status != models.TenantActive && status != models.TenantSuspended {
			return nil, fmt.Errorf("invalid tenant status %q", *input.Status)
		}
		updates["status"] = status
		changed = append(changed, "status")
	}
	if input.Plan != nil {
		plan := models.TenantPlan(*input.Plan)
		if plan != models.PlanFree && plan != models.PlanStandard && plan != models.PlanPro {
			return nil, fmt.Errorf("invalid tenant plan %q", *input.Plan)
		}
		updates["plan"] = plan
		changed = append(changed, "plan")
	}
	if input.PrimaryColor != nil {
		updates["primary_color"] = *input.PrimaryColor
		changed = append(changed, "primary_color")
	}
	if input.LogoImage != nil && *input.LogoImage != "" {
		logoURL, err := helpers.UploadLogo(ctx, ts.cloudinary, *input.LogoImage, id)
		if err != nil {
			return nil, fmt.Errorf("failed to upload tenant logo: %v", err)
		}
		updates["logo_url"] = logoURL
		changed = append(changed, "logo_url")
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}
	updates["updated_at"] = time.Now().UTC()

	tenant, err := ts.tenantRepo.UpdateTenant(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	event := models.BuildEvent(models.BuildEventArgs{
		Name:     models.EventTenantConfigUpdated,
		TenantID: tenant.ID,
		AdminID:  adminID,
		Payload: map[string]interface{}{
			"tenant_id":      tenant.ID,
			"changed_fields": changed,
		},
	})
	ts.enqueue(ctx, models.OutboxAdminEvent, event)

	return tenant, nil
}

func (ts *TenantService) enqueue(ctx context.Context, kind models.OutboxKind, payload interface{}) {
	entry, err := newOutboxEntry(kind, payload)
	if err != nil {
		ts.logger.Warn("failed to build outbox entry", "kind", kind, "error", err)
		return
	}
	if err := ts.outboxRepo.Enqueue(ctx, entry); err != nil {
		ts.logger.Warn("failed to enqueue outbox entry", "kind", kind, "error", err)
	}
}
