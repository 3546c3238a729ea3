package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/audiojones/admin-api/internal/models"
	"github.com/audiojones/admin-api/internal/whop"
)

// ServiceUpdateInput carries the editable subset of a catalog entry. Nil
// fields are left untouched.
type ServiceUpdateInput struct {
	Name             *string `json:"name,omitempty"`
	Description      *string `json:"description,omitempty"`
	Category         *string `json:"category,omitempty"`
	Active           *bool   `json:"active,omitempty"`
	BasePriceCents   *int64  `json:"base_price_cents,omitempty"`
	DurationMinutes  *int    `json:"duration_minutes,omitempty"`
	RequiresApproval *bool   `json:"requires_approval,omitempty"`
	SchedulingURL    *string `json:"scheduling_url,omitempty"`
	WhopProductID    *string `json:"whop_product_id,omitempty"`
	WhopSyncEnabled  *bool   `json:"whop_sync_enabled,omitempty"`
}

type CatalogService struct {
	serviceRepo models.ServiceRepo
	outboxRepo  models.OutboxRepo
	whopClient  *whop.Client
	logger      *slog.Logger
}

func NewCatalogService(serviceRepo models.ServiceRepo, outboxRepo models.OutboxRepo, whopClient *whop.Client, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		serviceRepo: serviceRepo,
		outboxRepo:  outboxRepo,
		whopClient:  whopClient,
		logger:      logger,
	}
}

func (cs *CatalogService) ListServices(ctx context.Context, tenantID string) ([]*models.Service, error) {
	services, err := cs.serviceRepo.ListServices(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %v", err)
	}
	return services, nil
}

func (cs *CatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	if id == "" {
		return nil, fmt.Errorf("service id is required")
	}
	return cs.serviceRepo.GetServiceByID(ctx, id)
}

func (cs *CatalogService) UpdateService(ctx context.Context, id string, input ServiceUpdateInput, adminID string) (*models.Service, error) {
	updates := map[string]interface{}{}
	changed := []string{}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("service name cannot be empty")
		}
		updates["name"] = *input.Name
		changed = append(changed, "name")
	}
	if input.Description != nil {
		updates["description"] = *input.Description
		changed = append(changed, "description")
	}
	if input.Category != nil {
		category := models.ServiceCategory(*input.Category)
		switch category {
		case models.CategoryArtist, models.CategoryConsulting, models.CategoryPodcast, models.CategoryOther:
		default:
			return nil, fmt.Errorf("invalid service category %q", *input.Category)
		}
		updates["category"] = category
		changed = append(changed, "category")
	}
	if input.Active != nil {
		updates["active"] = *input.Active
		changed = append(changed, "active")
	}
	if input.BasePriceCents != nil {
		if *input.BasePriceCents < 0 {
			return nil, fmt.Errorf("base price cannot be negative")
		}
		updates["base_price_cents"] = *input.BasePriceCents
		changed = append(changed, "base_price_cents")
	}
	if input.DurationMinutes != nil {
		updates["duration_minutes"] = *input.DurationMinutes
		changed = append(changed, "duration_minutes")
	}
	if input.RequiresApproval != nil {
		updates["requires_approval"] = *input.RequiresApproval
		changed = append(changed, "requires_approval")
	}
	if input.SchedulingURL != nil {
		updates["scheduling_url"] = *input.SchedulingURL
		changed = append(changed, "scheduling_url")
	}
	if input.WhopProductID != nil {
		updates["whop.product_id"] = *input.WhopProductID
		if *input.WhopProductID != "" {
			updates["billing_provider"] = models.BillingWhop
		}
		changed = append(changed, "whop.product_id")
	}
	if input.WhopSyncEnabled != nil {
		updates["whop.sync_enabled"] = *input.WhopSyncEnabled
		changed = append(changed, "whop.sync_enabled")
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}
	updates["updated_at"] = time.Now().UTC()

	service, err := cs.serviceRepo.UpdateService(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	cs.emitConfigUpdated(ctx, service, changed, adminID)
	return service, nil
}

// SyncWhopProduct refreshes a service's price, currency and checkout URL
// from the linked commerce-platform product.
func (cs *CatalogService) SyncWhopProduct(ctx context.Context, id, adminID string) (*models.Service, error) {
	service, err := cs.serviceRepo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if service.Whop == nil || service.Whop.ProductID == "" {
		return nil, fmt.Errorf("service %s has no linked product", id)
	}
	if !service.Whop.SyncEnabled {
		return nil, fmt.Errorf("product sync is not enabled for service %s", id)
	}
	if !cs.whopClient.Configured() {
		return nil, fmt.Errorf("commerce platform client not configured")
	}

	product, err := cs.whopClient.FetchProduct(ctx, service.Whop.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %v", service.Whop.ProductID, err)
	}

	updates := map[string]interface{}{
		"price_cents": product.PriceCents,
		"currency":    product.Currency,
		"updated_at":  time.Now().UTC(),
	}
	if product.URL != "" {
		updates["whop.url"] = product.URL
	}

	updated, err := cs.serviceRepo.UpdateService(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	cs.emitConfigUpdated(ctx, updated, []string{"price_cents", "currency", "whop.url"}, adminID)
	return updated, nil
}

func (cs *CatalogService) emitConfigUpdated(ctx context.Context, service *models.Service, changed []string, adminID string) {
	tenantID := ""
	if service.TenantID != nil {
		tenantID = *service.TenantID
	}
	event := models.BuildEvent(models.BuildEventArgs{
		Name:     models.EventTenantConfigUpdated,
		TenantID: tenantID,
		AdminID:  adminID,
		Payload: map[string]interface{}{
			"service_id":     service.ID,
			"changed_fields": changed,
		},
	})
	entry, err := newOutboxEntry(models.OutboxAdminEvent, event)
	if err != nil {
		cs.logger.Warn("failed to build outbox entry", "error", err)
		return
	}
	if err := cs.outboxRepo.Enqueue(ctx, entry); err != nil {
		cs.logger.Warn("failed to enqueue outbox entry", "error", err)
	}
}
