package services

import (
	"context"
	"testing"
	"time"

	"github.com/audiojones/admin-api/internal/models"
)

func TestDashboardStats(t *testing.T) {
	store := newFakeStore()

	soon := time.Now().UTC().Add(2 * time.Hour)
	past := time.Now().UTC().Add(-2 * time.Hour)

	seedBooking(store, "b1", models.StatusPending)
	seedBooking(store, "b2", models.StatusPending)
	upcoming := seedBooking(store, "b3", models.StatusApproved)
	upcoming.ScheduledAt = &soon
	finished := seedBooking(store, "b4", models.StatusApproved)
	finished.ScheduledAt = &past

	store.users["u1"] = &models.User{UID: "u1", Role: models.RoleClient, CreatedAt: time.Now().UTC().AddDate(0, 0, -2)}
	store.users["u2"] = &models.User{UID: "u2", Role: models.RoleClient, CreatedAt: time.Now().UTC().AddDate(0, 0, -30)}
	store.users["u3"] = &models.User{UID: "u3", Role: models.RoleAdmin, CreatedAt: time.Now().UTC()}

	tenantStore := &fakeTenantCounter{active: 3}
	ds := NewDashboardService(tenantStore, store, store)

	stats, err := ds.GetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.ActiveTenants != 3 {
		t.Errorf("expected 3 active tenants, got %d", stats.ActiveTenants)
	}
	if stats.PendingApprovalsCount != 2 {
		t.Errorf("expected 2 pending approvals, got %d", stats.PendingApprovalsCount)
	}
	if stats.UpcomingSessionsCount != 1 {
		t.Errorf("expected 1 upcoming session, got %d", stats.UpcomingSessionsCount)
	}
	if stats.NewClientsThisWeek != 1 {
		t.Errorf("expected 1 new client, got %d", stats.NewClientsThisWeek)
	}
}

type fakeTenantCounter struct {
	active int64
}

func (f *fakeTenantCounter) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	return nil, nil
}

func (f *fakeTenantCounter) GetTenantByID(ctx context.Context, id string) (*models.Tenant, error) {
	return nil, models.ErrNotFound
}

func (f *fakeTenantCounter) UpdateTenant(ctx context.Context, id string, updates map[string]interface{}) (*models.Tenant, error) {
	return nil, models.ErrNotFound
}

func (f *fakeTenantCounter) CountTenantsByStatus(ctx context.Context, status models.TenantStatus) (int64, error) {
	if status == models.TenantActive {
		return f.active, nil
	}
	return 0, nil
}
