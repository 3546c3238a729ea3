package services

import (
	"context"
	"fmt"
	"time"

	"github.com/audiojones/admin-api/internal/models"
)

// DashboardStats is the aggregate snapshot shown on the admin landing page.
type DashboardStats struct {
	ActiveTenants         int64 `json:"active_tenants"`
	UpcomingSessionsCount int64 `json:"upcoming_sessions_count"`
	PendingApprovalsCount int64 `json:"pending_approvals_count"`
	NewClientsThisWeek    int64 `json:"new_clients_this_week"`
}

type DashboardService struct {
	tenantRepo  models.TenantRepo
	bookingRepo models.BookingRepo
	userRepo    models.UserRepo
}

func NewDashboardService(tenantRepo models.TenantRepo, bookingRepo models.BookingRepo, userRepo models.UserRepo) *DashboardService {
	return &DashboardService{
		tenantRepo:  tenantRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
	}
}

func (ds *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	now := time.Now().UTC()

	activeTenants, err := ds.tenantRepo.CountTenantsByStatus(ctx, models.TenantActive)
	if err != nil {
		return nil, fmt.Errorf("failed to count active tenants: %v", err)
	}

	upcoming, err := ds.bookingRepo.CountUpcomingApproved(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count upcoming sessions: %v", err)
	}

	pending, err := ds.bookingRepo.CountBookings(ctx, models.BookingFilter{Status: models.StatusPending})
	if err != nil {
		return nil, fmt.Errorf("failed to count pending approvals: %v", err)
	}

	newClients, err := ds.userRepo.CountClientsCreatedSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("failed to count new clients: %v", err)
	}

	return &DashboardStats{
		ActiveTenants:         activeTenants,
		UpcomingSessionsCount: upcoming,
		PendingApprovalsCount: pending,
		NewClientsThisWeek:    newClients,
	}, nil
}
