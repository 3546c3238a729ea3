package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/audiojones/admin-api/internal/models"
	"github.com/google/uuid"
)

// emailPayload is the outbox payload for a deferred email delivery.
type emailPayload struct {
	NotificationID string `json:"notification_id"`
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

type BookingService struct {
	bookingRepo     models.BookingRepo
	userRepo        models.UserRepo
	serviceRepo     models.ServiceRepo
	outboxRepo      models.OutboxRepo
	notificationSvc *NotificationService
	logger          *slog.Logger
}

func NewBookingService(
	bookingRepo models.BookingRepo,
	userRepo models.UserRepo,
	serviceRepo models.ServiceRepo,
	outboxRepo models.OutboxRepo,
	notificationSvc *NotificationService,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:     bookingRepo,
		userRepo:        userRepo,
		serviceRepo:     serviceRepo,
		outboxRepo:      outboxRepo,
		notificationSvc: notificationSvc,
		logger:          logger,
	}
}

func (bs *BookingService) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	if filter.Limit < 0 {
		return nil, fmt.Errorf("invalid limit")
	}
	return bs.bookingRepo.ListBookings(ctx, filter)
}

// GetBooking enforces tenant isolation: a real booking under the wrong
// tenant reads as not found, never as the booking's data.
func (bs *BookingService) GetBooking(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	booking, err := bs.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.TenantID != tenantID {
		return nil, models.ErrNotFound
	}
	return booking, nil
}

// UpdateStatus is the admin status-change path: ownership check, transition
// guard, conditional persist with exactly one appended history entry, then
// best-effort side effects through the outbox. Side-effect failures never
// fail the update.
func (bs *BookingService) UpdateStatus(ctx context.Context, tenantID, bookingID string, newStatus models.BookingStatus, note, adminID string) (*models.Booking, error) {
	booking, err := bs.GetBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}

	oldStatus := booking.Status
	if err := models.ValidateTransition(oldStatus, newStatus); err != nil {
		return nil, err
	}

	event := models.BookingStatusEvent{
		Status:          newStatus,
		ChangedAt:       time.Now().UTC(),
		ChangedByUserID: adminID,
		Note:            note,
	}

	updated, err := bs.bookingRepo.UpdateBookingStatus(ctx, booking.ID, booking.Version, event)
	if err != nil {
		return nil, err
	}

	bs.queueStatusChangeEffects(ctx, updated, oldStatus, adminID, "admin-portal")

	return updated, nil
}

// queueStatusChangeEffects logs the notification record and enqueues the
// email and the booking.status_updated event. Shared by the admin path and
// the webhook reconciler so both flow through the same authority.
func (bs *BookingService) queueStatusChangeEffects(ctx context.Context, booking *models.Booking, oldStatus models.BookingStatus, adminID, source string) {
	// Notification record + email.
	notification, err := bs.notificationSvc.RecordStatusChange(ctx, booking, oldStatus)
	if err != nil {
		bs.logger.Warn("failed to record notification", "booking_id", booking.ID, "error", err)
	} else {
		bs.queueStatusEmail(ctx, booking, notification.ID)
	}

	// Admin event for automation consumers.
	adminEvent := models.BuildEvent(models.BuildEventArgs{
		Name:     models.EventBookingStatusUpdated,
		TenantID: booking.TenantID,
		AdminID:  adminID,
		Payload: map[string]interface{}{
			"booking_id": booking.ID,
			"service_id": booking.ServiceID,
			"old_status": string(oldStatus),
			"new_status": string(booking.Status),
			"source":     source,
		},
	})
	adminEvent.Source = source
	bs.enqueue(ctx, models.OutboxAdminEvent, adminEvent)
}

func (bs *BookingService) queueStatusEmail(ctx context.Context, booking *models.Booking, notificationID string) {
	var serviceName string
	if svc, err := bs.serviceRepo.GetServiceByID(ctx, booking.ServiceID); err == nil {
		serviceName = svc.Name
	}

	var to string
	user, err := bs.userRepo.GetUserByID(ctx, booking.UserID)
	if err != nil {
		bs.logger.Warn("booking user not found for notification",
			"booking_id", booking.ID,
			"user_id", booking.UserID,
			"error", err,
		)
	} else {
		to = user.Email
	}

	subject, body := StatusChangeEmail(booking, serviceName)
	bs.enqueue(ctx, models.OutboxEmail, emailPayload{
		NotificationID: notificationID,
		To:             to,
		Subject:        subject,
		Body:           body,
	})
}

// enqueue writes a durable side-effect intent. Errors are logged and
// swallowed: the primary state change has already been persisted.
func (bs *BookingService) enqueue(ctx context.Context, kind models.OutboxKind, payload interface{}) {
	entry, err := newOutboxEntry(kind, payload)
	if err != nil {
		bs.logger.Warn("failed to build outbox entry", "kind", kind, "error", err)
		return
	}
	if err := bs.outboxRepo.Enqueue(ctx, entry); err != nil {
		bs.logger.Warn("failed to enqueue outbox entry", "kind", kind, "error", err)
	}
}

// newOutboxEntry converts a typed payload into the map shape the outbox
// collection stores.
func newOutboxEntry(kind models.OutboxKind, payload interface{}) (*models.OutboxEntry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outbox payload: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to convert outbox payload: %v", err)
	}
	return &models.OutboxEntry{
		ID:      uuid.New().String(),
		Kind:    kind,
		Payload: m,
	}, nil
}
