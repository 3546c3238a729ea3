package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/audiojones/admin-api/internal/models"
	"github.com/google/uuid"
)

// EmailSender abstracts the mail facility so the worker can be tested
// without SES.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type NotificationService struct {
	notificationRepo models.NotificationRepo
	emailSender      EmailSender
	logger           *slog.Logger
}

func NewNotificationService(notificationRepo models.NotificationRepo, emailSender EmailSender, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		emailSender:      emailSender,
		logger:           logger,
	}
}

// RecordStatusChange writes the pending notification record for a booking
// status change and returns it. Delivery happens later, from the outbox.
func (ns *NotificationService) RecordStatusChange(ctx context.Context, booking *models.Booking, oldStatus models.BookingStatus) (*models.Notification, error) {
	n := &models.Notification{
		ID:             uuid.New().String(),
		TenantID:       booking.TenantID,
		BookingID:      booking.ID,
		UserID:         booking.UserID,
		Channel:        "email",
		EventType:      models.NotificationBookingStatusChanged,
		OldStatus:      string(oldStatus),
		NewStatus:      string(booking.Status),
		DeliveryStatus: models.DeliveryPending,
	}

	if err := ns.notificationRepo.InsertNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to log notification: %v", err)
	}
	return n, nil
}

// DeliverEmail sends the email and advances the notification's delivery
// status. A send failure leaves the record pending so the outbox can retry;
// the final verdict (sent/failed) is written by the caller's retry policy.
func (ns *NotificationService) DeliverEmail(ctx context.Context, notificationID, to, subject, body string) error {
	if to == "" {
		ns.markDelivery(ctx, notificationID, models.DeliveryFailed, "recipient email unknown")
		return nil
	}

	if err := ns.emailSender.Send(ctx, to, subject, body); err != nil {
		return fmt.Errorf("email send failed: %v", err)
	}

	ns.markDelivery(ctx, notificationID, models.DeliverySent, "")
	return nil
}

// MarkPermanentFailure records that delivery was abandoned after retries.
func (ns *NotificationService) MarkPermanentFailure(ctx context.Context, notificationID, reason string) {
	ns.markDelivery(ctx, notificationID, models.DeliveryFailed, reason)
}

func (ns *NotificationService) markDelivery(ctx context.Context, id string, status models.DeliveryStatus, deliveryErr string) {
	if id == "" {
		return
	}
	if err := ns.notificationRepo.MarkDelivery(ctx, id, status, deliveryErr); err != nil {
		ns.logger.Warn("failed to update notification delivery status",
			"notification_id", id,
			"status", status,
			"error", err,
		)
	}
}

// StatusChangeEmail renders the subject and body for a status-change email.
func StatusChangeEmail(booking *models.Booking, serviceName string) (subject, body string) {
	subject = fmt.Sprintf("Your booking is now %s", booking.Status)
	if serviceName != "" {
		subject = fmt.Sprintf("%s: booking %s", serviceName, booking.Status)
	}
	body = fmt.Sprintf(
		"Hi,\n\nThe status of your booking %s has changed to %q.\n\nIf you have questions, just reply to this email.\n",
		booking.ID, booking.Status,
	)
	return subject, body
}
