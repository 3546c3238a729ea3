package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/audiojones/admin-api/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// WhopPayload is the strict shape parsed from the provider's webhook
// envelope at the boundary. Unknown fields are dropped; anything the
// reconciler needs is declared here.
type WhopPayload struct {
	Event string          `json:"event" validate:"required"`
	Data  WhopPayloadData `json:"data"`
}

type WhopPayloadData struct {
	ID         string                 `json:"id,omitempty"`
	ProductID  string                 `json:"product_id,omitempty"`
	User       *WhopPayloadUser       `json:"user,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	PriceCents int64                  `json:"price_cents,omitempty"`
	Currency   string                 `json:"currency,omitempty"`
	Status     string                 `json:"status,omitempty"`
}

type WhopPayloadUser struct {
	Email string `json:"email,omitempty"`
	ID    string `json:"id,omitempty"`
}

// paymentSuccessEvents is the allow-list of event types treated as "payment
// succeeded". Everything else is acknowledged and ignored so the provider
// does not retry.
var paymentSuccessEvents = map[string]bool{
	"checkout.completed":             true,
	"subscription.started":           true,
	"subscription.payment_succeeded": true,
	"payment.succeeded":              true,
}

const webhookDedupeTTL = 24 * time.Hour

type WebhookService struct {
	bookingRepo models.BookingRepo
	serviceRepo models.ServiceRepo
	userRepo    models.UserRepo
	outboxRepo  models.OutboxRepo
	bookingSvc  *BookingService
	redisClient *redis.Client
	logger      *slog.Logger
}

func NewWebhookService(
	bookingRepo models.BookingRepo,
	serviceRepo models.ServiceRepo,
	userRepo models.UserRepo,
	outboxRepo models.OutboxRepo,
	bookingSvc *BookingService,
	redisClient *redis.Client,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		outboxRepo:  outboxRepo,
		bookingSvc:  bookingSvc,
		redisClient: redisClient,
		logger:      logger,
	}
}

// HandlePaymentEvent reconciles a provider payment event against a booking.
// Every "nothing to do" outcome returns nil so the handler acknowledges and
// the provider does not retry; only infrastructure failures surface as
// errors.
func (ws *WebhookService) HandlePaymentEvent(ctx context.Context, payload *WhopPayload) error {
	if !paymentSuccessEvents[payload.Event] {
		ws.logger.Info("ignoring webhook event type", "event", payload.Event)
		return nil
	}

	if ws.alreadyProcessed(ctx, payload.Data.ID) {
		ws.logger.Info("webhook event already processed", "reference", payload.Data.ID)
		return nil
	}

	booking, err := ws.resolveBooking(ctx, payload)
	if err != nil {
		return err
	}
	if booking == nil {
		ws.logger.Warn("could not locate booking for payment event",
			"event", payload.Event,
			"product_id", payload.Data.ProductID,
		)
		return nil
	}

	return ws.applyPayment(ctx, booking, payload)
}

// resolveBooking implements the two-strategy lookup: explicit metadata
// booking id first, then product id + payer email + most recent open
// booking. A nil booking with nil error means "nothing matched".
func (ws *WebhookService) resolveBooking(ctx context.Context, payload *WhopPayload) (*models.Booking, error) {
	if bookingID, ok := payload.Data.Metadata["bookingId"].(string); ok && bookingID != "" {
		booking, err := ws.bookingRepo.GetBookingByID(ctx, bookingID)
		if err == nil {
			return booking, nil
		}
		if errors.Is(err, models.ErrNotFound) {
			ws.logger.Warn("booking not found for metadata id", "booking_id", bookingID)
		} else {
			return nil, err
		}
	}

	if payload.Data.ProductID == "" || payload.Data.User == nil || payload.Data.User.Email == "" {
		return nil, nil
	}

	service, err := ws.serviceRepo.FindServiceByWhopProduct(ctx, payload.Data.ProductID)
	if errors.Is(err, models.ErrNotFound) {
		ws.logger.Warn("no service found for product id", "product_id", payload.Data.ProductID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user, err := ws.userRepo.GetUserByEmail(ctx, payload.Data.User.Email)
	if errors.Is(err, models.ErrNotFound) {
		ws.logger.Warn("no user found for payer email")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	booking, err := ws.bookingRepo.FindLatestOpenBooking(ctx, user.UID, service.ID)
	if errors.Is(err, models.ErrNotFound) {
		ws.logger.Warn("no open booking found for user and service",
			"user_id", user.UID,
			"service_id", service.ID,
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// applyPayment routes the payment through the transition guard. A booking in
// pending or draft advances to approved with one history entry; a replay
// against an already-approved booking refreshes payment fields only; any
// other status is logged and acknowledged without mutation.
func (ws *WebhookService) applyPayment(ctx context.Context, booking *models.Booking, payload *WhopPayload) error {
	currency := payload.Data.Currency
	if currency == "" {
		currency = "USD"
	}
	payment := models.PaymentUpdate{
		Status:      models.PaymentPaid,
		Provider:    string(models.BillingWhop),
		Reference:   payload.Data.ID,
		AmountCents: payload.Data.PriceCents,
		Currency:    currency,
	}

	oldStatus := booking.Status
	var event *models.BookingStatusEvent

	switch booking.Status {
	case models.StatusApproved:
		// Replay: keep status and history, refresh payment metadata.
	case models.StatusPending, models.StatusDraft:
		// Payment force-approves open bookings. Drafts skip the pending hop:
		// a completed checkout is a stronger signal than a submitted form.
		event = &models.BookingStatusEvent{
			Status:    models.StatusApproved,
			ChangedAt: time.Now().UTC(),
			Note:      "payment received",
		}
	default:
		ws.logger.Warn("payment event for booking in non-approvable status",
			"booking_id", booking.ID,
			"status", booking.Status,
		)
		return nil
	}

	updated, err := ws.bookingRepo.ApplyPayment(ctx, booking.ID, booking.Version, payment, event)
	if errors.Is(err, models.ErrVersionConflict) {
		// Someone moved the booking while we worked; the provider will not
		// retry, and a concurrent admin action took authority.
		ws.logger.Warn("payment apply lost a concurrent update", "booking_id", booking.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to apply payment to booking %s: %v", booking.ID, err)
	}

	ws.markProcessed(ctx, payload.Data.ID)

	ws.logger.Info("payment reconciled",
		"booking_id", updated.ID,
		"old_status", oldStatus,
		"new_status", updated.Status,
		"reference", payload.Data.ID,
	)

	// A replay that only refreshed payment metadata emits nothing; the
	// first processing already announced the status change and the payment.
	if event == nil {
		return nil
	}

	// Notification, email and the status-updated admin event share the
	// admin path's pipeline; the payment.completed portal event is the
	// reconciler's own.
	ws.bookingSvc.queueStatusChangeEffects(ctx, updated, oldStatus, "", "whop-webhook")

	portalEvent := &models.PortalEvent{
		ID:         uuid.New().String(),
		Name:       models.EventPaymentCompleted,
		Source:     "system",
		TenantID:   updated.TenantID,
		UserID:     updated.UserID,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]interface{}{
			"booking_id":        updated.ID,
			"service_id":        updated.ServiceID,
			"payment_provider":  string(models.BillingWhop),
			"payment_reference": payload.Data.ID,
			"amount_cents":      payload.Data.PriceCents,
			"currency":          currency,
		},
	}
	ws.enqueue(ctx, models.OutboxPortalEvent, portalEvent)

	return nil
}

func (ws *WebhookService) enqueue(ctx context.Context, kind models.OutboxKind, payload interface{}) {
	entry, err := newOutboxEntry(kind, payload)
	if err != nil {
		ws.logger.Warn("failed to build outbox entry", "kind", kind, "error", err)
		return
	}
	if err := ws.outboxRepo.Enqueue(ctx, entry); err != nil {
		ws.logger.Warn("failed to enqueue outbox entry", "kind", kind, "error", err)
	}
}

// alreadyProcessed is a best-effort replay check. Redis being down means we
// fall through to the apply step, which is itself idempotent.
func (ws *WebhookService) alreadyProcessed(ctx context.Context, reference string) bool {
	if ws.redisClient == nil || reference == "" {
		return false
	}
	key := "webhook:whop:" + reference
	exists, err := ws.redisClient.Exists(ctx, key).Result()
	if err != nil {
		ws.logger.Warn("webhook dedupe check unavailable", "error", err)
		return false
	}
	return exists > 0
}

// markProcessed refreshes the dedupe marker after a successful apply so the
// TTL covers the provider's full retry window.
func (ws *WebhookService) markProcessed(ctx context.Context, reference string) {
	if ws.redisClient == nil || reference == "" {
		return
	}
	key := "webhook:whop:" + reference
	if err := ws.redisClient.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), webhookDedupeTTL).Err(); err != nil {
		ws.logger.Warn("failed to record webhook dedupe marker", "error", err)
	}
}
