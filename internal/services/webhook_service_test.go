package services

import (
	"context"
	"testing"
	"time"

	"github.com/audiojones/admin-api/internal/models"
)

func newTestWebhookService(store *fakeStore) *WebhookService {
	bs := newTestBookingService(store)
	return NewWebhookService(store, store, store, store, bs, nil, testLogger())
}

func TestWebhookIgnoresNonPaymentEvents(t *testing.T) {
	store := newFakeStore()
	seedBooking(store, "b1", models.StatusPending)

	ws := newTestWebhookService(store)

	err := ws.HandlePaymentEvent(context.Background(), &WhopPayload{
		Event: "membership.cancelled",
		Data:  WhopPayloadData{ID: "evt-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.bookings["b1"].Status != models.StatusPending {
		t.Error("ignored event must not mutate bookings")
	}
	if len(store.outbox) != 0 {
		t.Error("ignored event must not enqueue anything")
	}
}

func TestWebhookApprovesViaMetadataBookingID(t *testing.T) {
	store := newFakeStore()
	seedBooking(store, "b1", models.StatusPending)

	ws := newTestWebhookService(store)

	err := ws.HandlePaymentEvent(context.Background(), &WhopPayload{
		Event: "checkout.completed",
		Data: WhopPayloadData{
			ID:         "evt-1",
			Metadata:   map[string]interface{}{"bookingId": "b1"},
			PriceCents: 5000,
			Currency:   "usd",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := store.bookings["b1"]
	if b.Status != models.StatusApproved {
		t.Errorf("expected approved, got %s", b.Status)
	}
	if b.PaymentStatus != models.PaymentPaid {
		t.Errorf("expected paid, got %s", b.PaymentStatus)
	}
	if b.PaymentReference != "evt-1" {
		t.Errorf("expected payment reference evt-1, got %q", b.PaymentReference)
	}
	if len(b.StatusHistory) != 1 {
		t.Fatalf("expected one history entry, got %d", len(b.StatusHistory))
	}

	if n := len(store.outboxByKind(models.OutboxAdminEvent)); n != 1 {
		t.Errorf("expected one admin event, got %d", n)
	}
	if n := len(store.outboxByKind(models.OutboxPortalEvent)); n != 1 {
		t.Errorf("expected one portal event, got %d", n)
	}
}

func TestWebhookApprovesDraftBooking(t *testing.T) {
	store := newFakeStore()
	seedBooking(store, "b1", models.StatusDraft)

	ws := newTestWebhookService(store)

	err := ws.HandlePaymentEvent(context.Background(), &WhopPayload{
		Event: "checkout.completed",
		Data: WhopPayloadData{
			ID:         "evt-6",
			Metadata:   map[string]interface{}{"bookingId": "b1"},
			PriceCents: 5000,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := store.bookings["b1"]
	if b.Status != models.StatusApproved {
		t.Errorf("expected draft booking to be approved on payment, got %s", b.Status)
	}
	if b.PaymentStatus != models.PaymentPaid {
		t.Errorf("expected paid, got %q", b.PaymentStatus)
	}
	if len(b.StatusHistory) != 1 || b.StatusHistory[0].Status != models.StatusApproved {
		t.Errorf("expected one approved history entry, got %+v", b.StatusHistory)
	}
}

func TestWebhookSharesStatusChangePipeline(t *testing.T) {
	store := newFakeStore()
	seedBooking(store, "b1", models.StatusPending)
	store.users["user-1"] = &models.User{UID: "user-1", Email: "client@example.com"}
	store.services["svc-1"] = &models.Service{ID: "svc-1", Name: "Mixdown Session"}

	ws := newTestWebhookService(store)

	err := ws.HandlePaymentEvent(context.Background(), &WhopPayload{
		Event: "checkout.completed",
		Data: WhopPayloadData{
			ID:       "evt-7",
			Metadata: map[string]interface{}{"bookingId": "b1"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.notifications) != 1 {
		t.Fatalf("expected a notification record like the admin path writes, got %d", len(store.notifications))
	}

	emails := store.outboxByKind(models.OutboxEmail)
	if len(emails) != 1 {
		t.Fatalf("expected one queued email, got %d", len(emails))
	}
	if to, _ := emails[0].Payload["to"].(string); to != "client@example.com" {
		t.Errorf("expected email addressed to the booking user, got %q", to)
	}

	events := store.outboxByKind(models.OutboxAdminEvent)
	if len(events) != 1 {
		t.Fatalf("expected one admin event, got %d", len(events))
	}
	if source, _ := events[0].Payload["source"].(string); source != "whop-webhook" {
		t.Errorf("expected event source whop-webhook, got %q", source)
	}
}

func TestWebhookResolvesByProductAndEmail(t *testing.T) {
	store := newFakeStore()
	seedBooking(store, "b1", models.StatusPending)
	store.users["user-1"] = &models.User{UID: "user-1", Email: "client@example.com"}
	store.services["svc-1"] = &models.Service{
		ID:   "svc-1",
		Name: "Mixdown Session",
		Whop: &models.WhopConfig{ProductID: "prod-9"},
	}

	ws := newTestWebhookService(store)

	err := ws.HandlePaymentEvent(context.Background(), &WhopPayload{
		Event: "payment.succeeded",
		Data: WhopPayloadData{
			ID:        "evt-2",
			ProductID: "prod-9",
			User:      &WhopPayloadUser{Email: "client@example.com"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.bookings["b1"].Status != models.StatusApproved {
		t.Errorf("expected approved, got %s", store.bookings["b1"].Status)
	}
}

func TestWebhookUnresolvedEventAcks(t *testing.T) {
	store := newFakeStore()

	ws := newTestWebhookService(store)

	err := ws.HandlePaymentEvent(context.Background(), &WhopPayload{
		Event: "checkout.completed",
		Data: WhopPayloadData{
			ID:        "evt-3",
			ProductID: "prod-unknown",
			User:      &WhopPayloadUser{Email: "nobody@example.com"},
		},
	})
	if err != nil {
		t.Fatalf("unresolved event must be acknowledged, got %v", err)
	}
	if len(store.outbox) != 0 {
		t.Error("unresolved event must not enqueue anything")
	}
}

func TestWebhookReplayRefreshesPaymentWithoutHistory(t *testing.T) {
	store := newFakeStore()
	b := seedBooking(store, "b1", models.StatusApproved)
	b.StatusHistory = []models.BookingStatusEvent{{
		Status:    models.StatusApproved,
		ChangedAt: time.Now().UTC().Add(-time.Minute),
	}}
	b.Version = 2

	ws := newTestWebhookService(store)

	err := ws.HandlePaymentEvent(context.Background(), &WhopPayload{
		Event: "checkout.completed",
		Data: WhopPayloadData{
			ID:       "evt-4",
			Metadata: map[string]interface{}{"bookingId": "b1"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := store.bookings["b1"]
	if got.Status != models.StatusApproved {
		t.Errorf("replay must not change status, got %s", got.Status)
	}
	if len(got.StatusHistory) != 1 {
		t.Errorf("replay must not append history, got %d entries", len(got.StatusHistory))
	}
	if got.PaymentReference != "evt-4" {
		t.Errorf("replay should refresh payment fields, got %q", got.PaymentReference)
	}
	if len(store.outbox) != 0 {
		t.Error("replay must not emit events or emails again")
	}
	if len(store.notifications) != 0 {
		t.Error("replay must not write another notification record")
	}
}

func TestWebhookLeavesTerminalBookingsAlone(t *testing.T) {
	store := newFakeStore()
	seedBooking(store, "b1", models.StatusCancelled)

	ws := newTestWebhookService(store)

	err := ws.HandlePaymentEvent(context.Background(), &WhopPayload{
		Event: "checkout.completed",
		Data: WhopPayloadData{
			ID:       "evt-5",
			Metadata: map[string]interface{}{"bookingId": "b1"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := store.bookings["b1"]
	if got.Status != models.StatusCancelled {
		t.Errorf("cancelled booking must stay cancelled, got %s", got.Status)
	}
	if got.PaymentReference != "" {
		t.Error("cancelled booking must not receive payment fields")
	}
	if len(store.outbox) != 0 {
		t.Error("no events should be enqueued for a skipped booking")
	}
}
