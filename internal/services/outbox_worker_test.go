package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/audiojones/admin-api/internal/models"
)

type failingEmailSender struct {
	err   error
	sends int
}

func (f *failingEmailSender) Send(ctx context.Context, to, subject, body string) error {
	f.sends++
	return f.err
}

func TestBackoffDelayDoubles(t *testing.T) {
	cases := []struct {
		attempts int
		want     time.Duration
	}{
		{1, time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{4, 8 * time.Minute},
	}
	for _, tc := range cases {
		if got := backoffDelay(tc.attempts); got != tc.want {
			t.Errorf("attempt %d: expected %v, got %v", tc.attempts, tc.want, got)
		}
	}
}

func TestOutboxWorkerDeliversEmail(t *testing.T) {
	store := newFakeStore()
	sender := &failingEmailSender{}
	notificationSvc := NewNotificationService(store, sender, testLogger())

	n := &models.Notification{ID: "n1", DeliveryStatus: models.DeliveryPending}
	store.notifications = append(store.notifications, n)

	entry, err := newOutboxEntry(models.OutboxEmail, emailPayload{
		NotificationID: "n1",
		To:             "client@example.com",
		Subject:        "Booking update",
		Body:           "Your booking was approved.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.outbox = append(store.outbox, entry)

	worker := NewOutboxWorker(store, nil, notificationSvc, testLogger())
	worker.DrainOnce(context.Background())

	if sender.sends != 1 {
		t.Fatalf("expected one send, got %d", sender.sends)
	}
	if entry.Status != models.OutboxSent {
		t.Errorf("expected entry marked sent, got %s", entry.Status)
	}
	if n.DeliveryStatus != models.DeliverySent {
		t.Errorf("expected notification marked sent, got %s", n.DeliveryStatus)
	}
}

func TestOutboxWorkerDispatchesClaimedEntriesDespiteClaimError(t *testing.T) {
	store := newFakeStore()
	store.claimErr = errors.New("cursor timed out")
	sender := &failingEmailSender{}
	notificationSvc := NewNotificationService(store, sender, testLogger())

	entry, err := newOutboxEntry(models.OutboxEmail, emailPayload{
		NotificationID: "n1",
		To:             "client@example.com",
		Subject:        "s",
		Body:           "b",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.outbox = append(store.outbox, entry)

	worker := NewOutboxWorker(store, nil, notificationSvc, testLogger())
	worker.DrainOnce(context.Background())

	// An errored claim must not strand entries that were already moved to
	// processing.
	if sender.sends != 1 {
		t.Fatalf("expected claimed entry to be dispatched, got %d sends", sender.sends)
	}
	if entry.Status != models.OutboxSent {
		t.Errorf("expected entry marked sent, got %s", entry.Status)
	}
}

func TestOutboxWorkerReschedulesFailedDispatch(t *testing.T) {
	store := newFakeStore()
	sender := &failingEmailSender{err: errors.New("smtp down")}
	notificationSvc := NewNotificationService(store, sender, testLogger())

	entry, err := newOutboxEntry(models.OutboxEmail, emailPayload{
		NotificationID: "n1",
		To:             "client@example.com",
		Subject:        "s",
		Body:           "b",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.outbox = append(store.outbox, entry)

	worker := NewOutboxWorker(store, nil, notificationSvc, testLogger())
	before := time.Now().UTC()
	worker.DrainOnce(context.Background())

	if entry.Status != models.OutboxPending {
		t.Fatalf("expected entry back to pending, got %s", entry.Status)
	}
	if entry.Attempts != 1 {
		t.Errorf("expected one recorded attempt, got %d", entry.Attempts)
	}
	if entry.NextAttemptAt.Before(before.Add(time.Minute - time.Second)) {
		t.Errorf("expected next attempt at least a minute out, got %v", entry.NextAttemptAt)
	}
	if entry.LastError == "" {
		t.Error("expected last error to be recorded")
	}
}

func TestOutboxWorkerMarksFailedAfterMaxAttempts(t *testing.T) {
	store := newFakeStore()
	sender := &failingEmailSender{err: errors.New("smtp down")}
	notificationSvc := NewNotificationService(store, sender, testLogger())

	n := &models.Notification{ID: "n1", DeliveryStatus: models.DeliveryPending}
	store.notifications = append(store.notifications, n)

	entry, err := newOutboxEntry(models.OutboxEmail, emailPayload{
		NotificationID: "n1",
		To:             "client@example.com",
		Subject:        "s",
		Body:           "b",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry.Attempts = outboxMaxAttempts - 1
	store.outbox = append(store.outbox, entry)

	worker := NewOutboxWorker(store, nil, notificationSvc, testLogger())
	worker.DrainOnce(context.Background())

	if entry.Status != models.OutboxFailed {
		t.Fatalf("expected entry marked failed, got %s", entry.Status)
	}
	if n.DeliveryStatus != models.DeliveryFailed {
		t.Errorf("expected notification marked failed, got %s", n.DeliveryStatus)
	}
}
