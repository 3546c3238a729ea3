package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/audiojones/admin-api/internal/models"
)

const (
	outboxPollInterval = 10 * time.Second
	outboxBatchSize    = 20
	outboxMaxAttempts  = 8
)

// OutboxWorker drains the outbox collection in the background. Each claimed
// entry is dispatched by kind; failures are rescheduled with exponential
// backoff until the attempt cap, then marked failed permanently.
type OutboxWorker struct {
	outboxRepo      models.OutboxRepo
	eventSvc        *EventService
	notificationSvc *NotificationService
	logger          *slog.Logger
}

func NewOutboxWorker(
	outboxRepo models.OutboxRepo,
	eventSvc *EventService,
	notificationSvc *NotificationService,
	logger *slog.Logger,
) *OutboxWorker {
	return &OutboxWorker{
		outboxRepo:      outboxRepo,
		eventSvc:        eventSvc,
		notificationSvc: notificationSvc,
		logger:          logger,
	}
}

// Run polls until the context is cancelled. Intended to be started as a
// goroutine alongside the HTTP server.
func (ow *OutboxWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(outboxPollInterval)
	defer ticker.Stop()

	ow.logger.Info("outbox worker started", "poll_interval", outboxPollInterval.String())

	for {
		select {
		case <-ctx.Done():
			ow.logger.Info("outbox worker stopping")
			return
		case <-ticker.C:
			ow.DrainOnce(ctx)
		}
	}
}

// DrainOnce claims and dispatches one batch of due entries. A claim error
// mid-batch still leaves already-claimed entries in processing, so whatever
// came back gets dispatched before the error is reported.
func (ow *OutboxWorker) DrainOnce(ctx context.Context) {
	entries, err := ow.outboxRepo.ClaimDue(ctx, time.Now().UTC(), outboxBatchSize)
	if err != nil {
		ow.logger.Error("failed to claim outbox entries", "error", err, "claimed", len(entries))
	}

	for _, entry := range entries {
		if err := ow.dispatch(ctx, entry); err != nil {
			ow.recordFailure(ctx, entry, err)
			continue
		}
		if err := ow.outboxRepo.MarkSent(ctx, entry.ID); err != nil {
			ow.logger.Error("failed to mark outbox entry sent", "id", entry.ID, "error", err)
		}
	}
}

func (ow *OutboxWorker) dispatch(ctx context.Context, entry *models.OutboxEntry) error {
	switch entry.Kind {
	case models.OutboxEmail:
		var payload emailPayload
		if err := decodePayload(entry.Payload, &payload); err != nil {
			return err
		}
		return ow.notificationSvc.DeliverEmail(ctx, payload.NotificationID, payload.To, payload.Subject, payload.Body)
	case models.OutboxAdminEvent:
		var event models.AdminEvent
		if err := decodePayload(entry.Payload, &event); err != nil {
			return err
		}
		return ow.eventSvc.EmitAdmin(ctx, &event)
	case models.OutboxPortalEvent:
		var event models.PortalEvent
		if err := decodePayload(entry.Payload, &event); err != nil {
			return err
		}
		return ow.eventSvc.EmitPortal(ctx, &event)
	default:
		return fmt.Errorf("unknown outbox kind %q", entry.Kind)
	}
}

func (ow *OutboxWorker) recordFailure(ctx context.Context, entry *models.OutboxEntry, dispatchErr error) {
	attempts := entry.Attempts + 1
	if attempts >= outboxMaxAttempts {
		ow.logger.Error("outbox entry exhausted retries",
			"id", entry.ID,
			"kind", entry.Kind,
			"error", dispatchErr,
		)
		if err := ow.outboxRepo.MarkFailed(ctx, entry.ID, dispatchErr.Error()); err != nil {
			ow.logger.Error("failed to mark outbox entry failed", "id", entry.ID, "error", err)
		}
		if entry.Kind == models.OutboxEmail {
			var payload emailPayload
			if err := decodePayload(entry.Payload, &payload); err == nil && payload.NotificationID != "" {
				ow.notificationSvc.MarkPermanentFailure(ctx, payload.NotificationID, dispatchErr.Error())
			}
		}
		return
	}

	next := time.Now().UTC().Add(backoffDelay(attempts))
	ow.logger.Warn("outbox dispatch failed, rescheduling",
		"id", entry.ID,
		"kind", entry.Kind,
		"attempts", attempts,
		"next_attempt_at", next,
		"error", dispatchErr,
	)
	if err := ow.outboxRepo.Reschedule(ctx, entry.ID, attempts, next, dispatchErr.Error()); err != nil {
		ow.logger.Error("failed to reschedule outbox entry", "id", entry.ID, "error", err)
	}
}

// backoffDelay doubles per attempt: 1m, 2m, 4m, 8m, ...
func backoffDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return time.Minute << (attempts - 1)
}

func decodePayload(payload map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode outbox payload: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode outbox payload: %v", err)
	}
	return nil
}
