package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/audiojones/admin-api/internal/models"
)

// EventService writes normalized events to the durable collections and, when
// an automation endpoint is configured, POSTs the same record there. The two
// sinks are independently best-effort: consumers reading both must
// deduplicate by event id.
type EventService struct {
	eventRepo     models.EventRepo
	automationURL string
	httpClient    *http.Client
	logger        *slog.Logger
}

func NewEventService(eventRepo models.EventRepo, automationURL string, logger *slog.Logger) *EventService {
	return &EventService{
		eventRepo:     eventRepo,
		automationURL: automationURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// EmitAdmin delivers an admin event to both sinks. The HTTP sink never fails
// the call; the store sink fails it only on a non-duplicate error, so outbox
// retries of an already-stored event are no-ops.
func (es *EventService) EmitAdmin(ctx context.Context, event *models.AdminEvent) error {
	err := es.eventRepo.InsertAdminEvent(ctx, event)
	if err != nil && !isDuplicateKey(err) {
		return fmt.Errorf("failed to store admin event: %v", err)
	}

	es.postToAutomation(ctx, string(event.Name), event)
	return nil
}

func (es *EventService) EmitPortal(ctx context.Context, event *models.PortalEvent) error {
	err := es.eventRepo.InsertPortalEvent(ctx, event)
	if err != nil && !isDuplicateKey(err) {
		return fmt.Errorf("failed to store portal event: %v", err)
	}

	es.postToAutomation(ctx, string(event.Name), event)
	return nil
}

func (es *EventService) postToAutomation(ctx context.Context, name string, record interface{}) {
	if es.automationURL == "" {
		return
	}

	body, err := json.Marshal(record)
	if err != nil {
		es.logger.Warn("failed to marshal event for automation", "event", name, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, es.automationURL, bytes.NewReader(body))
	if err != nil {
		es.logger.Warn("failed to build automation request", "event", name, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := es.httpClient.Do(req)
	if err != nil {
		es.logger.Warn("automation endpoint unreachable", "event", name, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		es.logger.Warn("automation endpoint rejected event", "event", name, "status", resp.StatusCode)
	}
}

func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
