package models

import (
	"context"
	"time"
)

type OutboxKind string

const (
	OutboxEmail       OutboxKind = "email"
	OutboxAdminEvent  OutboxKind = "admin_event"
	OutboxPortalEvent OutboxKind = "portal_event"
)

type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxProcessing OutboxStatus = "processing"
	OutboxSent       OutboxStatus = "sent"
	OutboxFailed     OutboxStatus = "failed"
)

// OutboxEntry is a durable side-effect intent. Primary state changes enqueue
// entries instead of attempting delivery inline; a background worker drains
// them with retry and backoff, so a failed email or event emission never
// blocks or fails the operation that requested it.
type OutboxEntry struct {
	ID            string                 `bson:"_id" json:"id"`
	Kind          OutboxKind             `bson:"kind" json:"kind"`
	Payload       map[string]interface{} `bson:"payload" json:"payload"`
	Status        OutboxStatus           `bson:"status" json:"status"`
	Attempts      int                    `bson:"attempts" json:"attempts"`
	NextAttemptAt time.Time              `bson:"next_attempt_at" json:"next_attempt_at"`
	LastError     string                 `bson:"last_error,omitempty" json:"last_error,omitempty"`
	CreatedAt     time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time              `bson:"updated_at" json:"updated_at"`
}

type OutboxRepo interface {
	Enqueue(ctx context.Context, entry *OutboxEntry) error
	// ClaimDue atomically moves up to limit due pending entries to
	// processing and returns them, so concurrent workers never double-send.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*OutboxEntry, error)
	MarkSent(ctx context.Context, id string) error
	// Reschedule records a failed attempt and the time of the next one.
	Reschedule(ctx context.Context, id string, attempts int, nextAttemptAt time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id string, lastErr string) error
}
