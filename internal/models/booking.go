package models

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusDraft      BookingStatus = "draft"
	StatusPending    BookingStatus = "pending"
	StatusApproved   BookingStatus = "approved"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusDeclined   BookingStatus = "declined"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// statusTransitions is the single authority for legal booking status moves.
// Terminal statuses map to an empty successor set.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusDraft:      {StatusPending},
	StatusPending:    {StatusApproved, StatusCancelled, StatusDeclined},
	StatusApproved:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusDeclined:   {},
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if _, ok := statusTransitions[status]; !ok {
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
	return status, nil
}

// AllowedNext returns the legal successor statuses for the given status.
// Unknown statuses have no successors.
func AllowedNext(from BookingStatus) []BookingStatus {
	next, ok := statusTransitions[from]
	if !ok {
		return nil
	}
	out := make([]BookingStatus, len(next))
	copy(out, next)
	return out
}

func (s BookingStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// IllegalTransitionError names the current status and the full set of legal
// next statuses so clients can correct themselves.
type IllegalTransitionError struct {
	From    BookingStatus
	To      BookingStatus
	Allowed []BookingStatus
}

func (e *IllegalTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("illegal status transition from %q to %q, allowed: [%s]",
		e.From, e.To, strings.Join(allowed, ", "))
}

// ValidateTransition checks the requested move against the transition table.
// It is a pure check: business preconditions (payment received, schedule
// confirmed) are left to callers.
func ValidateTransition(from, to BookingStatus) error {
	for _, next := range statusTransitions[from] {
		if next == to {
			return nil
		}
	}
	return &IllegalTransitionError{From: from, To: to, Allowed: AllowedNext(from)}
}

// BookingStatusEvent is one entry in a booking's append-only status history.
type BookingStatusEvent struct {
	Status          BookingStatus `bson:"status" json:"status"`
	ChangedAt       time.Time     `bson:"changed_at" json:"changed_at"`
	ChangedByUserID string        `bson:"changed_by_user_id,omitempty" json:"changed_by_user_id,omitempty"`
	Note            string        `bson:"note,omitempty" json:"note,omitempty"`
}

type Booking struct {
	ID            string        `bson:"_id" json:"id"`
	TenantID      string        `bson:"tenant_id" json:"tenant_id" validate:"required"`
	UserID        string        `bson:"user_id" json:"user_id" validate:"required"`
	ServiceID     string        `bson:"service_id" json:"service_id" validate:"required"`
	Status        BookingStatus `bson:"status" json:"status"`
	ScheduledAt   *time.Time    `bson:"scheduled_at,omitempty" json:"scheduled_at,omitempty"`
	StartTime     *time.Time    `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime       *time.Time    `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Notes         string        `bson:"notes,omitempty" json:"notes,omitempty"`
	InternalNotes string        `bson:"internal_notes,omitempty" json:"internal_notes,omitempty"`
	PriceCents    int64         `bson:"price_cents,omitempty" json:"price_cents,omitempty"`

	PaymentStatus      PaymentStatus `bson:"payment_status,omitempty" json:"payment_status,omitempty"`
	PaymentProvider    string        `bson:"payment_provider,omitempty" json:"payment_provider,omitempty"`
	PaymentReference   string        `bson:"payment_reference,omitempty" json:"payment_reference,omitempty"`
	PaymentAmountCents int64         `bson:"payment_amount_cents,omitempty" json:"payment_amount_cents,omitempty"`
	PaymentCurrency    string        `bson:"payment_currency,omitempty" json:"payment_currency,omitempty"`

	StatusHistory []BookingStatusEvent `bson:"status_history,omitempty" json:"status_history,omitempty"`

	// Version is the optimistic-concurrency token. Every status or payment
	// write is conditional on the version read, so concurrent admin and
	// webhook updates cannot silently overwrite each other's history.
	Version int64 `bson:"version" json:"version"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PaymentUpdate carries the payment metadata recorded when a provider
// reports a successful payment for a booking.
type PaymentUpdate struct {
	Status      PaymentStatus
	Provider    string
	Reference   string
	AmountCents int64
	Currency    string
}

type BookingFilter struct {
	TenantID string
	Status   BookingStatus
	Limit    int64
}

type BookingRepo interface {
	GetBookingByID(ctx context.Context, id string) (*Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]*Booking, error)
	// UpdateBookingStatus persists a new status plus one appended history
	// entry, conditional on the booking still being at the given version.
	// Returns ErrVersionConflict when the conditional write matches nothing.
	UpdateBookingStatus(ctx context.Context, id string, version int64, event BookingStatusEvent) (*Booking, error)
	// ApplyPayment persists a status change together with payment metadata,
	// under the same conditional-write rules as UpdateBookingStatus. A nil
	// event records payment fields without touching status or history.
	ApplyPayment(ctx context.Context, id string, version int64, payment PaymentUpdate, event *BookingStatusEvent) (*Booking, error)
	// FindLatestOpenBooking returns the most recently created booking for
	// the user/service pair still in pending or draft, or nil.
	FindLatestOpenBooking(ctx context.Context, userID, serviceID string) (*Booking, error)
	CountBookings(ctx context.Context, filter BookingFilter) (int64, error)
	CountUpcomingApproved(ctx context.Context, after time.Time) (int64, error)
}
