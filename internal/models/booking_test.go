package models

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTransitionTable(t *testing.T) {
	legal := []struct {
		from BookingStatus
		to   BookingStatus
	}{
		{StatusDraft, StatusPending},
		{StatusPending, StatusApproved},
		{StatusPending, StatusCancelled},
		{StatusPending, StatusDeclined},
		{StatusApproved, StatusInProgress},
		{StatusApproved, StatusCancelled},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusCancelled},
	}

	all := []BookingStatus{
		StatusDraft, StatusPending, StatusApproved,
		StatusInProgress, StatusCompleted, StatusCancelled, StatusDeclined,
	}

	isLegal := func(from, to BookingStatus) bool {
		for _, pair := range legal {
			if pair.from == from && pair.to == to {
				return true
			}
		}
		return false
	}

	for _, from := range all {
		for _, to := range all {
			err := ValidateTransition(from, to)
			if isLegal(from, to) && err != nil {
				t.Errorf("expected %s -> %s to be legal, got %v", from, to, err)
			}
			if !isLegal(from, to) && err == nil {
				t.Errorf("expected %s -> %s to be rejected", from, to)
			}
		}
	}
}

func TestTerminalStatusesHaveNoSuccessors(t *testing.T) {
	for _, status := range []BookingStatus{StatusCompleted, StatusCancelled, StatusDeclined} {
		if !status.IsTerminal() {
			t.Errorf("expected %s to be terminal", status)
		}
		if next := AllowedNext(status); len(next) != 0 {
			t.Errorf("expected no successors for %s, got %v", status, next)
		}
	}
}

func TestIllegalTransitionErrorNamesAllowedSet(t *testing.T) {
	err := ValidateTransition(StatusPending, StatusCompleted)
	if err == nil {
		t.Fatal("expected an error")
	}

	var illegal *IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransitionError, got %T", err)
	}
	if illegal.From != StatusPending || illegal.To != StatusCompleted {
		t.Errorf("unexpected from/to: %s -> %s", illegal.From, illegal.To)
	}

	msg := err.Error()
	for _, want := range []string{"pending", "completed", "approved", "cancelled", "declined"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error message to mention %q, got %q", want, msg)
		}
	}
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("in_progress")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusInProgress {
		t.Errorf("expected in_progress, got %s", status)
	}

	if _, err := ParseBookingStatus("paused"); err == nil {
		t.Error("expected unknown status to be rejected")
	}
	if _, err := ParseBookingStatus(""); err == nil {
		t.Error("expected empty status to be rejected")
	}
}
