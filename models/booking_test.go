package models

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to BookingStatus
	}{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusCompleted},
		{StatusApproved, StatusCancelled},
	}
	for _, tc := range allowed {
		if err := CanTransition(tc.from, tc.to); err != nil {
			t.Errorf("CanTransition(%s, %s) = %v, want nil", tc.from, tc.to, err)
		}
	}

	denied := []struct {
		from, to BookingStatus
	}{
		{StatusPending, StatusCompleted},
		{StatusApproved, StatusRejected},
		{StatusApproved, StatusApproved},
		{StatusCompleted, StatusApproved},
		{StatusCompleted, StatusCancelled},
		{StatusRejected, StatusApproved},
		{StatusCancelled, StatusPending},
		{BookingStatus("confirmed"), StatusApproved},
		{BookingStatus(""), StatusApproved},
	}
	for _, tc := range denied {
		if err := CanTransition(tc.from, tc.to); err == nil {
			t.Errorf("CanTransition(%s, %s) = nil, want error", tc.from, tc.to)
		}
	}
}

func TestTerminalStatusesFrozen(t *testing.T) {
	terminals := []BookingStatus{StatusCompleted, StatusRejected, StatusCancelled}
	targets := []BookingStatus{StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled}
	for _, from := range terminals {
		if !from.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", from)
		}
		for _, to := range targets {
			if err := CanTransition(from, to); err == nil {
				t.Errorf("CanTransition(%s, %s) = nil, want error", from, to)
			}
		}
	}
	if StatusPending.Terminal() || StatusApproved.Terminal() {
		t.Error("Pending and Approved must not be terminal")
	}
}

func TestResolveAction(t *testing.T) {
	cases := []struct {
		action  BookingAction
		role    string
		want    BookingStatus
		wantErr bool
	}{
		{ActionApprove, RoleProvider, StatusApproved, false},
		{ActionReject, RoleProvider, StatusRejected, false},
		{ActionComplete, RoleProvider, StatusCompleted, false},
		{ActionCancel, RoleAdmin, StatusCancelled, false},
		{ActionConfirm, RoleAdmin, StatusApproved, false},
		{ActionApprove, RoleClient, "", true},
		{ActionApprove, RoleAdmin, "", true},
		{ActionCancel, RoleProvider, "", true},
		{ActionCancel, RoleClient, "", true},
		{ActionConfirm, RoleProvider, "", true},
		{BookingAction("archive"), RoleAdmin, "", true},
	}
	for _, tc := range cases {
		got, err := ResolveAction(tc.action, tc.role)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ResolveAction(%s, %s) = %s, want error", tc.action, tc.role, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ResolveAction(%s, %s) error: %v", tc.action, tc.role, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ResolveAction(%s, %s) = %s, want %s", tc.action, tc.role, got, tc.want)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	for _, s := range []BookingStatus{StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled} {
		got, ok := NormalizeStatus(string(s))
		if !ok || got != s {
			t.Errorf("NormalizeStatus(%s) = %s, %v", s, got, ok)
		}
	}
	got, ok := NormalizeStatus("confirmed")
	if ok || got != StatusPending {
		t.Errorf("NormalizeStatus(confirmed) = %s, %v, want Pending display fallback", got, ok)
	}
	got, ok = NormalizeStatus("")
	if ok || got != StatusPending {
		t.Errorf("NormalizeStatus(\"\") = %s, %v, want Pending display fallback", got, ok)
	}
}

func TestAggregate(t *testing.T) {
	bookings := []Booking{
		{Status: StatusPending, Amount: 100},
		{Status: StatusApproved, Amount: 200},
		{Status: StatusCompleted, Amount: 499, PaymentReleased: true},
		{Status: StatusCompleted, Amount: 300, PaymentReleased: false},
		{Status: StatusRejected, Amount: 150, PaymentReleased: true},
		{Status: StatusCancelled, Amount: 50},
	}
	stats := Aggregate(bookings)
	if stats.Total != 6 {
		t.Errorf("Total = %d, want 6", stats.Total)
	}
	if stats.Pending != 1 || stats.Approved != 1 || stats.Completed != 2 || stats.Rejected != 1 || stats.Cancelled != 1 {
		t.Errorf("counts = %+v", stats)
	}
	// Only completed bookings with payment released count toward earnings.
	if stats.Earnings != 499 {
		t.Errorf("Earnings = %v, want 499", stats.Earnings)
	}
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)
	if stats.Total != 0 || stats.Earnings != 0 {
		t.Errorf("Aggregate(nil) = %+v, want zero stats", stats)
	}
}

func TestAggregateLifecycleScenario(t *testing.T) {
	// A client books a 499 service; the provider approves, then completes
	// with payment released. Earnings move only on the final step.
	b := Booking{Amount: 499, Status: StatusPending}

	if err := CanTransition(b.Status, StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	b.Status = StatusApproved
	if got := Aggregate([]Booking{b}).Earnings; got != 0 {
		t.Fatalf("earnings after approval = %v, want 0", got)
	}

	if err := CanTransition(b.Status, StatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	b.Status = StatusCompleted
	b.PaymentReleased = true
	if got := Aggregate([]Booking{b}).Earnings; got != 499 {
		t.Fatalf("earnings after completion = %v, want 499", got)
	}
}
