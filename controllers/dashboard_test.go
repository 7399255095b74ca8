package controllers

import (
	"testing"
	"time"

	"github.com/homecare/homecare-app/models"
)

func TestMatchesSearch(t *testing.T) {
	if !matchesSearch("", "anything") {
		t.Error("empty query must match everything")
	}
	if !matchesSearch("  ", "anything") {
		t.Error("whitespace-only query must match everything")
	}
	if !matchesSearch("ANNA", "Anna Kowalski", "anna@example.com") {
		t.Error("match must be case-insensitive")
	}
	if !matchesSearch("kowal", "Anna Kowalski") {
		t.Error("substring must match")
	}
	if matchesSearch("bob", "Anna Kowalski", "anna@example.com") {
		t.Error("non-matching query must not match")
	}
}

func TestWithinWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		age    time.Duration
		window string
		want   bool
	}{
		{24 * time.Hour, WindowWeek, true},
		{8 * 24 * time.Hour, WindowWeek, false},
		{8 * 24 * time.Hour, WindowMonth, true},
		{31 * 24 * time.Hour, WindowMonth, false},
		{365 * 24 * time.Hour, WindowAll, true},
		{365 * 24 * time.Hour, "", true},
	}
	for _, tc := range cases {
		createdAt := now.Add(-tc.age)
		if got := withinWindow(createdAt, tc.window, now); got != tc.want {
			t.Errorf("withinWindow(now-%v, %q) = %v, want %v", tc.age, tc.window, got, tc.want)
		}
	}
}

func TestFilterUsers(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	users := []models.User{
		{ID: 1, Name: "Anna Kowalski", Email: "anna@example.com", Role: models.Role{Name: models.RoleClient}, CreatedAt: now.Add(-time.Hour)},
		{ID: 2, Name: "Annabelle Smith", Email: "abs@example.com", Role: models.Role{Name: "service_provider"}, CreatedAt: now.Add(-time.Hour)},
		{ID: 3, Name: "Bob Jones", Email: "bob@example.com", Role: models.Role{Name: models.RoleClient}, CreatedAt: now.Add(-time.Hour)},
		{ID: 4, Name: "Anna Old", Email: "old@example.com", Role: models.Role{Name: models.RoleClient}, CreatedAt: now.Add(-40 * 24 * time.Hour)},
	}

	// All filters compose with AND: role=client, q=anna, window=30d
	// yields only the recent client named Anna.
	got := FilterUsers(users, "anna", models.RoleClient, WindowMonth, now)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("got %d users %+v, want just user 1", len(got), got)
	}

	// Legacy role spellings resolve to the same filter bucket.
	got = FilterUsers(users, "", "provider", WindowAll, now)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("role filter: got %d users, want just user 2", len(got))
	}

	// role=all disables the categorical filter.
	got = FilterUsers(users, "anna", "all", WindowAll, now)
	if len(got) != 3 {
		t.Fatalf("role=all: got %d users, want 3", len(got))
	}
}

func TestFilterBookings(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{ServiceType: "Plumbing", Location: "Warsaw", Status: models.StatusPending, Client: models.User{Name: "Anna"}},
		{ServiceType: "Cleaning", Location: "Warsaw", Status: models.StatusCompleted, Client: models.User{Name: "Anna"}},
		{ServiceType: "Plumbing", Location: "Krakow", Status: models.StatusPending, Client: models.User{Name: "Bob"}},
		{ServiceType: "Plumbing", Location: "Warsaw", Status: models.BookingStatus("confirmed"), Client: models.User{Name: "Anna"}},
	}
	for i := range bookings {
		bookings[i].ID = uint(i + 1)
		bookings[i].CreatedAt = now.Add(-time.Hour)
	}
	bookings[2].CreatedAt = now.Add(-10 * 24 * time.Hour)

	// status + search + window combine with AND. The unknown "confirmed"
	// status displays as Pending, so it satisfies status=Pending.
	got := FilterBookings(bookings, "plumbing", string(models.StatusPending), WindowWeek, now)
	if len(got) != 2 {
		t.Fatalf("got %d bookings, want 2", len(got))
	}
	for _, b := range got {
		if b.Status != models.StatusPending {
			t.Errorf("filtered booking %d has display status %s", b.ID, b.Status)
		}
	}

	// Search spans client name as well as service fields.
	got = FilterBookings(bookings, "bob", "all", WindowAll, now)
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("search by client: got %d bookings, want just booking 3", len(got))
	}

	// The window filter alone excludes the older booking.
	got = FilterBookings(bookings, "", "all", WindowWeek, now)
	if len(got) != 3 {
		t.Fatalf("window filter: got %d bookings, want 3", len(got))
	}
}
