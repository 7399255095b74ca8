package presence

import (
	"context"
	"testing"
	"time"

	"github.com/homecare/homecare-app/models"
)

func TestMarkOnlineThenGet(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	session, err := tracker.MarkOnline(ctx, 1, models.RoleClient)
	if err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}
	defer session.Release()

	rec, err := tracker.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !rec.Online {
		t.Error("user should read as online")
	}
	if rec.Role != models.RoleClient {
		t.Errorf("Role = %q, want %q", rec.Role, models.RoleClient)
	}
}

func TestMarkOnlineFailClosed(t *testing.T) {
	store := NewMemoryStore()
	store.FailArm = true
	tracker := NewTracker(store)
	ctx := context.Background()

	if _, err := tracker.MarkOnline(ctx, 1, models.RoleClient); err == nil {
		t.Fatal("MarkOnline should fail when the disconnect session cannot be armed")
	}

	// A failed arm must leave no online record behind.
	rec, err := tracker.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Online {
		t.Error("user must not be online after a failed arm")
	}
}

func TestReleaseSetsOffline(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	session, err := tracker.MarkOnline(ctx, 2, models.RoleProvider)
	if err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}

	// Release runs on every teardown path, abrupt disconnects included.
	session.Release()
	session.Release() // idempotent

	rec, err := tracker.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Online {
		t.Error("user should be offline after release")
	}
	if rec.LastSeen.IsZero() {
		t.Error("release should stamp last seen")
	}
}

func TestGetUnknownUserReadsOffline(t *testing.T) {
	tracker := NewTracker(NewMemoryStore())
	rec, err := tracker.Get(context.Background(), 99)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Online {
		t.Error("unknown user must read as offline")
	}
	if rec.UserID != 99 {
		t.Errorf("UserID = %d, want 99", rec.UserID)
	}
}

func TestSubscribeReceivesChanges(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store)
	go tracker.Run()
	defer store.Close()
	ctx := context.Background()

	ch, cancel := tracker.Subscribe(3)
	defer cancel()
	all, cancelAll := tracker.Subscribe(0)
	defer cancelAll()

	session, err := tracker.MarkOnline(ctx, 3, models.RoleClient)
	if err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}
	defer session.Release()
	if _, err := tracker.MarkOnline(ctx, 4, models.RoleProvider); err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}

	select {
	case rec := <-ch:
		if rec.UserID != 3 || !rec.Online {
			t.Errorf("got %+v, want user 3 online", rec)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for presence update")
	}

	// The filtered subscription must never see user 4.
	select {
	case rec := <-ch:
		t.Errorf("unexpected update for user %d on filtered subscription", rec.UserID)
	case <-time.After(50 * time.Millisecond):
	}

	// The all-users subscription sees both.
	seen := map[uint]bool{}
	for len(seen) < 2 {
		select {
		case rec := <-all:
			seen[rec.UserID] = true
		case <-time.After(time.Second):
			t.Fatalf("timed out, saw %v", seen)
		}
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	ch, cancel := tracker.Subscribe(0)
	cancel()
	cancel() // safe to call twice

	if _, err := tracker.MarkOnline(ctx, 5, models.RoleClient); err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}

	if _, open := <-ch; open {
		t.Error("channel should be closed after cancel")
	}
}

func TestSweepStale(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	session, err := tracker.MarkOnline(ctx, 6, models.RoleProvider)
	if err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}

	// Simulate a process death: the session expires without Release.
	store.mu.Lock()
	for sid := range store.sessions[6] {
		store.sessions[6][sid] = time.Now().Add(-time.Minute)
	}
	store.mu.Unlock()

	if err := tracker.SweepStale(ctx); err != nil {
		t.Fatalf("SweepStale: %v", err)
	}

	rec, err := tracker.Get(ctx, 6)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Online {
		t.Error("swept user should be offline")
	}

	_ = session // the dead process's handle never runs
}

func TestSweepSkipsLiveSessions(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	session, err := tracker.MarkOnline(ctx, 7, models.RoleClient)
	if err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}
	defer session.Release()

	if err := session.Heartbeat(ctx); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if err := tracker.SweepStale(ctx); err != nil {
		t.Fatalf("SweepStale: %v", err)
	}

	rec, err := tracker.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !rec.Online {
		t.Error("user with a live session must survive the sweep")
	}
}
