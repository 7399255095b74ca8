package presence

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homecare/homecare-app/models"
)

// SessionTTL bounds how long a crashed process can keep a user online
// before the sweep marks them offline. Live connections refresh it via
// Session.Heartbeat.
const SessionTTL = 90 * time.Second

// Tracker maintains per-user online/offline state on top of a Store and
// fans every change out to local subscribers.
type Tracker struct {
	store Store

	mu   sync.Mutex
	subs map[int]*subscription
	next int
}

type subscription struct {
	userID uint // 0 means all users
	ch     chan models.PresenceRecord
}

// Session is the handle MarkOnline returns for one live connection.
type Session struct {
	tracker   *Tracker
	userID    uint
	role      string
	sessionID string
	once      sync.Once
}

func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		subs:  make(map[int]*subscription),
	}
}

// Run consumes the store's change feed and delivers it to subscribers.
// Blocks until the store's event channel closes.
func (t *Tracker) Run() {
	for rec := range t.store.Events() {
		t.fanout(rec)
	}
}

// MarkOnline arms the disconnect effect, then marks the user online.
// The ordering is deliberate: the offline-on-disconnect session must be
// registered before the online flag is written, otherwise a crash in the
// window between the two leaves the user online forever. If arming fails
// the user is not marked online at all (fail closed).
//
// The caller must invoke Session.Release on connection teardown, clean or
// not; defer it next to the connection close.
func (t *Tracker) MarkOnline(ctx context.Context, userID uint, role string) (*Session, error) {
	sessionID := uuid.NewString()
	if err := t.store.Arm(ctx, userID, sessionID, SessionTTL); err != nil {
		return nil, err
	}

	rec := models.PresenceRecord{
		UserID:   userID,
		Online:   true,
		LastSeen: time.Now().UTC(),
		Role:     role,
	}
	if err := t.store.Set(ctx, rec); err != nil {
		_ = t.store.Disarm(context.Background(), userID, sessionID)
		return nil, err
	}

	return &Session{tracker: t, userID: userID, role: role, sessionID: sessionID}, nil
}

// Release sets the user offline and drops the armed session. Idempotent.
func (s *Session) Release() {
	s.once.Do(func() {
		// The owning connection is gone, so this runs on a background
		// context.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.tracker.store.Disarm(ctx, s.userID, s.sessionID); err != nil {
			log.Printf("presence: disarm session for user %d: %v", s.userID, err)
		}
		if err := s.tracker.setOffline(ctx, s.userID, s.role); err != nil {
			log.Printf("presence: set user %d offline: %v", s.userID, err)
		}
	})
}

// Heartbeat extends the session so a healthy long-lived connection never
// trips the stale sweep.
func (s *Session) Heartbeat(ctx context.Context) error {
	return s.tracker.store.Refresh(ctx, s.userID, s.sessionID, SessionTTL)
}

// MarkOffline is the explicit logout path.
func (t *Tracker) MarkOffline(ctx context.Context, userID uint, role string) error {
	return t.setOffline(ctx, userID, role)
}

func (t *Tracker) setOffline(ctx context.Context, userID uint, role string) error {
	return t.store.Set(ctx, models.PresenceRecord{
		UserID:   userID,
		Online:   false,
		LastSeen: time.Now().UTC(),
		Role:     role,
	})
}

// Get returns the current record for one user; absent users read as
// offline with a zero last-seen.
func (t *Tracker) Get(ctx context.Context, userID uint) (models.PresenceRecord, error) {
	rec, ok, err := t.store.Get(ctx, userID)
	if err != nil {
		return models.PresenceRecord{}, err
	}
	if !ok {
		return models.PresenceRecord{UserID: userID}, nil
	}
	return rec, nil
}

// All returns every known presence record.
func (t *Tracker) All(ctx context.Context) ([]models.PresenceRecord, error) {
	return t.store.All(ctx)
}

// Subscribe registers for presence changes. userID 0 subscribes to all
// users. The returned cancel func releases the subscription; every caller
// must invoke it on view teardown.
func (t *Tracker) Subscribe(userID uint) (<-chan models.PresenceRecord, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.next
	t.next++
	sub := &subscription{
		userID: userID,
		ch:     make(chan models.PresenceRecord, 16),
	}
	t.subs[id] = sub

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if s, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

func (t *Tracker) fanout(rec models.PresenceRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.subs {
		if sub.userID != 0 && sub.userID != rec.UserID {
			continue
		}
		select {
		case sub.ch <- rec:
		default:
			// Slow consumer: drop rather than block the feed. The next
			// update supersedes the dropped one anyway.
		}
	}
}

// SweepStale marks users offline whose armed sessions have all expired.
// Run periodically to recover from processes that died before their
// release could fire.
func (t *Tracker) SweepStale(ctx context.Context) error {
	stale, err := t.store.Stale(ctx)
	if err != nil {
		return err
	}
	for _, rec := range stale {
		if err := t.setOffline(ctx, rec.UserID, rec.Role); err != nil {
			return err
		}
		log.Printf("presence: swept stale session for user %d", rec.UserID)
	}
	return nil
}
