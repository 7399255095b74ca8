package presence

import (
	"context"
	"sync"
	"time"

	"github.com/homecare/homecare-app/models"
)

// Store persists presence records and disconnect sessions. Arm registers
// the "set offline on disconnect" intent for a connection; it must be
// called before the user is marked online. Events delivers every record
// change, including those made by other instances sharing the store.
type Store interface {
	Arm(ctx context.Context, userID uint, sessionID string, ttl time.Duration) error
	Disarm(ctx context.Context, userID uint, sessionID string) error
	Refresh(ctx context.Context, userID uint, sessionID string, ttl time.Duration) error
	Set(ctx context.Context, rec models.PresenceRecord) error
	Get(ctx context.Context, userID uint) (models.PresenceRecord, bool, error)
	All(ctx context.Context) ([]models.PresenceRecord, error)
	// Stale returns records still marked online whose every armed session
	// has expired — a process died without running its release.
	Stale(ctx context.Context) ([]models.PresenceRecord, error)
	Events() <-chan models.PresenceRecord
	Close() error
}

// MemoryStore is the in-process Store used by tests.
type MemoryStore struct {
	mu       sync.Mutex
	records  map[uint]models.PresenceRecord
	sessions map[uint]map[string]time.Time
	events   chan models.PresenceRecord
	closed   bool

	// FailArm forces Arm to fail, for exercising the fail-closed path.
	FailArm bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[uint]models.PresenceRecord),
		sessions: make(map[uint]map[string]time.Time),
		events:   make(chan models.PresenceRecord, 64),
	}
}

func (s *MemoryStore) Arm(_ context.Context, userID uint, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailArm {
		return context.DeadlineExceeded
	}
	set, ok := s.sessions[userID]
	if !ok {
		set = make(map[string]time.Time)
		s.sessions[userID] = set
	}
	set[sessionID] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryStore) Disarm(_ context.Context, userID uint, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.sessions[userID]; ok {
		delete(set, sessionID)
		if len(set) == 0 {
			delete(s.sessions, userID)
		}
	}
	return nil
}

func (s *MemoryStore) Refresh(ctx context.Context, userID uint, sessionID string, ttl time.Duration) error {
	return s.Arm(ctx, userID, sessionID, ttl)
}

func (s *MemoryStore) Set(_ context.Context, rec models.PresenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UserID] = rec
	if !s.closed {
		select {
		case s.events <- rec:
		default:
		}
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID uint) (models.PresenceRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	return rec, ok, nil
}

func (s *MemoryStore) All(_ context.Context) ([]models.PresenceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PresenceRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

func (s *MemoryStore) Stale(_ context.Context) ([]models.PresenceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var stale []models.PresenceRecord
	for uid, rec := range s.records {
		if !rec.Online {
			continue
		}
		alive := false
		for _, expiry := range s.sessions[uid] {
			if expiry.After(now) {
				alive = true
				break
			}
		}
		if !alive {
			stale = append(stale, rec)
		}
	}
	return stale, nil
}

func (s *MemoryStore) Events() <-chan models.PresenceRecord {
	return s.events
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}
