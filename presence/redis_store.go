package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/homecare/homecare-app/models"
)

const (
	recordsKey    = "presence:records"
	sessionPrefix = "presence:session:"
	eventsChannel = "presence:events"
)

// RedisStore keeps presence records in a hash and armed sessions as
// TTL-bearing keys, and fans record changes out over pub/sub so every
// instance sees every change.
type RedisStore struct {
	client *redis.Client
	pubsub *redis.PubSub
	events chan models.PresenceRecord
	cancel context.CancelFunc
}

func NewRedisStore(client *redis.Client) *RedisStore {
	ctx, cancel := context.WithCancel(context.Background())
	s := &RedisStore{
		client: client,
		pubsub: client.Subscribe(ctx, eventsChannel),
		events: make(chan models.PresenceRecord, 64),
		cancel: cancel,
	}
	go s.receive(ctx)
	return s
}

func (s *RedisStore) receive(ctx context.Context) {
	defer close(s.events)
	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rec models.PresenceRecord
			if err := json.Unmarshal([]byte(msg.Payload), &rec); err != nil {
				log.Printf("presence: dropping malformed event: %v", err)
				continue
			}
			select {
			case s.events <- rec:
			default:
			}
		}
	}
}

func sessionKey(userID uint, sessionID string) string {
	return fmt.Sprintf("%s%d:%s", sessionPrefix, userID, sessionID)
}

func (s *RedisStore) Arm(ctx context.Context, userID uint, sessionID string, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(userID, sessionID), "1", ttl).Err()
}

func (s *RedisStore) Disarm(ctx context.Context, userID uint, sessionID string) error {
	return s.client.Del(ctx, sessionKey(userID, sessionID)).Err()
}

func (s *RedisStore) Refresh(ctx context.Context, userID uint, sessionID string, ttl time.Duration) error {
	return s.client.Expire(ctx, sessionKey(userID, sessionID), ttl).Err()
}

func (s *RedisStore) Set(ctx context.Context, rec models.PresenceRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, recordsKey, fmt.Sprint(rec.UserID), payload).Err(); err != nil {
		return err
	}
	return s.client.Publish(ctx, eventsChannel, payload).Err()
}

func (s *RedisStore) Get(ctx context.Context, userID uint) (models.PresenceRecord, bool, error) {
	payload, err := s.client.HGet(ctx, recordsKey, fmt.Sprint(userID)).Result()
	if err == redis.Nil {
		return models.PresenceRecord{}, false, nil
	}
	if err != nil {
		return models.PresenceRecord{}, false, err
	}
	var rec models.PresenceRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return models.PresenceRecord{}, false, err
	}
	return rec, true, nil
}

func (s *RedisStore) All(ctx context.Context) ([]models.PresenceRecord, error) {
	entries, err := s.client.HGetAll(ctx, recordsKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]models.PresenceRecord, 0, len(entries))
	for _, payload := range entries {
		var rec models.PresenceRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) Stale(ctx context.Context) ([]models.PresenceRecord, error) {
	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var stale []models.PresenceRecord
	for _, rec := range records {
		if !rec.Online {
			continue
		}
		pattern := fmt.Sprintf("%s%d:*", sessionPrefix, rec.UserID)
		keys, err := s.client.Keys(ctx, pattern).Result()
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			stale = append(stale, rec)
		}
	}
	return stale, nil
}

func (s *RedisStore) Events() <-chan models.PresenceRecord {
	return s.events
}

func (s *RedisStore) Close() error {
	s.cancel()
	return s.pubsub.Close()
}
