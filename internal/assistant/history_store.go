package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const sessionTTL = 24 * time.Hour

// HistoryStore persists chat transcripts between requests.
type HistoryStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, id string) (Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// MemoryHistoryStore keeps transcripts in process memory. Like the Redis
// store, a transcript not saved for sessionTTL is gone.
type MemoryHistoryStore struct {
	mu    sync.RWMutex
	snaps map[string]memorySnapshot
	ttl   time.Duration
	now   func() time.Time
}

type memorySnapshot struct {
	snap    Snapshot
	savedAt time.Time
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{snaps: make(map[string]memorySnapshot), ttl: sessionTTL, now: time.Now}
}

func (s *MemoryHistoryStore) Save(_ context.Context, snap Snapshot) error {
	snap.Messages = append([]Message(nil), snap.Messages...)
	s.mu.Lock()
	s.snaps[snap.ID] = memorySnapshot{snap: snap, savedAt: s.now()}
	s.mu.Unlock()
	return nil
}

func (s *MemoryHistoryStore) Load(_ context.Context, id string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.snaps[id]
	if !ok || s.expired(entry, s.now()) {
		return Snapshot{}, ErrSessionNotFound
	}
	snap := entry.snap
	snap.Messages = append([]Message(nil), snap.Messages...)
	return snap, nil
}

func (s *MemoryHistoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.snaps, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryHistoryStore) expired(entry memorySnapshot, now time.Time) bool {
	return now.Sub(entry.savedAt) > s.ttl
}

func (s *MemoryHistoryStore) evictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, entry := range s.snaps {
		if s.expired(entry, now) {
			delete(s.snaps, id)
			n++
		}
	}
	return n
}

func (s *MemoryHistoryStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snaps)
}

// RedisHistoryStore keeps transcripts in Redis with a sliding TTL.
type RedisHistoryStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewRedisHistoryStore(client *redis.Client, ttl time.Duration) *RedisHistoryStore {
	if client == nil {
		panic("assistant: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &RedisHistoryStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("ward-portal.internal.assistant.history"),
	}
}

func (s *RedisHistoryStore) Save(ctx context.Context, snap Snapshot) error {
	ctx, span := s.tracer.Start(ctx, "assistant.save_history")
	defer span.End()

	data, err := json.Marshal(snap)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("assistant: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(snap.ID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("assistant: failed to persist history: %w", err)
	}
	return nil
}

func (s *RedisHistoryStore) Load(ctx context.Context, id string) (Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "assistant.load_history")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrSessionNotFound
		}
		span.RecordError(err)
		return Snapshot{}, fmt.Errorf("assistant: failed to load history: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		span.RecordError(err)
		return Snapshot{}, fmt.Errorf("assistant: failed to decode history: %w", err)
	}
	return snap, nil
}

func (s *RedisHistoryStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("assistant: failed to delete history: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("chat_session:%s", id)
}
