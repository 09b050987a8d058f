package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisIndexKey = "notifications:index"
	redisSeqKey   = "notifications:seq"
	redisReadKey  = "notifications:read"
)

func redisItemKey(id string) string {
	return fmt.Sprintf("notifications:item:%s", id)
}

// RedisStore keeps the inbox in Redis: one JSON value per item, a sorted set
// ordering items by insertion, and a set of read ids. Read state lives in the
// set so marking read is idempotent and can never be undone by a concurrent
// item write.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore wraps a go-redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("notifications: redis client cannot be nil")
	}
	return &RedisStore{redis: client}
}

// SeedIfEmpty loads seed items (given newest first) when the inbox is empty.
func (s *RedisStore) SeedIfEmpty(ctx context.Context, seed []Item) error {
	n, err := s.redis.ZCard(ctx, redisIndexKey).Result()
	if err != nil {
		return fmt.Errorf("notifications: count index: %w", err)
	}
	if n > 0 {
		return nil
	}
	for i := len(seed) - 1; i >= 0; i-- {
		if err := s.Append(ctx, seed[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) Append(ctx context.Context, item Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("notifications: marshal item: %w", err)
	}
	seq, err := s.redis.Incr(ctx, redisSeqKey).Result()
	if err != nil {
		return fmt.Errorf("notifications: next sequence: %w", err)
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, redisItemKey(item.ID), data, 0)
	pipe.ZAdd(ctx, redisIndexKey, redis.Z{Score: float64(seq), Member: item.ID})
	if item.Read {
		pipe.SAdd(ctx, redisReadKey, item.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("notifications: append item: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, category Category, inbox string) ([]Item, error) {
	ids, err := s.redis.ZRevRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("notifications: list index: %w", err)
	}
	if len(ids) == 0 {
		return []Item{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisItemKey(id)
	}
	raw, err := s.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("notifications: load items: %w", err)
	}
	read, err := s.redis.SMembersMap(ctx, redisReadKey).Result()
	if err != nil {
		return nil, fmt.Errorf("notifications: load read set: %w", err)
	}

	out := make([]Item, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var item Item
		if err := json.Unmarshal([]byte(str), &item); err != nil {
			return nil, fmt.Errorf("notifications: decode item: %w", err)
		}
		if _, isRead := read[item.ID]; isRead {
			item.Read = true
		}
		if matches(&item, category, inbox) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Item, error) {
	data, err := s.redis.Get(ctx, redisItemKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("notifications: get item: %w", err)
	}
	var item Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("notifications: decode item: %w", err)
	}
	isRead, err := s.redis.SIsMember(ctx, redisReadKey, id).Result()
	if err != nil {
		return nil, fmt.Errorf("notifications: read flag: %w", err)
	}
	item.Read = item.Read || isRead
	return &item, nil
}

func (s *RedisStore) MarkRead(ctx context.Context, id string) (*Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.redis.SAdd(ctx, redisReadKey, id).Err(); err != nil {
		return nil, fmt.Errorf("notifications: mark read: %w", err)
	}
	item.Read = true
	return item, nil
}

func (s *RedisStore) UnreadCount(ctx context.Context, inbox string) (int, error) {
	items, err := s.List(ctx, "", inbox)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, item := range items {
		if !item.Read {
			n++
		}
	}
	return n, nil
}
