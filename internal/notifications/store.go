package notifications

import (
	"context"
	"sync"
)

// Store persists inbox items. Items are returned newest first. List and
// UnreadCount only see broadcast items and those addressed to inbox.
type Store interface {
	List(ctx context.Context, category Category, inbox string) ([]Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	Append(ctx context.Context, item Item) error
	// MarkRead flips an item to read. It never flips it back.
	MarkRead(ctx context.Context, id string) (*Item, error)
	UnreadCount(ctx context.Context, inbox string) (int, error)
}

// MemoryStore keeps the inbox in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items []*Item // newest first
	byID  map[string]*Item
}

// NewMemoryStore creates a store pre-populated with seed (in display order).
func NewMemoryStore(seed ...Item) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]*Item)}
	for i := range seed {
		item := seed[i]
		s.items = append(s.items, &item)
		s.byID[item.ID] = &item
	}
	return s
}

func (s *MemoryStore) List(_ context.Context, category Category, inbox string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		if matches(item, category, inbox) {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *MemoryStore) Append(_ context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := item
	s.items = append([]*Item{&stored}, s.items...)
	s.byID[stored.ID] = &stored
	return nil
}

func (s *MemoryStore) MarkRead(_ context.Context, id string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	item.Read = true
	cp := *item
	return &cp, nil
}

func (s *MemoryStore) UnreadCount(_ context.Context, inbox string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, item := range s.items {
		if !item.Read && item.VisibleTo(inbox) {
			n++
		}
	}
	return n, nil
}
