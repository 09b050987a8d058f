package booking

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Repository persists confirmed bookings.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByCode(ctx context.Context, code string) (*Booking, error)
	ListByNationalID(ctx context.Context, nationalID string) ([]Booking, error)
}

// InMemoryRepository keeps bookings in process memory.
type InMemoryRepository struct {
	mu     sync.RWMutex
	byCode map[string]*Booking
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byCode: make(map[string]*Booking)}
}

// Create stores b. A later booking with the same code replaces the earlier
// lookup entry.
func (r *InMemoryRepository) Create(_ context.Context, b *Booking) error {
	cp := *b
	r.mu.Lock()
	r.byCode[strings.ToUpper(b.Code)] = &cp
	r.mu.Unlock()
	return nil
}

// GetByCode looks a booking up case-insensitively.
func (r *InMemoryRepository) GetByCode(_ context.Context, code string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// ListByNationalID returns a citizen's bookings, newest first.
func (r *InMemoryRepository) ListByNationalID(_ context.Context, nationalID string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Booking, 0)
	for _, b := range r.byCode {
		if b.NationalID == nationalID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
