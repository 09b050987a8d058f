package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/ward-portal/internal/observability/metrics"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// Service fronts the inbox store for handlers and the booking flow.
type Service struct {
	store   Store
	now     func() time.Time
	metrics *metrics.PortalMetrics
	logger  *logging.Logger
}

// NewService creates an inbox service.
func NewService(store Store, now func() time.Time, logger *logging.Logger) *Service {
	if store == nil {
		panic("notifications: store required")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, now: now, logger: logger}
}

// WithMetrics records inbox activity on m.
func (s *Service) WithMetrics(m *metrics.PortalMetrics) *Service {
	s.metrics = m
	return s
}

// List returns the items inbox can see, filtered by category.
func (s *Service) List(ctx context.Context, category Category, inbox string) ([]Item, error) {
	return s.store.List(ctx, category, inbox)
}

// UnreadCount returns how many items visible to inbox are still unread.
func (s *Service) UnreadCount(ctx context.Context, inbox string) (int, error) {
	return s.store.UnreadCount(ctx, inbox)
}

// Open marks an item read and reports what the client should show. Items
// addressed to another inbox are reported as ErrNotFound.
func (s *Service) Open(ctx context.Context, id, inbox string) (*Item, Action, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, ActionNone, err
	}
	if !current.VisibleTo(inbox) {
		return nil, ActionNone, ErrNotFound
	}
	item, err := s.store.MarkRead(ctx, id)
	if err != nil {
		return nil, ActionNone, err
	}
	action := ActionFor(item)
	s.metrics.ObserveNotificationOpened(string(action))
	s.logger.Debug("notification opened", "id", id, "is_booking", item.IsBooking)
	return item, action, nil
}

// PublishBookingConfirmation appends an unread booking notice addressed to
// inbox. The notice is never broadcast, so inbox must be set.
func (s *Service) PublishBookingConfirmation(ctx context.Context, inbox, title, summary string, snapshot BookingSnapshot) (*Item, error) {
	if inbox == "" {
		return nil, ErrInboxRequired
	}
	item := Item{
		ID:        uuid.NewString(),
		Inbox:     inbox,
		Title:     title,
		Summary:   summary,
		Timestamp: s.now(),
		Category:  CategoryAnnouncement,
		IsBooking: true,
		Booking:   &snapshot,
	}
	if err := s.store.Append(ctx, item); err != nil {
		return nil, fmt.Errorf("notifications: publish booking confirmation: %w", err)
	}
	s.logger.Info("booking confirmation queued in inbox", "id", item.ID, "code", snapshot.Code)
	return &item, nil
}
