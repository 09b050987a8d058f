package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/ward-portal/internal/events"
	"github.com/wolfman30/ward-portal/internal/locale"
	"github.com/wolfman30/ward-portal/internal/notifications"
	"github.com/wolfman30/ward-portal/internal/observability/metrics"
	"github.com/wolfman30/ward-portal/internal/schedule"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// Notifier receives the inbox notice for every confirmed booking.
type Notifier interface {
	PublishBookingConfirmation(ctx context.Context, inbox, title, summary string, snapshot notifications.BookingSnapshot) (*notifications.Item, error)
}

// Options wires a Service. Repo and Notifier are required.
type Options struct {
	Repo       Repository
	Notifier   Notifier
	Publisher  events.Publisher
	Codes      *CodeGenerator
	Metrics    *metrics.PortalMetrics
	Grid       []schedule.Slot
	WindowDays int
	Now        func() time.Time
	Logger     *logging.Logger
}

// Service runs the appointment flow: availability, preview and confirmation.
type Service struct {
	repo       Repository
	notifier   Notifier
	publisher  events.Publisher
	codes      *CodeGenerator
	metrics    *metrics.PortalMetrics
	grid       []schedule.Slot
	windowDays int
	now        func() time.Time
	logger     *logging.Logger
	tracer     trace.Tracer
}

// NewService creates a booking service.
func NewService(opts Options) *Service {
	if opts.Repo == nil {
		panic("booking: repository required")
	}
	if opts.Notifier == nil {
		panic("booking: notifier required")
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.Codes == nil {
		opts.Codes = NewCodeGenerator(nil)
	}
	if len(opts.Grid) == 0 {
		opts.Grid = schedule.DefaultGrid
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = 14
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Service{
		repo:       opts.Repo,
		notifier:   opts.Notifier,
		publisher:  opts.Publisher,
		codes:      opts.Codes,
		metrics:    opts.Metrics,
		grid:       opts.Grid,
		windowDays: opts.WindowDays,
		now:        opts.Now,
		logger:     opts.Logger,
		tracer:     otel.Tracer("ward-portal.internal.booking"),
	}
}

// Dates returns the bookable window starting today.
func (s *Service) Dates() []time.Time {
	return schedule.BookableDates(s.now(), s.windowDays)
}

// Availability returns the slots still bookable on date (YYYY-MM-DD).
func (s *Service) Availability(date string) (schedule.Availability, error) {
	now := s.now()
	day, err := schedule.ParseDate(date, now.Location())
	if err != nil {
		return schedule.Availability{}, err
	}
	if !schedule.IsBookableDate(day, now, s.windowDays) {
		return schedule.Availability{}, ErrDateOutOfWindow
	}
	avail := schedule.Compute(s.grid, day, now)
	s.metrics.ObserveSlotQuery(avail.Exhausted)
	return avail, nil
}

// PreviewRequest is the partially filled booking shown on the ticket preview.
type PreviewRequest struct {
	Service ServiceCategory `json:"service"`
	Date    string          `json:"date"`
	Slot    string          `json:"slot"`
}

// Preview is the ticket as it would print for the current selections.
type Preview struct {
	Code    string `json:"code"`
	Service string `json:"service,omitempty"`
	Counter string `json:"counter,omitempty"`
	Date    string `json:"date,omitempty"`
	Slot    string `json:"slot,omitempty"`
}

// Preview renders the draft ticket. The code stays PendingCode until both a
// service and an offered slot are chosen; the preview code is not reserved.
func (s *Service) Preview(req PreviewRequest) (Preview, error) {
	out := Preview{Code: PendingCode}
	if req.Service != "" {
		info, ok := req.Service.Info()
		if !ok {
			return Preview{}, &ValidationError{Field: "service", Message: ErrUnknownService.Error()}
		}
		out.Service, out.Counter = info.Label, info.Counter
	}
	if req.Date == "" {
		return out, nil
	}
	avail, err := s.Availability(req.Date)
	if err != nil {
		return Preview{}, err
	}
	out.Date = DisplayDate(avail.Date)
	if req.Slot == "" {
		return out, nil
	}
	slot, err := s.offeredSlot(avail, req.Slot)
	if err != nil {
		return Preview{}, err
	}
	out.Slot = slot.String()
	if req.Service != "" {
		out.Code = s.codes.Preview(avail.Date, &slot)
	}
	return out, nil
}

// Confirmation is the result of a successful Confirm. Notification is nil
// when the inbox notice could not be posted; the booking still stands.
type Confirmation struct {
	Booking      *Booking            `json:"booking"`
	Notification *notifications.Item `json:"notification"`
	InboxID      string              `json:"inbox_id"`
}

// Confirm validates the draft against the current availability, assigns a
// code, persists the booking and posts the inbox notice to the draft's inbox.
// Once the booking is persisted Confirm succeeds; a failed notice is logged.
func (s *Service) Confirm(ctx context.Context, draft Draft) (*Confirmation, error) {
	ctx, span := s.tracer.Start(ctx, "booking.confirm")
	defer span.End()

	conf, err := s.confirm(ctx, draft.Normalize())
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBookingRejected(rejectReason(err))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("booking.code", conf.Booking.Code),
		attribute.String("booking.service", string(conf.Booking.Service)),
	)
	s.metrics.ObserveBookingConfirmed(string(conf.Booking.Service))
	return conf, nil
}

func (s *Service) confirm(ctx context.Context, draft Draft) (*Confirmation, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	avail, err := s.Availability(draft.Date)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidDate) {
			return nil, &ValidationError{Field: "date", Message: err.Error()}
		}
		return nil, err
	}
	slot, err := s.offeredSlot(avail, draft.Slot)
	if err != nil {
		return nil, err
	}

	info, _ := draft.Service.Info()
	b := &Booking{
		ID:          uuid.NewString(),
		Code:        s.codes.Generate(avail.Date, slot),
		Service:     draft.Service,
		ServiceName: info.Label,
		Counter:     info.Counter,
		Date:        avail.Date,
		DateLabel:   DisplayDate(avail.Date),
		Slot:        slot,
		CitizenName: draft.CitizenName,
		NationalID:  draft.NationalID,
		Phone:       draft.Phone,
		Note:        draft.Note,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("booking: persist: %w", err)
	}

	inbox := draft.InboxID
	if inbox == "" {
		inbox = uuid.NewString()
	}
	item, err := s.notifier.PublishBookingConfirmation(ctx, inbox, ConfirmationTitle(b), ConfirmationSummary(b), Snapshot(b))
	if err != nil {
		s.metrics.ObserveBookingNoticeError()
		s.logger.Error("failed to post booking notice", "code", b.Code, "error", err)
		item = nil
	}

	s.publish(ctx, b)
	s.logger.Info("booking confirmed", "code", b.Code, "service", string(b.Service), "date", b.DateLabel, "slot", b.Slot.String())
	return &Confirmation{Booking: b, Notification: item, InboxID: inbox}, nil
}

// offeredSlot parses label and requires it to be in the availability list.
func (s *Service) offeredSlot(avail schedule.Availability, label string) (schedule.Slot, error) {
	slot, err := schedule.ParseSlot(label)
	if err != nil {
		return schedule.Slot{}, &ValidationError{Field: "slot", Message: err.Error()}
	}
	if !schedule.Contains(avail.Slots, slot) {
		return schedule.Slot{}, ErrSlotUnavailable
	}
	return slot, nil
}

func (s *Service) publish(ctx context.Context, b *Booking) {
	env, err := events.NewEnvelope(events.BookingConfirmedV1{
		BookingID: b.ID,
		Code:      b.Code,
		Service:   string(b.Service),
		Counter:   b.Counter,
		Date:      b.Date.Format(schedule.DateLayout),
		Slot:      b.Slot.String(),
	}, b.CreatedAt)
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		s.metrics.ObserveEventPublishError()
		s.logger.Warn("failed to publish booking event", "code", b.Code, "error", err)
	}
}

// Lookup returns a booking by its code.
func (s *Service) Lookup(ctx context.Context, code string) (*Booking, error) {
	return s.repo.GetByCode(ctx, code)
}

// History lists a citizen's bookings by national id.
func (s *Service) History(ctx context.Context, nationalID string) ([]Booking, error) {
	return s.repo.ListByNationalID(ctx, nationalID)
}

// ConfirmationTitle is the inbox title for a confirmed booking.
func ConfirmationTitle(b *Booking) string {
	return locale.Strings(locale.Vietnamese).BookingConfirmTitle + ": " + b.ServiceName
}

// ConfirmationSummary is the inbox summary for a confirmed booking.
func ConfirmationSummary(b *Booking) string {
	return fmt.Sprintf("Mã cuộc hẹn %s của ông/bà %s đã được xác nhận vào lúc %s ngày %s.",
		b.Code, b.CitizenName, b.Slot.String(), b.DateLabel)
}

// Snapshot copies the fields the ticket view needs into the notice.
func Snapshot(b *Booking) notifications.BookingSnapshot {
	return notifications.BookingSnapshot{
		Name:    b.CitizenName,
		Code:    b.Code,
		Service: b.ServiceName,
		Time:    b.Slot.String(),
		Date:    b.DateLabel,
		Counter: b.Counter,
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDraft):
		return "invalid"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, ErrDateOutOfWindow):
		return "out_of_window"
	default:
		return "error"
	}
}
