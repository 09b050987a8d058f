package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ward_portal"

// PortalMetrics exposes counters/histograms for booking, inbox and chat flows.
type PortalMetrics struct {
	bookingsConfirmed  *prometheus.CounterVec
	bookingsRejected   *prometheus.CounterVec
	slotQueries        *prometheus.CounterVec
	chatReplies        *prometheus.CounterVec
	chatLatency        *prometheus.HistogramVec
	notificationsOpens *prometheus.CounterVec
	eventPublishErrors prometheus.Counter
	bookingNoticeErrs  prometheus.Counter
}

// NewPortalMetrics registers the portal collectors on reg (or the default
// registerer when nil).
func NewPortalMetrics(reg prometheus.Registerer) *PortalMetrics {
	m := &PortalMetrics{
		bookingsConfirmed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "confirmed_total",
			Help:      "Confirmed appointments by service",
		}, []string{"service"}),
		bookingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "rejected_total",
			Help:      "Rejected confirmation attempts by reason",
		}, []string{"reason"}),
		slotQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "slot_queries_total",
			Help:      "Slot availability lookups by outcome",
		}, []string{"outcome"}),
		chatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "replies_total",
			Help:      "Assistant replies by outcome and error kind",
		}, []string{"outcome", "kind"}),
		chatLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "llm_latency_seconds",
			Help:      "Latency of language model requests",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		}, []string{"status"}),
		notificationsOpens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "opened_total",
			Help:      "Inbox items opened by resulting action",
		}, []string{"action"}),
		eventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "publish_errors_total",
			Help:      "Domain events that failed to publish",
		}),
		bookingNoticeErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "notice_errors_total",
			Help:      "Confirmed bookings whose inbox notice could not be posted",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.bookingsConfirmed,
		m.bookingsRejected,
		m.slotQueries,
		m.chatReplies,
		m.chatLatency,
		m.notificationsOpens,
		m.eventPublishErrors,
		m.bookingNoticeErrs,
	)
	return m
}

func (m *PortalMetrics) ObserveBookingConfirmed(service string) {
	if m == nil {
		return
	}
	m.bookingsConfirmed.WithLabelValues(service).Inc()
}

func (m *PortalMetrics) ObserveBookingRejected(reason string) {
	if m == nil {
		return
	}
	m.bookingsRejected.WithLabelValues(reason).Inc()
}

// ObserveSlotQuery records whether a lookup left any bookable slot.
func (m *PortalMetrics) ObserveSlotQuery(exhausted bool) {
	if m == nil {
		return
	}
	outcome := "available"
	if exhausted {
		outcome = "exhausted"
	}
	m.slotQueries.WithLabelValues(outcome).Inc()
}

// ObserveChatReply records one assistant reply. kind is empty on success.
func (m *PortalMetrics) ObserveChatReply(outcome, kind string, latency time.Duration) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "none"
	}
	m.chatReplies.WithLabelValues(outcome, kind).Inc()
	status := "ok"
	if outcome != "ok" {
		status = "error"
	}
	m.chatLatency.WithLabelValues(status).Observe(latency.Seconds())
}

func (m *PortalMetrics) ObserveNotificationOpened(action string) {
	if m == nil {
		return
	}
	m.notificationsOpens.WithLabelValues(action).Inc()
}

func (m *PortalMetrics) ObserveEventPublishError() {
	if m == nil {
		return
	}
	m.eventPublishErrors.Inc()
}

// ObserveBookingNoticeError counts a confirmed booking left without its inbox notice.
func (m *PortalMetrics) ObserveBookingNoticeError() {
	if m == nil {
		return
	}
	m.bookingNoticeErrs.Inc()
}
