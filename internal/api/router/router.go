package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/ward-portal/internal/assistant"
	"github.com/wolfman30/ward-portal/internal/booking"
	httpmiddleware "github.com/wolfman30/ward-portal/internal/http/middleware"
	"github.com/wolfman30/ward-portal/internal/http/respond"
	"github.com/wolfman30/ward-portal/internal/notifications"
	"github.com/wolfman30/ward-portal/internal/observability/metrics"
	"github.com/wolfman30/ward-portal/internal/portal"
	"github.com/wolfman30/ward-portal/internal/procedures"
	"github.com/wolfman30/ward-portal/internal/tracking"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger               *logging.Logger
	BookingHandler       *booking.Handler
	NotificationsHandler *notifications.Handler
	ChatHandler          *assistant.Handler
	ProceduresHandler    *procedures.Handler
	TrackingHandler      *tracking.Handler
	ScorecardHandler     http.Handler
	PortalHandler        *portal.Handler
	MetricsHandler       http.Handler
	MetricsGatherer      prometheus.Gatherer
	CORSAllowedOrigins   []string

	// ChatRateLimiter throttles /api/chat per client IP; nil disables it.
	ChatRateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		// The chat socket hijacks the connection, so compression stays off
		// that subtree.
		api.Group(func(rest chi.Router) {
			rest.Use(middleware.Compress(5))
			if cfg.BookingHandler != nil {
				rest.Mount("/booking", cfg.BookingHandler.CatalogRoutes())
				rest.Mount("/bookings", cfg.BookingHandler.Routes())
			}
			if cfg.NotificationsHandler != nil {
				rest.Mount("/notifications", cfg.NotificationsHandler.Routes())
			}
			if cfg.ProceduresHandler != nil {
				rest.Mount("/procedures", cfg.ProceduresHandler.Routes())
			}
			if cfg.TrackingHandler != nil {
				rest.Mount("/tracking", cfg.TrackingHandler.Routes())
			}
			if cfg.ScorecardHandler != nil {
				rest.Handle("/scorecard", cfg.ScorecardHandler)
			}
			if cfg.PortalHandler != nil {
				cfg.PortalHandler.Register(rest)
			}
			if cfg.MetricsGatherer != nil {
				rest.Get("/ops/chat-latency", chatLatency(cfg.MetricsGatherer))
			}
		})

		if cfg.ChatHandler != nil {
			api.Group(func(chat chi.Router) {
				if cfg.ChatRateLimiter != nil {
					chat.Use(cfg.ChatRateLimiter.Middleware)
				}
				chat.Mount("/chat", cfg.ChatHandler.Routes())
			})
		}
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func chatLatency(g prometheus.Gatherer) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, metrics.SnapshotChatLatency(g))
	}
}
