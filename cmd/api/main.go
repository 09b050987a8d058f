package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/ward-portal/internal/api/router"
	"github.com/wolfman30/ward-portal/internal/app/bootstrap"
	"github.com/wolfman30/ward-portal/internal/assistant"
	"github.com/wolfman30/ward-portal/internal/booking"
	appconfig "github.com/wolfman30/ward-portal/internal/config"
	httpmiddleware "github.com/wolfman30/ward-portal/internal/http/middleware"
	"github.com/wolfman30/ward-portal/internal/notifications"
	"github.com/wolfman30/ward-portal/internal/observability/metrics"
	"github.com/wolfman30/ward-portal/internal/portal"
	"github.com/wolfman30/ward-portal/internal/procedures"
	"github.com/wolfman30/ward-portal/internal/schedule"
	"github.com/wolfman30/ward-portal/internal/scorecard"
	"github.com/wolfman30/ward-portal/internal/tracking"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting ward-portal API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup := buildApp(ctx, cfg, logger)
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Chat replies may take the full provider timeout.
		WriteTimeout: cfg.ChatTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupMetrics() (http.Handler, *metrics.PortalMetrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewPortalMetrics(reg), reg
}

func setupAWS(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *aws.Config {
	if !cfg.UsesAWS() {
		return nil
	}
	awsCfg, err := bootstrap.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config; AWS-backed components disabled", "error", err)
		return nil
	}
	return &awsCfg
}

// buildApp wires every portal area. Components whose backing service is not
// configured run in memory. The returned cleanup releases open connections.
func buildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func()) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	now := schedule.ClockIn(schedule.Location(cfg.OfficeTimezone))
	metricsHandler, portalMetrics, reg := setupMetrics()
	awsCfg := setupAWS(ctx, cfg, logger)

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		closers = append(closers, func() { _ = redisClient.Close() })
	}
	pool := bootstrap.BuildPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		closers = append(closers, pool.Close)
	}

	inbox := notifications.NewService(
		bootstrap.BuildNotificationStore(ctx, redisClient, logger), now, logger,
	).WithMetrics(portalMetrics)

	bookings := booking.NewService(booking.Options{
		Repo:       bootstrap.BuildBookingRepository(pool),
		Notifier:   inbox,
		Publisher:  bootstrap.BuildEventPublisher(cfg, awsCfg, logger),
		Metrics:    portalMetrics,
		WindowDays: cfg.BookingWindowDays,
		Now:        now,
		Logger:     logger,
	})

	orchestrator := assistant.NewOrchestrator(
		bootstrap.BuildLLMClient(ctx, cfg, awsCfg, logger),
		bootstrap.BuildOrchestratorConfig(cfg),
		portalMetrics,
		logger,
	)
	chat := assistant.NewManager(orchestrator, bootstrap.BuildHistoryStore(redisClient), logger)
	closers = append(closers, chat.Stop)

	trackingStore := bootstrap.BuildTrackingStore(ctx, cfg, logger)
	if sqlStore, ok := trackingStore.(*tracking.SQLStore); ok {
		closers = append(closers, func() { _ = sqlStore.Close() })
	}

	var limiter *httpmiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		closers = append(closers, limiter.Stop)
	}

	handler := router.New(&router.Config{
		Logger:               logger,
		BookingHandler:       booking.NewHandler(bookings, logger),
		NotificationsHandler: notifications.NewHandler(inbox, logger),
		ChatHandler:          assistant.NewHandler(chat, logger),
		ProceduresHandler:    procedures.NewHandler(nil),
		TrackingHandler:      tracking.NewHandler(trackingStore, logger),
		ScorecardHandler:     scorecard.NewHandler(now),
		PortalHandler:        portal.NewHandler(portal.DefaultLinks(), now),
		MetricsHandler:       metricsHandler,
		MetricsGatherer:      reg,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		ChatRateLimiter:      limiter,
	})
	return handler, cleanup
}
