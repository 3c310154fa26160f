package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/appointment-booking/config"
	bookingHandler "github.com/jwalitptl/appointment-booking/internal/handler/booking"
	doctorHandler "github.com/jwalitptl/appointment-booking/internal/handler/doctor"
	"github.com/jwalitptl/appointment-booking/internal/handler/health"
	patientHandler "github.com/jwalitptl/appointment-booking/internal/handler/patient"
	"github.com/jwalitptl/appointment-booking/internal/handler/prometheus"
	"github.com/jwalitptl/appointment-booking/internal/middleware"
	"github.com/jwalitptl/appointment-booking/internal/router"
	bookingService "github.com/jwalitptl/appointment-booking/internal/service/booking"
	"github.com/jwalitptl/appointment-booking/pkg/event"
	"github.com/jwalitptl/appointment-booking/pkg/logger"
	"github.com/jwalitptl/appointment-booking/pkg/messaging"
	"github.com/jwalitptl/appointment-booking/pkg/messaging/redis"
	"github.com/jwalitptl/appointment-booking/pkg/metrics"
	"github.com/jwalitptl/appointment-booking/pkg/worker"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logCfg := cfg.Log.ToLoggerConfig()
	logCfg.Service = "booking-api"
	appLogger := logger.NewLogger(logCfg)
	log.Logger = *appLogger.Zerolog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(cfg.Metrics.Namespace, registry)

	// Initialize message broker
	checks := map[string]health.Check{}
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redis.NewRedisBroker(ctx, cfg.Redis.ToBrokerConfig(), appLogger.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		if p, ok := broker.(interface{ Ping(context.Context) error }); ok {
			checks["redis"] = p.Ping
		}
	} else {
		log.Info().Msg("no Redis URL configured, events will be logged")
		broker = messaging.NewLogBroker(appLogger.Zerolog())
	}
	defer broker.Close()

	// Initialize the registry and its event pipeline
	outbox := event.NewOutbox(cfg.Outbox.Size, m)
	svc := bookingService.NewService(outbox, m, appLogger)

	dispatcher := worker.NewEventDispatcher(outbox, broker, cfg.Outbox.ToDispatcherConfig(cfg.Redis.Channel), appLogger, m)
	dispatchCtx, cancelDispatch := context.WithCancel(context.Background())
	defer cancelDispatch()
	dispatched := make(chan struct{})
	go func() {
		dispatcher.Start(dispatchCtx)
		close(dispatched)
	}()

	// Setup router
	r := router.NewRouter(
		doctorHandler.NewHandler(svc),
		patientHandler.NewHandler(svc),
		bookingHandler.NewHandler(svc),
		health.NewHandler(checks),
		prometheus.New(cfg.Metrics.Namespace, registry),
		router.RouterConfig{
			Mode:           cfg.Server.Mode,
			RateLimit:      rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:      cfg.RateLimit.Burst,
			RateLimitOff:   !cfg.RateLimit.Enabled,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORSConfig:     middleware.DefaultCORSConfig(),
			Idempotency: middleware.IdempotencyConfig{
				TTL:             cfg.Idempotency.TTL,
				CleanupInterval: cfg.Idempotency.CleanupInterval,
			},
			MetricsPath: cfg.Metrics.Path,
			MetricsOff:  !cfg.Metrics.Enabled,
			Logger:      appLogger.Zerolog(),
		},
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Publish what is still queued, then stop the dispatcher.
	outbox.Close()
	select {
	case <-dispatched:
	case <-time.After(cfg.Server.ShutdownTimeout):
		log.Warn().Int("pending", outbox.Len()).Msg("event dispatcher did not drain in time")
		cancelDispatch()
		<-dispatched
	}

	log.Info().Msg("server exited properly")
}
