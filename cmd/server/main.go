package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/medops/internal/events"
	"github.com/aryan0dhankhar/medops/internal/featureflags"
	"github.com/aryan0dhankhar/medops/internal/handler"
	"github.com/aryan0dhankhar/medops/internal/infrastructure/file"
	"github.com/aryan0dhankhar/medops/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/medops/internal/infrastructure/memory"
	"github.com/aryan0dhankhar/medops/internal/infrastructure/postgres"
	"github.com/aryan0dhankhar/medops/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/medops/internal/observability/metrics"
	"github.com/aryan0dhankhar/medops/internal/observability/tracing"
	"github.com/aryan0dhankhar/medops/internal/repository"
	"github.com/aryan0dhankhar/medops/internal/security"
	"github.com/aryan0dhankhar/medops/internal/security/audit"
	"github.com/aryan0dhankhar/medops/internal/security/auth"
	"github.com/aryan0dhankhar/medops/internal/security/middleware"
	"github.com/aryan0dhankhar/medops/internal/security/ratelimit"
	"github.com/aryan0dhankhar/medops/internal/service"
	"github.com/aryan0dhankhar/medops/internal/session"
	"github.com/aryan0dhankhar/medops/internal/storage"
	"github.com/aryan0dhankhar/medops/internal/worker"
	"github.com/aryan0dhankhar/medops/pkg/config"
	"github.com/aryan0dhankhar/medops/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.Log.Level)
	log.Info("starting MedOps server",
		slog.String("environment", cfg.Server.Environment),
		slog.String("storage", cfg.Storage.Backend),
		slog.String("auth_mode", cfg.Auth.Mode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing
	shutdownTracing, err := tracing.Init(ctx, log, tracing.Options{
		ServiceName: "medops",
		Environment: cfg.Server.Environment,
		Endpoint:    cfg.Tracing.OTLPEndpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Durable slots
	slots, slotsReady, closeSlots, err := openSlots(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", slog.String("backend", cfg.Storage.Backend), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeSlots()
	persist := storage.NewPersistentStore(slots, storage.WithLogger(log))

	// 5. Repositories and session
	store := repository.NewStore(ctx, persist,
		repository.WithSeed(cfg.Storage.SeedDemoData),
		repository.WithWriteTimeout(cfg.Storage.WriteTimeout),
		repository.WithLogger(log),
	)
	directory := session.NewDirectory()
	verifier, err := buildVerifier(cfg, log)
	if err != nil {
		log.Error("failed to configure password verification", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sessions := session.NewStore(ctx, persist, directory,
		session.WithVerifier(verifier),
		session.WithLoginDelay(cfg.Auth.LoginDelay),
		session.WithLogger(log),
	)

	// 6. Change events
	hub := events.NewHub(log)
	publishers := events.Fanout{hub}
	if cfg.Events.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.AMQPQueue, log)
		if err != nil {
			// Non-fatal: the in-process feed still works.
			log.Warn("change events will not reach the broker", slog.String("error", err.Error()))
		} else {
			defer amqpPub.Close()
			publishers = append(publishers, amqpPub)
		}
	}

	// 7. Access facade
	facade := service.NewFacade(store.Tasks, store.Patients, store.Appointments, sessions, log,
		service.WithPublisher(publishers),
		service.WithReloader(store),
	)

	// 8. Security components
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, "medops")
	if tokenManager.UsesDevSecret() {
		log.Warn("auth.jwt_secret not set, using development signing key")
	}
	loginLimiter := ratelimit.NewLimiter(cfg.Auth.LoginRate, cfg.Auth.LoginBurst)
	defer loginLimiter.Stop()
	auditLogger := audit.NewLogger(log)

	// 9. Handlers and routes
	routes := handler.Routes{
		Auth:         handler.NewAuthHandler(facade, directory, tokenManager, loginLimiter, auditLogger, cfg.Auth.TokenTTL, log),
		Health:       handler.NewHealthHandler(map[string]handler.Pinger{"storage": slotsReady}, log),
		Views:        handler.NewViewsHandler(facade, time.Local, log),
		Tasks:        handler.NewTasksHandler(facade, log),
		Patients:     handler.NewPatientsHandler(facade, log),
		Appointments: handler.NewAppointmentsHandler(facade, log),
		Authz:        security.NewAuthorizationService(log),
		Audit:        auditLogger,
	}
	if featureflags.EnabledOr(featureflags.ChangeFeed, true) {
		routes.Feed = handler.NewFeedHandler(hub, cfg.Server.CORSAllowedOrigins, log)
	}
	mux := handler.NewMux(routes)

	// Chain middleware: tracing -> request ID -> CORS -> JWT -> audit -> JSON validation -> metrics -> mux.
	// Metrics sits directly on the mux so it sees the matched route pattern.
	rootHandler := otelhttp.NewHandler(
		middleware.Chain(metrics.HTTPMetricsMiddleware(mux),
			middleware.WithRequestID(log),
			middleware.CORS(cfg.Server.CORSAllowedOrigins),
			middleware.JWTMiddleware(tokenManager, log),
			middleware.AuditMiddleware(auditLogger),
			middleware.ValidateJSONContentType(log),
		),
		"medops",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	// 10. Start stats worker in background
	statsWorker := worker.NewStatsWorker(facade, log, cfg.Worker.StatsInterval)
	go statsWorker.Start(ctx)

	// 11. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.Server.Port),
		slog.Bool("change_feed", routes.Feed != nil),
		slog.Float64("login_rate_per_minute", cfg.Auth.LoginRate),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

type pingableSlots interface {
	storage.SlotStore
	handler.Pinger
}

// openSlots connects the configured durable medium.
func openSlots(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.SlotStore, handler.Pinger, func(), error) {
	noop := func() {}
	var slots pingableSlots

	switch cfg.Storage.Backend {
	case "memory":
		log.Warn("memory storage selected, data is lost on restart")
		slots = memory.New()
	case "file":
		s, err := file.New(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, noop, err
		}
		slots = s
	case "redis":
		c, err := redis.NewClient(cfg.Storage.RedisURL, cfg.Storage.RedisPrefix, log)
		if err != nil {
			return nil, nil, noop, err
		}
		return c, c, func() { c.Close() }, nil
	case "postgres":
		pool, err := database.NewConnectionPool(ctx, &database.Config{DSN: cfg.Storage.DatabaseURL}, log)
		if err != nil {
			return nil, nil, noop, err
		}
		s, err := postgres.NewSlots(ctx, pool.GetDB(), log)
		if err != nil {
			pool.Close()
			return nil, nil, noop, err
		}
		return s, s, func() { pool.Close() }, nil
	default:
		return nil, nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	return slots, slots, noop, nil
}

func buildVerifier(cfg *config.Config, log *slog.Logger) (session.Verifier, error) {
	if cfg.Auth.Mode == "bcrypt" {
		hashes, err := cfg.Auth.Hashes()
		if err != nil {
			return nil, err
		}
		v, err := session.NewBcryptVerifier(hashes)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	if cfg.IsProduction() {
		log.Warn("demo auth mode in production: any password is accepted for known accounts")
	} else {
		log.Info("demo auth mode: any password is accepted for known accounts")
	}
	return session.AcceptAnyPassword{}, nil
}
