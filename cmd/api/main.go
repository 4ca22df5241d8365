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

	"repairshop_backend/internal/adapters"
	"repairshop_backend/internal/events"
	apphttp "repairshop_backend/internal/http"
	"repairshop_backend/internal/http/router"
	"repairshop_backend/internal/identity"
	"repairshop_backend/internal/notification"
	"repairshop_backend/internal/scheduler"
	"repairshop_backend/internal/workflow"
	"repairshop_backend/platform/config"
	"repairshop_backend/platform/db"
	"repairshop_backend/platform/logger"
	"repairshop_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, log)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	identityModule := identity.NewModule(pool, val)

	// Anti-Corruption Layer: the workflow only sees actor ids and roles
	actorResolver := adapters.NewWorkflowActorResolver(identityModule.Service())
	workflowModule := workflow.NewModule(pool, actorResolver, eventBus, val, log)

	// Notification module subscribes to workflow events (not HTTP-facing)
	var subscribers []apphttp.EventSubscriber
	notificationModule, closeNotifications := initNotifications(cfg, log, identityModule.Service())
	if notificationModule != nil {
		defer closeNotifications()
		subscribers = append(subscribers, notificationModule)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			identityModule,
			workflowModule,
		},
	}
	app.Subscribe(subscribers...)

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		// Let in-flight event handlers finish before the pool closes.
		eventBus.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

func initNotifications(cfg *config.Config, log *logger.Logger, users identity.Service) (*notification.Module, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; customer notifications disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize notification queue client", "error", err)
		return nil, nil
	}

	redisClient, err := scheduler.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		_ = client.Close()
		return nil, nil
	}

	notificationModule := notification.New(client, notification.NewRedisDeduper(redisClient, cfg.GetNotificationDedupeTTL()), cfg, log)
	notificationModule.SetContactReader(adapters.NewNotificationContactReader(users))

	return notificationModule, func() {
		_ = client.Close()
		_ = redisClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
