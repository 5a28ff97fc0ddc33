package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gameportal/backend/internal/cache"
	"gameportal/backend/internal/catalog"
	"gameportal/backend/internal/database"
	"gameportal/backend/internal/events"
	"gameportal/backend/internal/handler"
	"gameportal/backend/internal/repository"
	"gameportal/backend/internal/service"
	"gameportal/backend/internal/worker"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.log

	log.Info("game portal starting")
	if err := database.Migrate(a.db); err != nil {
		return err
	}

	// Event fan-out: in-process hub always, RabbitMQ when configured.
	hub := events.NewHub(log)
	sinks := []events.Sink{{Name: "hub", Publisher: hub}}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, "", log)
		if err != nil {
			return err
		}
		defer amqpPub.Close()
		sinks = append(sinks, events.Sink{Name: "amqp", Publisher: amqpPub})
	}
	bus := events.NewBus(log, sinks...)

	var dedup cache.Deduper = cache.NoopDeduper{}
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer client.Close()
		dedup = cache.NewRedisDeduper(client, "portal:play:")
	} else {
		log.Warn("REDIS_ADDR not set, play deduplication disabled")
	}

	games := repository.NewGormGameRepository(a.db)
	categories := repository.NewGormCategoryRepository(a.db)
	plays := repository.NewGormPlayRepository(a.db)
	achievementRepo := repository.NewGormAchievementRepository(a.db)
	userRepo := repository.NewGormUserRepository(a.db)

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize, log)
	pool.Start(context.Background())

	achievements := service.NewAchievementService(achievementRepo, plays, bus, log)
	users := service.NewUserService(userRepo, plays, achievementRepo)
	h := handler.New(handler.Services{
		Catalog: catalog.NewService(games, catalog.Options{
			Limits:  catalog.Limits{Default: cfg.CatalogDefaultLimit, Max: cfg.CatalogMaxLimit},
			Timeout: cfg.CatalogQueryTimeout,
		}, log),
		Games:      service.NewGameService(games, categories, bus, log),
		Categories: service.NewCategoryService(categories, bus, log),
		Tags:       service.NewTagService(repository.NewGormTagRepository(a.db)),
		Plays: service.NewPlayService(service.PlayServiceConfig{
			Plays:        plays,
			Dedup:        dedup,
			DedupWindow:  cfg.PlayDedupWindow,
			Jobs:         pool,
			Achievements: achievements,
			Publisher:    bus,
		}, log),
		Achievements: achievements,
		Users:        users,
		Hub:          hub,
	}, log)

	router := handler.NewRouter(h, handler.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.Origins(),
		Identities:     users,
	}, log)

	// WriteTimeout stays zero so event streams are not cut off. Streams end
	// through the base context instead, which is cancelled on shutdown.
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	httpServer.RegisterOnShutdown(cancelStreams)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("HTTP server listening", "addr", cfg.HTTPAddr)
		log.Infow("Swagger UI available", "url", "http://localhost"+cfg.HTTPAddr+"/swagger/index.html")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		pool.Stop()
		return err
	case <-sigCtx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}
	// Queued achievement jobs are drained before exit.
	pool.Stop()

	log.Info("game portal stopped")
	return nil
}
