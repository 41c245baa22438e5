package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"bloodlink/internal/bloodbank/client"
	"bloodlink/internal/platform/config"
	"bloodlink/internal/platform/httpserver"
	"bloodlink/internal/platform/logger"
	"bloodlink/internal/platform/metrics"
	"bloodlink/internal/platform/redis"
	"bloodlink/internal/session"
	httptransport "bloodlink/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	m := metrics.New(prometheus.DefaultRegisterer)

	backend, health, closeBackend, err := credentialBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	submitter := client.New(cfg.BackendURL,
		client.WithLogger(log),
		client.WithTimeout(cfg.SubmitTimeout),
	)
	sessions := session.NewManager(backend, submitter,
		session.WithLogger(log),
		session.WithMetrics(m),
		session.WithIdleTTL(cfg.SessionTTL),
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Sessions:      sessions,
		Logger:        log,
		Metrics:       m,
		Gatherer:      prometheus.DefaultGatherer,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.SecureCookies,
		Health:        health,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting bloodlink", "addr", cfg.Addr, "backend_url", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sessions.Run(gctx, cfg.SweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// credentialBackend picks Redis when REDIS_URL is set and memory otherwise.
func credentialBackend(ctx context.Context, cfg config.Server, log *slog.Logger) (session.CredentialBackend, httptransport.HealthCheck, func(), error) {
	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, err
	}
	if rc == nil {
		log.Warn("REDIS_URL not set, keeping session credentials in memory")
		return session.NewInMemoryBackend(), nil, func() {}, nil
	}
	log.Info("session credentials stored in redis")
	closeFn := func() {
		if err := rc.Close(); err != nil {
			log.Error("failed to close redis", "error", err)
		}
	}
	return session.NewRedisBackend(rc.Client, session.WithTTL(cfg.SessionTTL)), rc.Health, closeFn, nil
}
