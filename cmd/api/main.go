package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calvin/audit-service/internal/api"
	"github.com/calvin/audit-service/internal/auth"
	"github.com/calvin/audit-service/internal/config"
	"github.com/calvin/audit-service/internal/db"
	"github.com/calvin/audit-service/internal/kafka"
	"github.com/calvin/audit-service/internal/logger"
	"github.com/calvin/audit-service/internal/metrics"
	"github.com/calvin/audit-service/internal/repository/postgres"
	"github.com/calvin/audit-service/internal/services"
	"github.com/calvin/audit-service/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, dbPool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(dbPool)
	svc := services.NewAuditService(repos.AuditLogs, repos.UserACLs)

	wp := worker.NewPool(4)
	defer wp.Stop()

	metrics.Init()

	var authn auth.Authenticator
	switch cfg.AuthMode {
	case "bearer":
		authn = auth.NewBearerToken(auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer))
	default:
		authn = auth.AllowAll()
	}

	consumer, err := kafka.NewConsumer(cfg, kafka.NewHandler(svc, log), wp, log)
	if err != nil {
		log.Error("kafka connect", "err", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := consumer.EnsureTopic(ensureCtx); err != nil {
		// The topic may already be owned by another deployment; keep
		// consuming either way.
		log.Error("kafka topic verify", "topic", cfg.KafkaTopic, "err", err)
	}
	cancel()

	go consumer.Run(ctx)

	r := api.NewRouter(cfg, authn, svc)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "auth_mode", cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
}
