// Package main runs the Sandol chatbot backend: the Kakao Open Builder
// skill server that fronts the campus microservices.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/sandol-project/kakao-bot-service/internal/app"
	"github.com/sandol-project/kakao-bot-service/internal/app/httpapi"
	"github.com/sandol-project/kakao-bot-service/internal/app/storage/postgres"
	"github.com/sandol-project/kakao-bot-service/internal/config"
	"github.com/sandol-project/kakao-bot-service/internal/middleware"
	"github.com/sandol-project/kakao-bot-service/internal/platform/migrations"
	"github.com/sandol-project/kakao-bot-service/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePrefix: cfg.Logging.FilePrefix,
	}).WithField("service", "kakao-bot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores := app.Stores{}
	if cfg.Database.DSN != "" {
		db, err := openDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.Apply(ctx, db.DB); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		stores.Users = postgres.New(db)
		log.Info("using postgres user store")
	} else {
		log.Warn("DATABASE_URL not set; user accounts are kept in memory")
	}

	application, err := app.New(ctx, cfg, stores, log)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("start application: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst, log)
	limiter.StartCleanup(10 * time.Minute)

	handler := httpapi.New(httpapi.Services{
		Users:     application.Users,
		Meals:     application.Meals,
		Notices:   application.Notices,
		Statics:   application.Statics,
		Classroom: application.Classroom,
	}, log)
	router := handler.Router(cfg.Server.BasePath,
		middleware.NewTracing(log).Handler,
		limiter.Handler,
		middleware.NewCORS(cfg.Server.AllowedOrigins).Handler,
		middleware.Metrics(),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if err := application.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("application stop")
	}

	log.Info("stopped")
	return nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
