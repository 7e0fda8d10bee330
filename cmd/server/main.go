// Package main is the entry point for the Student Grade Hub API server.
//
// The layering follows Clean Architecture:
// - Domain: entities and repository contracts, no external dependencies
// - Application: services that validate input and orchestrate repositories
// - Infrastructure: PostgreSQL repositories and migrations
// - Interface: HTTP server and REST handlers
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/grade-hub/student-grade-hub/config"
	"github.com/grade-hub/student-grade-hub/internal/application/service"
	"github.com/grade-hub/student-grade-hub/internal/infrastructure/persistence/postgres"
	httpserver "github.com/grade-hub/student-grade-hub/internal/interface/http"
	"github.com/grade-hub/student-grade-hub/pkg/logger"
	"github.com/grade-hub/student-grade-hub/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration
	// ─────────────────────────────────────────────────────────────────────────

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Logging
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting Student Grade Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Database connection
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	conn, err := connectDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		conn.Close()
	}()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Migrations
	// ─────────────────────────────────────────────────────────────────────────
	migrator := postgres.NewMigrator(conn)

	// "rollback" undoes the last applied migration and exits.
	if len(os.Args) > 1 && os.Args[1] == "rollback" {
		log.Info("rolling back last migration...")
		if err := migrator.Rollback(ctx); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		log.Info("rollback completed")
		return nil
	}

	log.Info("running database migrations...")
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migrations completed")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. Wiring: repositories, services, HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	studentRepo := postgres.NewStudentRepository(conn)
	gradeRepo := postgres.NewGradeRepository(conn)

	studentService := service.NewStudentService(studentRepo, log)
	gradeService := service.NewGradeService(gradeRepo, studentRepo, log)

	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.EnableCORS = cfg.HTTP.EnableCORS
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(serverCfg, httpserver.Dependencies{
		Students:      studentService,
		Grades:        gradeService,
		Logger:        log,
		HealthChecker: conn,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 6. Run until signalled, then shut down gracefully
	// ─────────────────────────────────────────────────────────────────────────
	errCh := server.StartAsync()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("starting graceful shutdown...",
		logger.Duration("timeout", cfg.App.ShutdownTimeout),
	)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

// connectDatabase opens the pool from DATABASE_URL, falling back to the
// default local configuration when no URL is configured. Pool sizing comes
// from the DB_* environment knobs. The connection is retried with backoff
// because the database may still be starting.
func connectDatabase(ctx context.Context, cfg *config.Config) (*postgres.Connection, error) {
	pgCfg := postgres.DefaultConfig()
	if cfg.Database.URL != "" {
		pgCfg.URL = cfg.Database.URL
	} else {
		pgCfg.Host = "localhost"
	}
	pgCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	var conn *postgres.Connection

	err := retry.DatabaseRetrier().Do(ctx, func(ctx context.Context) error {
		var openErr error
		conn, openErr = postgres.NewConnection(ctx, pgCfg)
		if openErr != nil {
			return retry.Retryable(openErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return conn, nil
}
