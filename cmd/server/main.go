package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "galaxytrade/internal/adapter/http"
	"galaxytrade/internal/adapter/random"
	gormrepo "galaxytrade/internal/adapter/repo/gorm"
	"galaxytrade/internal/adapter/repo/memory"
	"galaxytrade/internal/adapter/scheduler"
	"galaxytrade/internal/platform/bootstrap"
	"galaxytrade/internal/platform/config"
	"galaxytrade/internal/platform/logging"
	"galaxytrade/migrations"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.Init(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := buildRepos(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage setup failed", "err", err)
		os.Exit(1)
	}
	svc := bootstrap.NewServices(repos, serviceOptions(cfg, logger))

	h := httpadapter.Handler{
		Ledger:     svc.Ledger,
		Agreements: svc.Agreements,
		Transit:    svc.Transit,
		Weather:    svc.Weather,
		WeatherJob: svc.WeatherJob,
		Routes:     svc.Routes,
		KPI:        svc.Metrics,
		Limiter:    httpadapter.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}

	jobs := scheduler.Runner{
		Logger: logger.With("component", "scheduler"),
		Jobs:   periodicJobs(cfg, svc),
	}
	go func() {
		if err := jobs.Run(ctx); err != nil {
			logger.Error("scheduler stopped", "err", err)
		}
	}()

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)
	s.SetCustomSignalWaiter(func(chan error) error {
		<-ctx.Done()
		return nil
	})

	logger.Info("galaxy trade server listening", "addr", cfg.HTTPAddr, "postgres", cfg.UsesPostgres())
	s.Spin()
}

func serviceOptions(cfg config.Config, logger *slog.Logger) bootstrap.Options {
	return bootstrap.Options{
		Workers:     cfg.AgreementWorkers,
		SpawnChance: cfg.SpawnChance,
		TransitUnit: cfg.TransitUnit,
		Rand:        random.Source{},
		Logger:      logger,
	}
}

func periodicJobs(cfg config.Config, svc bootstrap.Services) []scheduler.Job {
	return []scheduler.Job{
		{
			Name:     "agreements",
			Interval: cfg.AgreementInterval,
			Run: func(ctx context.Context, now time.Time) error {
				_, err := svc.Agreements.ExecuteDue(ctx, now)
				return err
			},
		},
		{
			Name:     "weather",
			Interval: cfg.WeatherInterval,
			Run: func(ctx context.Context, now time.Time) error {
				_, err := svc.WeatherJob.Run(ctx, now)
				return err
			},
		},
	}
}

func buildRepos(ctx context.Context, cfg config.Config, logger *slog.Logger) (bootstrap.Repos, error) {
	if !cfg.UsesPostgres() {
		store := memory.NewStore(memory.WithLockTimeout(cfg.LockTimeout))
		if cfg.DemoSeed {
			bootstrap.SeedDemo(store, time.Now().UTC())
			logger.Info("memory store seeded with demo universe")
		}
		return bootstrap.MemoryRepos(store), nil
	}

	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		return bootstrap.Repos{}, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MigrationsDir != "" {
		err = gormrepo.ApplyMigrationsDir(ctx, db, cfg.MigrationsDir)
	} else {
		err = gormrepo.ApplyMigrations(ctx, db, migrations.FS)
	}
	if err != nil {
		return bootstrap.Repos{}, fmt.Errorf("apply migrations: %w", err)
	}
	return bootstrap.PostgresRepos(db, cfg.LockTimeout), nil
}
