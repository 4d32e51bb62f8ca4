// Command tradectl runs one pass of a periodic job and prints the result as
// JSON. It is meant for cron and for poking at a live database by hand.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"galaxytrade/internal/adapter/random"
	gormrepo "galaxytrade/internal/adapter/repo/gorm"
	"galaxytrade/internal/adapter/repo/memory"
	"galaxytrade/internal/platform/bootstrap"
	"galaxytrade/internal/platform/config"
	"galaxytrade/internal/platform/logging"
)

var errUnknownJob = errors.New("unknown job")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tradectl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tradectl", flag.ContinueOnError)
	job := fs.String("job", "", "job to run: agreements|weather")
	at := fs.String("at", "", "RFC3339 time to run the job at (default now)")
	seed := fs.Uint64("seed", 0, "seed for weather generation (0 = random)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.Init(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if *at != "" {
		now, err = time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("parse -at: %w", err)
		}
	}

	ctx := context.Background()
	repos, err := openRepos(cfg, now)
	if err != nil {
		return err
	}
	opts := bootstrap.Options{
		Workers:     cfg.AgreementWorkers,
		SpawnChance: cfg.SpawnChance,
		TransitUnit: cfg.TransitUnit,
		Rand:        random.Source{},
		Logger:      logger,
	}
	if *seed != 0 {
		opts.Rand = random.NewSeeded(*seed)
	}
	return runJob(ctx, *job, bootstrap.NewServices(repos, opts), now, out, logger)
}

func openRepos(cfg config.Config, now time.Time) (bootstrap.Repos, error) {
	if !cfg.UsesPostgres() {
		store := memory.NewStore(memory.WithLockTimeout(cfg.LockTimeout))
		bootstrap.SeedDemo(store, now)
		return bootstrap.MemoryRepos(store), nil
	}
	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		return bootstrap.Repos{}, fmt.Errorf("open postgres: %w", err)
	}
	return bootstrap.PostgresRepos(db, cfg.LockTimeout), nil
}

func runJob(ctx context.Context, job string, svc bootstrap.Services, now time.Time, out io.Writer, logger *slog.Logger) error {
	var result any
	switch job {
	case "agreements":
		res, err := svc.Agreements.ExecuteDue(ctx, now)
		if err != nil {
			return err
		}
		result = res
	case "weather":
		res, err := svc.WeatherJob.Run(ctx, now)
		if err != nil {
			return err
		}
		result = res
	default:
		return fmt.Errorf("%w %q (want agreements|weather)", errUnknownJob, job)
	}
	logger.Debug("job finished", "job", job)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
