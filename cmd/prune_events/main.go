package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/config"
	"github.com/light-bringer/procat-admin/internal/pkg/clock"
	"github.com/light-bringer/procat-admin/internal/pkg/logging"
	"github.com/light-bringer/procat-admin/internal/services"
)

// Options for an outbox prune run.
type Options struct {
	ConfigFile    string
	RetentionDays int
	DryRun        bool
}

func parseOptions(args []string) (Options, error) {
	var opts Options
	flags := pflag.NewFlagSet("prune_events", pflag.ContinueOnError)
	flags.StringVar(&opts.ConfigFile, "config", "", "config file (yaml, json or toml)")
	flags.IntVar(&opts.RetentionDays, "retention-days", 30, "delete events older than this many days")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "count matching events without deleting them")
	if err := flags.Parse(args); err != nil {
		return opts, err
	}
	if opts.RetentionDays <= 0 {
		return opts, errors.New("--retention-days must be positive")
	}
	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}
	if err := run(context.Background(), opts); err != nil {
		log.Fatalf("Prune failed: %v", err)
	}
}

func run(ctx context.Context, opts Options) error {
	var args []string
	if opts.ConfigFile != "" {
		args = []string{"--config", opts.ConfigFile}
	}
	cfg, err := config.Load("prune_events", args)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	serviceOpts, err := services.NewServiceOptions(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer func() {
		if err := serviceOpts.Close(); err != nil {
			logger.Warn("failed to close resources", zap.Error(err))
		}
	}()

	_, err = prune(ctx, serviceOpts.Catalog.Outbox, clock.NewRealClock(), opts, logger)
	return err
}

func prune(ctx context.Context, outbox contracts.OutboxRepository, clk clock.Clock, opts Options, logger *zap.Logger) (int, error) {
	cutoff := clk.Now().UTC().AddDate(0, 0, -opts.RetentionDays)
	logger.Info("starting outbox prune",
		zap.Time("cutoff", cutoff),
		zap.Int("retention_days", opts.RetentionDays),
		zap.Bool("dry_run", opts.DryRun),
	)

	count, err := outbox.DeleteOlderThan(ctx, cutoff, opts.DryRun)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}

	if opts.DryRun {
		logger.Info("dry run: events would be deleted", zap.Int("count", count))
		return count, nil
	}
	logger.Info("pruned outbox events", zap.Int("count", count), zap.Duration("retention", time.Duration(opts.RetentionDays)*24*time.Hour))
	return count, nil
}
