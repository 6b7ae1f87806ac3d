package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/casewatch/internal/config"
	"github.com/nao1215/casewatch/internal/database"
	"github.com/nao1215/casewatch/internal/model"
	"github.com/nao1215/casewatch/internal/notify"
	"github.com/nao1215/casewatch/internal/pipeline"
	"github.com/nao1215/casewatch/internal/provider"
	"github.com/nao1215/casewatch/internal/reconcile"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, compare, store and notify once",
		Long: `Run performs one pass:

  1. fetch every enabled source (a failing source is skipped)
  2. merge the figures, taking the largest value of each counter
  3. load the last stored snapshot
  4. compute the change against it
  5. store the merged figures as the new snapshot
  6. broadcast a message if anything changed (or --force-alert is set)

If every source fails the pass stops before touching the snapshot.
Source, storage and notification failures are logged and never change the
exit status; only configuration errors do.

Examples:
  # One pass with the default snapshot file
  casewatch run

  # Always send the message
  casewatch run --force-alert

  # Print the message instead of sending it, without moving the snapshot
  casewatch run --dry-run

  # Use a snapshot file outside the working directory
  casewatch run --db-path /var/lib/casewatch/corona19status.db`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	cmd.Flags().BoolP("force-alert", "f", false,
		"Send the notification even when nothing changed")
	cmd.Flags().Bool("dry-run", false,
		"Print the notification to stdout and leave the snapshot untouched")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cfg.ForceAlert, err = cmd.Flags().GetBool("force-alert")
	if err != nil {
		return err
	}
	cfg.DryRun, err = cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := setupLogger(cmd, cmd.ErrOrStderr(), cfg.Verbose)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runPass(ctx, cfg, cmd.OutOrStdout(), logger)
}

// runPass wires the components for cfg and executes one pass.
// It returns an error only for setup problems caused by the configuration.
func runPass(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	logger.Info("starting run",
		"force_alert", cfg.ForceAlert,
		"dry_run", cfg.DryRun,
		"db_path", cfg.DBPath,
		"config", cfg.ConfigFilePath,
	)

	fetcher := provider.NewFetcher(
		provider.WithTimeout(cfg.Timeout),
		provider.WithUserAgent(cfg.UserAgent),
	)
	providers, err := provider.FromConfig(cfg, fetcher)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	notifier, err := notify.New(cfg, out)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	var store pipeline.SnapshotStore
	db, err := openStore(cfg)
	switch {
	case errors.Is(err, database.ErrNotDatabase):
		logger.Error("snapshot file is not a casewatch database; every run will compare against zero until it is moved away",
			"db_path", cfg.DBPath,
			"error", err,
		)
	case err != nil:
		logger.Warn("snapshot store unavailable; comparing against zero and not storing",
			"db_path", cfg.DBPath,
			"error", err,
		)
	case db == nil:
		logger.Info("no snapshot stored yet; dry run compares against zero", "db_path", cfg.DBPath)
	default:
		defer db.Close()
		store = db
		if cfg.DryRun {
			store = pipeline.ReadOnly(db)
		}
	}

	run := model.NewRun(cfg.ForceAlert)
	err = pipeline.DefaultPipeline(providers, store, notifier, logger).Execute(ctx, run)
	switch {
	case errors.Is(err, reconcile.ErrNoSources):
		logger.Error("all sources unavailable; run aborted without touching the snapshot")
	case err != nil:
		logger.Error("run ended early", "error", err)
	}

	logger.Info("run finished",
		"changed", run.Changed,
		"persisted", run.Persisted,
		"notified", run.Notified,
		"elapsed", time.Since(run.StartedAt).Round(time.Millisecond),
	)
	return nil
}

// openStore opens the snapshot database for a pass. A dry run never
// creates the file and returns nil when it does not exist.
func openStore(cfg *config.Config) (*database.SnapshotDB, error) {
	if !cfg.DryRun {
		return database.Open(cfg.DBPath, database.DefaultOptions())
	}
	return openExisting(cfg.DBPath)
}
