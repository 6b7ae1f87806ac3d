package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/casewatch/internal/database"
	"github.com/nao1215/casewatch/internal/model"
	"github.com/nao1215/casewatch/internal/report"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored snapshot",
		Long: `Show prints the last stored snapshot without contacting any source.

Examples:
  # The message as it would be broadcast
  casewatch show

  # Markdown with a counters table and chart
  casewatch show --markdown

  # JSON for scripts
  casewatch show --json`,
		Args: cobra.NoArgs,
		RunE: runShowCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runShowCmd executes the show command.
func runShowCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	snapshot, err := loadSnapshot(cmd.Context(), cfg.DBPath)
	if err != nil {
		return err
	}

	var w report.Writer
	switch {
	case jsonOut:
		w = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	case markdownOut:
		w = report.NewMarkdownWriter(cmd.OutOrStdout())
	default:
		w = report.NewTextWriter(cmd.OutOrStdout())
	}

	if _, err := w.Write(snapshot); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// loadSnapshot reads the snapshot at path without creating the file.
// A missing file is an absent snapshot.
func loadSnapshot(ctx context.Context, path string) (model.Snapshot, error) {
	db, err := openExisting(path)
	if err != nil || db == nil {
		return model.AbsentSnapshot(), err
	}
	defer db.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	snapshot, err := db.Load(ctx)
	if err != nil {
		return model.AbsentSnapshot(), fmt.Errorf("failed to read snapshot: %w", err)
	}
	return snapshot, nil
}

// openExisting opens the database at path for reading.
// It returns nil without error when the file does not exist.
func openExisting(path string) (*database.SnapshotDB, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	opts.EnableWAL = false
	db, err := database.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	return db, nil
}
