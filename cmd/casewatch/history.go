package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nao1215/casewatch/internal/database"
	"github.com/nao1215/casewatch/internal/model"
	"github.com/nao1215/casewatch/internal/report"
)

// defaultHistoryLimit is the number of runs listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "List stored runs",
		Long: `History lists the runs stored in the snapshot database, newest first.
Pass an ID to print that run's message.

Examples:
  # The last 20 runs
  casewatch history

  # Every run as JSON
  casewatch history --limit 0 --json

  # The message stored by run 42
  casewatch history 42`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	var id int64
	single := len(args) == 1
	if single {
		id, err = strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid history ID %q: %w", args[0], err)
		}
	}

	db, err := openExisting(cfg.DBPath)
	if err != nil {
		return err
	}
	if db == nil {
		fmt.Fprintln(cmd.OutOrStdout(), report.NoSnapshotText)
		return nil
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if single {
		entry, err := db.HistoryEntry(ctx, id)
		if err != nil {
			return err
		}
		snapshot := model.PresentSnapshot(entry.Record, entry.SavedAt)
		var w report.Writer = report.NewTextWriter(cmd.OutOrStdout())
		if jsonOut {
			w = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
		}
		_, err = w.Write(snapshot)
		return err
	}

	entries, err := db.History(ctx, limit)
	if err != nil {
		return err
	}
	return writeHistory(cmd, entries, jsonOut)
}

func writeHistory(cmd *cobra.Command, entries []database.HistoryRecord, jsonOut bool) error {
	if jsonOut {
		_, err := report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint()).WriteHistory(entries)
		return err
	}
	report.HistoryTable(cmd.OutOrStdout(), entries)
	return nil
}
