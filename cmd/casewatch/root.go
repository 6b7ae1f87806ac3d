package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for casewatch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "casewatch",
		Short: "Watch COVID-19 case counts and broadcast changes",
		Long: `casewatch scrapes public COVID-19 status pages (NAVER, the Ministry of
Health and Welfare, SBS), merges the figures, compares them with the last
stored snapshot and broadcasts a message over LINE when they change.

Each invocation is a single pass. Schedule 'casewatch run' with cron or a
systemd timer.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .casewatch.yaml in current directory, then XDG config)")
	cmd.PersistentFlags().String("db-path", "",
		"Snapshot database path (default: corona19status.db in current directory)")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
