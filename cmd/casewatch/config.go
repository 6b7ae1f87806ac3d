package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/casewatch/internal/config"
	cwlog "github.com/nao1215/casewatch/internal/log"
)

// lookupEnv is replaced in tests.
var lookupEnv = os.LookupEnv

// loadConfig builds the configuration from the config file, the
// environment and the global flags, in increasing priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named file must exist; otherwise a missing file means
	// defaults.
	var cfg *config.Config
	found := config.FindConfigFile(configPath)
	switch {
	case found != "":
		cfg, err = config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cfg.ConfigFilePath = found
	case configPath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	default:
		cfg = config.NewConfig()
	}

	cfg.ApplyEnv(lookupEnv)

	if cmd.Flags().Changed("db-path") {
		cfg.DBPath, err = cmd.Flags().GetString("db-path")
		if err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the credential-masking logger selected by the
// --log-format flag.
func setupLogger(cmd *cobra.Command, w io.Writer, verbose bool) (*slog.Logger, error) {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format = "text"
	}

	switch format {
	case "text", "":
		return cwlog.NewSecureLogger(w, verbose), nil
	case "json":
		return cwlog.NewSecureJSONLogger(w, verbose), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
	}
}
