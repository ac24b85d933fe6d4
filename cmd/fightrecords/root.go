package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pevans/fightrecords/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	// fileConfig is loaded before any subcommand runs
	fileConfig *config.FileConfig
)

var rootCmd = &cobra.Command{
	Use:           "fightrecords",
	Short:         "fightrecords scrapes UFC bout and fighter records from Tapology.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLogLevel(logLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		fileConfig, err = loadConfig(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", getEnv("FIGHTRECORDS_CONFIG", ""), "Path to a YAML config file (default ~/.fightrecords/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the explicit config path if one is given, otherwise the
// default location, falling back to built-in defaults.
func loadConfig(path string) (*config.FileConfig, error) {
	var cfg *config.FileConfig
	var err error
	if path != "" {
		cfg, err = config.LoadConfigFileFrom(path)
	} else {
		cfg, err = config.LoadConfigFile()
	}
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	cfg.Storage.Records.DSN = getEnv("FIGHTRECORDS_DB", cfg.Storage.Records.DSN)
	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
