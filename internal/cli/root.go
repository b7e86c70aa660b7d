// Package cli wires configuration, storage and services into the pixelplay
// commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/vytor/pixelplay/internal/config"
	"github.com/vytor/pixelplay/internal/logger"
)

// NewRootCmd builds the pixelplay command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pixelplay",
		Short:         "Pattern puzzle game and focus timer",
		Long:          "PixelPlay serves a timed grid-matching puzzle, a focus timer, statistics and achievements over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DB_PATH env var)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newResetCmd())
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads the environment, applies flag overrides and installs the
// default logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	logger.SetDefault(logger.New(
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	))
	return cfg, nil
}
