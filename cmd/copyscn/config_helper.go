package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/copyscn/domain"
	"github.com/ludo-technologies/copyscn/internal/config"
	"github.com/ludo-technologies/copyscn/internal/logger"
	"github.com/ludo-technologies/copyscn/service"
)

// loadConfig resolves .copyscn.toml (explicit path or discovery from the
// working directory) plus COPYSCN_* overrides, and records which flags of
// cmd were set explicitly.
func loadConfig(cmd *cobra.Command, configPath string) (*config.Config, *config.FlagTracker, error) {
	cfg, err := service.NewCopyConfigurationLoader().LoadConfig(configPath, "")
	if err != nil {
		return nil, nil, err
	}
	return cfg, config.TrackChanged(cmd.Flags()), nil
}

// applyLoggingFlags lets the global logging flags override [logging]
func applyLoggingFlags(cmd *cobra.Command, cfg *config.Config, ft *config.FlagTracker) {
	level, _ := cmd.Flags().GetString("log-level")
	asJSON, _ := cmd.Flags().GetBool("log-json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if verbose && !ft.WasSet("log-level") {
		cfg.Logging.Level = "debug"
	}
	cfg.Logging.Level = config.Merge(ft, cfg.Logging.Level, level, "log-level")
	cfg.Logging.JSON = config.Merge(ft, cfg.Logging.JSON, asJSON, "log-json")
}

// newLogger builds the diagnostic logger on the command's stderr
func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		JSON:   cfg.Logging.JSON,
		Output: cmd.ErrOrStderr(),
	})
}

// validateConfig wraps configuration validation failures as CONFIG_ERROR
func validateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return domain.NewConfigError("invalid configuration", err)
	}
	return nil
}

