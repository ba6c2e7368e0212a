package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kzero-xyz/kzero-service/pkg/config"
	"github.com/kzero-xyz/kzero-service/pkg/logger"
)

var logConfigPath string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kzero",
		Short: "zkLogin proof generation service",
		Long:  "Bridges an OAuth2 identity assertion to a Sui zkLogin zero-knowledge proof.",
		// Runs before every subcommand's RunE, so serve/worker/compile can
		// call logger.Default() without each initializing it themselves.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitDefault(logger.GlobalConfig{
				Fields: []logger.Field{
					{Key: "application", Value: "kzero"},
					{Key: "version", Value: version},
				},
				Level: resolveLogLevel(logConfigPath),
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&logConfigPath, "log-config", config.GetenvDefault("LOG_CONFIG_PATH", ""), "Path to a JSON file with a \"level\" field overriding the default log level")

	rootCmd.AddCommand(
		newServeCmd(),
		newWorkerCmd(),
		newCompileCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// resolveLogLevel loads a level override from path, falling back to
// zerolog.InfoLevel when no path is given or the file can't be read -
// zerolog's own zero value is DebugLevel, so this fallback must be
// explicit rather than left to Config's zero value.
func resolveLogLevel(path string) zerolog.Level {
	if path == "" {
		return zerolog.InfoLevel
	}
	cfg, err := config.Read[logger.ConfigJSON, logger.Config](path)
	if err != nil {
		return zerolog.InfoLevel
	}
	return cfg.Level
}
