package main

import (
	"github.com/spf13/cobra"

	"personnel/internal/platform/config"
	"personnel/internal/platform/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "personnel",
		Short:         "Personnel administration backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd(), newReconcileCmd())
	return cmd
}

// loadConfig reads and validates the environment and configures logging.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	logging.Setup(cfg)
	return cfg, nil
}
