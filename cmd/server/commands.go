package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"personnel/internal/app/server"
	"personnel/internal/domain/employee"
	"personnel/internal/platform/crypto"
	"personnel/internal/platform/db"
	"personnel/internal/platform/jobs"
	"personnel/internal/platform/metrics"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := server.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Run(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := db.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			return db.Migrate(cmd.Context(), pool)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := db.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			return db.MigrationStatus(cmd.Context(), pool)
		},
	})
	return cmd
}

func newSeedCmd() *cobra.Command {
	var withOrganization bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap admin and the reference organization tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.SeedOrganization = withOrganization
			pool, err := db.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			return db.Seed(cmd.Context(), pool, cfg)
		},
	}
	cmd.Flags().BoolVar(&withOrganization, "organization", true, "Seed directions, services, divisions and job templates when none exist")
	return cmd
}

type reconcileOutput struct {
	Command    string                   `json:"command"`
	DurationMS int64                    `json:"duration_ms"`
	Result     employee.ReconcileResult `json:"result"`
}

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile-duplicates",
		Short: "Keep one employee per matricule and delete the others",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := db.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			cryptoSvc, err := crypto.New(cfg.DataEncryptionKey)
			if err != nil {
				return err
			}

			collector := metrics.New()
			employees := employee.NewService(employee.NewStore(pool, cryptoSvc), collector)
			runner := jobs.New(pool, employees, collector, 0)

			start := time.Now()
			res, err := runner.Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(reconcileOutput{
				Command:    "reconcile-duplicates",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     res,
			})
		},
	}
}
