package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-selection-backend/config"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/repository"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/storage/postgres"
)

func (c *cli) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema (idempotent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.StoreDriverPostgres {
				return fmt.Errorf("migrate needs STORE_DRIVER=postgres, got %q", cfg.Database.Driver)
			}

			pool, err := bootstrap.OpenDB(cmd.Context(), bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database), MaxConns: 2})
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			c.logger.Info("schema applied", zap.String("database", cfg.Database.Name))
			return nil
		},
	}
}

func (c *cli) newRecomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Run one assignment recompute against the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			if rdb != nil {
				defer rdb.Close()
			}

			stores, err := bootstrap.OpenStores(ctx, &cfg.Database, rdb)
			if err != nil {
				return err
			}
			defer stores.Close()

			services := bootstrap.NewServices(stores, rdb, cfg.Assignment, c.logger, metrics.Nop{})
			run, err := services.Assignments.Recompute(ctx, domain.TriggerCLI)
			if run != nil {
				if encErr := printJSON(cmd, run); encErr != nil {
					return encErr
				}
			}
			return err
		},
	}
}

func (c *cli) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print finished recompute runs as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			if rdb == nil {
				return errors.New("watch needs REDIS_ADDR")
			}
			defer rdb.Close()

			sub := rdb.Subscribe(ctx, repository.EventChannel)
			defer sub.Close()
			c.logger.Info("watching recompute runs", zap.String("channel", repository.EventChannel))

			ch := sub.Channel()
			for {
				select {
				case <-ctx.Done():
					return nil
				case msg, ok := <-ch:
					if !ok {
						return nil
					}
					var run domain.RecomputeRun
					if err := json.Unmarshal([]byte(msg.Payload), &run); err != nil {
						c.logger.Warn("skipping malformed run event", zap.Error(err))
						continue
					}
					if err := printJSON(cmd, run); err != nil {
						return err
					}
				}
			}
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
