package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"restohub/internal/adapters/observability"
	redisad "restohub/internal/adapters/redis"
	"restohub/internal/app"
	"restohub/internal/domain"
	"restohub/internal/shared"
	mysqlrepo "restohub/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg shared.Config) *cobra.Command {
	var (
		tenants []string
		workers int
		force   bool
		all     bool
	)
	cmd := &cobra.Command{
		Use:   "seeder",
		Short: "Writes the default homepage for tenants that have none",
		Long: `seeder stores the default homepage document for every tenant given with
--tenants (or SEED_TENANTS). Tenants that already have a homepage are left
alone unless --force is set. --all re-seeds every tenant already in the store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := sql.Open("mysql", cfg.MySQLDSN)
			if err != nil {
				return fmt.Errorf("sql.Open: %w", err)
			}
			defer db.Close()
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("db.Ping: %w", err)
			}
			repo := mysqlrepo.New(db)
			var store domain.ContentStore = repo
			if cfg.RedisAddr != "" {
				// write through the API's cache so it never serves the pre-seed document
				rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
				defer rc.Close()
				store = app.NewCachedStore(repo, rc, cfg.CacheTTL)
			}

			if all {
				existing, err := repo.ListTenants(ctx)
				if err != nil {
					return err
				}
				tenants = append(tenants, existing...)
			}
			if len(tenants) == 0 {
				return fmt.Errorf("no tenants given; use --tenants, --all or SEED_TENANTS")
			}

			log.Info().Int("tenants", len(tenants)).Int("workers", workers).Bool("force", force).Msg("seeder starting")
			res := seedAll(ctx, app.NewSeedService(store), dedupe(tenants), workers, force)
			log.Info().Int("seeded", res.Seeded).Int("skipped", res.Skipped).Int("failed", res.Failed).Msg("seeding completed")
			if res.Failed > 0 {
				return fmt.Errorf("%d tenants failed", res.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tenants, "tenants", cfg.SeedTenants, "comma separated tenant ids")
	cmd.Flags().IntVar(&workers, "workers", cfg.SeedWorkers, "concurrent writes")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing homepages")
	cmd.Flags().BoolVar(&all, "all", false, "include every tenant already stored")
	return cmd
}
