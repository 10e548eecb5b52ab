package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/course-enrollment-api/internal/repository"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	"github.com/noah-isme/course-enrollment-api/pkg/cache"
	"github.com/noah-isme/course-enrollment-api/pkg/config"
	"github.com/noah-isme/course-enrollment-api/pkg/database"
	"github.com/noah-isme/course-enrollment-api/pkg/logger"
)

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

func upCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply schema migrations",
		Long: `Apply the embedded schema migrations to the configured Postgres database.

Each script runs in its own transaction and is written to be re-runnable.

Examples:
  migrate up
  migrate up --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), false, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the scripts without executing them")
	return cmd
}

func seedCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Apply migrations, load the demo catalog and clear cached courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), true, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the scripts without executing them")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List embedded migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrations, err := database.Migrations(true)
			if err != nil {
				return err
			}
			for _, m := range migrations {
				fmt.Fprintln(cmd.OutOrStdout(), m.Name)
			}
			return nil
		},
	}
}

func run(ctx context.Context, out io.Writer, withSeed, dryRun bool) error {
	migrations, err := database.Migrations(withSeed)
	if err != nil {
		return err
	}

	if dryRun {
		for _, m := range migrations {
			fmt.Fprintf(out, "-- %s\n%s\n", m.Name, m.SQL)
		}
		fmt.Fprintln(out, "Dry run - no changes made")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Apply(ctx, db, migrations); err != nil {
		return err
	}
	fmt.Fprintf(out, "Applied %d migrations to %s\n", len(migrations), cfg.Database.Name)

	if withSeed {
		return refreshCatalogCache(ctx, cfg, out)
	}
	return nil
}

// refreshCatalogCache drops cached course lookups so seeded prices and
// active flags are visible before the cache TTL runs out.
func refreshCatalogCache(ctx context.Context, cfg *config.Config, out io.Writer) error {
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("catalog seeded but cached courses were not cleared: %w", err)
	}
	if client == nil {
		return nil
	}
	defer client.Close()

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logr.Sync() }()

	cacheSvc := service.NewCacheService(repository.NewCacheRepository(client, repository.CachePrefix), nil, cfg.Redis.CatalogCacheTTL, logr)
	invalidateCatalog(ctx, service.NewCatalogService(nil, nil, nil, cacheSvc, nil, nil, logr), out)
	return nil
}

func invalidateCatalog(ctx context.Context, catalog catalogInvalidator, out io.Writer) {
	catalog.InvalidateCatalog(ctx)
	fmt.Fprintln(out, "Cleared cached catalog entries")
}
