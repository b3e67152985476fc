package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/productlist-backend/internal/infrastructure/database/redis"
	"github.com/your-org/productlist-backend/internal/interfaces/http"
	"github.com/your-org/productlist-backend/internal/pkg/auth"
)

// migrateCmd brings the schema up to date
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations and create indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		migration := postgres.NewMigration(db.GetDB(), appLogger)
		if drop, _ := cmd.Flags().GetBool("drop"); drop {
			if err := migration.DropAllTables(); err != nil {
				return err
			}
		}
		if err := migration.RunAutoMigrations(); err != nil {
			return err
		}
		return migration.CreateIndexes()
	},
}

// seedCmd loads development accounts and catalog products
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed development accounts and catalog products",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if cfg.IsProduction() {
			return fmt.Errorf("refusing to seed a production database")
		}

		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.NewMigration(db.GetDB(), appLogger).SeedInitialData(ctx); err != nil {
			return err
		}
		return forgetSeededProducts(ctx, db)
	},
}

// forgetSeededProducts drops cached copies of the seeded catalog rows
func forgetSeededProducts(ctx context.Context, db *postgres.DB) error {
	client, err := openRedis(ctx)
	if err != nil {
		appLogger.WithError(err).Warn("catalog cache not cleared")
		return nil
	}
	defer client.Close()

	catalog := redis.NewCachedCatalog(postgres.NewCatalog(db.GetDB()), client.GetClient(), cfg.ProductList.CatalogCacheTTL, appLogger)
	ids := postgres.SeededProductIDs()
	if err := catalog.Invalidate(ctx, ids...); err != nil {
		return fmt.Errorf("clear catalog cache: %w", err)
	}
	appLogger.WithField("products", len(ids)).Info("catalog cache cleared")
	return nil
}

// tablesCmd prints row counts
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Show the row count of every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		tables, err := postgres.NewMigration(db.GetDB(), appLogger).GetTableInfo()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, t := range tables {
			fmt.Fprintf(out, "%-32s %d\n", t.Name, t.Records)
		}
		return nil
	},
}

// searchCmd runs the public wishlist search
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search public wishlists by owner name or email",
	Example: `  listadmin search --first-name Jane --last-name Doe
  listadmin search --email jane.doe@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		var query productlist.SearchQuery
		query.FirstName, _ = cmd.Flags().GetString("first-name")
		query.LastName, _ = cmd.Flags().GetString("last-name")
		query.Email, _ = cmd.Flags().GetString("email")
		page, _ := cmd.Flags().GetInt("page")

		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		redisClient, err := openRedis(ctx)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		lists := http.NewListService(cfg, db, redisClient, appLogger)
		res, err := lists.Search(ctx, query, productlist.SearchPage{PageNumber: page})
		if err != nil {
			return err
		}
		if res == nil {
			return fmt.Errorf("enter a first and last name or an email address")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d public wishlists (page %d, %d shown)\n", res.Total, res.PageNumber, len(res.Hits))
		for _, hit := range res.Hits {
			fmt.Fprintf(out, "%s\t%s\t%s\n", hit.ID, strings.TrimSpace(hit.FirstName+" "+hit.LastName), hit.URL)
		}
		if res.ShowMore {
			fmt.Fprintf(out, "more results with --page %d\n", res.PageNumber+1)
		}
		return nil
	},
}

// hashPasswordCmd prints a bcrypt hash for seeding accounts by hand
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Hash a password with the configured bcrypt cost",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passwords := auth.NewPasswordManager(cfg)
		hash, err := passwords.HashPassword(args[0])
		if err != nil {
			return err
		}
		if err := passwords.VerifyPassword(args[0], hash); err != nil {
			return fmt.Errorf("hash verification failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
