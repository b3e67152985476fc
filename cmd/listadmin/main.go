// cmd/listadmin/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/productlist-backend/internal/infrastructure/database/redis"
	"github.com/your-org/productlist-backend/internal/pkg/logger"
)

var (
	// Global flags
	verbose bool
	timeout time.Duration

	cfg       *config.Config
	appLogger *logrus.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "listadmin",
	Short: "Operate the product list service",
	Long: `listadmin runs maintenance tasks against the product list database:
schema migration, development seeding, public wishlist search and
password hashing for seeded accounts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		appLogger, err = logger.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "overall command timeout")

	migrateCmd.Flags().Bool("drop", false, "drop every table before migrating")
	searchCmd.Flags().String("first-name", "", "owner first name")
	searchCmd.Flags().String("last-name", "", "owner last name")
	searchCmd.Flags().String("email", "", "owner email, takes precedence over names")
	searchCmd.Flags().Int("page", 1, "page number")

	rootCmd.AddCommand(migrateCmd, seedCmd, tablesCmd, searchCmd, hashPasswordCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// commandContext bounds a command by the --timeout flag
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func openDatabase(ctx context.Context) (*postgres.DB, error) {
	db, err := postgres.NewConnection(cfg, appLogger)
	if err != nil {
		return nil, err
	}
	if err := db.Health(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	return db, nil
}

func openRedis(ctx context.Context) (*redis.Client, error) {
	client, err := redis.NewConnection(cfg, appLogger)
	if err != nil {
		return nil, err
	}
	if err := client.Health(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis health check failed: %w", err)
	}
	return client, nil
}
