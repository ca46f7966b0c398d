package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keysncaps/keysncaps/config"
	"github.com/keysncaps/keysncaps/database/seeders"
	"github.com/keysncaps/keysncaps/pkg/database"
	"github.com/keysncaps/keysncaps/pkg/migration"
)

// bootDB loads config and opens the MongoDB connection. The returned
// cleanup closes the connection.
func bootDB() (context.Context, func(context.Context), error) {
	if err := config.Load(); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := database.Connect(ctx); err != nil {
		cancel()
		return nil, nil, err
	}

	cleanup := func(ctx context.Context) {
		database.Disconnect(ctx) //nolint:errcheck
		cancel()
	}
	return ctx, cleanup, nil
}

// keysncaps migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cleanup, err := bootDB()
		if err != nil {
			return err
		}
		defer cleanup(ctx)

		fmt.Println("Running migrations…")
		return migration.New(database.DB()).Run(ctx)
	},
}

// keysncaps migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cleanup, err := bootDB()
		if err != nil {
			return err
		}
		defer cleanup(ctx)

		fmt.Println("Rolling back last batch…")
		return migration.New(database.DB()).Rollback(ctx)
	},
}

// keysncaps migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cleanup, err := bootDB()
		if err != nil {
			return err
		}
		defer cleanup(ctx)

		return migration.New(database.DB()).Status(ctx)
	},
}

// keysncaps seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cleanup, err := bootDB()
		if err != nil {
			return err
		}
		defer cleanup(ctx)

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, database.DB())
	},
}
