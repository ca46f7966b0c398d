package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and seeders so their init() funcs register them.
	_ "github.com/keysncaps/keysncaps/database/migrations"
	_ "github.com/keysncaps/keysncaps/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "keysncaps",
	Short: "Keys'n'Caps — mechanical keyboard storefront backend",
	Long:  "Keys'n'Caps is the REST backend for the mechanical keyboard shop: catalog, checkout, orders, and admin tooling.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleRunCmd)
}
