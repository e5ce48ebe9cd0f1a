package cmd

import (
	"fmt"

	"stock-importer/core/database"
	"stock-importer/feature/imports"

	"github.com/spf13/cobra"
)

var orderKeyColumns = []string{"client_id", "source_order_id", "sku_text", "quantity", "unit_price"}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long:  `Runs the schema migration for clients, products, kits, aliases, batches, lines, sales and movements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap()
		if err != nil {
			return err
		}
		defer env.close()

		if err := database.Migrate(env.db, imports.Models()...); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}

		// Re-imports upsert on this key; a table created by an older release
		// may lack some of it.
		missing, err := database.MissingColumns(env.db, "order_lines", orderKeyColumns)
		if err != nil {
			return fmt.Errorf("failed to inspect order_lines: %w", err)
		}
		if len(missing) > 0 {
			return fmt.Errorf("order_lines is missing columns %v", missing)
		}
		env.log.Info("Schema is up to date")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
