package cmd

import (
	"fmt"
	"os"

	"stock-importer/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "stock-importer",
	Short: "Marketplace spreadsheet importer",
	Long: `Stock Importer ingests marketplace order and shipment exports,
matches their free-text SKUs against each client's catalog and emits
sales and inventory movements for the matched lines.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError logs a command failure through a console logger at debug
// level, which prints readable ISO8601 timestamps.
func reportError(err error) {
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	l.Error("command failed", zap.Error(err))
	_ = l.Sync()
}
