package cmd

import (
	"context"
	"fmt"

	"stock-importer/feature/imports"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	relateShipment string
	relateBatch    string
	relateClient   string
	relateUser     string
)

var relateCmd = &cobra.Command{
	Use:   "relate",
	Short: "Re-run the matcher over pending lines",
	Long: `Re-runs automatic matching for the pending lines of one shipment,
one batch or every open import of a client. Exactly one scope is required.

Examples:
  relate --batch 6f1c9a0e-8d7a-4a53-9b1e-2f0d3c4b5a69
  relate --client "Loja Azul"`,
	RunE: runRelate,
}

func init() {
	relateCmd.Flags().StringVar(&relateShipment, "shipment", "", "Shipment id")
	relateCmd.Flags().StringVar(&relateBatch, "batch", "", "Batch id")
	relateCmd.Flags().StringVar(&relateClient, "client", "", "Client name or id")
	relateCmd.Flags().StringVar(&relateUser, "user", "cli", "Operator recorded in the activity log")
	relateCmd.MarkFlagsMutuallyExclusive("shipment", "batch", "client")
	relateCmd.MarkFlagsOneRequired("shipment", "batch", "client")
	RootCmd.AddCommand(relateCmd)
}

func runRelate(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.close()

	res, err := env.service().AutoRelate(context.Background(), imports.RelateRequest{
		ShipmentID: relateShipment,
		BatchID:    relateBatch,
		Client:     relateClient,
		User:       relateUser,
	})
	if err != nil {
		return fmt.Errorf("auto-relate failed: %w", err)
	}

	env.log.Info("Relate report",
		zap.Int("pending_before", res.PendingBefore),
		zap.Int("pending_after", res.PendingAfter),
		zap.Int("matched", res.Matched),
	)
	return nil
}
