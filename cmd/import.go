package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"stock-importer/feature/imports"
	"stock-importer/feature/imports/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importKind           string
	importClient         string
	importShipmentNumber string
	importDate           string
	importUser           string
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Ingest a spreadsheet and run the matcher",
	Long: `Reads an order or shipment export (.xlsx, .xlsm or .csv), stores its
lines as a new batch and resolves every SKU it can.

Examples:
  # Marketplace order export
  import orders.xlsx --kind order_export --client "Loja Azul"

  # Shipment export with an explicit number
  import envio.csv --kind shipment_export --client 3 --shipment-number ENV-42`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importKind, "kind", string(models.KindOrderExport), "Spreadsheet kind (order_export, shipment_export)")
	importCmd.Flags().StringVar(&importClient, "client", "", "Client name or id")
	importCmd.Flags().StringVar(&importShipmentNumber, "shipment-number", "", "Shipment number (defaults to the file name)")
	importCmd.Flags().StringVar(&importDate, "import-date", "", "Fallback order date (YYYY-MM-DD)")
	importCmd.Flags().StringVar(&importUser, "user", "cli", "Operator recorded in the activity log")
	_ = importCmd.MarkFlagRequired("client")
	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.close()

	l := env.log
	l.Info("Starting import", zap.String("file", args[0]), zap.String("kind", importKind))

	res, err := env.service().Upload(context.Background(), imports.UploadRequest{
		Filename:       filepath.Base(args[0]),
		Content:        content,
		Kind:           models.Kind(importKind),
		Client:         importClient,
		ShipmentNumber: importShipmentNumber,
		ImportDate:     importDate,
		User:           importUser,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	l.Info("Import report",
		zap.String("batch_id", res.BatchID),
		zap.String("shipment_id", res.ShipmentID),
		zap.String("status", string(res.Status)),
		zap.Int("total_rows", res.TotalRows),
		zap.Int("inserted", res.Inserted),
		zap.Int("auto_matched", res.AutoMatched),
		zap.Int("pending", res.Pending),
		zap.Int("skipped", res.Skipped),
		zap.Int("duplicates", res.Duplicates),
	)
	for i, w := range res.Warnings {
		if i == 5 {
			l.Info("Additional warnings not shown", zap.Int("count", len(res.Warnings)-i))
			break
		}
		l.Warn("Row skipped", zap.Int("row", w.Row), zap.String("reason", w.Reason))
	}
	return nil
}
