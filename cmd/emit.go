package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"stock-importer/feature/imports/emit"
	"stock-importer/feature/imports/ledger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	emitShipment string
	emitBatch    string
	emitUser     string
	dryRunEmit   bool
	yesConfirm   bool
)

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Post a shipment or an order batch to the ledger",
	Long: `Emits sales and inventory movements for the matched lines of a shipment
or an order-export batch.

For batches the plan is always printed first. Orders already posted are
reported as existing, cancelled orders are reversed and orders with pending
lines are skipped.

Examples:
  # Shipment
  emit --shipment 1b0e7d1c-0d6b-4b1f-8f0b-7c3f0a3e2d11

  # Batch, print the plan only
  emit --batch 6f1c9a0e-8d7a-4a53-9b1e-2f0d3c4b5a69 --dry-run

  # Batch, non-interactive
  emit --batch 6f1c9a0e-8d7a-4a53-9b1e-2f0d3c4b5a69 --yes`,
	RunE: runEmit,
}

func init() {
	emitCmd.Flags().StringVar(&emitShipment, "shipment", "", "Shipment id")
	emitCmd.Flags().StringVar(&emitBatch, "batch", "", "Order-export batch id")
	emitCmd.Flags().StringVar(&emitUser, "user", "cli", "Operator recorded in the activity log")
	emitCmd.Flags().BoolVar(&dryRunEmit, "dry-run", false, "Print the batch plan without posting anything")
	emitCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the batch plan (non-interactive)")
	emitCmd.MarkFlagsMutuallyExclusive("shipment", "batch")
	emitCmd.MarkFlagsOneRequired("shipment", "batch")
	RootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.close()
	l := env.log
	svc := env.service()

	if emitShipment != "" {
		res, err := svc.EmitShipment(ctx, emitShipment, emitUser)
		if err != nil {
			return fmt.Errorf("failed to emit shipment: %w", err)
		}
		l.Info("Shipment emitted",
			zap.String("shipment_id", res.ShipmentID),
			zap.String("number", res.Number),
			zap.String("sale_id", res.SaleID),
			zap.Int("items", res.Items),
			zap.Int("quantity", res.Quantity),
		)
		printShortages(l, res.Shortages)
		return nil
	}

	l.Info("Planning emission...", zap.String("batch_id", emitBatch))
	plan, err := svc.PlanBatch(ctx, emitBatch)
	if err != nil {
		return fmt.Errorf("failed to plan emission: %w", err)
	}
	printEmitPlan(l, plan)

	if dryRunEmit {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if plan.Summary.Post+plan.Summary.Restore+plan.Summary.Reverse == 0 {
		l.Info("No orders to post or reverse.")
		return nil
	}
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Applying plan...")
	res, err := svc.ApplyPlan(ctx, plan, emitUser)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}

	l.Info("Emission report",
		zap.String("status", string(res.Status)),
		zap.Int("inserted", res.Inserted),
		zap.Int("already_existed", res.AlreadyExisted),
		zap.Int("reversed", res.Reversed),
		zap.Int("returns_cleared", res.ReturnsCleared),
		zap.Int("skipped_fulfillment", res.SkippedFulfillment),
		zap.Int("skipped_cancelled", res.SkippedCancelled),
		zap.Int("skipped_pending", res.SkippedPending),
		zap.Int("errors", len(res.Errors)),
	)
	for _, e := range res.Errors {
		l.Error("Order failed", zap.String("order_id", e.OrderID), zap.String("error", e.Error))
	}
	printShortages(l, res.Shortages)
	return nil
}

// printEmitPlan prints the plan summary and a sample of its actions.
func printEmitPlan(l *zap.Logger, plan *emit.Plan) {
	s := plan.Summary

	l.Info("Emission plan",
		zap.String("batch_id", plan.BatchID),
		zap.Int("orders", s.Orders),
		zap.Int("post", s.Post),
		zap.Int("restore", s.Restore),
		zap.Int("reverse", s.Reverse),
		zap.Int("skip_cancelled", s.SkipCancelled),
		zap.Int("skip_fulfillment", s.SkipFulfillment),
		zap.Int("skip_pending", s.SkipPending),
	)

	maxShow := min(len(plan.Actions), 5)
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("order_id", action.Order.OrderID),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

func printShortages(l *zap.Logger, shortages []ledger.Shortage) {
	for _, s := range shortages {
		l.Warn("Stock went negative",
			zap.String("sku", s.SKU),
			zap.Int("available", s.Available),
			zap.Int("required", s.Required),
		)
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to post this plan: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
