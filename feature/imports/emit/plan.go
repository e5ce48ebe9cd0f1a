package emit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-importer/core/metrics"
	"stock-importer/feature/imports/ledger"
	"stock-importer/feature/imports/models"
	"stock-importer/feature/imports/state"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlanBatch decides an action for every order of an order-export batch.
// It does NOT write anything; use ApplyPlan for that.
func (e *Engine) PlanBatch(ctx context.Context, batchID string) (*Plan, error) {
	batch, err := e.loadBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Kind != models.KindOrderExport {
		return nil, fmt.Errorf("%w: %s is a %s batch", ErrWrongKind, batch.ID, batch.Kind)
	}

	counts, err := e.tracker.BatchCounts(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	if counts.Resolvable == 0 {
		return nil, fmt.Errorf("%w: batch %s has no resolved lines", ErrNothingToEmit, batch.ID)
	}

	var lines []models.OrderLine
	err = e.db.WithContext(ctx).
		Where("batch_id = ?", batch.ID).
		Order("source_order_id ASC").Order("sku_text ASC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	orders := groupOrders(lines)

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.OrderID
	}
	posted, err := e.existing(ctx, &ledger.Sale{}, ids)
	if err != nil {
		return nil, err
	}
	returned, err := e.existing(ctx, &ledger.Return{}, ids)
	if err != nil {
		return nil, err
	}

	plan := &Plan{BatchID: batch.ID, ClientID: batch.ClientID}
	plan.Summary.Orders = len(orders)
	for _, o := range orders {
		a := e.classify(o, posted[o.OrderID], returned[o.OrderID])
		plan.Actions = append(plan.Actions, a)
		switch a.Type {
		case ActionPost:
			plan.Summary.Post++
		case ActionRestore:
			plan.Summary.Restore++
		case ActionReverse:
			plan.Summary.Reverse++
		case ActionSkipCancelled:
			plan.Summary.SkipCancelled++
		case ActionSkipFulfillment:
			plan.Summary.SkipFulfillment++
		case ActionSkipPending:
			plan.Summary.SkipPending++
		}
	}
	return plan, nil
}

// classify applies the emission rules in order: cancellation, unresolved
// lines, stale returns, fulfillment exclusion, then normal posting. Stale
// returns of a live order are cleared even while it waits on unresolved lines.
func (e *Engine) classify(o Order, posted, returned bool) Action {
	switch {
	case o.Cancelled && posted:
		return Action{Type: ActionReverse, Order: o, Reason: firstNonEmpty(o.CancelReason, o.Status)}
	case o.Cancelled:
		return Action{Type: ActionSkipCancelled, Order: o, Reason: "cancelled before emission"}
	case o.Pending > 0:
		return Action{Type: ActionSkipPending, Order: o, Reason: fmt.Sprintf("%d unresolved lines", o.Pending), ClearReturns: returned}
	case returned:
		return Action{Type: ActionRestore, Order: o, Reason: "order no longer cancelled"}
	case IsFulfillment(e.keywords, o.Channel, o.ShippingMethod):
		return Action{Type: ActionSkipFulfillment, Order: o, Reason: "fulfilled by the marketplace"}
	default:
		return Action{Type: ActionPost, Order: o}
	}
}

// ApplyPlan executes the plan, one transaction per order. A failing order is
// recorded in the result and does not stop the others. The batch becomes
// emitted when no order failed.
func (e *Engine) ApplyPlan(ctx context.Context, plan *Plan) (*BatchResult, error) {
	result := &BatchResult{
		BatchID:       plan.BatchID,
		Errors:        []OrderError{},
		SkippedOrders: []SkippedOrder{},
	}
	now := e.now()

	for _, a := range plan.Actions {
		outcome, err := e.apply(ctx, plan.ClientID, a, result)
		if err != nil {
			e.log.Warn("order emission failed",
				zap.String("batch_id", plan.BatchID),
				zap.String("order_id", a.Order.OrderID),
				zap.String("action", string(a.Type)),
				zap.Error(err))
			result.Errors = append(result.Errors, OrderError{OrderID: a.Order.OrderID, Error: err.Error()})
			outcome = "error"
		}
		metrics.EmissionsTotal.WithLabelValues(outcome).Inc()
	}

	status, err := e.settleBatch(ctx, plan.BatchID, len(result.Errors) == 0, now)
	if err != nil {
		return result, err
	}
	result.Status = status

	e.log.Info("batch emitted",
		zap.String("batch_id", plan.BatchID),
		zap.String("status", string(status)),
		zap.Int("inserted", result.Inserted),
		zap.Int("already_existed", result.AlreadyExisted),
		zap.Int("reversed", result.Reversed),
		zap.Int("skipped_cancelled", result.SkippedCancelled),
		zap.Int("skipped_fulfillment", result.SkippedFulfillment),
		zap.Int("skipped_pending", result.SkippedPending),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// EmitBatch plans and applies an order-export batch.
func (e *Engine) EmitBatch(ctx context.Context, batchID string) (*BatchResult, error) {
	plan, err := e.PlanBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return e.ApplyPlan(ctx, plan)
}

func (e *Engine) apply(ctx context.Context, clientID uint, a Action, result *BatchResult) (string, error) {
	o := a.Order
	skip := func(reason ActionType) {
		result.SkippedOrders = append(result.SkippedOrders, SkippedOrder{OrderID: o.OrderID, Reason: reason})
	}

	switch a.Type {
	case ActionSkipCancelled:
		result.SkippedCancelled++
		skip(a.Type)
		return "skipped_cancelled", nil
	case ActionSkipFulfillment:
		result.SkippedFulfillment++
		skip(a.Type)
		return "skipped_fulfillment", nil
	case ActionSkipPending:
		if a.ClearReturns {
			var cleared int64
			err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				n, err := ledger.DeleteReturns(tx, o.OrderID)
				cleared = n
				return err
			})
			if err != nil {
				return "", err
			}
			result.ReturnsCleared += int(cleared)
		}
		result.SkippedPending++
		skip(a.Type)
		return "skipped_pending", nil

	case ActionReverse:
		err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			_, err := ledger.ReverseSale(tx, o.OrderID, a.Reason)
			return err
		})
		if errors.Is(err, ledger.ErrSaleNotFound) {
			result.SkippedCancelled++
			skip(ActionSkipCancelled)
			return "skipped_cancelled", nil
		}
		if err != nil {
			return "", err
		}
		result.Reversed++
		return "reversed", nil

	case ActionPost, ActionRestore:
		var (
			duplicate bool
			cleared   int64
			shortages []ledger.Shortage
		)
		err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if a.Type == ActionRestore {
				n, err := ledger.DeleteReturns(tx, o.OrderID)
				if err != nil {
					return err
				}
				cleared = n
			}
			s, err := postOrder(tx, clientID, o, e.now())
			if errors.Is(err, ledger.ErrDuplicateSale) {
				duplicate = true
				return nil
			}
			shortages = s
			return err
		})
		if err != nil {
			return "", err
		}
		result.ReturnsCleared += int(cleared)
		result.Shortages = append(result.Shortages, shortages...)
		if duplicate {
			result.AlreadyExisted++
			return "already_existed", nil
		}
		result.Inserted++
		return "inserted", nil
	}
	return "", fmt.Errorf("unknown action %q", a.Type)
}

// settleBatch re-evaluates the batch status and moves it to emitted when the
// run had no failures.
func (e *Engine) settleBatch(ctx context.Context, batchID string, clean bool, now time.Time) (models.BatchStatus, error) {
	batch, err := e.loadBatch(ctx, batchID)
	if err != nil {
		return "", err
	}
	counts, err := e.tracker.BatchCounts(ctx, batchID)
	if err != nil {
		return batch.Status, err
	}
	next, err := state.Next(batch.Status, counts)
	if err != nil {
		return batch.Status, err
	}
	if clean && state.Transition(next, models.StatusEmitted) == nil {
		next = models.StatusEmitted
	}

	updates := map[string]any{"status": next}
	if next == models.StatusEmitted {
		updates["finished_at"] = now
	}
	if err := e.db.WithContext(ctx).Model(&models.ImportBatch{}).Where("id = ?", batchID).Updates(updates).Error; err != nil {
		return batch.Status, fmt.Errorf("failed to update batch status: %w", err)
	}
	return next, nil
}

func (e *Engine) loadBatch(ctx context.Context, batchID string) (*models.ImportBatch, error) {
	var batch models.ImportBatch
	err := e.db.WithContext(ctx).Where("id = ?", batchID).First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: batch %s", ErrNotFound, batchID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load batch: %w", err)
	}
	return &batch, nil
}

// existing returns which order ids are present in model's table, querying in
// chunks of the configured batch size.
func (e *Engine) existing(ctx context.Context, model any, ids []string) (map[string]bool, error) {
	found := make(map[string]bool)
	for start := 0; start < len(ids); start += e.batchSize {
		end := min(start+e.batchSize, len(ids))
		var hits []string
		err := e.db.WithContext(ctx).Model(model).
			Where("order_id IN ?", ids[start:end]).
			Distinct().Pluck("order_id", &hits).Error
		if err != nil {
			return nil, fmt.Errorf("failed to look up order ids: %w", err)
		}
		for _, id := range hits {
			found[id] = true
		}
	}
	return found, nil
}
