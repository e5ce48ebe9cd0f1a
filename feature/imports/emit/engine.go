package emit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-importer/core/metrics"
	"stock-importer/feature/catalog"
	"stock-importer/feature/imports/ledger"
	"stock-importer/feature/imports/models"
	"stock-importer/feature/imports/state"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	saleStatus      = "posted"
	shipmentChannel = "fulfillment"
)

// Engine posts resolved shipments and order batches to the ledger.
type Engine struct {
	db        *gorm.DB
	tracker   *state.Tracker
	keywords  []string
	batchSize int
	log       *zap.Logger
	now       func() time.Time
}

// New creates an emission engine. keywords mark fulfillment-operated orders.
func New(db *gorm.DB, keywords []string, batchSize int, log *zap.Logger) *Engine {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Engine{
		db:        db,
		tracker:   state.NewTracker(db),
		keywords:  keywords,
		batchSize: batchSize,
		log:       log,
		now:       time.Now,
	}
}

// ShipmentSaleID is the sale order id of a shipment. Numbers are unique per
// client only, so the client id is part of the key.
func ShipmentSaleID(clientID uint, number string) string {
	return fmt.Sprintf("%s%d-%s", ShipmentPrefix, clientID, number)
}

// EmitShipment normalizes the shipment and, in one transaction, posts its items
// as a fulfillment sale and marks it emitted. Any failure rolls the whole
// shipment back.
func (e *Engine) EmitShipment(ctx context.Context, shipmentID string) (*ShipmentResult, error) {
	var sh models.Shipment
	err := e.db.WithContext(ctx).Where("id = ?", shipmentID).First(&sh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: shipment %s", ErrNotFound, shipmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load shipment: %w", err)
	}
	if sh.Status == models.StatusEmitted {
		return nil, fmt.Errorf("%w: %s", ErrShipmentEmitted, sh.Number)
	}

	counts, err := e.tracker.ShipmentCounts(ctx, sh.ID)
	if err != nil {
		return nil, err
	}
	if counts.Resolvable == 0 {
		return nil, fmt.Errorf("%w: shipment %s has no resolved items", ErrNothingToEmit, sh.Number)
	}
	current, err := state.Next(sh.Status, counts)
	if err != nil {
		return nil, err
	}
	if err := state.Transition(current, models.StatusEmitted); err != nil {
		return nil, err
	}

	now := e.now()
	result := &ShipmentResult{
		ShipmentID: sh.ID,
		Number:     sh.Number,
		SaleID:     ShipmentSaleID(sh.ClientID, sh.Number),
		EmittedAt:  now,
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := state.NormalizeTx(tx, sh.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: shipment %s has no resolved items", ErrNothingToEmit, sh.Number)
		}

		sale := &ledger.Sale{
			OrderID:  result.SaleID,
			Date:     now,
			ClientID: sh.ClientID,
			Channel:  shipmentChannel,
			Status:   saleStatus,
		}
		for _, it := range items {
			addItem(sale, it.SKU, it.Quantity, it.UnitPrice)
			result.Quantity += it.Quantity
		}
		result.Items = len(items)

		shortages, err := ledger.PostSale(tx, sale, ledger.KindFulfillmentInbound)
		if err != nil {
			return err
		}
		result.Shortages = shortages

		res := tx.Model(&models.Shipment{}).
			Where("id = ? AND status <> ?", sh.ID, models.StatusEmitted).
			Updates(map[string]any{"status": models.StatusEmitted, "emitted_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to mark shipment emitted: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrShipmentEmitted, sh.Number)
		}

		if sh.BatchID != "" {
			err := tx.Model(&models.ImportBatch{}).Where("id = ?", sh.BatchID).
				Update("status", models.StatusEmitted).Error
			if err != nil {
				return fmt.Errorf("failed to mark batch emitted: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		metrics.EmissionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.EmissionsTotal.WithLabelValues("shipment").Inc()
	e.log.Info("shipment emitted",
		zap.String("shipment_id", sh.ID),
		zap.String("number", sh.Number),
		zap.Int("items", result.Items),
		zap.Int("quantity", result.Quantity),
		zap.Int("shortages", len(result.Shortages)))
	return result, nil
}

// postOrder posts a marketplace order with prices read from the catalog.
func postOrder(tx *gorm.DB, clientID uint, o Order, now time.Time) ([]ledger.Shortage, error) {
	if len(o.Items) == 0 {
		return nil, fmt.Errorf("%w: order %s has no items", ErrNothingToEmit, o.SourceID)
	}

	skus := make([]string, len(o.Items))
	for i, it := range o.Items {
		skus[i] = it.SKU
	}
	products, err := catalog.LoadProducts(tx, skus)
	if err != nil {
		return nil, err
	}

	date := now
	if o.Date != nil {
		date = *o.Date
	}
	sale := &ledger.Sale{
		OrderID:  o.OrderID,
		Date:     date,
		ClientID: clientID,
		Channel:  o.Channel,
		Status:   saleStatus,
	}
	for _, it := range o.Items {
		p, ok := products[it.SKU]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ledger.ErrUnknownProduct, it.SKU)
		}
		addItem(sale, it.SKU, it.Quantity, p.UnitPrice)
	}
	return ledger.PostSale(tx, sale, ledger.KindSale)
}

func addItem(sale *ledger.Sale, sku string, qty int, price decimal.Decimal) {
	sale.Items = append(sale.Items, ledger.SaleItem{SKU: sku, Quantity: qty, UnitPrice: price})
	sale.Total = sale.Total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
}
