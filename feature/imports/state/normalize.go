package state

import (
	"context"
	"fmt"
	"sort"

	"stock-importer/feature/catalog"
	"stock-importer/feature/imports/models"

	"gorm.io/gorm"
)

// Tracker reads line counts and materializes shipment items.
type Tracker struct {
	db *gorm.DB
}

// NewTracker creates a tracker.
func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{db: db}
}

type countRow struct {
	Status     models.LineStatus
	Resolvable bool
	N          int
}

// ShipmentCounts counts the lines of a shipment.
func (t *Tracker) ShipmentCounts(ctx context.Context, shipmentID string) (Counts, error) {
	return t.counts(ctx, models.ShipmentLine{}.TableName(), "shipment_id = ?", shipmentID)
}

// BatchCounts counts the order lines of an import batch.
func (t *Tracker) BatchCounts(ctx context.Context, batchID string) (Counts, error) {
	return t.counts(ctx, models.OrderLine{}.TableName(), "batch_id = ?", batchID)
}

func (t *Tracker) counts(ctx context.Context, table, where string, arg any) (Counts, error) {
	var rows []countRow
	err := t.db.WithContext(ctx).
		Table(table+" AS l").
		Select("l.status AS status, (p.sku IS NOT NULL) AS resolvable, COUNT(*) AS n").
		Joins("LEFT JOIN products p ON p.sku = l.resolved_sku").
		Where("l."+where, arg).
		Group("l.status, (p.sku IS NOT NULL)").
		Scan(&rows).Error
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count lines: %w", err)
	}

	var c Counts
	for _, r := range rows {
		c.Total += r.N
		switch r.Status {
		case models.LineMatched:
			c.Matched += r.N
			if r.Resolvable {
				c.Resolvable += r.N
			}
		default:
			c.Pending += r.N
		}
	}
	return c, nil
}

// Normalize recomputes the shipment's items from its matched lines: one item
// per distinct resolved SKU with summed quantity and the catalog's price and kit
// flag. Lines resolved to SKUs missing from the catalog are left out. It is
// idempotent and runs in one transaction.
func (t *Tracker) Normalize(ctx context.Context, shipmentID string) ([]models.ShipmentItem, error) {
	var items []models.ShipmentItem
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		items, err = NormalizeTx(tx, shipmentID)
		return err
	})
	return items, err
}

// NormalizeTx is Normalize inside a caller-owned transaction.
func NormalizeTx(tx *gorm.DB, shipmentID string) ([]models.ShipmentItem, error) {
	var lines []models.ShipmentLine
	if err := tx.Where("shipment_id = ? AND status = ?", shipmentID, models.LineMatched).Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load matched lines: %w", err)
	}

	qty := make(map[string]int)
	for _, l := range lines {
		if l.ResolvedSKU == nil {
			continue
		}
		qty[*l.ResolvedSKU] += l.Quantity
	}

	skus := make([]string, 0, len(qty))
	for sku := range qty {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	products, err := catalog.LoadProducts(tx, skus)
	if err != nil {
		return nil, err
	}

	items := make([]models.ShipmentItem, 0, len(skus))
	totalQty := 0
	for _, sku := range skus {
		p, ok := products[sku]
		if !ok {
			continue
		}
		items = append(items, models.ShipmentItem{
			ShipmentID: shipmentID,
			SKU:        sku,
			Quantity:   qty[sku],
			UnitPrice:  p.UnitPrice,
			IsKit:      p.IsKit,
		})
		totalQty += qty[sku]
	}

	if err := tx.Where("shipment_id = ?", shipmentID).Delete(&models.ShipmentItem{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear shipment items: %w", err)
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return nil, fmt.Errorf("failed to write shipment items: %w", err)
		}
	}

	err = tx.Model(&models.Shipment{}).Where("id = ?", shipmentID).Updates(map[string]any{
		"total_items":    len(items),
		"total_quantity": totalQty,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update shipment totals: %w", err)
	}
	return items, nil
}
