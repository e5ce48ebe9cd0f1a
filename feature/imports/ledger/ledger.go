package ledger

import (
	"errors"
	"fmt"
	"sort"

	"stock-importer/feature/catalog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDuplicateSale is returned when a sale with the same order id exists.
	ErrDuplicateSale = errors.New("sale already exists")
	// ErrSaleNotFound is returned when reversing an order without a sale.
	ErrSaleNotFound = errors.New("sale not found")
	// ErrUnknownProduct is returned when moving stock of a SKU outside the catalog.
	ErrUnknownProduct = errors.New("unknown product")
)

// Shortage reports a component whose stock went below zero.
type Shortage struct {
	SKU       string `json:"sku"`
	Available int    `json:"available"`
	Required  int    `json:"required"`
}

// Move records a movement and applies it to the product's running quantity.
// It is the only writer of products.quantity.
func Move(tx *gorm.DB, sku string, delta int, kind, ref string) error {
	if delta == 0 {
		return nil
	}
	res := tx.Model(&catalog.Product{}).Where("sku = ?", sku).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to update stock of %s: %w", sku, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, sku)
	}

	m := Movement{SKU: sku, Delta: delta, Kind: kind, Reference: ref}
	if err := tx.Create(&m).Error; err != nil {
		return fmt.Errorf("failed to record movement of %s: %w", sku, err)
	}
	return nil
}

// PostSale inserts sale and takes its items out of stock, expanding kits as
// described on applyItems. A sale whose order id already exists is left
// untouched and ErrDuplicateSale is returned. Shortages do not block the sale.
func PostSale(tx *gorm.DB, sale *Sale, kind string) ([]Shortage, error) {
	items := sale.Items
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(sale)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to insert sale %s: %w", sale.OrderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSale, sale.OrderID)
	}

	for i := range items {
		items[i].ID = 0
		items[i].SaleID = sale.ID
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return nil, fmt.Errorf("failed to insert items of sale %s: %w", sale.OrderID, err)
		}
	}
	sale.Items = items

	return applyItems(tx, items, -1, kind, sale.OrderID)
}

// ReverseSale undoes a posted sale: every item gets a pending return with the
// sold quantity, the stock is restored and the sale is deleted.
func ReverseSale(tx *gorm.DB, orderID, motive string) ([]SaleItem, error) {
	var sale Sale
	err := tx.Preload("Items").Where("order_id = ?", orderID).First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSaleNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sale %s: %w", orderID, err)
	}

	qty := make(map[string]int)
	for _, it := range sale.Items {
		qty[it.SKU] += it.Quantity
	}
	skus := sortedKeys(qty)
	for _, sku := range skus {
		ret := Return{
			OrderID:     orderID,
			SKU:         sku,
			ExpectedQty: qty[sku],
			Condition:   ConditionPending,
			Motive:      motive,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{"expected_qty", "condition", "motive", "reconciled"}),
		}).Create(&ret).Error
		if err != nil {
			return nil, fmt.Errorf("failed to record return of %s/%s: %w", orderID, sku, err)
		}
	}

	if _, err := applyItems(tx, sale.Items, +1, KindReturn, orderID); err != nil {
		return nil, err
	}

	if err := tx.Where("sale_id = ?", sale.ID).Delete(&SaleItem{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete items of sale %s: %w", orderID, err)
	}
	if err := tx.Delete(&sale).Error; err != nil {
		return nil, fmt.Errorf("failed to delete sale %s: %w", orderID, err)
	}
	return sale.Items, nil
}

// HasReturns reports whether returns are recorded for an order.
func HasReturns(tx *gorm.DB, orderID string) (bool, error) {
	var n int64
	if err := tx.Model(&Return{}).Where("order_id = ?", orderID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check returns of %s: %w", orderID, err)
	}
	return n > 0, nil
}

// DeleteReturns removes the returns of an order that is no longer cancelled.
func DeleteReturns(tx *gorm.DB, orderID string) (int64, error) {
	res := tx.Where("order_id = ?", orderID).Delete(&Return{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete returns of %s: %w", orderID, res.Error)
	}
	return res.RowsAffected, nil
}

// applyItems moves stock for items in direction sign (-1 out, +1 in).
// Sales and returns move a kit's components only. Fulfillment inbound also
// moves the kit itself.
func applyItems(tx *gorm.DB, items []SaleItem, sign int, kind, ref string) ([]Shortage, error) {
	need := make(map[string]int)
	for _, it := range items {
		need[it.SKU] += it.Quantity
	}
	products, err := catalog.LoadProducts(tx, sortedKeys(need))
	if err != nil {
		return nil, err
	}

	deltas := make(map[string]int)
	for _, it := range items {
		p, ok := products[it.SKU]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, it.SKU)
		}
		if !p.IsKit || len(p.Components) == 0 {
			deltas[it.SKU] += sign * it.Quantity
			continue
		}
		if kind == KindFulfillmentInbound {
			deltas[it.SKU] += sign * it.Quantity
		}
		for _, comp := range p.Components {
			deltas[comp.ComponentSKU] += sign * it.Quantity * comp.Quantity
		}
	}

	skus := sortedKeys(deltas)
	var current map[string]catalog.Product
	if sign < 0 {
		current, err = catalog.LoadProducts(tx, skus)
		if err != nil {
			return nil, err
		}
	}

	var shortages []Shortage
	for _, sku := range skus {
		delta := deltas[sku]
		if sign < 0 {
			if p, ok := current[sku]; ok && p.Quantity+delta < 0 {
				shortages = append(shortages, Shortage{SKU: sku, Available: p.Quantity, Required: -delta})
			}
		}
		if err := Move(tx, sku, delta, kind, ref); err != nil {
			return nil, err
		}
	}
	return shortages, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
