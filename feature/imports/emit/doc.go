// Package emit turns resolved import data into ledger sales and inventory
// movements.
//
// Shipments are emitted as one transaction: normalization, a fulfillment sale
// ENVIO-<client>-<number> and the shipment status. Order-export batches are
// planned per marketplace order (reverse, skip, restore or post) and then
// applied with one transaction per order, so a failing order never affects
// its siblings.
package emit
