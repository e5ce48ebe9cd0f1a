// Package state holds the reconciliation state machines and shipment normalization.
//
// Lines move Pending -> Matched. Shipments and batches move
// Draft -> {Ready | Partial | Error} -> Emitted, where the first step is
// recomputed from line counts (Evaluate) every time lines change and Emitted
// is terminal.
//
// Normalization materializes one ShipmentItem per resolved SKU so emission
// works on aggregated quantities rather than raw spreadsheet rows.
package state
