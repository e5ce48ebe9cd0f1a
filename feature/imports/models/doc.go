// Package models defines the persisted import records and their status enums.
//
// A RawLine exists in two shapes: ShipmentLine for shipment exports, which is
// replaced wholesale when a shipment is uploaded again, and OrderLine for order
// exports, which is upserted by its natural key so overlapping exports update in
// place. In both, ResolvedSKU is set exactly when Status is LineMatched.
package models
