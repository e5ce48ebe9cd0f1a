package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the schema of an uploaded spreadsheet.
type Kind string

const (
	KindOrderExport    Kind = "order_export"
	KindShipmentExport Kind = "shipment_export"
)

// Valid reports whether k is a supported schema.
func (k Kind) Valid() bool {
	return k == KindOrderExport || k == KindShipmentExport
}

// BatchStatus is the aggregate state of a shipment or import batch.
type BatchStatus string

const (
	StatusDraft   BatchStatus = "draft"
	StatusReady   BatchStatus = "ready"
	StatusPartial BatchStatus = "partial"
	StatusError   BatchStatus = "error"
	StatusEmitted BatchStatus = "emitted"
)

// LineStatus is the resolution state of a single raw line.
type LineStatus string

const (
	LinePending LineStatus = "pending"
	LineMatched LineStatus = "matched"
)

// MatchSource tags how a line was resolved.
type MatchSource string

const (
	SourceDirect     MatchSource = "direct"
	SourceFuzzy      MatchSource = "fuzzy"
	SourceSmart      MatchSource = "smart"
	SourceAlias      MatchSource = "alias"
	SourceManual     MatchSource = "manual"
	SourcePropagated MatchSource = "propagated"
)

// ImportBatch is one uploaded file.
type ImportBatch struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	Filename      string      `gorm:"size:255" json:"filename"`
	Kind          Kind        `gorm:"size:32;not null" json:"kind"`
	ClientID      uint        `gorm:"index;not null" json:"client_id"`
	Status        BatchStatus `gorm:"size:16;not null;default:draft" json:"status"`
	TotalRows     int         `json:"total_rows"`
	ProcessedRows int         `json:"processed_rows"`
	WarningCount  int         `json:"warning_count"`
	ArchiveKey    string      `gorm:"size:512" json:"archive_key,omitempty"`
	StartedAt     time.Time   `json:"started_at"`
	FinishedAt    *time.Time  `json:"finished_at,omitempty"`
}

func (ImportBatch) TableName() string { return "import_batches" }

// Shipment groups the lines of one fulfillment-center shipment.
type Shipment struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	ClientID      uint        `gorm:"uniqueIndex:idx_shipment_number;not null" json:"client_id"`
	Number        string      `gorm:"uniqueIndex:idx_shipment_number;size:100;not null" json:"number"`
	BatchID       string      `gorm:"size:36;index" json:"batch_id"`
	Status        BatchStatus `gorm:"size:16;not null;default:draft" json:"status"`
	TotalItems    int         `json:"total_items"`
	TotalQuantity int         `json:"total_quantity"`
	CreatedAt     time.Time   `json:"created_at"`
	EmittedAt     *time.Time  `json:"emitted_at,omitempty"`
}

func (Shipment) TableName() string { return "shipments" }

// ShipmentLine is a raw row of a shipment export.
type ShipmentLine struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	ShipmentID    string          `gorm:"size:36;index;not null" json:"shipment_id"`
	BatchID       string          `gorm:"size:36;index" json:"batch_id"`
	Position      int             `json:"position"`
	SKUText       string          `gorm:"column:sku_text;size:255" json:"sku_text"`
	SecondaryCode string          `gorm:"size:100" json:"secondary_code"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	ResolvedSKU   *string         `gorm:"column:resolved_sku;size:64" json:"resolved_sku"`
	MatchSource   MatchSource     `gorm:"size:16" json:"match_source,omitempty"`
	Status        LineStatus      `gorm:"size:16;index;not null;default:pending" json:"status"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
}

func (ShipmentLine) TableName() string { return "shipment_lines" }

// OrderLine is a raw row of a marketplace order export. It is unique by
// (client, source order id, sku text, quantity, unit price).
type OrderLine struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	BatchID        string          `gorm:"size:36;index" json:"batch_id"`
	ClientID       uint            `gorm:"uniqueIndex:idx_order_line_natural;not null" json:"client_id"`
	SourceOrderID  string          `gorm:"uniqueIndex:idx_order_line_natural;size:64;not null" json:"source_order_id"`
	OrderDate      *time.Time      `json:"order_date,omitempty"`
	StatusText     string          `gorm:"size:255" json:"status_text"`
	CancelReason   string          `gorm:"size:255" json:"cancel_reason"`
	Channel        string          `gorm:"size:100" json:"channel"`
	ShippingMethod string          `gorm:"size:100" json:"shipping_method"`
	Buyer          string          `gorm:"size:255" json:"buyer"`
	SKUText        string          `gorm:"column:sku_text;uniqueIndex:idx_order_line_natural;size:191;not null" json:"sku_text"`
	SecondaryCode  string          `gorm:"size:100" json:"secondary_code"`
	Title          string          `gorm:"size:255" json:"title"`
	Quantity       int             `gorm:"uniqueIndex:idx_order_line_natural;not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);uniqueIndex:idx_order_line_natural;not null" json:"unit_price"`
	ResolvedSKU    *string         `gorm:"column:resolved_sku;size:64" json:"resolved_sku"`
	MatchSource    MatchSource     `gorm:"size:16" json:"match_source,omitempty"`
	Status         LineStatus      `gorm:"size:16;index;not null;default:pending" json:"status"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty"`
}

func (OrderLine) TableName() string { return "order_lines" }

// ShipmentItem is the aggregate of a shipment's matched lines for one SKU.
type ShipmentItem struct {
	ID         uint            `gorm:"primaryKey" json:"-"`
	ShipmentID string          `gorm:"uniqueIndex:idx_shipment_item;size:36;not null" json:"shipment_id"`
	SKU        string          `gorm:"column:sku;uniqueIndex:idx_shipment_item;size:64;not null" json:"sku"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	IsKit      bool            `json:"is_kit"`
}

func (ShipmentItem) TableName() string { return "shipment_items" }

// Models lists the import tables for migration.
func Models() []any {
	return []any{&ImportBatch{}, &Shipment{}, &ShipmentLine{}, &OrderLine{}, &ShipmentItem{}}
}
