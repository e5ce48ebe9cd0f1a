package emit

import (
	"errors"
	"time"

	"stock-importer/feature/imports/ledger"
	"stock-importer/feature/imports/models"
)

var (
	// ErrNotFound is returned when the shipment or batch does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNothingToEmit is returned when no resolved item exists for the unit.
	ErrNothingToEmit = errors.New("nothing to emit")
	// ErrShipmentEmitted is returned when emitting a shipment twice.
	ErrShipmentEmitted = errors.New("shipment already emitted")
	// ErrWrongKind is returned when a batch is emitted through the wrong path.
	ErrWrongKind = errors.New("batch kind cannot be emitted here")
)

// Order id prefixes of posted sales.
const (
	OrderPrefix    = "ML-"
	ShipmentPrefix = "ENVIO-"
)

// ActionType is the decision taken for one marketplace order.
type ActionType string

const (
	// ActionPost posts the order as a sale.
	ActionPost ActionType = "post"
	// ActionRestore deletes stale returns of an un-cancelled order and posts it.
	ActionRestore ActionType = "restore"
	// ActionReverse reverses the sale of a cancelled order.
	ActionReverse ActionType = "reverse"
	// ActionSkipCancelled skips a cancelled order that was never posted.
	ActionSkipCancelled ActionType = "skip_cancelled"
	// ActionSkipFulfillment skips an order fulfilled by the marketplace.
	ActionSkipFulfillment ActionType = "skip_fulfillment"
	// ActionSkipPending skips an order with unresolved lines.
	ActionSkipPending ActionType = "skip_pending"
)

// Item is one resolved SKU of an order.
type Item struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// Order is a marketplace order assembled from its lines.
type Order struct {
	SourceID       string     `json:"source_id"`
	OrderID        string     `json:"order_id"`
	Date           *time.Time `json:"date,omitempty"`
	Status         string     `json:"status"`
	CancelReason   string     `json:"cancel_reason,omitempty"`
	Channel        string     `json:"channel"`
	ShippingMethod string     `json:"shipping_method"`
	Cancelled      bool       `json:"cancelled"`
	Items          []Item     `json:"items"`
	Lines          int        `json:"lines"`
	Pending        int        `json:"pending"`
}

// Action is a planned step for one order.
type Action struct {
	Type   ActionType `json:"type"`
	Order  Order      `json:"order"`
	Reason string     `json:"reason"`
	// ClearReturns drops returns left by an earlier cancellation of an order
	// that is skipped for now.
	ClearReturns bool `json:"clear_returns,omitempty"`
}

// Summary counts the planned actions by type.
type Summary struct {
	Orders          int `json:"orders"`
	Post            int `json:"post"`
	Restore         int `json:"restore"`
	Reverse         int `json:"reverse"`
	SkipCancelled   int `json:"skip_cancelled"`
	SkipFulfillment int `json:"skip_fulfillment"`
	SkipPending     int `json:"skip_pending"`
}

// Plan is the set of actions for an order-export batch. It is built without
// writing anything; ApplyPlan executes it.
type Plan struct {
	BatchID  string   `json:"batch_id"`
	ClientID uint     `json:"client_id"`
	Actions  []Action `json:"actions"`
	Summary  Summary  `json:"summary"`
}

// OrderError is a failure confined to one order.
type OrderError struct {
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
}

// SkippedOrder names an order that was not emitted and why.
type SkippedOrder struct {
	OrderID string     `json:"order_id"`
	Reason  ActionType `json:"reason"`
}

// BatchResult is the outcome of emitting an order-export batch.
type BatchResult struct {
	BatchID            string             `json:"batch_id"`
	Inserted           int                `json:"inserted"`
	AlreadyExisted     int                `json:"already_existed"`
	SkippedFulfillment int                `json:"skipped_fulfillment"`
	SkippedCancelled   int                `json:"skipped_cancelled"`
	SkippedPending     int                `json:"skipped_pending"`
	Reversed           int                `json:"reversed"`
	ReturnsCleared     int                `json:"returns_cleared"`
	Errors             []OrderError       `json:"errors"`
	SkippedOrders      []SkippedOrder     `json:"skipped_orders"`
	Shortages          []ledger.Shortage  `json:"shortages,omitempty"`
	Status             models.BatchStatus `json:"status"`
}

// ShipmentResult is the outcome of emitting a shipment.
type ShipmentResult struct {
	ShipmentID string            `json:"shipment_id"`
	Number     string            `json:"number"`
	SaleID     string            `json:"sale_id"`
	Items      int               `json:"items"`
	Quantity   int               `json:"quantity"`
	Shortages  []ledger.Shortage `json:"shortages,omitempty"`
	EmittedAt  time.Time         `json:"emitted_at"`
}
