package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement kinds.
const (
	KindFulfillmentInbound = "fulfillment_inbound"
	KindSale               = "sale"
	KindReturn             = "return"
)

// ConditionPending marks a return that has not been inspected yet.
const ConditionPending = "pending"

// Sale is a posted sale. OrderID is the idempotency key.
type Sale struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   string          `gorm:"size:100;uniqueIndex;not null" json:"order_id"`
	Date      time.Time       `json:"date"`
	ClientID  uint            `gorm:"index" json:"client_id"`
	Channel   string          `gorm:"size:100" json:"channel"`
	Status    string          `gorm:"size:32" json:"status"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Items     []SaleItem      `gorm:"foreignKey:SaleID" json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Sale) TableName() string { return "sales" }

// SaleItem is one line of a sale.
type SaleItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	SaleID    uint            `gorm:"index;not null" json:"-"`
	SKU       string          `gorm:"column:sku;size:64;not null" json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
}

func (SaleItem) TableName() string { return "sale_items" }

// Return is the expected return of a reversed sale line.
type Return struct {
	OrderID     string    `gorm:"primaryKey;size:100" json:"order_id"`
	SKU         string    `gorm:"column:sku;primaryKey;size:64" json:"sku"`
	ExpectedQty int       `json:"expected_qty"`
	Condition   string    `gorm:"size:32" json:"condition"`
	Motive      string    `gorm:"size:255" json:"motive"`
	Reconciled  bool      `json:"reconciled"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Return) TableName() string { return "returns" }

// Movement is one signed change of a product's running quantity.
type Movement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SKU       string    `gorm:"column:sku;size:64;index;not null" json:"sku"`
	Delta     int       `gorm:"not null" json:"delta"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	Reference string    `gorm:"size:100;index" json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

func (Movement) TableName() string { return "inventory_movements" }

// Models lists the ledger tables for migration.
func Models() []any {
	return []any{&Sale{}, &SaleItem{}, &Return{}, &Movement{}}
}
