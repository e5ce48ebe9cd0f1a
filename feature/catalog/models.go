package catalog

import "github.com/shopspring/decimal"

// Client is a seller account owning imports and aliases.
type Client struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:191;uniqueIndex;not null" json:"name"`
}

func (Client) TableName() string { return "clients" }

// Product is a canonical catalog entry. Quantity is the running stock and
// changes only through ledger movements.
type Product struct {
	SKU        string          `gorm:"primaryKey;size:64" json:"sku"`
	Name       string          `gorm:"size:255" json:"name"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	IsKit      bool            `gorm:"not null;default:false" json:"is_kit"`
	Quantity   int             `gorm:"not null;default:0" json:"quantity"`
	Components []KitComponent  `gorm:"foreignKey:KitSKU;references:SKU" json:"components,omitempty"`
}

func (Product) TableName() string { return "products" }

// KitComponent is one ordered line of a kit's recipe.
type KitComponent struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	KitSKU       string `gorm:"size:64;index;not null" json:"kit_sku"`
	ComponentSKU string `gorm:"size:64;not null" json:"component_sku"`
	Quantity     int    `gorm:"not null" json:"quantity"`
	Position     int    `gorm:"not null;default:0" json:"position"`
}

func (KitComponent) TableName() string { return "kit_components" }

// Models lists the catalog tables for migration.
func Models() []any {
	return []any{&Client{}, &Product{}, &KitComponent{}}
}
