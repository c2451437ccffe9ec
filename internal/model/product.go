package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== Inventory policy ====================

// Inventory policies as reported by the vendor.
const (
	InventoryPolicyDeny     = "deny"
	InventoryPolicyContinue = "continue"
)

// LowStockThreshold 1..LowStockThreshold units counts as low stock.
const LowStockThreshold = 5

// ==================== Product ====================

// Product catalog item. Price comes from the first variant.
type Product struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	TenantID  int64  `gorm:"uniqueIndex:idx_products_shopify_tenant,priority:2;index;not null"`
	ShopifyID string `gorm:"uniqueIndex:idx_products_shopify_tenant,priority:1;size:64;not null"`

	Title       string `gorm:"size:512"`
	Handle      string `gorm:"size:255"`
	Vendor      string `gorm:"size:255"`
	ProductType string `gorm:"size:255"`
	Status      string `gorm:"size:32"`

	// minor units
	PriceAmount int64

	// refreshed by the inventory step
	InventoryItemID    string `gorm:"size:64;index"`
	InventoryQuantity  int
	InventoryPolicy    string `gorm:"size:32"`
	FulfillmentService string `gorm:"size:64"`

	RawData datatypes.JSON `gorm:"type:jsonb"`

	ShopifyCreatedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	OrderItems []OrderItem `gorm:"foreignKey:ProductID"`
}

func (*Product) TableName() string {
	return "products"
}

// GetPrice unit price
func (p *Product) GetPrice() float64 {
	return centsToFloat(p.PriceAmount)
}

// StockValueAmount quantity on hand times unit price, in cents
func (p *Product) StockValueAmount() int64 {
	if p.InventoryQuantity <= 0 {
		return 0
	}
	return int64(p.InventoryQuantity) * p.PriceAmount
}

// InStock at least one unit on hand
func (p *Product) InStock() bool {
	return p.InventoryQuantity > 0
}

// LowStock between 1 and LowStockThreshold units
func (p *Product) LowStock() bool {
	return p.InventoryQuantity > 0 && p.InventoryQuantity <= LowStockThreshold
}

// PolicyForQuantity maps an available count to the stored inventory policy.
func PolicyForQuantity(available int) string {
	if available == 0 {
		return InventoryPolicyDeny
	}
	return InventoryPolicyContinue
}
