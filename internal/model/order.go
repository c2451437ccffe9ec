package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// ==================== Order status ====================

// Financial statuses reported by the vendor.
const (
	FinancialStatusPending           = "pending"
	FinancialStatusAuthorized        = "authorized"
	FinancialStatusPaid              = "paid"
	FinancialStatusPartiallyRefunded = "partially_refunded"
	FinancialStatusRefunded          = "refunded"
	FinancialStatusVoided            = "voided"
)

// Fulfillment statuses. A nil status means nothing shipped yet.
const (
	FulfillmentStatusFulfilled = "fulfilled"
	FulfillmentStatusPartial   = "partial"
	FulfillmentStatusRestocked = "restocked"
)

// Address types stored per order.
const (
	AddressTypeShipping = "shipping"
	AddressTypeBilling  = "billing"
)

// ==================== Order ====================

// Order store order, keyed by (shopify id, tenant)
type Order struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	TenantID  int64  `gorm:"uniqueIndex:idx_orders_shopify_tenant,priority:2;index;not null"`
	ShopifyID string `gorm:"uniqueIndex:idx_orders_shopify_tenant,priority:1;size:64;not null"`
	Name      string `gorm:"size:64"`

	// optional, only set when the customer was already ingested
	CustomerID *int64 `gorm:"index"`
	Email      string `gorm:"size:255"`

	// minor units
	TotalPriceAmount     int64
	SubtotalPriceAmount  int64
	TotalTaxAmount       int64
	TotalDiscountsAmount int64
	Currency             string `gorm:"size:10"`

	FinancialStatus   string  `gorm:"size:32"`
	FulfillmentStatus *string `gorm:"size:32;index"`

	RawData datatypes.JSON `gorm:"type:jsonb"`

	ShopifyCreatedAt *time.Time `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Customer  *Customer      `gorm:"foreignKey:CustomerID"`
	Items     []OrderItem    `gorm:"foreignKey:OrderID"`
	Addresses []OrderAddress `gorm:"foreignKey:OrderID"`
}

func (*Order) TableName() string {
	return "orders"
}

// GetTotalPrice order total
func (o *Order) GetTotalPrice() float64 {
	return centsToFloat(o.TotalPriceAmount)
}

// GetSubtotalPrice subtotal
func (o *Order) GetSubtotalPrice() float64 {
	return centsToFloat(o.SubtotalPriceAmount)
}

// GetTotalTax tax total
func (o *Order) GetTotalTax() float64 {
	return centsToFloat(o.TotalTaxAmount)
}

// GetTotalDiscounts discount total
func (o *Order) GetTotalDiscounts() float64 {
	return centsToFloat(o.TotalDiscountsAmount)
}

// PlacedAt vendor creation time, falling back to ingestion time.
func (o *Order) PlacedAt() time.Time {
	if o.ShopifyCreatedAt != nil {
		return *o.ShopifyCreatedAt
	}
	return o.CreatedAt
}

// ItemQuantity sum of line item quantities
func (o *Order) ItemQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// FulfillmentStatusValue status or "" when unfulfilled
func (o *Order) FulfillmentStatusValue() string {
	if o.FulfillmentStatus == nil {
		return ""
	}
	return *o.FulfillmentStatus
}

// ==================== OrderItem ====================

// OrderItem one line of an order, keyed by the vendor's line item id.
type OrderItem struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	OrderID  int64 `gorm:"uniqueIndex:idx_order_items_order_line,priority:1;not null"`
	TenantID int64 `gorm:"index;not null"`
	// vendor line item id, or a synthetic "seq-N" when the vendor sent none
	ShopifyLineItemID string `gorm:"uniqueIndex:idx_order_items_order_line,priority:2;size:64;not null"`

	ProductID    *int64 `gorm:"index"`
	VariantID    string `gorm:"size:64"`
	Title        string `gorm:"size:512"`
	VariantTitle string `gorm:"size:255"`
	SKU          string `gorm:"column:sku;size:128"`
	Quantity     int

	PriceAmount     int64
	LinePriceAmount int64

	CreatedAt time.Time
	UpdatedAt time.Time

	Order   *Order   `gorm:"foreignKey:OrderID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}

func (*OrderItem) TableName() string {
	return "order_items"
}

// GetPrice unit price
func (i *OrderItem) GetPrice() float64 {
	return centsToFloat(i.PriceAmount)
}

// GetLinePrice line total as sent by the vendor
func (i *OrderItem) GetLinePrice() float64 {
	return centsToFloat(i.LinePriceAmount)
}

// RevenueAmount quantity times unit price, in cents
func (i *OrderItem) RevenueAmount() int64 {
	return int64(i.Quantity) * i.PriceAmount
}

// SyntheticLineItemID key for line items the vendor sent without an id
func SyntheticLineItemID(position int) string {
	return fmt.Sprintf("seq-%d", position)
}

// ==================== OrderAddress ====================

// OrderAddress shipping or billing address, one row per (order, type).
type OrderAddress struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	OrderID     int64  `gorm:"uniqueIndex:idx_order_addresses_order_type,priority:1;not null"`
	TenantID    int64  `gorm:"index;not null"`
	AddressType string `gorm:"uniqueIndex:idx_order_addresses_order_type,priority:2;size:16;not null"`

	FirstName string `gorm:"size:255"`
	LastName  string `gorm:"size:255"`
	Company   string `gorm:"size:255"`
	Address1  string `gorm:"size:255"`
	Address2  string `gorm:"size:255"`
	City      string `gorm:"size:128"`
	Province  string `gorm:"size:128"`
	Country   string `gorm:"size:128"`
	Zip       string `gorm:"size:32"`
	Phone     string `gorm:"size:64"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*OrderAddress) TableName() string {
	return "order_addresses"
}
