package model

import (
	"time"

	"gorm.io/datatypes"
)

// Customer store customer, keyed by (shopify id, tenant)
type Customer struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	TenantID  int64  `gorm:"uniqueIndex:idx_customers_shopify_tenant,priority:2;index;not null"`
	ShopifyID string `gorm:"uniqueIndex:idx_customers_shopify_tenant,priority:1;size:64;not null"`

	Email     string `gorm:"size:255;index"`
	FirstName string `gorm:"size:255"`
	LastName  string `gorm:"size:255"`
	Phone     string `gorm:"size:64"`

	OrdersCount      int
	TotalSpentAmount int64
	Currency         string `gorm:"size:10"`

	RawData datatypes.JSON `gorm:"type:jsonb"`

	ShopifyCreatedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Orders []Order `gorm:"foreignKey:CustomerID"`
}

func (*Customer) TableName() string {
	return "customers"
}

// FullName first and last name joined
func (c *Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// GetTotalSpent vendor-reported lifetime spend
func (c *Customer) GetTotalSpent() float64 {
	return centsToFloat(c.TotalSpentAmount)
}

// SourceCreatedAt vendor creation time, falling back to the row's own.
func (c *Customer) SourceCreatedAt() time.Time {
	if c.ShopifyCreatedAt != nil {
		return *c.ShopifyCreatedAt
	}
	return c.CreatedAt
}
