package model

import "time"

// ==================== AbandonedCart ====================

// AbandonedCart checkout that never became an order
type AbandonedCart struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	TenantID   int64  `gorm:"uniqueIndex:idx_abandoned_carts_checkout_tenant,priority:2;index;not null"`
	CheckoutID string `gorm:"uniqueIndex:idx_abandoned_carts_checkout_tenant,priority:1;size:64;not null"`

	Email                string `gorm:"size:255"`
	TotalPriceAmount     int64
	SubtotalPriceAmount  int64
	Currency             string `gorm:"size:10"`
	AbandonedCheckoutURL string `gorm:"size:1024"`

	ShopifyCreatedAt *time.Time `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (*AbandonedCart) TableName() string {
	return "abandoned_carts"
}

// GetTotalPrice cart value
func (a *AbandonedCart) GetTotalPrice() float64 {
	return centsToFloat(a.TotalPriceAmount)
}

// GetSubtotalPrice cart subtotal
func (a *AbandonedCart) GetSubtotalPrice() float64 {
	return centsToFloat(a.SubtotalPriceAmount)
}

// AbandonedAt vendor creation time, falling back to the row's own.
func (a *AbandonedCart) AbandonedAt() time.Time {
	if a.ShopifyCreatedAt != nil {
		return *a.ShopifyCreatedAt
	}
	return a.CreatedAt
}

// ==================== StoreEvent ====================

// EventTypeOther bucket for events without a resource type
const EventTypeOther = "Other"

// StoreEvent activity log entry
type StoreEvent struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	TenantID int64  `gorm:"uniqueIndex:idx_store_events_event_tenant,priority:2;index;not null"`
	EventID  string `gorm:"uniqueIndex:idx_store_events_event_tenant,priority:1;size:64;not null"`

	// vendor resource name, e.g. Order, Product
	EventType   string `gorm:"size:64"`
	Verb        string `gorm:"size:64"`
	SubjectID   string `gorm:"size:64"`
	Description string `gorm:"type:text"`

	ShopifyCreatedAt *time.Time `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (*StoreEvent) TableName() string {
	return "store_events"
}

// TypeOrOther event type, or "Other" when empty
func (e *StoreEvent) TypeOrOther() string {
	if e.EventType == "" {
		return EventTypeOther
	}
	return e.EventType
}

// OccurredAt vendor creation time, falling back to the row's own.
func (e *StoreEvent) OccurredAt() time.Time {
	if e.ShopifyCreatedAt != nil {
		return *e.ShopifyCreatedAt
	}
	return e.CreatedAt
}

// ==================== StoreInfo ====================

// StoreInfo shop profile, one row per tenant
type StoreInfo struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	TenantID int64 `gorm:"uniqueIndex;not null"`

	Name            string `gorm:"size:255"`
	Domain          string `gorm:"size:255"`
	MyshopifyDomain string `gorm:"size:255"`
	PlanName        string `gorm:"size:64"`
	ShopOwner       string `gorm:"size:255"`
	Email           string `gorm:"size:255"`
	Currency        string `gorm:"size:10"`
	Country         string `gorm:"size:8"`
	Province        string `gorm:"size:128"`
	City            string `gorm:"size:128"`
	Address1        string `gorm:"size:255"`
	Zip             string `gorm:"size:32"`
	Phone           string `gorm:"size:64"`
	Timezone        string `gorm:"size:128"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*StoreInfo) TableName() string {
	return "store_infos"
}
