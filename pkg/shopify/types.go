package shopify

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ==================== Admin API resources ====================

// Shop GET /shop.json
type Shop struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Domain          string `json:"domain"`
	MyshopifyDomain string `json:"myshopify_domain"`
	PlanName        string `json:"plan_name"`
	ShopOwner       string `json:"shop_owner"`
	Currency        string `json:"currency"`
	CountryCode     string `json:"country_code"`
	Province        string `json:"province"`
	City            string `json:"city"`
	Address1        string `json:"address1"`
	Zip             string `json:"zip"`
	Phone           string `json:"phone"`
	Timezone        string `json:"timezone"`
}

// Customer GET /customers.json
type Customer struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	OrdersCount int        `json:"orders_count"`
	TotalSpent  string     `json:"total_spent"`
	Currency    string     `json:"currency"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`

	Raw json.RawMessage `json:"-"`
}

func (c *Customer) setRaw(raw json.RawMessage) { c.Raw = raw }

// Product GET /products.json
type Product struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Handle      string     `json:"handle"`
	Vendor      string     `json:"vendor"`
	ProductType string     `json:"product_type"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	Variants    []Variant  `json:"variants"`

	Raw json.RawMessage `json:"-"`
}

func (p *Product) setRaw(raw json.RawMessage) { p.Raw = raw }

// FirstVariant price and inventory source for the product row
func (p *Product) FirstVariant() *Variant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

// Variant product variant
type Variant struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	SKU               string `json:"sku"`
	InventoryItemID   int64  `json:"inventory_item_id"`
	InventoryQuantity int    `json:"inventory_quantity"`
	InventoryPolicy   string `json:"inventory_policy"`
}

// InventoryLevel GET /inventory_levels.json
type InventoryLevel struct {
	InventoryItemID int64      `json:"inventory_item_id"`
	LocationID      int64      `json:"location_id"`
	Available       *int       `json:"available"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// AvailableOrZero available units, 0 when untracked
func (l *InventoryLevel) AvailableOrZero() int {
	if l.Available == nil {
		return 0
	}
	return *l.Available
}

// Order GET /orders.json
type Order struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Customer          *OrderCustomer `json:"customer"`
	TotalPrice        string         `json:"total_price"`
	SubtotalPrice     string         `json:"subtotal_price"`
	TotalTax          string         `json:"total_tax"`
	TotalDiscounts    string         `json:"total_discounts"`
	Currency          string         `json:"currency"`
	FinancialStatus   string         `json:"financial_status"`
	FulfillmentStatus *string        `json:"fulfillment_status"`
	CreatedAt         *time.Time     `json:"created_at"`
	UpdatedAt         *time.Time     `json:"updated_at"`
	LineItems         []LineItem     `json:"line_items"`
	ShippingAddress   *Address       `json:"shipping_address"`
	BillingAddress    *Address       `json:"billing_address"`

	Raw json.RawMessage `json:"-"`
}

func (o *Order) setRaw(raw json.RawMessage) { o.Raw = raw }

// CustomerID vendor customer id, 0 for guest orders
func (o *Order) CustomerID() int64 {
	if o.Customer == nil {
		return 0
	}
	return o.Customer.ID
}

// OrderCustomer the customer stub embedded in an order
type OrderCustomer struct {
	ID int64 `json:"id"`
}

// LineItem order line
type LineItem struct {
	ID           int64  `json:"id"`
	ProductID    *int64 `json:"product_id"`
	VariantID    *int64 `json:"variant_id"`
	Title        string `json:"title"`
	VariantTitle string `json:"variant_title"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
	LinePrice    string `json:"line_price"`
	SKU          string `json:"sku"`
}

// LinePriceCents line_price when sent, otherwise price × quantity
func (li *LineItem) LinePriceCents() int64 {
	if li.LinePrice != "" {
		return Cents(li.LinePrice)
	}
	return Cents(li.Price) * int64(li.Quantity)
}

// Address shipping or billing address
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
}

// Checkout GET /checkouts.json (abandoned checkouts)
type Checkout struct {
	ID                   int64      `json:"id"`
	Token                string     `json:"token"`
	Email                string     `json:"email"`
	TotalPrice           string     `json:"total_price"`
	SubtotalPrice        string     `json:"subtotal_price"`
	Currency             string     `json:"currency"`
	AbandonedCheckoutURL string     `json:"abandoned_checkout_url"`
	CreatedAt            *time.Time `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at"`

	Raw json.RawMessage `json:"-"`
}

func (c *Checkout) setRaw(raw json.RawMessage) { c.Raw = raw }

// Event GET /events.json
type Event struct {
	ID          int64      `json:"id"`
	SubjectID   int64      `json:"subject_id"`
	SubjectType string     `json:"subject_type"`
	Verb        string     `json:"verb"`
	Message     string     `json:"message"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`

	Raw json.RawMessage `json:"-"`
}

func (e *Event) setRaw(raw json.RawMessage) { e.Raw = raw }

// Text description, falling back to the message
func (e *Event) Text() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Message
}

// Report GET /reports.json, only present on plans with analytics access
type Report struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	ShopifyQL string     `json:"shopify_ql"`
	UpdatedAt *time.Time `json:"updated_at"`

	Raw json.RawMessage `json:"-"`
}

func (r *Report) setRaw(raw json.RawMessage) { r.Raw = raw }

// ==================== Helpers ====================

// Cents parses a vendor money string ("19.99") into minor units. Invalid or
// empty input yields 0.
func Cents(amount string) int64 {
	if amount == "" {
		return 0
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0
	}
	return d.Shift(2).Round(0).IntPart()
}

// ID formats a vendor id for storage. Zero means absent.
func ID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
