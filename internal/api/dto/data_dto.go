package dto

import "time"

// ==================== Shared view objects ====================

// CustomerVO customer as returned by the data endpoints
type CustomerVO struct {
	ID          int64          `json:"id"`
	ShopifyID   string         `json:"shopifyId"`
	Email       string         `json:"email"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Phone       string         `json:"phone"`
	OrdersCount int            `json:"ordersCount"`
	TotalSpent  float64        `json:"totalSpent"`
	Currency    string         `json:"currency"`
	CreatedAt   time.Time      `json:"createdAt"`
	Orders      []OrderBriefVO `json:"orders,omitempty"`
}

// OrderBriefVO order without associations
type OrderBriefVO struct {
	ID                int64     `json:"id"`
	ShopifyID         string    `json:"shopifyId"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	CustomerID        *int64    `json:"customerId"`
	TotalPrice        float64   `json:"totalPrice"`
	SubtotalPrice     float64   `json:"subtotalPrice"`
	TotalTax          float64   `json:"totalTax"`
	TotalDiscounts    float64   `json:"totalDiscounts"`
	Currency          string    `json:"currency"`
	FinancialStatus   string    `json:"financialStatus"`
	FulfillmentStatus *string   `json:"fulfillmentStatus"`
	CreatedAt         time.Time `json:"createdAt"`
}

// OrderVO order with customer and line items
type OrderVO struct {
	OrderBriefVO
	Customer   *CustomerVO   `json:"customer"`
	OrderItems []OrderItemVO `json:"orderItems"`
}

// OrderItemVO line item with its product when known
type OrderItemVO struct {
	ID           int64      `json:"id"`
	ProductID    *int64     `json:"productId"`
	VariantID    string     `json:"variantId"`
	Title        string     `json:"title"`
	VariantTitle string     `json:"variantTitle"`
	SKU          string     `json:"sku"`
	Quantity     int        `json:"quantity"`
	Price        float64    `json:"price"`
	LinePrice    float64    `json:"linePrice"`
	Product      *ProductVO `json:"product"`
}

// ProductVO catalog item
type ProductVO struct {
	ID                 int64     `json:"id"`
	ShopifyID          string    `json:"shopifyId"`
	Title              string    `json:"title"`
	Handle             string    `json:"handle"`
	Vendor             string    `json:"vendor"`
	ProductType        string    `json:"productType"`
	Status             string    `json:"status"`
	Price              float64   `json:"price"`
	InventoryQuantity  int       `json:"inventoryQuantity"`
	InventoryPolicy    string    `json:"inventoryPolicy"`
	FulfillmentService string    `json:"fulfillmentService"`
	CreatedAt          time.Time `json:"createdAt"`
}

type AbandonedCartVO struct {
	ID                   int64     `json:"id"`
	CheckoutID           string    `json:"checkoutId"`
	Email                string    `json:"email"`
	TotalPrice           float64   `json:"totalPrice"`
	SubtotalPrice        float64   `json:"subtotalPrice"`
	Currency             string    `json:"currency"`
	AbandonedCheckoutURL string    `json:"abandonedCheckoutUrl"`
	CreatedAt            time.Time `json:"createdAt"`
}

type StoreEventVO struct {
	ID          int64     `json:"id"`
	EventID     string    `json:"eventId"`
	EventType   string    `json:"eventType"`
	Verb        string    `json:"verb"`
	SubjectID   string    `json:"subjectId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ==================== Dashboard & stats ====================

type CountVO struct {
	Total int64 `json:"total"`
}

type OrderTotalsVO struct {
	Total   int64   `json:"total"`
	Revenue float64 `json:"revenue"`
}

type DashboardResponse struct {
	Customers CountVO       `json:"customers"`
	Orders    OrderTotalsVO `json:"orders"`
	Products  CountVO       `json:"products"`
}

type CustomerEmailVO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type CustomerStatsResponse struct {
	TotalCustomers        int64             `json:"totalCustomers"`
	NewCustomersThisMonth int64             `json:"newCustomersThisMonth"`
	CustomersByEmail      []CustomerEmailVO `json:"customersByEmail"`
}

// MonthBucketVO orders grouped by calendar month, "YYYY-MM"
type MonthBucketVO struct {
	Month   string  `json:"month"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type OrderStatsResponse struct {
	TotalOrders   int64           `json:"totalOrders"`
	TotalRevenue  float64         `json:"totalRevenue"`
	RecentOrders  []OrderVO       `json:"recentOrders"`
	OrdersByMonth []MonthBucketVO `json:"ordersByMonth"`
}

type ProductBriefVO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

type BestSellerVO struct {
	ProductVO
	OrderCount int `json:"orderCount"`
}

type ProductStatsResponse struct {
	TotalProducts       int64            `json:"totalProducts"`
	Products            []ProductBriefVO `json:"products"`
	BestSellingProducts []BestSellerVO   `json:"bestSellingProducts"`
}

// ==================== Detailed lists ====================

type CustomersDetailedResponse struct {
	Total     int          `json:"total"`
	Customers []CustomerVO `json:"customers"`
}

type ProductSalesVO struct {
	ProductVO
	TotalSold    int     `json:"totalSold"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type ProductsDetailedResponse struct {
	Total    int              `json:"total"`
	Products []ProductSalesVO `json:"products"`
}

type OrdersDetailedResponse struct {
	Total  int       `json:"total"`
	Orders []OrderVO `json:"orders"`
}

// ==================== Insights ====================

type TopProductVO struct {
	ID                int64   `json:"id"`
	ShopifyID         string  `json:"shopifyId"`
	Title             string  `json:"title"`
	Price             float64 `json:"price"`
	TotalSold         int     `json:"totalSold"`
	TotalRevenue      float64 `json:"totalRevenue"`
	InventoryQuantity int     `json:"inventoryQuantity"`
	InventoryPolicy   string  `json:"inventoryPolicy"`
}

type ConversionMetricsVO struct {
	EstimatedVisits int64   `json:"estimatedVisits"`
	CartAbandonRate float64 `json:"cartAbandonRate"`
	ConversionRate  float64 `json:"conversionRate"`
}

// StoreInfoVO fields are omitted until the store profile has been ingested
type StoreInfoVO struct {
	Name     string `json:"name,omitempty"`
	PlanName string `json:"planName,omitempty"`
	Currency string `json:"currency,omitempty"`
	Country  string `json:"country,omitempty"`
}

type ActivityVO struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type RevenueTrendVO struct {
	CurrentMonth float64 `json:"currentMonth"`
	LastMonth    float64 `json:"lastMonth"`
	GrowthRate   float64 `json:"growthRate"`
}

type InsightsResponse struct {
	TopProducts       []TopProductVO      `json:"topProducts"`
	TotalRevenue      float64             `json:"totalRevenue"`
	TotalCustomers    int64               `json:"totalCustomers"`
	RecentOrders      int64               `json:"recentOrders"`
	ConversionMetrics ConversionMetricsVO `json:"conversionMetrics"`
	StoreInfo         StoreInfoVO         `json:"storeInfo"`
	RecentActivity    []ActivityVO        `json:"recentActivity"`
	Revenue           RevenueTrendVO      `json:"revenue"`
}

// ==================== Analytics ====================

type AbandonedCartsResponse struct {
	Total        int               `json:"total"`
	TotalValue   float64           `json:"totalValue"`
	AverageValue float64           `json:"averageValue"`
	RecentCarts  []AbandonedCartVO `json:"recentCarts"`
}

type EventsResponse struct {
	Total        int            `json:"total"`
	Events       []StoreEventVO `json:"events"`
	EventsByType map[string]int `json:"eventsByType"`
}

type InventoryStatsVO struct {
	TotalProducts int `json:"totalProducts"`
	InStock       int `json:"inStock"`
	OutOfStock    int `json:"outOfStock"`
	LowStock      int `json:"lowStock"`
}

type StockVO struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	InventoryQuantity int     `json:"inventoryQuantity"`
	InventoryPolicy   string  `json:"inventoryPolicy"`
	Price             float64 `json:"price"`
	StockValue        float64 `json:"stockValue"`
}

type InventoryResponse struct {
	InventoryStats    InventoryStatsVO `json:"inventoryStats"`
	ProductsWithStock []StockVO        `json:"productsWithStock"`
}

type FulfillmentVO struct {
	Count int64   `json:"count"`
	Value float64 `json:"value"`
}

type FulfillmentResponse struct {
	Total           int                      `json:"total"`
	StatusBreakdown map[string]FulfillmentVO `json:"statusBreakdown"`
}

type SegmentsVO struct {
	HighValue int `json:"highValue"`
	Regular   int `json:"regular"`
	New       int `json:"new"`
	LowValue  int `json:"lowValue"`
}

type CustomerSegmentsResponse struct {
	TotalCustomers int        `json:"totalCustomers"`
	Segments       SegmentsVO `json:"segments"`
}

// ==================== Filtered orders ====================

// FilteredOrdersRequest dates as 2006-01-02 or RFC3339; both optional
type FilteredOrdersRequest struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

type DayBucketVO struct {
	TotalOrders  int       `json:"totalOrders"`
	TotalRevenue float64   `json:"totalRevenue"`
	Orders       []OrderVO `json:"orders"`
}

type FilteredOrdersResponse struct {
	TotalOrders  int                     `json:"totalOrders"`
	TotalRevenue float64                 `json:"totalRevenue"`
	OrdersByDate map[string]*DayBucketVO `json:"ordersByDate"`
	Orders       []OrderVO               `json:"orders"`
}

// ==================== Top spenders ====================

type TopSpenderVO struct {
	ID            int64      `json:"id"`
	ShopifyID     string     `json:"shopifyId"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	TotalSpend    float64    `json:"totalSpend"`
	TotalOrders   int        `json:"totalOrders"`
	TotalItems    int        `json:"totalItems"`
	AvgOrderValue float64    `json:"avgOrderValue"`
	LastOrderDate *time.Time `json:"lastOrderDate"`
}

type TopSpendersResponse struct {
	TopCustomers []TopSpenderVO `json:"topCustomers"`
}
