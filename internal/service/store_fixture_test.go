package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/repository"
	"xenofy_analytics_v1_202610/pkg/shopify"
)

// ==================== Database ====================

func newStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

func newStoreTenant(t *testing.T, db *gorm.DB, domain string) *model.Tenant {
	t.Helper()
	tenant := &model.Tenant{Name: domain, Domain: domain, APIKey: "shpat_" + domain + "_0123456789"}
	require.NoError(t, repository.NewTenantRepository(db).Create(context.Background(), tenant))
	return tenant
}

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	t = t.UTC()
	return &t
}

func i64(v int64) *int64 { return &v }

// ==================== Fake Shopify ====================

// fakeShopify canned vendor responses; a non-nil entry in fail makes that call error
type fakeShopify struct {
	mu sync.Mutex

	shop      *shopify.Shop
	customers []shopify.Customer
	products  []shopify.Product
	levels    []shopify.InventoryLevel
	orders    []shopify.Order
	checkouts []shopify.Checkout
	events    []shopify.Event
	reports   []shopify.Report

	fail  map[string]error
	calls map[string]int
}

func (f *fakeShopify) call(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	return f.fail[name]
}

func (f *fakeShopify) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeShopify) GetShop(context.Context) (*shopify.Shop, error) {
	if err := f.call("shop"); err != nil {
		return nil, err
	}
	if f.shop == nil {
		return nil, errors.New("no shop")
	}
	return f.shop, nil
}

func (f *fakeShopify) ListCustomers(context.Context) ([]shopify.Customer, error) {
	return f.customers, f.call("customers")
}

func (f *fakeShopify) ListProducts(context.Context) ([]shopify.Product, error) {
	return f.products, f.call("products")
}

func (f *fakeShopify) ListInventoryLevels(context.Context, []int64) ([]shopify.InventoryLevel, error) {
	return f.levels, f.call("inventory")
}

func (f *fakeShopify) ListOrders(context.Context) ([]shopify.Order, error) {
	return f.orders, f.call("orders")
}

func (f *fakeShopify) ListAbandonedCheckouts(context.Context) ([]shopify.Checkout, error) {
	return f.checkouts, f.call("checkouts")
}

func (f *fakeShopify) ListEvents(context.Context) ([]shopify.Event, error) {
	return f.events, f.call("events")
}

func (f *fakeShopify) ListReports(context.Context) ([]shopify.Report, error) {
	if err := f.call("reports"); err != nil {
		return nil, err
	}
	return f.reports, nil
}

func (f *fakeShopify) factory() ShopifyClientFactory {
	return func(string, string) (ShopifyAPI, error) { return f, nil }
}

// sampleShop two customers, two products, two orders (one guest)
func sampleShop() *fakeShopify {
	fulfilled := model.FulfillmentStatusFulfilled
	ten := 10
	return &fakeShopify{
		shop: &shopify.Shop{ID: 1, Name: "Acme", Domain: "acme.com", MyshopifyDomain: "acme.myshopify.com", Currency: "USD"},
		customers: []shopify.Customer{
			{ID: 101, Email: "ann@acme.com", FirstName: "Ann", LastName: "Lee", TotalSpent: "200.00", OrdersCount: 1, CreatedAt: at("2026-01-05T10:00:00Z")},
			{ID: 102, Email: "bob@acme.com", FirstName: "Bob", CreatedAt: at("2026-02-01T10:00:00Z")},
		},
		products: []shopify.Product{
			{ID: 201, Title: "Mug", Status: "active", Variants: []shopify.Variant{{ID: 2011, Price: "100.00", InventoryItemID: 9001, InventoryQuantity: 3}}},
			{ID: 202, Title: "Tee", Status: "active", Variants: []shopify.Variant{{ID: 2021, Price: "25.50", InventoryItemID: 9002}}},
		},
		levels: []shopify.InventoryLevel{
			{InventoryItemID: 9001, LocationID: 77, Available: &ten},
			{InventoryItemID: 9001, LocationID: 78, Available: &ten},
		},
		orders: []shopify.Order{
			{
				ID: 301, Name: "#1001", Email: "ann@acme.com", Customer: &shopify.OrderCustomer{ID: 101},
				TotalPrice: "200.00", SubtotalPrice: "200.00", FinancialStatus: "paid", FulfillmentStatus: &fulfilled,
				CreatedAt:       at("2026-03-10T12:00:00Z"),
				LineItems:       []shopify.LineItem{{ID: 401, ProductID: i64(201), Title: "Mug", Quantity: 2, Price: "100.00"}},
				ShippingAddress: &shopify.Address{City: "Pune", Country: "IN"},
			},
			{
				ID: 302, Name: "#1002", TotalPrice: "25.50", FinancialStatus: "pending",
				CreatedAt: at("2026-03-11T12:00:00Z"),
				LineItems: []shopify.LineItem{{ProductID: i64(202), Title: "Tee", Quantity: 1, Price: "25.50"}},
			},
		},
		checkouts: []shopify.Checkout{{ID: 501, Email: "bob@acme.com", TotalPrice: "40.00", CreatedAt: at("2026-03-12T08:00:00Z")}},
		events:    []shopify.Event{{ID: 601, SubjectID: 301, SubjectType: "Order", Verb: "placed", Message: "Order placed", CreatedAt: at("2026-03-10T12:00:00Z")}},
		fail:      map[string]error{"reports": shopify.ErrUnsupported},
	}
}
