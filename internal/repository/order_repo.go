package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"xenofy_analytics_v1_202610/internal/model"
)

// orderPlacedAt vendor order time, ingestion time as fallback
const orderPlacedAt = "COALESCE(orders.shopify_created_at, orders.created_at)"

// FulfillmentGroup orders sharing one fulfillment status
type FulfillmentGroup struct {
	Status string
	Count  int64
	Value  int64 // cents
}

type OrderRepository interface {
	Upsert(ctx context.Context, order *model.Order) error
	UpsertItems(ctx context.Context, items []model.OrderItem) error
	UpsertAddresses(ctx context.Context, addresses []model.OrderAddress) error

	Count(ctx context.Context, tenantID int64) (int64, error)
	SumRevenue(ctx context.Context, tenantID int64) (int64, error)
	// ListRecent newest orders with customer and items.product
	ListRecent(ctx context.Context, tenantID int64, limit int) ([]model.Order, error)
	// ListPlacedBetween orders placed in [start, end], either bound optional, newest first
	ListPlacedBetween(ctx context.Context, tenantID int64, start, end *time.Time) ([]model.Order, error)
	// ListAll bare order rows, no associations
	ListAll(ctx context.Context, tenantID int64) ([]model.Order, error)
	FulfillmentBreakdown(ctx context.Context, tenantID int64) ([]FulfillmentGroup, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Upsert inserts or refreshes by (shopify_id, tenant_id); order.ID is set afterwards
func (r *orderRepository) Upsert(ctx context.Context, order *model.Order) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shopify_id"}, {Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "customer_id", "email",
			"total_price_amount", "subtotal_price_amount", "total_tax_amount", "total_discounts_amount",
			"currency", "financial_status", "fulfillment_status",
			"raw_data", "shopify_created_at", "updated_at",
		}),
	}).Create(order).Error
	if err != nil {
		return fmt.Errorf("upsert order %s: %w", order.ShopifyID, err)
	}
	if order.ID == 0 {
		return r.db.WithContext(ctx).Model(&model.Order{}).
			Where("shopify_id = ? AND tenant_id = ?", order.ShopifyID, order.TenantID).
			Pluck("id", &order.ID).Error
	}
	return nil
}

// UpsertItems keyed by (order_id, shopify_line_item_id), so re-ingesting never duplicates lines
func (r *orderRepository) UpsertItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}, {Name: "shopify_line_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"product_id", "variant_id", "title", "variant_title", "sku",
			"quantity", "price_amount", "line_price_amount", "updated_at",
		}),
	}).Create(&items).Error
}

// UpsertAddresses keyed by (order_id, address_type)
func (r *orderRepository) UpsertAddresses(ctx context.Context, addresses []model.OrderAddress) error {
	if len(addresses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}, {Name: "address_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_name", "last_name", "company", "address1", "address2",
			"city", "province", "country", "zip", "phone", "updated_at",
		}),
	}).Create(&addresses).Error
}

func (r *orderRepository) Count(ctx context.Context, tenantID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func (r *orderRepository) SumRevenue(ctx context.Context, tenantID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total_price_amount), 0)").
		Where("tenant_id = ?", tenantID).
		Scan(&total).Error
	return total, err
}

func (r *orderRepository) ListRecent(ctx context.Context, tenantID int64, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.withDetails(ctx).
		Where("orders.tenant_id = ?", tenantID).
		Order(orderPlacedAt + " DESC").
		Order("orders.id DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListPlacedBetween(ctx context.Context, tenantID int64, start, end *time.Time) ([]model.Order, error) {
	query := r.withDetails(ctx).Where("orders.tenant_id = ?", tenantID)
	if start != nil {
		query = query.Where(orderPlacedAt+" >= ?", start.UTC())
	}
	if end != nil {
		query = query.Where(orderPlacedAt+" <= ?", end.UTC())
	}

	var orders []model.Order
	err := query.
		Order(orderPlacedAt + " DESC").
		Order("orders.id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListAll(ctx context.Context, tenantID int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) FulfillmentBreakdown(ctx context.Context, tenantID int64) ([]FulfillmentGroup, error) {
	var groups []FulfillmentGroup
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("fulfillment_status AS status, COUNT(id) AS count, COALESCE(SUM(total_price_amount), 0) AS value").
		Where("tenant_id = ? AND fulfillment_status IS NOT NULL", tenantID).
		Group("fulfillment_status").
		Order("fulfillment_status ASC").
		Scan(&groups).Error
	return groups, err
}

func (r *orderRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id ASC")
		}).
		Preload("Items.Product")
}
