package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"xenofy_analytics_v1_202610/internal/model"
)

// customerSourceCreatedAt vendor creation time, row time as fallback
const customerSourceCreatedAt = "COALESCE(shopify_created_at, created_at)"

type CustomerRepository interface {
	Upsert(ctx context.Context, customer *model.Customer) error
	GetByShopifyID(ctx context.Context, tenantID int64, shopifyID string) (*model.Customer, error)
	// ShopifyIDMap shopify id -> row id for every customer of the tenant
	ShopifyIDMap(ctx context.Context, tenantID int64) (map[string]int64, error)
	Count(ctx context.Context, tenantID int64) (int64, error)
	CountCreatedSince(ctx context.Context, tenantID int64, since time.Time) (int64, error)
	List(ctx context.Context, tenantID int64) ([]model.Customer, error)
	ListRecentWithOrders(ctx context.Context, tenantID int64, limit int) ([]model.Customer, error)
	// ListWithOrderItems every customer with orders and their line items
	ListWithOrderItems(ctx context.Context, tenantID int64) ([]model.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Upsert inserts or refreshes by (shopify_id, tenant_id); customer.ID is set afterwards
func (r *customerRepository) Upsert(ctx context.Context, customer *model.Customer) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shopify_id"}, {Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "phone",
			"orders_count", "total_spent_amount", "currency",
			"raw_data", "shopify_created_at", "updated_at",
		}),
	}).Create(customer).Error
	if err != nil {
		return fmt.Errorf("upsert customer %s: %w", customer.ShopifyID, err)
	}
	if customer.ID == 0 {
		return r.db.WithContext(ctx).Model(&model.Customer{}).
			Where("shopify_id = ? AND tenant_id = ?", customer.ShopifyID, customer.TenantID).
			Pluck("id", &customer.ID).Error
	}
	return nil
}

func (r *customerRepository) GetByShopifyID(ctx context.Context, tenantID int64, shopifyID string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("shopify_id = ? AND tenant_id = ?", shopifyID, tenantID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) ShopifyIDMap(ctx context.Context, tenantID int64) (map[string]int64, error) {
	var rows []struct {
		ID        int64
		ShopifyID string
	}
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Select("id", "shopify_id").
		Where("tenant_id = ?", tenantID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ShopifyID] = row.ID
	}
	return out, nil
}

func (r *customerRepository) Count(ctx context.Context, tenantID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func (r *customerRepository) CountCreatedSince(ctx context.Context, tenantID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("tenant_id = ? AND "+customerSourceCreatedAt+" >= ?", tenantID, since).
		Count(&count).Error
	return count, err
}

func (r *customerRepository) List(ctx context.Context, tenantID int64) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&customers).Error
	return customers, err
}

func (r *customerRepository) ListRecentWithOrders(ctx context.Context, tenantID int64, limit int) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order(orderPlacedAt + " DESC")
		}).
		Where("tenant_id = ?", tenantID).
		Order(customerSourceCreatedAt + " DESC").
		Order("id DESC").
		Limit(limit).
		Find(&customers).Error
	return customers, err
}

func (r *customerRepository) ListWithOrderItems(ctx context.Context, tenantID int64) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Preload("Orders").
		Preload("Orders.Items").
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&customers).Error
	return customers, err
}
