package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"xenofy_analytics_v1_202610/internal/model"
)

type ProductRepository interface {
	Upsert(ctx context.Context, product *model.Product) error
	GetByShopifyID(ctx context.Context, tenantID int64, shopifyID string) (*model.Product, error)
	ShopifyIDMap(ctx context.Context, tenantID int64) (map[string]int64, error)
	UpdateInventory(ctx context.Context, productID int64, quantity int, policy, fulfillmentService string) error
	Count(ctx context.Context, tenantID int64) (int64, error)
	List(ctx context.Context, tenantID int64) ([]model.Product, error)
	// ListWithOrderItems products with their line items, ordered by title
	ListWithOrderItems(ctx context.Context, tenantID int64, limit int) ([]model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Upsert inserts or refreshes by (shopify_id, tenant_id). Inventory columns are
// owned by the inventory step and are only written on insert.
func (r *productRepository) Upsert(ctx context.Context, product *model.Product) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shopify_id"}, {Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "handle", "vendor", "product_type", "status",
			"price_amount", "inventory_item_id",
			"raw_data", "shopify_created_at", "updated_at",
		}),
	}).Create(product).Error
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", product.ShopifyID, err)
	}
	if product.ID == 0 {
		return r.db.WithContext(ctx).Model(&model.Product{}).
			Where("shopify_id = ? AND tenant_id = ?", product.ShopifyID, product.TenantID).
			Pluck("id", &product.ID).Error
	}
	return nil
}

func (r *productRepository) GetByShopifyID(ctx context.Context, tenantID int64, shopifyID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("shopify_id = ? AND tenant_id = ?", shopifyID, tenantID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ShopifyIDMap(ctx context.Context, tenantID int64) (map[string]int64, error) {
	var rows []struct {
		ID        int64
		ShopifyID string
	}
	err := r.db.WithContext(ctx).Model(&model.Product{}).
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

func (r *productRepository) UpdateInventory(ctx context.Context, productID int64, quantity int, policy, fulfillmentService string) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"inventory_quantity":  quantity,
			"inventory_policy":    policy,
			"fulfillment_service": fulfillmentService,
		}).Error
}

func (r *productRepository) Count(ctx context.Context, tenantID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func (r *productRepository) List(ctx context.Context, tenantID int64) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) ListWithOrderItems(ctx context.Context, tenantID int64, limit int) ([]model.Product, error) {
	var products []model.Product
	query := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("tenant_id = ?", tenantID).
		Order("title ASC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&products).Error
	return products, err
}
