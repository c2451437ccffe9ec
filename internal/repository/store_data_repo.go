package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"xenofy_analytics_v1_202610/internal/model"
)

// ==================== AbandonedCartRepository ====================

type AbandonedCartRepository interface {
	Upsert(ctx context.Context, cart *model.AbandonedCart) error
	Count(ctx context.Context, tenantID int64) (int64, error)
	ListRecent(ctx context.Context, tenantID int64, limit int) ([]model.AbandonedCart, error)
}

type abandonedCartRepository struct {
	db *gorm.DB
}

func NewAbandonedCartRepository(db *gorm.DB) AbandonedCartRepository {
	return &abandonedCartRepository{db: db}
}

func (r *abandonedCartRepository) Upsert(ctx context.Context, cart *model.AbandonedCart) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "checkout_id"}, {Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "total_price_amount", "subtotal_price_amount", "currency",
			"abandoned_checkout_url", "shopify_created_at", "updated_at",
		}),
	}).Create(cart).Error
	if err != nil {
		return fmt.Errorf("upsert abandoned cart %s: %w", cart.CheckoutID, err)
	}
	return nil
}

func (r *abandonedCartRepository) Count(ctx context.Context, tenantID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AbandonedCart{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func (r *abandonedCartRepository) ListRecent(ctx context.Context, tenantID int64, limit int) ([]model.AbandonedCart, error) {
	var carts []model.AbandonedCart
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("COALESCE(shopify_created_at, created_at) DESC").
		Order("id DESC").
		Limit(limit).
		Find(&carts).Error
	return carts, err
}

// ==================== StoreEventRepository ====================

type StoreEventRepository interface {
	Upsert(ctx context.Context, event *model.StoreEvent) error
	ListRecent(ctx context.Context, tenantID int64, limit int) ([]model.StoreEvent, error)
}

type storeEventRepository struct {
	db *gorm.DB
}

func NewStoreEventRepository(db *gorm.DB) StoreEventRepository {
	return &storeEventRepository{db: db}
}

func (r *storeEventRepository) Upsert(ctx context.Context, event *model.StoreEvent) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}, {Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"event_type", "verb", "subject_id", "description", "shopify_created_at", "updated_at",
		}),
	}).Create(event).Error
	if err != nil {
		return fmt.Errorf("upsert store event %s: %w", event.EventID, err)
	}
	return nil
}

func (r *storeEventRepository) ListRecent(ctx context.Context, tenantID int64, limit int) ([]model.StoreEvent, error) {
	var events []model.StoreEvent
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("COALESCE(shopify_created_at, created_at) DESC").
		Order("id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// ==================== StoreInfoRepository ====================

type StoreInfoRepository interface {
	Upsert(ctx context.Context, info *model.StoreInfo) error
	GetByTenant(ctx context.Context, tenantID int64) (*model.StoreInfo, error)
}

type storeInfoRepository struct {
	db *gorm.DB
}

func NewStoreInfoRepository(db *gorm.DB) StoreInfoRepository {
	return &storeInfoRepository{db: db}
}

func (r *storeInfoRepository) Upsert(ctx context.Context, info *model.StoreInfo) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "domain", "myshopify_domain", "plan_name", "shop_owner", "email",
			"currency", "country", "province", "city", "address1", "zip", "phone", "timezone",
			"updated_at",
		}),
	}).Create(info).Error
	if err != nil {
		return fmt.Errorf("upsert store info: %w", err)
	}
	return nil
}

func (r *storeInfoRepository) GetByTenant(ctx context.Context, tenantID int64) (*model.StoreInfo, error) {
	var info model.StoreInfo
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}
