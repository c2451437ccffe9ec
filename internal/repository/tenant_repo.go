package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"xenofy_analytics_v1_202610/internal/model"
)

// ==================== TenantRepository ====================

type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	GetByID(ctx context.Context, id int64) (*model.Tenant, error)
	GetByDomain(ctx context.Context, domain string) (*model.Tenant, error)
	ExistsByDomain(ctx context.Context, domain string) (bool, error)
	ExistsByAPIKey(ctx context.Context, apiKey string) (bool, error)
	// ListIngestible tenants the scheduler should pull: credential set, not demo
	ListIngestible(ctx context.Context) ([]model.Tenant, error)
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepository) GetByID(ctx context.Context, id int64) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.WithContext(ctx).First(&tenant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) GetByDomain(ctx context.Context, domain string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) ExistsByDomain(ctx context.Context, domain string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Tenant{}).
		Where("domain = ?", domain).
		Count(&count).Error
	return count > 0, err
}

func (r *tenantRepository) ExistsByAPIKey(ctx context.Context, apiKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Tenant{}).
		Where("api_key = ?", apiKey).
		Count(&count).Error
	return count > 0, err
}

func (r *tenantRepository) ListIngestible(ctx context.Context) ([]model.Tenant, error) {
	var tenants []model.Tenant
	err := r.db.WithContext(ctx).
		Where("api_key <> ? AND is_demo = ?", "", false).
		Order("id ASC").
		Find(&tenants).Error
	return tenants, err
}

// ==================== AccountUnitOfWork ====================

// AccountUnitOfWork tenant and user writes that must land together
type AccountUnitOfWork struct {
	db      *gorm.DB
	Tenants TenantRepository
	Users   UserRepository
}

func NewAccountUnitOfWork(db *gorm.DB) *AccountUnitOfWork {
	return &AccountUnitOfWork{
		db:      db,
		Tenants: NewTenantRepository(db),
		Users:   NewUserRepository(db),
	}
}

// Transaction runs fn with repositories bound to one transaction
func (u *AccountUnitOfWork) Transaction(ctx context.Context, fn func(uow *AccountUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUow := &AccountUnitOfWork{
			db:      tx,
			Tenants: NewTenantRepository(tx),
			Users:   NewUserRepository(tx),
		}
		return fn(txUow)
	})
}
