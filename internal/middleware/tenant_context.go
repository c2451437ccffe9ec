package middleware

import (
	"context"
	"reflect"

	"gorm.io/gorm"
)

// ==================== Tenant context ====================

type tenantContextKey struct{}

// TenantInfo identity of the authenticated caller
type TenantInfo struct {
	TenantID int64
	UserID   int64
	Email    string
}

func WithTenant(ctx context.Context, info TenantInfo) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, &info)
}

func TenantFromContext(ctx context.Context) *TenantInfo {
	if info, ok := ctx.Value(tenantContextKey{}).(*TenantInfo); ok {
		return info
	}
	return nil
}

// TenantIDFromContext 0 when the context carries no tenant
func TenantIDFromContext(ctx context.Context) int64 {
	if info := TenantFromContext(ctx); info != nil {
		return info.TenantID
	}
	return 0
}

// ==================== GORM callback ====================

// RegisterTenantCallbacks fills a zero TenantID on insert from the request
// context, so rows written while serving a request land in the caller's tenant.
// Explicit TenantID values are never overwritten.
func RegisterTenantCallbacks(db *gorm.DB) error {
	return db.Callback().Create().Before("gorm:create").Register("tenant:create", func(tx *gorm.DB) {
		if tx.Statement.Context == nil {
			return
		}
		tenantID := TenantIDFromContext(tx.Statement.Context)
		if tenantID == 0 {
			return
		}
		setTenantField(tx, tenantID)
	})
}

func setTenantField(tx *gorm.DB, value int64) {
	if tx.Statement.Schema == nil {
		return
	}
	field := tx.Statement.Schema.LookUpField("TenantID")
	if field == nil {
		return
	}

	ctx := tx.Statement.Context
	switch tx.Statement.ReflectValue.Kind() {
	case reflect.Struct:
		if _, isZero := field.ValueOf(ctx, tx.Statement.ReflectValue); isZero {
			_ = field.Set(ctx, tx.Statement.ReflectValue, value)
		}
	case reflect.Slice:
		for i := 0; i < tx.Statement.ReflectValue.Len(); i++ {
			rv := tx.Statement.ReflectValue.Index(i)
			if rv.Kind() == reflect.Ptr {
				rv = rv.Elem()
			}
			if _, isZero := field.ValueOf(ctx, rv); isZero {
				_ = field.Set(ctx, rv, value)
			}
		}
	}
}
