package model

import "strings"

// ==================== Demo account ====================

// Demo account, seeded at startup when enabled.
const (
	DemoEmail      = "demo@xenofy.com"
	DemoPassword   = "demo123"
	DemoTenantName = "Xenofy Demo Store"
	DemoDomain     = "xenofy-store-1.myshopify.com"
	DemoAPIKey     = "shpat_example_demo_key_format_not_real_api_1234567890abcdefghijklmnopqrstuvwx"
)

// ==================== Tenant ====================

// Tenant one merchant store, the unit of data isolation
type Tenant struct {
	BaseModel

	Name   string `gorm:"size:255;not null" json:"name"`
	Domain string `gorm:"size:255;uniqueIndex;not null" json:"domain"`
	// Shopify Admin API access token
	APIKey string `gorm:"column:api_key;size:255;uniqueIndex;not null" json:"-"`
	IsDemo bool   `gorm:"default:false" json:"is_demo"`

	Users []User `gorm:"foreignKey:TenantID" json:"-"`
}

func (*Tenant) TableName() string {
	return "tenants"
}

// HasCredential reports whether the tenant can be ingested at all.
func (t *Tenant) HasCredential() bool {
	return strings.TrimSpace(t.APIKey) != ""
}

// IsDemoAccount matches the demo naming rule used to skip upstream credential checks.
func IsDemoAccount(name, domain, apiKey string) bool {
	return strings.Contains(strings.ToLower(name), "demo") ||
		strings.Contains(domain, "xenofy-store-1") ||
		strings.Contains(apiKey, "shpat_example_demo_key")
}
