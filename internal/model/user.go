package model

// User dashboard login, owned by one tenant
type User struct {
	BaseModel

	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password;size:255;not null" json:"-"`
	TenantID     int64  `gorm:"index;not null" json:"tenant_id"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

func (*User) TableName() string {
	return "users"
}
