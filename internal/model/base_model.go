package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel common columns for account tables (tenants, users)
type BaseModel struct {
	ID        int64          `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// centsToFloat converts minor units back to the display amount.
func centsToFloat(amount int64) float64 {
	return float64(amount) / 100
}
