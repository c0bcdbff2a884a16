package model

import (
	"time"

	"gorm.io/gorm"
)

// 購入可能なSKU（サイズ・色の組み合わせ）。価格と在庫の実体。
type ProductVariant struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64          `gorm:"not null;index" json:"product_id"`
	SKU       string         `gorm:"column:sku;type:varchar(100);not null;uniqueIndex" json:"sku"`
	Price     int64          `gorm:"not null" json:"price"`
	Stock     int64          `gorm:"not null" json:"stock"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
