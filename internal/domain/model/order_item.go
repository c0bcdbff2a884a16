package model

import "time"

// 注文明細。チェックアウト時点のカート行のスナップショットで、以後不変。
// 商品が後で編集・削除されても履歴が壊れないよう名前/SKU/説明を持つ。
type OrderItem struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID            int64     `gorm:"not null;index" json:"order_id"`
	VariantID          int64     `gorm:"not null;index" json:"variant_id"`
	ProductName        string    `gorm:"type:varchar(255);not null" json:"product_name"`
	SKUSnapshot        string    `gorm:"column:sku_snapshot;type:varchar(100);not null" json:"sku"`
	ProductDescription string    `gorm:"type:text" json:"product_description"`
	UnitPrice          int64     `gorm:"not null" json:"unit_price"`
	Quantity           int64     `gorm:"not null" json:"quantity"`
	Subtotal           int64     `gorm:"not null" json:"subtotal"`
	CreatedAt          time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
