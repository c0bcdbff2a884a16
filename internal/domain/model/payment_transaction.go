package model

import "time"

type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// 決済ゲートウェイとのやり取り1回につき1件の監査レコード。追記のみで更新しない。
type PaymentTransaction struct {
	ID              int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64             `gorm:"not null;index" json:"order_id"`
	Provider        string            `gorm:"type:varchar(50);not null" json:"provider"`
	Amount          int64             `gorm:"not null" json:"amount"`
	Status          TransactionStatus `gorm:"type:varchar(20);not null" json:"status"`
	TransactionCode string            `gorm:"type:varchar(100)" json:"transaction_code"`
	Message         string            `gorm:"type:varchar(255)" json:"message"`
	RawRequest      string            `gorm:"type:text" json:"-"`
	RawResponse     string            `gorm:"type:text" json:"-"`
	CreatedAt       time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
}
