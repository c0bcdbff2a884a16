package model

import "time"

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusShipping       OrderStatus = "SHIPPING"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusPaymentFailed  OrderStatus = "PAYMENT_FAILED"
)

// 既知のステータスかどうか
func IsKnownOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusConfirmed, OrderStatusPaid,
		OrderStatusShipping, OrderStatusCompleted, OrderStatusCancelled, OrderStatusPaymentFailed:
		return true
	}
	return false
}

// 終端ステータス（以後の遷移は不可）
func IsTerminalOrderStatus(s OrderStatus) bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type PaymentMethod string

const (
	PaymentMethodCOD   PaymentMethod = "COD"
	PaymentMethodVNPay PaymentMethod = "VNPAY_FAKE"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// 注文（チェックアウト1回につき1件）。
// 配送先は作成時点のスナップショット。後で地名マスタが変わっても履歴は壊れない。
type Order struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderCode string `gorm:"type:varchar(20);not null;uniqueIndex" json:"order_code"`
	UserID    int64  `gorm:"not null;index" json:"user_id"`

	// 配送先スナップショット
	ShippingName     string `gorm:"type:varchar(100);not null" json:"shipping_name"`
	ShippingPhone    string `gorm:"type:varchar(20);not null" json:"shipping_phone"`
	ShippingEmail    string `gorm:"type:varchar(255)" json:"shipping_email"`
	ShippingAddress  string `gorm:"type:varchar(255);not null" json:"shipping_address"`
	ShippingProvince string `gorm:"type:varchar(100);not null" json:"shipping_province"`
	ShippingDistrict string `gorm:"type:varchar(100);not null" json:"shipping_district"`
	ShippingWard     string `gorm:"type:varchar(100);not null" json:"shipping_ward"`
	Note             string `gorm:"type:text" json:"note"`

	// 金額はVND（整数）
	ItemsTotal  int64 `gorm:"not null" json:"items_total"`
	ShippingFee int64 `gorm:"not null" json:"shipping_fee"`
	TotalAmount int64 `gorm:"not null" json:"total_amount"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	Status        OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`

	PaidAt      *time.Time `json:"paid_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
