package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type OrderListFilter struct {
	Page   int
	Limit  int
	Status string
	// order_code の部分一致検索
	Q      string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// ステータス系フィールドの更新。nilのフィールドは触らない。
type OrderStatusUpdate struct {
	Status        model.OrderStatus
	PaymentStatus *model.PaymentStatus
	PaidAt        *time.Time
	CancelledAt   *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByOrderCode(ctx context.Context, code string) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, f OrderListFilter) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, upd OrderStatusUpdate) error

	// その年のプレフィックス配下で最大のorder_codeを返す（無ければfalse）
	MaxOrderCodeWithPrefix(ctx context.Context, prefix string) (string, bool, error)
	// 管理者用の注文一覧
	ListAdmin(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
}
