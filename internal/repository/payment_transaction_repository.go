package repository

import (
	"context"

	"app/internal/domain/model"
)

// 決済トランザクションは追記のみ。
type PaymentTransactionRepository interface {
	Create(ctx context.Context, t model.PaymentTransaction) (int64, error)
	FindLatestByOrderID(ctx context.Context, orderID int64) (model.PaymentTransaction, bool, error)
}
