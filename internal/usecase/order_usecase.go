package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type OrderUsecase struct {
	tx           repo.TransactionManager
	orders       repo.OrderRepository
	orderItems   repo.OrderItemRepository
	transactions repo.PaymentTransactionRepository
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	transactions repo.PaymentTransactionRepository,
) *OrderUsecase {
	return &OrderUsecase{
		tx:           tx,
		orders:       orders,
		orderItems:   orderItems,
		transactions: transactions,
	}
}

type OrderItemOutput struct {
	VariantID   int64  `json:"variant_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int64  `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

type TransactionOutput struct {
	Provider        string `json:"provider"`
	Amount          int64  `json:"amount"`
	Status          string `json:"status"`
	TransactionCode string `json:"transaction_code"`
	Message         string `json:"message"`
}

type OrderOutput struct {
	ID                int64              `json:"id"`
	OrderCode         string             `json:"order_code"`
	UserID            int64              `json:"user_id"`
	Status            string             `json:"status"`
	PaymentMethod     string             `json:"payment_method"`
	PaymentStatus     string             `json:"payment_status"`
	ShippingName      string             `json:"shipping_name"`
	ShippingPhone     string             `json:"shipping_phone"`
	ShippingAddress   string             `json:"shipping_address"`
	ShippingProvince  string             `json:"shipping_province"`
	ShippingDistrict  string             `json:"shipping_district"`
	ShippingWard      string             `json:"shipping_ward"`
	Note              string             `json:"note,omitempty"`
	ItemsTotal        int64              `json:"items_total"`
	ShippingFee       int64              `json:"shipping_fee"`
	TotalAmount       int64              `json:"total_amount"`
	PaidAt            *time.Time         `json:"paid_at"`
	CancelledAt       *time.Time         `json:"cancelled_at"`
	CreatedAt         time.Time          `json:"created_at"`
	Items             []OrderItemOutput  `json:"items"`
	LatestTransaction *TransactionOutput `json:"latest_transaction,omitempty"`
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 注文履歴（order_code検索・ステータス・期間フィルタ付き）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, f repo.OrderListFilter) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Status != "" && !model.IsKnownOrderStatus(model.OrderStatus(f.Status)) {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	orders, total, err := u.orders.ListByUserID(ctx, userID, f)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, toOrderOutput(o, items, nil))
	}

	return OrderListOutput{Items: outs, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// 注文詳細（明細と直近の決済トランザクション付き）
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	// 他人の注文は「存在しない扱い」にする
	if o.UserID != userID {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var latest *TransactionOutput
	if t, found, err := u.transactions.FindLatestByOrderID(ctx, orderID); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	} else if found {
		latest = &TransactionOutput{
			Provider:        t.Provider,
			Amount:          t.Amount,
			Status:          string(t.Status),
			TransactionCode: t.TransactionCode,
			Message:         t.Message,
		}
	}

	return toOrderOutput(o, items, latest), nil
}

// 顧客キャンセル。支払い待ち・確定済み・支払い失敗の注文だけ取り消せる。
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID int64, orderID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		switch o.Status {
		case model.OrderStatusPendingPayment, model.OrderStatusConfirmed, model.OrderStatusPaymentFailed:
			// OK
		default:
			return NewHTTPError(http.StatusBadRequest, "order cannot be cancelled in status "+string(o.Status))
		}

		now := time.Now()
		if err := r.Orders().UpdateStatus(ctx, orderID, repo.OrderStatusUpdate{
			Status:      model.OrderStatusCancelled,
			CancelledAt: &now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 受け取り確認。配送中の注文だけ完了にできる。
// CODで支払いがまだPENDINGなら、ここで代金回収を記録する。
func (u *OrderUsecase) ConfirmReceived(ctx context.Context, userID int64, orderID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if o.Status != model.OrderStatusShipping {
			return NewHTTPError(http.StatusBadRequest, "order is not in shipping status")
		}

		upd := repo.OrderStatusUpdate{Status: model.OrderStatusCompleted}
		if o.PaymentMethod == model.PaymentMethodCOD && o.PaymentStatus == model.PaymentStatusPending {
			now := time.Now()
			success := model.PaymentStatusSuccess
			upd.PaymentStatus = &success
			upd.PaidAt = &now
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, upd); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func toOrderOutput(o model.Order, items []model.OrderItem, latest *TransactionOutput) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			VariantID:   it.VariantID,
			ProductName: it.ProductName,
			SKU:         it.SKUSnapshot,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}

	return OrderOutput{
		ID:                o.ID,
		OrderCode:         o.OrderCode,
		UserID:            o.UserID,
		Status:            string(o.Status),
		PaymentMethod:     string(o.PaymentMethod),
		PaymentStatus:     string(o.PaymentStatus),
		ShippingName:      o.ShippingName,
		ShippingPhone:     o.ShippingPhone,
		ShippingAddress:   o.ShippingAddress,
		ShippingProvince:  o.ShippingProvince,
		ShippingDistrict:  o.ShippingDistrict,
		ShippingWard:      o.ShippingWard,
		Note:              o.Note,
		ItemsTotal:        o.ItemsTotal,
		ShippingFee:       o.ShippingFee,
		TotalAmount:       o.TotalAmount,
		PaidAt:            o.PaidAt,
		CancelledAt:       o.CancelledAt,
		CreatedAt:         o.CreatedAt,
		Items:             outItems,
		LatestTransaction: latest,
	}
}
