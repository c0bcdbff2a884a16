package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 管理者遷移テーブル。ここに無い組み合わせは全部拒否。
// COMPLETED / CANCELLED は終端でエントリ自体が無い。
var adminTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPendingPayment: {
		model.OrderStatusConfirmed,
		model.OrderStatusPaid,
		model.OrderStatusCancelled,
		model.OrderStatusPaymentFailed,
	},
	model.OrderStatusConfirmed: {
		model.OrderStatusPaid,
		model.OrderStatusShipping,
		model.OrderStatusCancelled,
	},
	model.OrderStatusPaid: {
		model.OrderStatusShipping,
		model.OrderStatusCancelled,
	},
	model.OrderStatusShipping: {
		model.OrderStatusCompleted,
	},
	model.OrderStatusPaymentFailed: {
		model.OrderStatusPendingPayment,
		model.OrderStatusCancelled,
	},
}

func canTransition(from, to model.OrderStatus) bool {
	for _, t := range adminTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func allowedTargets(from model.OrderStatus) string {
	targets := adminTransitions[from]
	if len(targets) == 0 {
		return "none"
	}
	strs := make([]string, 0, len(targets))
	for _, t := range targets {
		strs = append(strs, string(t))
	}
	return strings.Join(strs, ", ")
}

type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 注文一覧（管理者）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.OrderListFilter) (OrderListOutput, error) {
	if f.Page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items, nil))
		}

		out = OrderListOutput{Items: outs, Total: total, Page: f.Page, Limit: f.Limit}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// ステータス更新。遷移テーブルで許可された組み合わせだけ通す。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !model.IsKnownOrderStatus(newStatus) {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 同一ステータスへの遷移は拒否
		if o.Status == newStatus {
			return NewHTTPError(http.StatusBadRequest, "order is already in status "+string(newStatus))
		}
		// 終端ガード
		if model.IsTerminalOrderStatus(o.Status) {
			return NewHTTPError(http.StatusBadRequest, "cannot change order in terminal status "+string(o.Status))
		}
		if !canTransition(o.Status, newStatus) {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf(
				"cannot change status from %s to %s (allowed: %s)",
				o.Status, newStatus, allowedTargets(o.Status)))
		}

		upd := repo.OrderStatusUpdate{Status: newStatus}
		now := time.Now()

		// PAIDへの遷移で支払いがまだPENDINGなら、ここで入金記録も付ける
		if newStatus == model.OrderStatusPaid && o.PaymentStatus == model.PaymentStatusPending {
			success := model.PaymentStatusSuccess
			upd.PaymentStatus = &success
			upd.PaidAt = &now
		}
		if newStatus == model.OrderStatusCancelled {
			upd.CancelledAt = &now
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, upd); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := `{"status":"` + string(o.Status) + `"}`
		afterJSON := `{"status":"` + string(newStatus) + `"}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}
