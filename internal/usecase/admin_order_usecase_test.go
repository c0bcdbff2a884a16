package usecase_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type adminFixture struct {
	tx        *TxManagerMock
	orders    *OrderRepoMock
	auditLogs *AuditLogRepoMock
	uc        *usecase.AdminOrderUsecase
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		orders:    &OrderRepoMock{},
		auditLogs: &AuditLogRepoMock{},
	}
	f.tx = &TxManagerMock{Repos: &TxReposMock{
		orders:     f.orders,
		orderItems: &OrderItemRepoMock{},
		auditLogs:  f.auditLogs,
	}}
	f.uc = usecase.NewAdminOrderUsecase(f.tx)
	return f
}

// 遷移テーブル全組み合わせを総当たりで検証する
func TestAdminUpdateStatus_TransitionTable(t *testing.T) {
	allowed := map[model.OrderStatus][]model.OrderStatus{
		model.OrderStatusPendingPayment: {
			model.OrderStatusConfirmed, model.OrderStatusPaid,
			model.OrderStatusCancelled, model.OrderStatusPaymentFailed,
		},
		model.OrderStatusConfirmed: {
			model.OrderStatusPaid, model.OrderStatusShipping, model.OrderStatusCancelled,
		},
		model.OrderStatusPaid: {
			model.OrderStatusShipping, model.OrderStatusCancelled,
		},
		model.OrderStatusShipping: {
			model.OrderStatusCompleted,
		},
		model.OrderStatusPaymentFailed: {
			model.OrderStatusPendingPayment, model.OrderStatusCancelled,
		},
	}

	all := []model.OrderStatus{
		model.OrderStatusPendingPayment, model.OrderStatusConfirmed,
		model.OrderStatusPaid, model.OrderStatusShipping,
		model.OrderStatusCompleted, model.OrderStatusCancelled,
		model.OrderStatusPaymentFailed,
	}

	isAllowed := func(from, to model.OrderStatus) bool {
		for _, a := range allowed[from] {
			if a == to {
				return true
			}
		}
		return false
	}

	for _, from := range all {
		for _, to := range all {
			if from == to {
				continue
			}

			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				f := newAdminFixture()
				ctx := context.Background()

				f.tx.On("WithinTx", mock.Anything).Return(nil)
				f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
					ID: 1, Status: from, PaymentStatus: model.PaymentStatusSuccess,
				}, nil)
				f.orders.On("UpdateStatus", mock.Anything, int64(1), mock.Anything).Return(nil)
				f.auditLogs.On("Create", mock.Anything, mock.Anything).Return(nil)

				err := f.uc.UpdateStatus(ctx, 1, 1, usecase.AdminUpdateOrderStatusInput{Status: string(to)})

				if isAllowed(from, to) {
					assert.NoError(t, err)
					f.orders.AssertCalled(t, "UpdateStatus", mock.Anything, int64(1), mock.Anything)
				} else {
					he, ok := usecase.AsHTTPError(err)
					assert.True(t, ok)
					assert.Equal(t, http.StatusBadRequest, he.Status)
					f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
				}
			})
		}
	}
}

// 終端ステータスは専用メッセージ
func TestAdminUpdateStatus_TerminalGuard(t *testing.T) {
	for _, terminal := range []model.OrderStatus{model.OrderStatusCompleted, model.OrderStatusCancelled} {
		f := newAdminFixture()
		ctx := context.Background()

		f.tx.On("WithinTx", mock.Anything).Return(nil)
		f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: terminal}, nil)

		err := f.uc.UpdateStatus(ctx, 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "SHIPPING"})

		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Status)
		assert.Equal(t, "cannot change order in terminal status "+string(terminal), he.Message)
	}
}

// 同一ステータスへの遷移は拒否
func TestAdminUpdateStatus_SameStatus(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusConfirmed}, nil)

	err := f.uc.UpdateStatus(ctx, 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "CONFIRMED"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, "order is already in status CONFIRMED", he.Message)
}

// 未知のステータス名は400
func TestAdminUpdateStatus_UnknownStatus(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	err := f.uc.UpdateStatus(ctx, 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "DELIVERED"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "invalid status", he.Message)
}

// 拒否メッセージには許可されている遷移先の一覧が入る
func TestAdminUpdateStatus_DisallowedMessageListsTargets(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusShipping}, nil)

	err := f.uc.UpdateStatus(ctx, 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "PAID"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.True(t, strings.Contains(he.Message, "cannot change status from SHIPPING to PAID"))
	assert.True(t, strings.Contains(he.Message, "COMPLETED"))
}

// PAID遷移で支払いがPENDINGなら入金記録が付く
func TestAdminUpdateStatus_PaidStampsPayment(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID: 1, Status: model.OrderStatusPendingPayment, PaymentStatus: model.PaymentStatusPending,
	}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(1), mock.MatchedBy(func(upd repo.OrderStatusUpdate) bool {
		return upd.Status == model.OrderStatusPaid &&
			upd.PaymentStatus != nil && *upd.PaymentStatus == model.PaymentStatusSuccess &&
			upd.PaidAt != nil
	})).Return(nil)
	f.auditLogs.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := f.uc.UpdateStatus(ctx, 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "PAID"})

	assert.NoError(t, err)
}

// ステータス更新のたびに監査ログが書かれる
func TestAdminUpdateStatus_WritesAuditLog(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID: 7, Status: model.OrderStatusConfirmed, PaymentStatus: model.PaymentStatusSuccess,
	}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(7), mock.Anything).Return(nil)
	f.auditLogs.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 99 &&
			l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceID == 7 &&
			strings.Contains(l.BeforeJSON, "CONFIRMED") &&
			strings.Contains(l.AfterJSON, "SHIPPING")
	})).Return(nil)

	err := f.uc.UpdateStatus(ctx, 99, 7, usecase.AdminUpdateOrderStatusInput{Status: "SHIPPING"})

	assert.NoError(t, err)
	f.auditLogs.AssertExpectations(t)
}
