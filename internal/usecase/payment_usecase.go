package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"app/internal/domain/model"
	"app/internal/payment/vnpay"
	repo "app/internal/repository"
)

// コールバック署名の検証だけを約束
type PaymentVerifier interface {
	VerifyReturn(params map[string]string) bool
	VerifyIPN(params map[string]string) bool
}

// IPNの応答コード（ゲートウェイ規約）
const (
	IPNCodeOK               = "00"
	IPNCodeOrderNotFound    = "01"
	IPNCodeAlreadyConfirmed = "02"
	IPNCodeInvalidSignature = "97"
	IPNCodeUnknownError     = "99"
)

type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

type PaymentUsecase struct {
	tx      repo.TransactionManager
	orders  repo.OrderRepository
	gateway PaymentVerifier

	// リダイレクト先のフロントURL
	frontendURL string
}

func NewPaymentUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	gateway PaymentVerifier,
	frontendURL string,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:          tx,
		orders:      orders,
		gateway:     gateway,
		frontendURL: frontendURL,
	}
}

// HandleReturn はブラウザリダイレクトのコールバックを処理し、
// フロントへのリダイレクトURLを返す。内部で何が起きても必ずURLを返す
// （外部から呼ばれるエンドポイントなので応答しないという選択肢は無い）。
func (u *PaymentUsecase) HandleReturn(ctx context.Context, params map[string]string) string {
	if !u.gateway.VerifyReturn(params) {
		return u.redirectURL(false, "invalid signature", params["vnp_TxnRef"])
	}

	orderCode := params["vnp_TxnRef"]
	order, err := u.orders.FindByOrderCode(ctx, orderCode)
	if errors.Is(err, repo.ErrNotFound) {
		return u.redirectURL(false, "order not found", orderCode)
	}
	if err != nil {
		slog.Error("payment return: order lookup failed", "order_code", orderCode, "error", err)
		return u.redirectURL(false, "system error", orderCode)
	}

	respCode := params["vnp_ResponseCode"]
	success := respCode == vnpay.SuccessCode

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		amount, err := vnpay.AmountFromGateway(params["vnp_Amount"])
		if err != nil {
			return err
		}

		status := model.TransactionStatusFailed
		if success {
			status = model.TransactionStatusSuccess
		}

		rawReq, _ := json.Marshal(params)
		rawResp, _ := json.Marshal(map[string]string{
			"code":    respCode,
			"message": vnpay.ResponseMessage(respCode),
		})

		if _, err := r.PaymentTransactions().Create(ctx, model.PaymentTransaction{
			OrderID:         order.ID,
			Provider:        vnpay.Provider,
			Amount:          amount,
			Status:          status,
			TransactionCode: params["vnp_TransactionNo"],
			Message:         vnpay.ResponseMessage(respCode),
			RawRequest:      string(rawReq),
			RawResponse:     string(rawResp),
		}); err != nil {
			return err
		}

		now := time.Now()
		if success {
			ps := model.PaymentStatusSuccess
			if err := r.Orders().UpdateStatus(ctx, order.ID, repo.OrderStatusUpdate{
				Status:        model.OrderStatusPaid,
				PaymentStatus: &ps,
				PaidAt:        &now,
			}); err != nil {
				return err
			}

			// ゲートウェイ決済はここでカートを消費する
			cart, err := r.Carts().FindActiveByUserID(ctx, order.UserID)
			if err == nil {
				if err := r.Carts().Clear(ctx, cart.ID); err != nil {
					return err
				}
				if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
					return err
				}
			} else if !errors.Is(err, repo.ErrNotFound) {
				return err
			}
			return nil
		}

		ps := model.PaymentStatusFailed
		return r.Orders().UpdateStatus(ctx, order.ID, repo.OrderStatusUpdate{
			Status:        model.OrderStatusPaymentFailed,
			PaymentStatus: &ps,
		})
	})
	if err != nil {
		slog.Error("payment return: reconcile failed", "order_code", orderCode, "error", err)
		return u.redirectURL(false, "system error", orderCode)
	}

	if success {
		return u.redirectURL(true, vnpay.ResponseMessage(respCode), orderCode)
	}
	return u.redirectURL(false, vnpay.ResponseMessage(respCode), orderCode)
}

// HandleIPN はサーバー間通知に応答コードを返す。
// このシステムでは受領確認のみで注文状態は変えない（確定はブラウザリターン側）。
func (u *PaymentUsecase) HandleIPN(ctx context.Context, params map[string]string) IPNResponse {
	if !u.gateway.VerifyIPN(params) {
		return IPNResponse{RspCode: IPNCodeInvalidSignature, Message: "Invalid signature"}
	}

	order, err := u.orders.FindByOrderCode(ctx, params["vnp_TxnRef"])
	if errors.Is(err, repo.ErrNotFound) {
		return IPNResponse{RspCode: IPNCodeOrderNotFound, Message: "Order not found"}
	}
	if err != nil {
		slog.Error("payment ipn: order lookup failed", "error", err)
		return IPNResponse{RspCode: IPNCodeUnknownError, Message: "Unknown error"}
	}

	// 重複通知ガード
	if order.PaymentStatus == model.PaymentStatusSuccess {
		return IPNResponse{RspCode: IPNCodeAlreadyConfirmed, Message: "Order already confirmed"}
	}

	return IPNResponse{RspCode: IPNCodeOK, Message: "Confirm success"}
}

func (u *PaymentUsecase) redirectURL(success bool, message string, orderCode string) string {
	q := url.Values{}
	if success {
		q.Set("status", "success")
	} else {
		q.Set("status", "failed")
	}
	q.Set("message", message)
	if orderCode != "" {
		q.Set("orderCode", orderCode)
	}
	return u.frontendURL + "/payment/result?" + q.Encode()
}
