package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 決済ゲートウェイからのコールバックを受けるハンドラ。認証は掛けない
// （呼び出し元はゲートウェイ/決済後のブラウザで、正当性は署名で検証する）。
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/payment/vnpay-return", h.vnpayReturn)
	e.GET("/payment/vnpay-ipn", h.vnpayIPN)
}

// ブラウザリダイレクト。注文を確定してフロントの結果画面へ302で返す。
func (h *PaymentHandler) vnpayReturn(c echo.Context) error {
	redirect := h.uc.HandleReturn(c.Request().Context(), queryParams(c))
	return c.Redirect(http.StatusFound, redirect)
}

// サーバー間通知。状態は変えず受信確認コードだけ返す。
func (h *PaymentHandler) vnpayIPN(c echo.Context) error {
	resp := h.uc.HandleIPN(c.Request().Context(), queryParams(c))
	return c.JSON(http.StatusOK, resp)
}

// クエリ全体をmapへ写す（署名検証はvnp_全paramが必要）
func queryParams(c echo.Context) map[string]string {
	params := map[string]string{}
	for k, v := range c.QueryParams() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}
