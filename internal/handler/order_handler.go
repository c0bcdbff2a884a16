package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	checkoutUC *usecase.CheckoutUsecase
	orderUC    *usecase.OrderUsecase
}

func NewOrderHandler(checkoutUC *usecase.CheckoutUsecase, orderUC *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{checkoutUC: checkoutUC, orderUC: orderUC}
}

type CheckoutRequest struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	ProvinceCode  int64  `json:"province_code"`
	DistrictCode  int64  `json:"district_code"`
	WardCode      int64  `json:"ward_code"`
	Note          string `json:"note"`
	PaymentMethod string `json:"payment_method"`
	ShippingFee   *int64 `json:"shipping_fee"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/checkout", h.checkout)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.PUT("/:id/cancel", h.cancel)
	g.PUT("/:id/confirm-received", h.confirmReceived)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.checkoutUC.Checkout(c.Request().Context(), userID, usecase.CheckoutInput{
		FullName:      req.FullName,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		ProvinceCode:  req.ProvinceCode,
		DistrictCode:  req.DistrictCode,
		WardCode:      req.WardCode,
		Note:          req.Note,
		PaymentMethod: req.PaymentMethod,
		ShippingFee:   req.ShippingFee,
		IPAddr:        clientIP(c),
	})
	if err != nil {
		return writeError(c, err)
	}

	return okMessage(c, "order created", out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	f := listFilterFromQuery(c)

	out, err := h.orderUC.ListMyOrders(c.Request().Context(), userID, f)
	if err != nil {
		return writeError(c, err)
	}

	return okPaginated(c, out.Items, newPagination(out.Page, out.Limit, out.Total))
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.orderUC.GetMyOrderDetail(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.orderUC.CancelOrder(c.Request().Context(), userID, orderID); err != nil {
		return writeError(c, err)
	}

	return okMessage(c, "order cancelled", nil)
}

func (h *OrderHandler) confirmReceived(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.orderUC.ConfirmReceived(c.Request().Context(), userID, orderID); err != nil {
		return writeError(c, err)
	}

	return okMessage(c, "order completed", nil)
}

// 一覧系のクエリパラメータを読み取る（page/limit/status/q/from/to）
func listFilterFromQuery(c echo.Context) repository.OrderListFilter {
	page, limit := parsePageLimit(c)

	f := repository.OrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		Q:      c.QueryParam("q"),
	}

	if s := c.QueryParam("from"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			f.From = &t
		}
	}
	if s := c.QueryParam("to"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			// toは当日を含める（翌日0時を上限にする）
			end := t.AddDate(0, 0, 1)
			f.To = &end
		}
	}

	return f
}
