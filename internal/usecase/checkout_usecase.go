package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/payment/vnpay"
	repo "app/internal/repository"
)

// 送信方向だけを約束（URLはローカルで署名して組み立てるだけで外部HTTPは無い）
type PaymentURLBuilder interface {
	BuildPaymentURL(req vnpay.PaymentRequest) (string, error)
}

type CheckoutUsecase struct {
	tx        repo.TransactionManager
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	variants  repo.VariantRepository
	products  repo.ProductRepository
	orders    repo.OrderRepository
	locations repo.LocationRepository
	gateway   PaymentURLBuilder

	// 入力で上書きされない場合の送料
	defaultShippingFee int64
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	carts repo.CartRepository,
	cartItems repo.CartItemRepository,
	variants repo.VariantRepository,
	products repo.ProductRepository,
	orders repo.OrderRepository,
	locations repo.LocationRepository,
	gateway PaymentURLBuilder,
	defaultShippingFee int64,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:                 tx,
		carts:              carts,
		cartItems:          cartItems,
		variants:           variants,
		products:           products,
		orders:             orders,
		locations:          locations,
		gateway:            gateway,
		defaultShippingFee: defaultShippingFee,
	}
}

type CheckoutInput struct {
	FullName     string
	Phone        string
	Email        string
	Address      string
	ProvinceCode int64
	DistrictCode int64
	WardCode     int64
	Note         string
	// "cod" | "vnpay"（その他はCODにフォールバック）
	PaymentMethod string
	ShippingFee   *int64
	// vnpayのときだけ使う。境界層がプロキシヘッダから抽出した呼び出し元IP。
	IPAddr string
}

type CheckoutOutput struct {
	Order      OrderOutput `json:"order"`
	PaymentURL string      `json:"payment_url,omitempty"`
}

// Checkout はカートを検証して注文を1トランザクションで確定する。
// 金額は必ずサーバー側でバリアントの現在価格から計算し直す。
func (u *CheckoutUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "full_name is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "phone is required")
	}
	if strings.TrimSpace(in.Address) == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "address is required")
	}

	// ACTIVEカート取得
	cart, err := u.carts.FindActiveByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines, err := u.cartItems.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(lines) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	// 地名解決。1つでも引けなければ即失敗（部分的な住所は作らない）
	loc, err := u.locations.ResolveNames(ctx, in.ProvinceCode, in.DistrictCode, in.WardCode)
	if errors.Is(err, repo.ErrNotFound) {
		return CheckoutOutput{}, NewHTTPError(http.StatusNotFound, "location not found")
	}
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// カート行をライブの価格・在庫で検証してスナップショットを作る。
	// 在庫はチェックするだけで引き当てはしない。
	orderItems := make([]model.OrderItem, 0, len(lines))
	var itemsTotal int64 = 0

	for _, line := range lines {
		v, err := u.variants.FindByID(ctx, line.VariantID)
		if errors.Is(err, repo.ErrNotFound) {
			return CheckoutOutput{}, NewHTTPError(http.StatusNotFound, "product variant not found")
		}
		if err != nil {
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if v.DeletedAt.Valid || !v.IsActive {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("variant %s is no longer available", v.SKU))
		}
		if line.Quantity > v.Stock {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("insufficient stock for %s: available %d, requested %d", v.SKU, v.Stock, line.Quantity))
		}

		p, err := u.products.FindByID(ctx, v.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return CheckoutOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		subtotal := v.Price * line.Quantity
		itemsTotal += subtotal

		orderItems = append(orderItems, model.OrderItem{
			VariantID:          v.ID,
			ProductName:        p.Name,
			SKUSnapshot:        v.SKU,
			ProductDescription: p.Description,
			UnitPrice:          v.Price,
			Quantity:           line.Quantity,
			Subtotal:           subtotal,
		})
	}

	shippingFee := u.defaultShippingFee
	if in.ShippingFee != nil {
		shippingFee = *in.ShippingFee
	}
	totalAmount := itemsTotal + shippingFee

	now := time.Now()
	orderCode, err := u.nextOrderCode(ctx, now)
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	method, status := resolvePaymentMethod(in.PaymentMethod)

	order := model.Order{
		OrderCode:        orderCode,
		UserID:           userID,
		ShippingName:     strings.TrimSpace(in.FullName),
		ShippingPhone:    strings.TrimSpace(in.Phone),
		ShippingEmail:    strings.TrimSpace(in.Email),
		ShippingAddress:  strings.TrimSpace(in.Address),
		ShippingProvince: loc.Province,
		ShippingDistrict: loc.District,
		ShippingWard:     loc.Ward,
		Note:             in.Note,
		ItemsTotal:       itemsTotal,
		ShippingFee:      shippingFee,
		TotalAmount:      totalAmount,
		PaymentMethod:    method,
		PaymentStatus:    model.PaymentStatusPending,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// 注文＋明細は1トランザクション。途中で失敗したら全部ロールバック。
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.ID = orderID

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// CODは外部決済ステップが無いのでカートはここで消費する
		// （明細を空にしてCHECKED_OUTへ。次のGETで新しいACTIVEが作られる）。
		// vnpayは決済成功コールバックまでカートを残す。
		if method == model.PaymentMethodCOD {
			if err := r.Carts().Clear(ctx, cart.ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		return nil
	})
	if err != nil {
		return CheckoutOutput{}, err
	}

	out := CheckoutOutput{Order: toOrderOutput(order, orderItems, nil)}

	if method == model.PaymentMethodVNPay {
		payURL, err := u.gateway.BuildPaymentURL(vnpay.PaymentRequest{
			OrderCode: order.OrderCode,
			Amount:    order.TotalAmount,
			OrderInfo: "Thanh toan don hang " + order.OrderCode,
			IPAddr:    in.IPAddr,
		})
		if err != nil {
			if errors.Is(err, vnpay.ErrNotConfigured) {
				return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "payment gateway is not configured")
			}
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "payment error")
		}
		out.PaymentURL = payURL
	}

	return out, nil
}

// "cod"→COD、"vnpay"→VNPAY_FAKE、それ以外はCOD扱い。
// 初期ステータスはCODなら確定、vnpayなら支払い待ち。
func resolvePaymentMethod(raw string) (model.PaymentMethod, model.OrderStatus) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "vnpay":
		return model.PaymentMethodVNPay, model.OrderStatusPendingPayment
	default:
		return model.PaymentMethodCOD, model.OrderStatusConfirmed
	}
}

// ORD-<年>-<3桁連番>。その年の最大コードを探して+1する。
// 同時チェックアウトでは同じ連番を計算しうる（order_codeのunique indexが最後の砦）。
func (u *CheckoutUsecase) nextOrderCode(ctx context.Context, now time.Time) (string, error) {
	prefix := fmt.Sprintf("ORD-%d-", now.Year())

	maxCode, found, err := u.orders.MaxOrderCodeWithPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	seq := 1
	if found {
		n, err := strconv.Atoi(strings.TrimPrefix(maxCode, prefix))
		if err == nil {
			seq = n + 1
		}
	}

	return fmt.Sprintf("%s%03d", prefix, seq), nil
}
