package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testGateway() *Gateway {
	g := New(Config{
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		TmnCode:    "DEMOV210",
		HashSecret: "RAOEXHYVSDDIIENYWSLDIIZTANXUXZFJ",
		ReturnURL:  "http://localhost:8080/payment/vnpay-return",
	})
	// 時刻固定
	g.Now = func() time.Time {
		return time.Date(2026, 8, 31, 10, 30, 0, 0, time.Local)
	}
	return g
}

func TestBuildPaymentURL_Params(t *testing.T) {
	g := testGateway()

	raw, err := g.BuildPaymentURL(PaymentRequest{
		OrderCode: "ORD-2026-007",
		Amount:    530000,
		OrderInfo: "Thanh toan don hang ORD-2026-007",
		IPAddr:    "203.0.113.7",
	})

	assert.NoError(t, err)

	u, err := url.Parse(raw)
	assert.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "2.1.0", q.Get("vnp_Version"))
	assert.Equal(t, "pay", q.Get("vnp_Command"))
	assert.Equal(t, "DEMOV210", q.Get("vnp_TmnCode"))
	assert.Equal(t, "VND", q.Get("vnp_CurrCode"))
	assert.Equal(t, "ORD-2026-007", q.Get("vnp_TxnRef"))
	// ×100の最小単位で送る
	assert.Equal(t, "53000000", q.Get("vnp_Amount"))
	assert.Equal(t, "20260831103000", q.Get("vnp_CreateDate"))
	// 期限は15分後
	assert.Equal(t, "20260831104500", q.Get("vnp_ExpireDate"))
	assert.NotEmpty(t, q.Get("vnp_SecureHash"))
}

// 自分で作ったURLの署名は自分の検証を通る
func TestBuildPaymentURL_SignatureRoundTrip(t *testing.T) {
	g := testGateway()

	raw, err := g.BuildPaymentURL(PaymentRequest{
		OrderCode: "ORD-2026-007",
		Amount:    530000,
		OrderInfo: "Thanh toan don hang ORD-2026-007",
		IPAddr:    "203.0.113.7",
	})
	assert.NoError(t, err)

	u, _ := url.Parse(raw)
	params := map[string]string{}
	for k, v := range u.Query() {
		params[k] = v[0]
	}

	assert.True(t, g.VerifyReturn(params))
}

// パラメータを1つでも改ざんすると検証は落ちる
func TestVerifyReturn_TamperedParam(t *testing.T) {
	g := testGateway()

	values := url.Values{}
	values.Set("vnp_TxnRef", "ORD-2026-007")
	values.Set("vnp_ResponseCode", "00")
	values.Set("vnp_Amount", "53000000")

	mac := hmac.New(sha512.New, []byte("RAOEXHYVSDDIIENYWSLDIIZTANXUXZFJ"))
	mac.Write([]byte(values.Encode()))
	sig := hex.EncodeToString(mac.Sum(nil))

	params := map[string]string{
		"vnp_TxnRef":       "ORD-2026-007",
		"vnp_ResponseCode": "00",
		"vnp_Amount":       "53000000",
		"vnp_SecureHash":   sig,
	}
	assert.True(t, g.VerifyReturn(params))

	// 金額をすり替え
	params["vnp_Amount"] = "100"
	assert.False(t, g.VerifyReturn(params))
}

// vnp_SecureHashTypeは署名対象から除外される
func TestVerifyReturn_IgnoresHashType(t *testing.T) {
	g := testGateway()

	values := url.Values{}
	values.Set("vnp_TxnRef", "ORD-2026-007")
	values.Set("vnp_ResponseCode", "00")

	mac := hmac.New(sha512.New, []byte("RAOEXHYVSDDIIENYWSLDIIZTANXUXZFJ"))
	mac.Write([]byte(values.Encode()))

	params := map[string]string{
		"vnp_TxnRef":         "ORD-2026-007",
		"vnp_ResponseCode":   "00",
		"vnp_SecureHashType": "HmacSHA512",
		"vnp_SecureHash":     hex.EncodeToString(mac.Sum(nil)),
	}

	assert.True(t, g.VerifyReturn(params))
}

func TestVerifyReturn_MissingHash(t *testing.T) {
	g := testGateway()

	assert.False(t, g.VerifyReturn(map[string]string{
		"vnp_TxnRef": "ORD-2026-007",
	}))
}

func TestBuildPaymentURL_NotConfigured(t *testing.T) {
	g := New(Config{PayURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"})

	_, err := g.BuildPaymentURL(PaymentRequest{OrderCode: "ORD-2026-001", Amount: 1000})

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAmountFromGateway(t *testing.T) {
	v, err := AmountFromGateway("53000000")
	assert.NoError(t, err)
	assert.Equal(t, int64(530000), v)

	_, err = AmountFromGateway("abc")
	assert.Error(t, err)
}

func TestResponseMessage(t *testing.T) {
	assert.Equal(t, "Giao dịch thành công", ResponseMessage("00"))
	assert.Equal(t, "Khách hàng hủy giao dịch", ResponseMessage("24"))
	// 未知コードは汎用文言
	assert.Equal(t, "Giao dịch không thành công", ResponseMessage("42"))
}
