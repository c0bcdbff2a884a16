package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"strconv"
	"time"
)

const (
	Provider = "vnpay"

	version   = "2.1.0"
	command   = "pay"
	locale    = "vn"
	currency  = "VND"
	orderType = "other"

	// ゲートウェイ側の成功コード
	SuccessCode = "00"

	// 支払いリンクの有効時間
	payExpire = 15 * time.Minute

	hashParam     = "vnp_SecureHash"
	hashTypeParam = "vnp_SecureHashType"
)

// マーチャントコードまたはシークレット未設定
var ErrNotConfigured = errors.New("vnpay is not configured")

type Config struct {
	PayURL     string
	TmnCode    string
	HashSecret string
	ReturnURL  string
}

// 決済ゲートウェイアダプタ。リダイレクトURLの構築とコールバック署名の検証を行う。
// 外部へのHTTP呼び出しはしない（URLはローカルで署名して組み立てるだけ）。
type Gateway struct {
	cfg Config

	// テストで時刻を固定できるように差し替え可能にしておく
	Now func() time.Time
}

func New(cfg Config) *Gateway {
	return &Gateway{cfg: cfg, Now: time.Now}
}

type PaymentRequest struct {
	OrderCode string
	// VND（整数）。送信時に×100の最小単位へ変換する。
	Amount    int64
	OrderInfo string
	IPAddr    string
}

// BuildPaymentURL は署名付きのリダイレクトURLを組み立てる。
// パラメータ名順にソート→クエリエンコード（スペースは+）→HMAC-SHA512署名を付与。
func (g *Gateway) BuildPaymentURL(req PaymentRequest) (string, error) {
	if g.cfg.TmnCode == "" || g.cfg.HashSecret == "" {
		return "", ErrNotConfigured
	}

	now := g.Now()

	params := url.Values{}
	params.Set("vnp_Version", version)
	params.Set("vnp_Command", command)
	params.Set("vnp_TmnCode", g.cfg.TmnCode)
	params.Set("vnp_Locale", locale)
	params.Set("vnp_CurrCode", currency)
	params.Set("vnp_TxnRef", req.OrderCode)
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", orderType)
	params.Set("vnp_Amount", strconv.FormatInt(req.Amount*100, 10))
	params.Set("vnp_ReturnUrl", g.cfg.ReturnURL)
	params.Set("vnp_IpAddr", req.IPAddr)
	params.Set("vnp_CreateDate", now.Format("20060102150405"))
	params.Set("vnp_ExpireDate", now.Add(payExpire).Format("20060102150405"))

	// Encode はキー順ソート＋スペースを+にする。署名対象はこの文字列そのもの。
	data := params.Encode()
	signed := g.sign(data)

	return g.cfg.PayURL + "?" + data + "&" + hashParam + "=" + signed, nil
}

// VerifyReturn はブラウザリダイレクトのコールバック署名を検証する。
func (g *Gateway) VerifyReturn(params map[string]string) bool {
	return g.verify(params)
}

// VerifyIPN はサーバー間通知の署名を検証する。手順はVerifyReturnと同一。
func (g *Gateway) VerifyIPN(params map[string]string) bool {
	return g.verify(params)
}

func (g *Gateway) verify(params map[string]string) bool {
	if g.cfg.HashSecret == "" {
		return false
	}

	got, ok := params[hashParam]
	if !ok || got == "" {
		return false
	}

	// 署名フィールドを除いた残りを同じ手順で署名し直して比較
	values := url.Values{}
	for k, v := range params {
		if k == hashParam || k == hashTypeParam {
			continue
		}
		values.Set(k, v)
	}

	want := g.sign(values.Encode())
	return hmac.Equal([]byte(want), []byte(got))
}

func (g *Gateway) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(g.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// ゲートウェイからの金額（最小単位）をVNDに戻す。
func AmountFromGateway(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

// レスポンスコード→ユーザー向けメッセージ。未知のコードは汎用文言。
var responseMessages = map[string]string{
	"00": "Giao dịch thành công",
	"07": "Trừ tiền thành công, giao dịch bị nghi ngờ gian lận",
	"09": "Thẻ/Tài khoản chưa đăng ký dịch vụ InternetBanking",
	"10": "Xác thực thông tin thẻ/tài khoản không đúng quá 3 lần",
	"11": "Đã hết hạn chờ thanh toán",
	"12": "Thẻ/Tài khoản bị khóa",
	"13": "Nhập sai mật khẩu xác thực giao dịch (OTP)",
	"24": "Khách hàng hủy giao dịch",
	"51": "Tài khoản không đủ số dư để thực hiện giao dịch",
	"65": "Tài khoản đã vượt quá hạn mức giao dịch trong ngày",
	"75": "Ngân hàng thanh toán đang bảo trì",
	"79": "Nhập sai mật khẩu thanh toán quá số lần quy định",
}

func ResponseMessage(code string) string {
	if msg, ok := responseMessages[code]; ok {
		return msg
	}
	return "Giao dịch không thành công"
}
