package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string `env:"PORT" envDefault:"8080"`
	GoEnv string `env:"GO_ENV" envDefault:"dev"`

	// DATABASE_URLがあればDSNとして最優先で使う
	DatabaseURL string `env:"DATABASE_URL"`

	MySQLUser     string `env:"MYSQL_USER" envDefault:"root"`
	MySQLPassword string `env:"MYSQL_PASSWORD" envDefault:"root"`
	MySQLDB       string `env:"MYSQL_DB" envDefault:"app"`
	MySQLHost     string `env:"MYSQL_HOST" envDefault:"localhost"`
	MySQLPort     int    `env:"MYSQL_PORT" envDefault:"3306"`

	JWTSecret string `env:"JWT_SECRET"`

	// フロントURL（決済結果リダイレクト・CORSで使う）
	FEURL string `env:"FE_URL" envDefault:"http://localhost:3000"`

	// 送料（VND・固定）
	ShippingFee int64 `env:"SHIPPING_FEE" envDefault:"30000"`

	// VNPayサンドボックス設定。未設定ならVNPay決済は使えない（CODのみ）。
	VNPPayURL     string `env:"VNP_PAY_URL" envDefault:"https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"`
	VNPTmnCode    string `env:"VNP_TMN_CODE"`
	VNPHashSecret string `env:"VNP_HASH_SECRET"`
	VNPReturnURL  string `env:"VNP_RETURN_URL"`
}

// Loadは.envと環境変数から設定を読み込む
func Load() (Config, error) {
	// .envはあれば読む（無くてもよい）
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// DSNはgorm/mysql用の接続文字列を返す
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDB,
	)
}
