package main

import (
	"log/slog"
	"os"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/payment/vnpay"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	gormDB, err := db.Connect(cfg.DSN())
	if err != nil {
		slog.Error("db connect failed", "error", err)
		os.Exit(1)
	}

	// スキーマはAutoMigrateで作る
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentTransaction{},
		&model.AuditLog{},
		&model.Province{},
		&model.District{},
		&model.Ward{},
	); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}

	// repository
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	variantRepo := infraRepo.NewCatalogGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	locationRepo := infraRepo.NewLocationGormRepository(gormDB)
	txnRepo := infraRepo.NewPaymentTransactionGormRepository(gormDB)

	// payment gateway
	gateway := vnpay.New(vnpay.Config{
		PayURL:     cfg.VNPPayURL,
		TmnCode:    cfg.VNPTmnCode,
		HashSecret: cfg.VNPHashSecret,
		ReturnURL:  cfg.VNPReturnURL,
	})

	// usecase
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, validator.NewAuthValidator(userRepo))
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, variantRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(
		txManager, cartRepo, cartRepo, variantRepo, productRepo,
		orderRepo, locationRepo, gateway, cfg.ShippingFee,
	)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, txnRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)
	paymentUC := usecase.NewPaymentUsecase(txManager, orderRepo, gateway, cfg.FEURL)

	// handler
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowCredentials: true,
	}))

	handler.NewAuthHandler(authUC, cfg).RegisterRoutes(e, cfg)
	handler.NewCartHandler(cartUC).RegisterRoutes(e, cfg)
	handler.NewOrderHandler(checkoutUC, orderUC).RegisterRoutes(e, cfg)
	handler.NewAdminOrderHandler(adminOrderUC).RegisterRoutes(e, cfg)
	handler.NewPaymentHandler(paymentUC).RegisterRoutes(e)

	slog.Info("server starting", "port", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
