package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type PaymentTransactionGormRepository struct {
	db *gorm.DB
}

func NewPaymentTransactionGormRepository(db *gorm.DB) *PaymentTransactionGormRepository {
	return &PaymentTransactionGormRepository{db: db}
}

func (r *PaymentTransactionGormRepository) Create(ctx context.Context, t model.PaymentTransaction) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return 0, err
	}
	return t.ID, nil
}

func (r *PaymentTransactionGormRepository) FindLatestByOrderID(ctx context.Context, orderID int64) (model.PaymentTransaction, bool, error) {
	var t model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id desc").
		First(&t).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PaymentTransaction{}, false, nil
	}
	if err != nil {
		return model.PaymentTransaction{}, false, err
	}
	return t, true, nil
}
