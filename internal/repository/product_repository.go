package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 商品の取得だけを約束。
// 注文履歴の表示用にソフトデリート済みも引けるようにする。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
}

// バリアント（SKU）の取得。価格・在庫の現在値はここから読む。
type VariantRepository interface {
	// ソフトデリート済みの行も返す。削除済みかは DeletedAt で判定する。
	FindByID(ctx context.Context, id int64) (model.ProductVariant, error)
}
