package repository

import "context"

type LocationNames struct {
	Province string
	District string
	Ward     string
}

// 省/郡/坊コードを表示名に解決する。1つでも引けなければ ErrNotFound。
type LocationRepository interface {
	ResolveNames(ctx context.Context, provinceCode, districtCode, wardCode int64) (LocationNames, error)
}
