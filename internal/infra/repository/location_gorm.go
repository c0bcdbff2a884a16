package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type LocationGormRepository struct {
	db *gorm.DB
}

func NewLocationGormRepository(db *gorm.DB) *LocationGormRepository {
	return &LocationGormRepository{db: db}
}

// 3つとも引けたときだけ成功。1つでも欠ければ ErrNotFound。
func (r *LocationGormRepository) ResolveNames(ctx context.Context, provinceCode, districtCode, wardCode int64) (repo.LocationNames, error) {
	var p model.Province
	if err := r.db.WithContext(ctx).Where("code = ?", provinceCode).First(&p).Error; err != nil {
		return repo.LocationNames{}, asNotFound(err)
	}

	var d model.District
	if err := r.db.WithContext(ctx).Where("code = ?", districtCode).First(&d).Error; err != nil {
		return repo.LocationNames{}, asNotFound(err)
	}

	var w model.Ward
	if err := r.db.WithContext(ctx).Where("code = ?", wardCode).First(&w).Error; err != nil {
		return repo.LocationNames{}, asNotFound(err)
	}

	return repo.LocationNames{
		Province: p.Name,
		District: d.Name,
		Ward:     w.Name,
	}, nil
}

func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	return err
}
