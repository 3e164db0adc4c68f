package catalog

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListActive(ctx context.Context) ([]Tour, error)
	GetByReference(ctx context.Context, reference string) (*Tour, error)
	Create(ctx context.Context, tour *Tour) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context) ([]Tour, error) {
	var tours []Tour
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&tours).Error
	if err != nil {
		return nil, err
	}
	return tours, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Tour, error) {
	var tour Tour
	err := r.db.WithContext(ctx).
		Preload("Options").
		Where("reference = ?", reference).
		First(&tour).Error
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *repository) Create(ctx context.Context, tour *Tour) error {
	return r.db.WithContext(ctx).Create(tour).Error
}
