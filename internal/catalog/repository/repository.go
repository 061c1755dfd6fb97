package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kh199/add-product-to-order/internal/catalog/domain"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Nomenclature{},
		&domain.Category{},
		&domain.ProductCategory{},
	)
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Nomenclature) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Nomenclature, error) {
	var product domain.Nomenclature
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Nomenclature, error) {
	var products []domain.Nomenclature
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&products).Error
	return products, err
}

func (r *GormProductRepository) FindByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]domain.Nomenclature, error) {
	var products []domain.Nomenclature
	err := r.db.WithContext(ctx).
		Joins("JOIN product_category pc ON pc.nomenclature_id = nomenclature.id").
		Where("pc.category_id = ?", categoryID).
		Limit(limit).Offset(offset).
		Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Nomenclature{}).Count(&count).Error
	return count, err
}
