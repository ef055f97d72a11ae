package repository

import (
	"context"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// CountAssessable counts active assessable products for the brand, the
// assortment denominator.
func (r *ProductRepository) CountAssessable(ctx context.Context, brandID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("brand_id = ? AND is_active = ? AND assessable = ?", brandID, true, true).
		Count(&count).Error
	return int(count), err
}
