package repository

import (
	"context"
	"time"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type BrandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	var brand domain.Brand
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyTenantFilter(ctx, query)
	err := query.First(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *BrandRepository) List(ctx context.Context, page, pageSize int) ([]domain.Brand, int64, error) {
	var brands []domain.Brand
	var total int64

	if page < 1 {
		page = 1
	}
	pageSize = ClampPageSize(pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Brand{})
	query = ApplyTenantFilter(ctx, query)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&brands).Error

	return brands, total, err
}

// UpdateDashboardMetrics replaces the brand's ordered KPI selection and
// stamps dashboard_metrics_updated_at.
func (r *BrandRepository) UpdateDashboardMetrics(ctx context.Context, id uuid.UUID, slugs []string) error {
	now := time.Now().UTC()
	query := r.db.WithContext(ctx).Model(&domain.Brand{}).Where("id = ?", id)
	query = ApplyTenantFilter(ctx, query)
	result := query.Updates(map[string]interface{}{
		"dashboard_metrics":            pq.StringArray(slugs),
		"dashboard_metrics_updated_at": now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
