package repository

import (
	"context"
	"time"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// SumRevenue totals order amounts for a brand in [from, to). Cancelled and
// returned orders are excluded; soft-deleted rows are excluded by gorm.
func (r *OrderRepository) SumRevenue(ctx context.Context, brandID uuid.UUID, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("brand_id = ?", brandID).
		Where("order_date >= ? AND order_date < ?", from, to).
		Where("order_status NOT IN ?", []domain.OrderStatus{
			domain.OrderStatusCancelled, domain.OrderStatusReturned,
		}).
		Scan(&total).Error
	return total, err
}
