package repository

import (
	"context"
	"time"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VisitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

// CountDistinctClientsVisited counts distinct clients with at least one
// visit for the brand in [from, to).
func (r *VisitRepository) CountDistinctClientsVisited(ctx context.Context, brandID uuid.UUID, from, to time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Visit{}).
		Where("brand_id = ?", brandID).
		Where("visit_date >= ? AND visit_date < ?", from, to).
		Distinct("client_id").
		Count(&count).Error
	return int(count), err
}
