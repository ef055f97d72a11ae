package repository

import (
	"context"
	"time"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KpiTargetRepository struct {
	db *gorm.DB
}

func NewKpiTargetRepository(db *gorm.DB) *KpiTargetRepository {
	return &KpiTargetRepository{db: db}
}

// ListForMonth returns all targets (brand-wide and zone-scoped) for a brand
// and period, ordered for management display.
func (r *KpiTargetRepository) ListForMonth(ctx context.Context, brandID uuid.UUID, periodStart time.Time) ([]domain.KpiTarget, error) {
	var targets []domain.KpiTarget
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND period_type = ? AND period_start = ?",
			brandID, domain.KpiPeriodMonthly, periodStart).
		Order("kpi_slug ASC, zone_id ASC NULLS FIRST").
		Find(&targets).Error
	return targets, err
}

// MapBrandWideForMonth fetches the brand-wide targets for all given slugs in
// one query and returns them keyed by slug. Zone-scoped targets are excluded;
// only brand-wide targets feed achievement.
func (r *KpiTargetRepository) MapBrandWideForMonth(ctx context.Context, brandID uuid.UUID, slugs []domain.KpiSlug, periodStart time.Time) (map[domain.KpiSlug]float64, error) {
	result := make(map[domain.KpiSlug]float64, len(slugs))
	if len(slugs) == 0 {
		return result, nil
	}

	var targets []domain.KpiTarget
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND period_type = ? AND period_start = ? AND zone_id IS NULL",
			brandID, domain.KpiPeriodMonthly, periodStart).
		Where("kpi_slug IN ?", slugs).
		Find(&targets).Error
	if err != nil {
		return nil, err
	}

	for _, t := range targets {
		result[t.KpiSlug] = t.TargetValue
	}
	return result, nil
}

// Upsert creates or replaces the target for (brand, slug, period, zone)
func (r *KpiTargetRepository) Upsert(ctx context.Context, target *domain.KpiTarget) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "brand_id"}, {Name: "kpi_slug"},
			{Name: "period_type"}, {Name: "period_start"}, {Name: "zone_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"target_value", "updated_at"}),
	}).Create(target).Error
}

// Delete soft-deletes a target
func (r *KpiTargetRepository) Delete(ctx context.Context, brandID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND brand_id = ?", id, brandID).
		Delete(&domain.KpiTarget{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
