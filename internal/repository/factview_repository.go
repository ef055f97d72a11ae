package repository

import (
	"context"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FactViewNames lists the materialized views read by the detail aggregator,
// in refresh order.
var FactViewNames = []string{
	"kpi_volume_facts",
	"kpi_reach_facts",
	"kpi_mix_facts",
	"kpi_assortment_facts",
	"kpi_market_share_facts",
	"kpi_shelf_facts",
}

// FactViewRepository reads the pre-aggregated KPI fact views on the primary
// database. Months are addressed as "YYYY-MM" strings, the views' period
// key.
type FactViewRepository struct {
	db *gorm.DB
}

func NewFactViewRepository(db *gorm.DB) *FactViewRepository {
	return &FactViewRepository{db: db}
}

func (r *FactViewRepository) VolumeFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.VolumeFact, error) {
	var rows []domain.VolumeFact
	err := r.db.WithContext(ctx).
		Table("kpi_volume_facts").
		Where("brand_id = ? AND period_month = ?", brandID, month).
		Scan(&rows).Error
	return rows, err
}

func (r *FactViewRepository) ReachFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.ReachFact, error) {
	var rows []domain.ReachFact
	err := r.db.WithContext(ctx).
		Table("kpi_reach_facts").
		Where("brand_id = ? AND period_month = ?", brandID, month).
		Scan(&rows).Error
	return rows, err
}

func (r *FactViewRepository) MixFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.MixFact, error) {
	var rows []domain.MixFact
	err := r.db.WithContext(ctx).
		Table("kpi_mix_facts").
		Where("brand_id = ? AND period_month = ?", brandID, month).
		Scan(&rows).Error
	return rows, err
}

func (r *FactViewRepository) AssortmentFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.AssortmentFact, error) {
	var rows []domain.AssortmentFact
	err := r.db.WithContext(ctx).
		Table("kpi_assortment_facts").
		Where("brand_id = ? AND period_month = ?", brandID, month).
		Scan(&rows).Error
	return rows, err
}

func (r *FactViewRepository) MarketShareFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.MarketShareFact, error) {
	var rows []domain.MarketShareFact
	err := r.db.WithContext(ctx).
		Table("kpi_market_share_facts").
		Where("brand_id = ? AND period_month = ?", brandID, month).
		Scan(&rows).Error
	return rows, err
}

func (r *FactViewRepository) ShelfFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.ShelfFact, error) {
	var rows []domain.ShelfFact
	err := r.db.WithContext(ctx).
		Table("kpi_shelf_facts").
		Where("brand_id = ? AND period_month = ?", brandID, month).
		Scan(&rows).Error
	return rows, err
}

// RefreshAll refreshes the materialized fact views one at a time.
// CONCURRENTLY keeps readers unblocked during the rebuild; the views carry
// the unique indexes it requires.
func (r *FactViewRepository) RefreshAll(ctx context.Context) error {
	for _, name := range FactViewNames {
		if err := r.db.WithContext(ctx).Exec("REFRESH MATERIALIZED VIEW CONCURRENTLY " + name).Error; err != nil {
			return err
		}
	}
	return nil
}

// Refresh refreshes a single materialized view by name
func (r *FactViewRepository) Refresh(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Exec("REFRESH MATERIALIZED VIEW CONCURRENTLY " + name).Error
}
