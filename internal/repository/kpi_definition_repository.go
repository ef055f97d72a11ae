package repository

import (
	"context"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KpiDefinitionRepository struct {
	db *gorm.DB
}

func NewKpiDefinitionRepository(db *gorm.DB) *KpiDefinitionRepository {
	return &KpiDefinitionRepository{db: db}
}

func (r *KpiDefinitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.KpiDefinition, error) {
	var def domain.KpiDefinition
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyTenantFilter(ctx, query)
	err := query.First(&def).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *KpiDefinitionRepository) GetBySlug(ctx context.Context, slug domain.KpiSlug) (*domain.KpiDefinition, error) {
	var def domain.KpiDefinition
	query := r.db.WithContext(ctx).Where("slug = ?", slug)
	query = ApplyTenantFilter(ctx, query)
	err := query.First(&def).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// kpiDefinitionSortFields whitelists the API sort fields for the catalog
// listing against their columns.
var kpiDefinitionSortFields = map[string]string{
	"slug":         "slug",
	"label":        "label",
	"displayOrder": "display_order",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}

// List returns the tenant's full catalog, sorted per the given config with
// slug as a stable tiebreaker.
func (r *KpiDefinitionRepository) List(ctx context.Context, sort SortConfig) ([]domain.KpiDefinition, error) {
	var defs []domain.KpiDefinition
	query := r.db.WithContext(ctx).Model(&domain.KpiDefinition{})
	query = ApplyTenantFilter(ctx, query)
	order := BuildOrderClause(sort, kpiDefinitionSortFields, "display_order")
	err := query.Order(order).Order("slug ASC").Find(&defs).Error
	return defs, err
}

// ListActiveBySlugs returns the active definitions matching the given slugs.
// Order is not significant; callers re-order by the brand's selection.
func (r *KpiDefinitionRepository) ListActiveBySlugs(ctx context.Context, slugs []domain.KpiSlug) ([]domain.KpiDefinition, error) {
	if len(slugs) == 0 {
		return []domain.KpiDefinition{}, nil
	}

	var defs []domain.KpiDefinition
	query := r.db.WithContext(ctx).
		Where("slug IN ?", slugs).
		Where("is_active = ?", true)
	query = ApplyTenantFilter(ctx, query)
	err := query.Find(&defs).Error
	return defs, err
}

func (r *KpiDefinitionRepository) Create(ctx context.Context, def *domain.KpiDefinition) error {
	return r.db.WithContext(ctx).Create(def).Error
}

func (r *KpiDefinitionRepository) Update(ctx context.Context, def *domain.KpiDefinition) error {
	return r.db.WithContext(ctx).Save(def).Error
}
