package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/mapper"
	"github.com/fermx3/companeros-en-ruta-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BrandSettingsService manages the brand's dashboard KPI selection
type BrandSettingsService struct {
	brandRepo      *repository.BrandRepository
	definitionRepo *repository.KpiDefinitionRepository
	logger         *zap.Logger
}

func NewBrandSettingsService(
	brandRepo *repository.BrandRepository,
	definitionRepo *repository.KpiDefinitionRepository,
	logger *zap.Logger,
) *BrandSettingsService {
	return &BrandSettingsService{
		brandRepo:      brandRepo,
		definitionRepo: definitionRepo,
		logger:         logger,
	}
}

func (s *BrandSettingsService) GetSettings(ctx context.Context, brandID uuid.UUID) (*domain.BrandSettingsDTO, error) {
	brand, err := s.brandRepo.GetByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to load brand: %w", err)
	}

	dto := mapper.ToBrandSettingsDTO(brand)
	return &dto, nil
}

// UpdateDashboardMetrics replaces the brand's ordered KPI selection. Every
// slug must name an active definition in the tenant catalog; duplicates
// are rejected; at most MaxDashboardMetrics slugs.
func (s *BrandSettingsService) UpdateDashboardMetrics(ctx context.Context, brandID uuid.UUID, slugs []string) (*domain.BrandSettingsDTO, error) {
	if len(slugs) > domain.MaxDashboardMetrics {
		return nil, ErrTooManyMetrics
	}

	seen := make(map[string]struct{}, len(slugs))
	kpiSlugs := make([]domain.KpiSlug, 0, len(slugs))
	for _, raw := range slugs {
		if _, dup := seen[raw]; dup {
			return nil, fmt.Errorf("%w: duplicate slug %q", ErrInvalidInput, raw)
		}
		seen[raw] = struct{}{}
		kpiSlugs = append(kpiSlugs, domain.KpiSlug(raw))
	}

	if len(kpiSlugs) > 0 {
		defs, err := s.definitionRepo.ListActiveBySlugs(ctx, kpiSlugs)
		if err != nil {
			return nil, fmt.Errorf("failed to load kpi definitions: %w", err)
		}
		active := make(map[domain.KpiSlug]struct{}, len(defs))
		for _, d := range defs {
			active[d.Slug] = struct{}{}
		}
		for _, slug := range kpiSlugs {
			if _, ok := active[slug]; !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownKpiSlug, slug)
			}
		}
	}

	if err := s.brandRepo.UpdateDashboardMetrics(ctx, brandID, slugs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to update dashboard metrics: %w", err)
	}

	s.logger.Info("dashboard metrics updated",
		zap.String("brand_id", brandID.String()),
		zap.Strings("slugs", slugs),
	)

	return s.GetSettings(ctx, brandID)
}
