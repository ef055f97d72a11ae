package mapper

import (
	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
)

// ToKpiDefinitionDTO converts KpiDefinition to KpiDefinitionDTO
func ToKpiDefinitionDTO(def *domain.KpiDefinition) domain.KpiDefinitionDTO {
	return domain.KpiDefinitionDTO{
		ID:              def.ID,
		Slug:            def.Slug,
		Label:           def.Label,
		Description:     def.Description,
		Icon:            def.Icon,
		Color:           def.Color,
		ComputationType: def.ComputationType,
		Unit:            def.Unit,
		IsActive:        def.IsActive,
		DisplayOrder:    def.DisplayOrder,
		UpdatedAt:       def.UpdatedAt,
	}
}

// ToKpiDefinitionDTOs converts a slice of KpiDefinition to DTOs
func ToKpiDefinitionDTOs(defs []domain.KpiDefinition) []domain.KpiDefinitionDTO {
	dtos := make([]domain.KpiDefinitionDTO, len(defs))
	for i := range defs {
		dtos[i] = ToKpiDefinitionDTO(&defs[i])
	}
	return dtos
}

// ToKpiTargetDTO converts KpiTarget to KpiTargetDTO
func ToKpiTargetDTO(target *domain.KpiTarget) domain.KpiTargetDTO {
	return domain.KpiTargetDTO{
		ID:          target.ID,
		KpiSlug:     target.KpiSlug,
		PeriodType:  string(target.PeriodType),
		PeriodStart: target.PeriodStart.Format("2006-01-02"),
		ZoneID:      target.ZoneID,
		TargetValue: target.TargetValue,
		UpdatedAt:   target.UpdatedAt,
	}
}

// ToKpiTargetDTOs converts a slice of KpiTarget to DTOs
func ToKpiTargetDTOs(targets []domain.KpiTarget) []domain.KpiTargetDTO {
	dtos := make([]domain.KpiTargetDTO, len(targets))
	for i := range targets {
		dtos[i] = ToKpiTargetDTO(&targets[i])
	}
	return dtos
}

// ToBrandSettingsDTO converts Brand to its dashboard configuration shape
func ToBrandSettingsDTO(brand *domain.Brand) domain.BrandSettingsDTO {
	slugs := make([]domain.KpiSlug, len(brand.DashboardMetrics))
	for i, raw := range brand.DashboardMetrics {
		slugs[i] = domain.KpiSlug(raw)
	}
	return domain.BrandSettingsDTO{
		BrandID:                   brand.ID,
		Name:                      brand.Name,
		DashboardMetrics:          slugs,
		DashboardMetricsUpdatedAt: brand.DashboardMetricsUpdatedAt,
	}
}
