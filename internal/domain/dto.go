package domain

import (
	"time"

	"github.com/google/uuid"
)

// KpiDefinitionDTO is the catalog entry shape returned to admin clients
type KpiDefinitionDTO struct {
	ID              uuid.UUID          `json:"id"`
	Slug            KpiSlug            `json:"slug"`
	Label           string             `json:"label"`
	Description     string             `json:"description,omitempty"`
	Icon            string             `json:"icon,omitempty"`
	Color           string             `json:"color,omitempty"`
	ComputationType KpiComputationType `json:"computation_type"`
	Unit            string             `json:"unit"`
	IsActive        bool               `json:"is_active"`
	DisplayOrder    int                `json:"display_order"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// CreateKpiDefinitionRequest creates a tenant catalog entry
type CreateKpiDefinitionRequest struct {
	Slug            string `json:"slug" validate:"required,max=50"`
	Label           string `json:"label" validate:"required,max=200"`
	Description     string `json:"description" validate:"max=500"`
	Icon            string `json:"icon" validate:"max=100"`
	Color           string `json:"color" validate:"max=20"`
	ComputationType string `json:"computation_type" validate:"required,oneof=volume reach_mix assortment market_share share_of_shelf mix"`
	Unit            string `json:"unit" validate:"omitempty,oneof=MXN %"`
	DisplayOrder    int    `json:"display_order" validate:"gte=0"`
}

// UpdateKpiDefinitionRequest edits display metadata of a catalog entry.
// Slug and computation type are immutable once created.
type UpdateKpiDefinitionRequest struct {
	Label        *string `json:"label" validate:"omitempty,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
	Icon         *string `json:"icon" validate:"omitempty,max=100"`
	Color        *string `json:"color" validate:"omitempty,max=20"`
	IsActive     *bool   `json:"is_active"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,gte=0"`
}

// KpiTargetDTO is the target shape returned to brand managers
type KpiTargetDTO struct {
	ID          uuid.UUID  `json:"id"`
	KpiSlug     KpiSlug    `json:"kpi_slug"`
	PeriodType  string     `json:"period_type"`
	PeriodStart string     `json:"period_start"`
	ZoneID      *uuid.UUID `json:"zone_id"`
	TargetValue float64    `json:"target_value"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UpsertKpiTargetRequest creates or replaces the target for
// (brand, slug, period, zone).
type UpsertKpiTargetRequest struct {
	KpiSlug     string  `json:"kpi_slug" validate:"required,max=50"`
	Month       string  `json:"month" validate:"required,datetime=2006-01"`
	ZoneID      *string `json:"zone_id" validate:"omitempty,uuid"`
	TargetValue float64 `json:"target_value" validate:"required,gt=0"`
}

// BrandSettingsDTO is the brand dashboard configuration shape
type BrandSettingsDTO struct {
	BrandID                   uuid.UUID  `json:"brand_id"`
	Name                      string     `json:"name"`
	DashboardMetrics          []KpiSlug  `json:"dashboard_metrics"`
	DashboardMetricsUpdatedAt *time.Time `json:"dashboard_metrics_updated_at"`
}

// UpdateDashboardMetricsRequest replaces the brand's ordered KPI selection
type UpdateDashboardMetricsRequest struct {
	// An empty list clears the selection, so the field itself is not required
	DashboardMetrics []string `json:"dashboard_metrics" validate:"max=6,dive,required,max=50"`
}
