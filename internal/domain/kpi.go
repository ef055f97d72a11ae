package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// KpiSlug is the stable string identifier for a KPI type
type KpiSlug string

const (
	KpiVolume       KpiSlug = "volume"
	KpiReachMix     KpiSlug = "reach_mix"
	KpiAssortment   KpiSlug = "assortment"
	KpiMarketShare  KpiSlug = "market_share"
	KpiShareOfShelf KpiSlug = "share_of_shelf"
	KpiMix          KpiSlug = "mix"
)

// KpiComputationType selects the scalar formula for a definition. Distinct
// from the slug: the slug is the catalog key, this is the formula selector.
// A definition may carry a computation type the scalar engine does not
// support (the mix slug has a drill-down but no scalar formula); the engine
// reports those as unsupported rather than failing the whole summary.
type KpiComputationType string

const (
	ComputationVolume       KpiComputationType = "volume"
	ComputationReachMix     KpiComputationType = "reach_mix"
	ComputationAssortment   KpiComputationType = "assortment"
	ComputationMarketShare  KpiComputationType = "market_share"
	ComputationShareOfShelf KpiComputationType = "share_of_shelf"
)

// IsValid reports whether the computation type is a known formula selector
func (c KpiComputationType) IsValid() bool {
	switch c {
	case ComputationVolume, ComputationReachMix, ComputationAssortment,
		ComputationMarketShare, ComputationShareOfShelf:
		return true
	}
	return false
}

// KnownKpiSlugs lists the catalog slugs shipped with every tenant
var KnownKpiSlugs = []KpiSlug{
	KpiVolume, KpiReachMix, KpiAssortment, KpiMarketShare, KpiShareOfShelf, KpiMix,
}

// IsKnownKpiSlug reports whether s is a catalog slug
func IsKnownKpiSlug(s KpiSlug) bool {
	for _, k := range KnownKpiSlugs {
		if k == s {
			return true
		}
	}
	return false
}

// UnitCurrency and UnitPercent are the display units KPI cards carry
const (
	UnitCurrency = "MXN"
	UnitPercent  = "%"
)

// KpiCard is one scalar summary card for the brand dashboard
type KpiCard struct {
	Slug        KpiSlug `json:"slug"`
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
	Period      string  `json:"period"`
}

// KpiSummary is the scalar-card endpoint payload. Kpis follows the brand's
// selection order exactly.
type KpiSummary struct {
	Kpis                      []KpiCard  `json:"kpis"`
	DashboardMetricsUpdatedAt *time.Time `json:"dashboard_metrics_updated_at"`
	SelectedSlugs             []KpiSlug  `json:"selected_slugs"`
}

// spanishMonths maps time.Month to the localized month names used on cards
var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatPeriod renders a month as the human-readable card period, e.g.
// "agosto 2026".
func FormatPeriod(t time.Time) string {
	return fmt.Sprintf("%s %d", spanishMonths[t.Month()-1], t.Year())
}

// ---------------------------------------------------------------------------
// Fact view rows
// ---------------------------------------------------------------------------

// VolumeFact is one row of the kpi_volume_facts view: revenue and tonnage
// per zone and week of month.
type VolumeFact struct {
	ZoneID     uuid.UUID `gorm:"column:zone_id"`
	ZoneName   string    `gorm:"column:zone_name"`
	PeriodWeek int       `gorm:"column:period_week"`
	Revenue    float64   `gorm:"column:revenue"`
	WeightTons float64   `gorm:"column:weight_tons"`
}

// ReachFact is one row of the kpi_reach_facts view. The view emits one row
// per zone; total_active_members repeats per row for a zone.
type ReachFact struct {
	ZoneID             uuid.UUID `gorm:"column:zone_id"`
	ZoneName           string    `gorm:"column:zone_name"`
	ClientsVisited     int       `gorm:"column:clients_visited"`
	TotalActiveMembers int       `gorm:"column:total_active_members"`
}

// MixFact is one row of the kpi_mix_facts view: a visited client under a
// market. Clients repeat across rows when visited more than once.
type MixFact struct {
	MarketID   uuid.UUID `gorm:"column:market_id"`
	MarketName string    `gorm:"column:market_name"`
	ClientID   uuid.UUID `gorm:"column:client_id"`
}

// AssortmentFact is one row of the kpi_assortment_facts view
type AssortmentFact struct {
	ZoneID     uuid.UUID `gorm:"column:zone_id"`
	ZoneName   string    `gorm:"column:zone_name"`
	AvgPct     float64   `gorm:"column:avg_pct"`
	VisitCount int       `gorm:"column:visit_count"`
}

// MarketShareFact is one row of the kpi_market_share_facts view
type MarketShareFact struct {
	ZoneID            uuid.UUID `gorm:"column:zone_id"`
	ZoneName          string    `gorm:"column:zone_name"`
	BrandPresent      int       `gorm:"column:brand_present"`
	CompetitorPresent int       `gorm:"column:competitor_present"`
	BrandFacings      int       `gorm:"column:brand_facings"`
	CompetitorFacings int       `gorm:"column:competitor_facings"`
}

// ShelfFact is one row of the kpi_shelf_facts view
type ShelfFact struct {
	ZoneID        uuid.UUID `gorm:"column:zone_id"`
	ZoneName      string    `gorm:"column:zone_name"`
	PopPresent    int       `gorm:"column:pop_present"`
	PopTotal      int       `gorm:"column:pop_total"`
	ExhibExecuted int       `gorm:"column:exhib_executed"`
	ExhibTotal    int       `gorm:"column:exhib_total"`
}

// ---------------------------------------------------------------------------
// Detail payload shapes
// ---------------------------------------------------------------------------

// VolumeWeekPoint is one weekly series point of the volume drill-down
type VolumeWeekPoint struct {
	Week       int     `json:"week"`
	Revenue    float64 `json:"revenue"`
	WeightTons float64 `json:"weight_tons"`
}

// VolumeZoneRow is one per-zone row of the volume drill-down
type VolumeZoneRow struct {
	ZoneID     uuid.UUID `json:"zone_id"`
	ZoneName   string    `json:"zone_name"`
	Revenue    float64   `json:"revenue"`
	WeightTons float64   `json:"weight_tons"`
}

// VolumeDetail is the volume drill-down. MonthlyTotal is derived from
// ByZone, never re-queried, so the two stay consistent by construction.
type VolumeDetail struct {
	Weekly          []VolumeWeekPoint `json:"weekly"`
	MonthlyTotal    float64           `json:"monthly_total"`
	WeightTonsTotal float64           `json:"weight_tons_total"`
	ByZone          []VolumeZoneRow   `json:"by_zone"`
	Target          *float64          `json:"target"`
	AchievementPct  *float64          `json:"achievement_pct"`
}

// ReachZoneRow is one per-zone row of the reach drill-down
type ReachZoneRow struct {
	ZoneID             uuid.UUID `json:"zone_id"`
	ZoneName           string    `json:"zone_name"`
	ClientsVisited     int       `json:"clients_visited"`
	TotalActiveMembers int       `json:"total_active_members"`
	ReachPct           float64   `json:"reach_pct"`
}

// ReachDetail is the reach drill-down
type ReachDetail struct {
	ByZone              []ReachZoneRow `json:"by_zone"`
	MonthlyTotalVisited int            `json:"monthly_total_visited"`
	TotalActiveMembers  int            `json:"total_active_members"`
	ReachPct            float64        `json:"reach_pct"`
	Target              *float64       `json:"target"`
	AchievementPct      *float64       `json:"achievement_pct"`
}

// MixChannelRow is one channel row of the mix drill-down
type MixChannelRow struct {
	MarketID    uuid.UUID `json:"market_id"`
	MarketName  string    `json:"market_name"`
	ClientCount int       `json:"client_count"`
}

// MixDetail is the mix drill-down: distinct clients visited per channel
type MixDetail struct {
	Channels       []MixChannelRow `json:"channels"`
	DistinctCount  int             `json:"distinct_count"`
	Target         *float64        `json:"target"`
	AchievementPct *float64        `json:"achievement_pct"`
}

// AssortmentZoneRow is one per-zone row of the assortment drill-down
type AssortmentZoneRow struct {
	ZoneID     uuid.UUID `json:"zone_id"`
	ZoneName   string    `json:"zone_name"`
	AvgPct     float64   `json:"avg_pct"`
	VisitCount int       `json:"visit_count"`
}

// AssortmentDetail is the assortment drill-down. AvgPct is weighted by
// per-zone visit counts, not a simple mean of zone percentages.
type AssortmentDetail struct {
	AvgPct         float64             `json:"avg_pct"`
	ByZone         []AssortmentZoneRow `json:"by_zone"`
	Target         *float64            `json:"target"`
	AchievementPct *float64            `json:"achievement_pct"`
}

// MarketShareZoneRow is one per-zone row of the market share drill-down
type MarketShareZoneRow struct {
	ZoneID            uuid.UUID `json:"zone_id"`
	ZoneName          string    `json:"zone_name"`
	SharePct          float64   `json:"share_pct"`
	BrandPresent      int       `json:"brand_present"`
	CompetitorPresent int       `json:"competitor_present"`
}

// MarketShareDetail carries two parallel ratios: presence-count share and
// facings-count share.
type MarketShareDetail struct {
	SharePct          float64              `json:"share_pct"`
	BrandPresent      int                  `json:"brand_present"`
	CompetitorPresent int                  `json:"competitor_present"`
	ShareByFacingsPct float64              `json:"share_by_facings_pct"`
	ByZone            []MarketShareZoneRow `json:"by_zone"`
	Target            *float64             `json:"target"`
	AchievementPct    *float64             `json:"achievement_pct"`
}

// ShelfZoneRow is one per-zone row of the share-of-shelf drill-down
type ShelfZoneRow struct {
	ZoneID      uuid.UUID `json:"zone_id"`
	ZoneName    string    `json:"zone_name"`
	CombinedPct float64   `json:"combined_pct"`
	PopPct      float64   `json:"pop_pct"`
	ExhibPct    float64   `json:"exhib_pct"`
}

// ShelfDetail is the share-of-shelf drill-down. CombinedPct is computed
// over the union of POP and exhibition totals, not an average of the two
// sub-percentages.
type ShelfDetail struct {
	CombinedPct    float64        `json:"combined_pct"`
	PopPct         float64        `json:"pop_pct"`
	ExhibPct       float64        `json:"exhib_pct"`
	ByZone         []ShelfZoneRow `json:"by_zone"`
	Target         *float64       `json:"target"`
	AchievementPct *float64       `json:"achievement_pct"`
}

// KpiDetails is the drill-down payload: one key per selected slug
type KpiDetails map[KpiSlug]interface{}
