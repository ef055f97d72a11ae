package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/repository"
	"github.com/fermx3/companeros-en-ruta-api/internal/storage"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// XlsxContentType is the MIME type of the exported workbook
const XlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportService renders KPI drill-downs to xlsx workbooks, for the export
// endpoint and the monthly snapshot job.
type ReportService struct {
	detailService *KpiDetailService
	brandRepo     *repository.BrandRepository
	store         storage.Storage
	logger        *zap.Logger
}

func NewReportService(
	detailService *KpiDetailService,
	brandRepo *repository.BrandRepository,
	store storage.Storage,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		detailService: detailService,
		brandRepo:     brandRepo,
		store:         store,
		logger:        logger,
	}
}

// BuildWorkbook renders the brand's drill-down for a month to an xlsx
// workbook, one sheet per selected KPI.
func (s *ReportService) BuildWorkbook(ctx context.Context, brandID uuid.UUID, month string) (*bytes.Buffer, error) {
	details, err := s.detailService.GetDetails(ctx, brandID, month)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	for slug, detail := range details {
		sheet := string(slug)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeDetailSheet(f, sheet, detail); err != nil {
			return nil, fmt.Errorf("failed to write sheet %s: %w", sheet, err)
		}
	}

	// The default sheet is only noise once KPI sheets exist
	if len(details) > 0 {
		_ = f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return &buf, nil
}

// ReportKey is the storage key of a brand-month snapshot
func ReportKey(brandID uuid.UUID, month string) string {
	return fmt.Sprintf("reports/%s/%s.xlsx", brandID, month)
}

// Snapshot builds the workbook for one brand-month and stores it. Re-runs
// overwrite the previous snapshot for the same key.
func (s *ReportService) Snapshot(ctx context.Context, brandID uuid.UUID, month string) error {
	buf, err := s.BuildWorkbook(ctx, brandID, month)
	if err != nil {
		return fmt.Errorf("failed to build workbook for brand %s: %w", brandID, err)
	}

	key := ReportKey(brandID, month)
	size, err := s.store.Put(ctx, key, XlsxContentType, buf)
	if err != nil {
		return fmt.Errorf("failed to store report %s: %w", key, err)
	}

	s.logger.Info("kpi report snapshot stored",
		zap.String("brand_id", brandID.String()),
		zap.String("month", month),
		zap.String("key", key),
		zap.Int64("size", size),
	)
	return nil
}

// SnapshotAll stores a snapshot for every active brand, paging through the
// brand list. Used by the monthly job; per-brand failures are logged and do
// not stop the sweep.
func (s *ReportService) SnapshotAll(ctx context.Context, month string) error {
	var failed, seen int
	for page := 1; ; page++ {
		brands, total, err := s.brandRepo.List(ctx, page, repository.MaxPageSize)
		if err != nil {
			return fmt.Errorf("failed to list brands: %w", err)
		}

		for _, brand := range brands {
			if !brand.IsActive || len(brand.DashboardMetrics) == 0 {
				continue
			}
			if err := s.Snapshot(ctx, brand.ID, month); err != nil {
				failed++
				s.logger.Error("report snapshot failed",
					zap.String("brand_id", brand.ID.String()),
					zap.String("month", month),
					zap.Error(err),
				)
			}
		}

		seen += len(brands)
		if len(brands) == 0 || int64(seen) >= total {
			break
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d brand snapshots failed", failed, seen)
	}
	return nil
}

func writeDetailSheet(f *excelize.File, sheet string, detail interface{}) error {
	switch d := detail.(type) {
	case *domain.VolumeDetail:
		rows := [][]interface{}{
			{"monthly_total", d.MonthlyTotal},
			{"weight_tons_total", d.WeightTonsTotal},
			{"target", floatOrEmpty(d.Target)},
			{"achievement_pct", floatOrEmpty(d.AchievementPct)},
			{},
			{"week", "revenue", "weight_tons"},
		}
		for _, w := range d.Weekly {
			rows = append(rows, []interface{}{w.Week, w.Revenue, w.WeightTons})
		}
		rows = append(rows, []interface{}{}, []interface{}{"zone", "revenue", "weight_tons"})
		for _, z := range d.ByZone {
			rows = append(rows, []interface{}{z.ZoneName, z.Revenue, z.WeightTons})
		}
		return writeRows(f, sheet, rows)

	case *domain.ReachDetail:
		rows := [][]interface{}{
			{"reach_pct", d.ReachPct},
			{"monthly_total_visited", d.MonthlyTotalVisited},
			{"total_active_members", d.TotalActiveMembers},
			{"target", floatOrEmpty(d.Target)},
			{"achievement_pct", floatOrEmpty(d.AchievementPct)},
			{},
			{"zone", "clients_visited", "total_active_members", "reach_pct"},
		}
		for _, z := range d.ByZone {
			rows = append(rows, []interface{}{z.ZoneName, z.ClientsVisited, z.TotalActiveMembers, z.ReachPct})
		}
		return writeRows(f, sheet, rows)

	case *domain.MixDetail:
		rows := [][]interface{}{
			{"distinct_count", d.DistinctCount},
			{"target", floatOrEmpty(d.Target)},
			{"achievement_pct", floatOrEmpty(d.AchievementPct)},
			{},
			{"market", "client_count"},
		}
		for _, c := range d.Channels {
			rows = append(rows, []interface{}{c.MarketName, c.ClientCount})
		}
		return writeRows(f, sheet, rows)

	case *domain.AssortmentDetail:
		rows := [][]interface{}{
			{"avg_pct", d.AvgPct},
			{"target", floatOrEmpty(d.Target)},
			{"achievement_pct", floatOrEmpty(d.AchievementPct)},
			{},
			{"zone", "avg_pct", "visit_count"},
		}
		for _, z := range d.ByZone {
			rows = append(rows, []interface{}{z.ZoneName, z.AvgPct, z.VisitCount})
		}
		return writeRows(f, sheet, rows)

	case *domain.MarketShareDetail:
		rows := [][]interface{}{
			{"share_pct", d.SharePct},
			{"share_by_facings_pct", d.ShareByFacingsPct},
			{"brand_present", d.BrandPresent},
			{"competitor_present", d.CompetitorPresent},
			{"target", floatOrEmpty(d.Target)},
			{"achievement_pct", floatOrEmpty(d.AchievementPct)},
			{},
			{"zone", "share_pct", "brand_present", "competitor_present"},
		}
		for _, z := range d.ByZone {
			rows = append(rows, []interface{}{z.ZoneName, z.SharePct, z.BrandPresent, z.CompetitorPresent})
		}
		return writeRows(f, sheet, rows)

	case *domain.ShelfDetail:
		rows := [][]interface{}{
			{"combined_pct", d.CombinedPct},
			{"pop_pct", d.PopPct},
			{"exhib_pct", d.ExhibPct},
			{"target", floatOrEmpty(d.Target)},
			{"achievement_pct", floatOrEmpty(d.AchievementPct)},
			{},
			{"zone", "combined_pct", "pop_pct", "exhib_pct"},
		}
		for _, z := range d.ByZone {
			rows = append(rows, []interface{}{z.ZoneName, z.CombinedPct, z.PopPct, z.ExhibPct})
		}
		return writeRows(f, sheet, rows)

	default:
		return fmt.Errorf("unknown detail shape %T", detail)
	}
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
