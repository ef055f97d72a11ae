package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/fermx3/companeros-en-ruta-api/internal/service"
)

// monthOrCurrent falls back to the current UTC month when the client
// omits the month query parameter.
func monthOrCurrent(month string) string {
	if month == "" {
		return time.Now().UTC().Format("2006-01")
	}
	return month
}

type KpiHandler struct {
	engine        *service.KpiEngine
	detailService *service.KpiDetailService
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewKpiHandler(
	engine *service.KpiEngine,
	detailService *service.KpiDetailService,
	reportService *service.ReportService,
	logger *zap.Logger,
) *KpiHandler {
	return &KpiHandler{
		engine:        engine,
		detailService: detailService,
		reportService: reportService,
		logger:        logger,
	}
}

// GetSummary godoc
// @Summary Get brand KPI summary cards
// @Description Returns one month-to-date card per KPI the brand selected for its dashboard, in selection order. Cards for KPIs whose computation is not supported report a value of 0.
// @Tags KPIs
// @Produce json
// @Param brandId path string true "Brand ID"
// @Success 200 {object} domain.KpiSummary
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands/{brandId}/kpis [get]
func (h *KpiHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	scope := auth.MustBrandScope(r.Context())

	summary, err := h.engine.GetSummary(r.Context(), scope.BrandID)
	if err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			respondWithError(w, http.StatusNotFound, "Brand not found")
			return
		}
		h.logger.Error("failed to compute KPI summary",
			zap.String("brand_id", scope.BrandID.String()),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute KPI summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetDetails godoc
// @Summary Get brand KPI detail breakdowns
// @Description Returns the full drill-down payload for every KPI the brand selected, keyed by slug, for the requested month.
// @Tags KPIs
// @Produce json
// @Param brandId path string true "Brand ID"
// @Param month query string false "Month in YYYY-MM format, defaults to the current month"
// @Success 200 {object} domain.KpiDetails
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands/{brandId}/kpis/details [get]
func (h *KpiHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	scope := auth.MustBrandScope(r.Context())

	month := monthOrCurrent(r.URL.Query().Get("month"))

	details, err := h.detailService.GetDetails(r.Context(), scope.BrandID, month)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMonth):
			respondWithError(w, http.StatusBadRequest, "Invalid month, expected YYYY-MM")
		case errors.Is(err, service.ErrBrandNotFound):
			respondWithError(w, http.StatusNotFound, "Brand not found")
		default:
			h.logger.Error("failed to compute KPI details",
				zap.String("brand_id", scope.BrandID.String()),
				zap.String("month", month),
				zap.Error(err),
			)
			respondWithError(w, http.StatusInternalServerError, "Failed to compute KPI details")
		}
		return
	}

	respondJSON(w, http.StatusOK, details)
}

// Export godoc
// @Summary Export brand KPI report as xlsx
// @Description Builds an xlsx workbook with one sheet per selected KPI for the requested month and streams it as an attachment.
// @Tags KPIs
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param brandId path string true "Brand ID"
// @Param month query string false "Month in YYYY-MM format, defaults to the current month"
// @Success 200 {file} binary
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands/{brandId}/kpis/export [get]
func (h *KpiHandler) Export(w http.ResponseWriter, r *http.Request) {
	scope := auth.MustBrandScope(r.Context())

	month := monthOrCurrent(r.URL.Query().Get("month"))

	buf, err := h.reportService.BuildWorkbook(r.Context(), scope.BrandID, month)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMonth):
			respondWithError(w, http.StatusBadRequest, "Invalid month, expected YYYY-MM")
		case errors.Is(err, service.ErrBrandNotFound):
			respondWithError(w, http.StatusNotFound, "Brand not found")
		default:
			h.logger.Error("failed to build KPI report",
				zap.String("brand_id", scope.BrandID.String()),
				zap.String("month", month),
				zap.Error(err),
			)
			respondWithError(w, http.StatusInternalServerError, "Failed to build KPI report")
		}
		return
	}

	filename := fmt.Sprintf("kpi-report-%s.xlsx", month)
	w.Header().Set("Content-Type", service.XlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
