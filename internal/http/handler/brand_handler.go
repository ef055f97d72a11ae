package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/service"
)

type BrandSettingsHandler struct {
	settingsService *service.BrandSettingsService
	logger          *zap.Logger
}

func NewBrandSettingsHandler(settingsService *service.BrandSettingsService, logger *zap.Logger) *BrandSettingsHandler {
	return &BrandSettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetDashboardMetrics godoc
// @Summary Get brand dashboard configuration
// @Description Returns the brand's ordered KPI selection and when it was last changed.
// @Tags Brand Settings
// @Produce json
// @Param brandId path string true "Brand ID"
// @Success 200 {object} domain.BrandSettingsDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands/{brandId}/settings/dashboard-metrics [get]
func (h *BrandSettingsHandler) GetDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	scope := auth.MustBrandScope(r.Context())

	settings, err := h.settingsService.GetSettings(r.Context(), scope.BrandID)
	if err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			respondWithError(w, http.StatusNotFound, "Brand not found")
			return
		}
		h.logger.Error("failed to get brand settings",
			zap.String("brand_id", scope.BrandID.String()),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to get brand settings")
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// UpdateDashboardMetrics godoc
// @Summary Replace brand dashboard KPI selection
// @Description Replaces the brand's ordered KPI selection. Every slug must match an active KPI definition, duplicates are rejected, and at most 6 KPIs may be selected.
// @Tags Brand Settings
// @Accept json
// @Produce json
// @Param brandId path string true "Brand ID"
// @Param request body domain.UpdateDashboardMetricsRequest true "New KPI selection"
// @Success 200 {object} domain.BrandSettingsDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands/{brandId}/settings/dashboard-metrics [put]
func (h *BrandSettingsHandler) UpdateDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	scope := auth.MustBrandScope(r.Context())

	var req domain.UpdateDashboardMetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	settings, err := h.settingsService.UpdateDashboardMetrics(r.Context(), scope.BrandID, req.DashboardMetrics)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBrandNotFound):
			respondWithError(w, http.StatusNotFound, "Brand not found")
		case errors.Is(err, service.ErrTooManyMetrics), errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUnknownKpiSlug):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update dashboard metrics",
				zap.String("brand_id", scope.BrandID.String()),
				zap.Error(err),
			)
			respondWithError(w, http.StatusInternalServerError, "Failed to update dashboard metrics")
		}
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
