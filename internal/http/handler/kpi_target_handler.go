package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/service"
)

type KpiTargetHandler struct {
	targetService *service.KpiTargetService
	logger        *zap.Logger
}

func NewKpiTargetHandler(targetService *service.KpiTargetService, logger *zap.Logger) *KpiTargetHandler {
	return &KpiTargetHandler{
		targetService: targetService,
		logger:        logger,
	}
}

// List godoc
// @Summary List brand KPI targets for a month
// @Description Returns all monthly targets for the brand in the requested month, brand-wide and zone-level.
// @Tags KPI Targets
// @Produce json
// @Param brandId path string true "Brand ID"
// @Param month query string true "Month in YYYY-MM format"
// @Success 200 {array} domain.KpiTargetDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands/{brandId}/targets [get]
func (h *KpiTargetHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := auth.MustBrandScope(r.Context())

	month := r.URL.Query().Get("month")
	if month == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required query parameter: month")
		return
	}

	targets, err := h.targetService.ListForMonth(r.Context(), scope.BrandID, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			respondWithError(w, http.StatusBadRequest, "Invalid month, expected YYYY-MM")
			return
		}
		h.logger.Error("failed to list KPI targets",
			zap.String("brand_id", scope.BrandID.String()),
			zap.String("month", month),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to list KPI targets")
		return
	}

	respondJSON(w, http.StatusOK, targets)
}

// Upsert godoc
// @Summary Create or replace a KPI target
// @Description Sets the monthly target for (brand, KPI, month, zone). An existing target for the same scope is overwritten.
// @Tags KPI Targets
// @Accept json
// @Produce json
// @Param brandId path string true "Brand ID"
// @Param request body domain.UpsertKpiTargetRequest true "Target to set"
// @Success 200 {object} domain.KpiTargetDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands/{brandId}/targets [put]
func (h *KpiTargetHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	scope := auth.MustBrandScope(r.Context())

	var req domain.UpsertKpiTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	target, err := h.targetService.Upsert(r.Context(), scope.BrandID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMonth):
			respondWithError(w, http.StatusBadRequest, "Invalid month, expected YYYY-MM")
		case errors.Is(err, service.ErrUnknownKpiSlug):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to upsert KPI target",
				zap.String("brand_id", scope.BrandID.String()),
				zap.String("kpi_slug", req.KpiSlug),
				zap.Error(err),
			)
			respondWithError(w, http.StatusInternalServerError, "Failed to upsert KPI target")
		}
		return
	}

	respondJSON(w, http.StatusOK, target)
}

// Delete godoc
// @Summary Delete a KPI target
// @Tags KPI Targets
// @Produce json
// @Param brandId path string true "Brand ID"
// @Param id path string true "Target ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands/{brandId}/targets/{id} [delete]
func (h *KpiTargetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope := auth.MustBrandScope(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid target ID")
		return
	}

	if err := h.targetService.Delete(r.Context(), scope.BrandID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "KPI target not found")
			return
		}
		h.logger.Error("failed to delete KPI target",
			zap.String("brand_id", scope.BrandID.String()),
			zap.String("target_id", id.String()),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete KPI target")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
