package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/repository"
	"github.com/fermx3/companeros-en-ruta-api/internal/service"
)

type KpiDefinitionHandler struct {
	definitionService *service.KpiDefinitionService
	logger            *zap.Logger
}

func NewKpiDefinitionHandler(definitionService *service.KpiDefinitionService, logger *zap.Logger) *KpiDefinitionHandler {
	return &KpiDefinitionHandler{
		definitionService: definitionService,
		logger:            logger,
	}
}

// List godoc
// @Summary List KPI definitions
// @Description Returns the tenant's full KPI catalog, active and inactive, ordered by display order unless overridden via sort/order.
// @Tags KPI Definitions
// @Produce json
// @Param sort query string false "Sort field: slug, label, displayOrder, createdAt, updatedAt"
// @Param order query string false "Sort direction: asc or desc"
// @Success 200 {array} domain.KpiDefinitionDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /kpi-definitions [get]
func (h *KpiDefinitionHandler) List(w http.ResponseWriter, r *http.Request) {
	sort := repository.DefaultSortConfig()
	if field := r.URL.Query().Get("sort"); field != "" {
		sort.Field = field
	}
	if order := r.URL.Query().Get("order"); order != "" {
		sort.Order = repository.ParseSortOrder(order)
	}

	definitions, err := h.definitionService.List(r.Context(), sort)
	if err != nil {
		h.logger.Error("failed to list KPI definitions", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list KPI definitions")
		return
	}

	respondJSON(w, http.StatusOK, definitions)
}

// Create godoc
// @Summary Create a KPI definition
// @Description Adds a catalog entry for the tenant. Slugs must be unique per tenant.
// @Tags KPI Definitions
// @Accept json
// @Produce json
// @Param request body domain.CreateKpiDefinitionRequest true "Definition to create"
// @Success 201 {object} domain.KpiDefinitionDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /kpi-definitions [post]
func (h *KpiDefinitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateKpiDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	definition, err := h.definitionService.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			respondWithError(w, http.StatusConflict, "A KPI definition with this slug already exists")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to create KPI definition",
				zap.String("slug", req.Slug),
				zap.Error(err),
			)
			respondWithError(w, http.StatusInternalServerError, "Failed to create KPI definition")
		}
		return
	}

	respondJSON(w, http.StatusCreated, definition)
}

// Update godoc
// @Summary Update a KPI definition
// @Description Edits display metadata of a catalog entry. Slug and computation type are immutable.
// @Tags KPI Definitions
// @Accept json
// @Produce json
// @Param id path string true "Definition ID"
// @Param request body domain.UpdateKpiDefinitionRequest true "Fields to update"
// @Success 200 {object} domain.KpiDefinitionDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /kpi-definitions/{id} [patch]
func (h *KpiDefinitionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid definition ID")
		return
	}

	var req domain.UpdateKpiDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	definition, err := h.definitionService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "KPI definition not found")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update KPI definition",
				zap.String("definition_id", id.String()),
				zap.Error(err),
			)
			respondWithError(w, http.StatusInternalServerError, "Failed to update KPI definition")
		}
		return
	}

	respondJSON(w, http.StatusOK, definition)
}
