package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/http/handler"
	"github.com/fermx3/companeros-en-ruta-api/internal/repository"
	"github.com/fermx3/companeros-en-ruta-api/internal/service"
	"github.com/fermx3/companeros-en-ruta-api/tests/testutil"
)

func newDefinitionHandler(db *gorm.DB) *handler.KpiDefinitionHandler {
	log := zap.NewNop()
	return handler.NewKpiDefinitionHandler(
		service.NewKpiDefinitionService(repository.NewKpiDefinitionRepository(db), log),
		log,
	)
}

func adminCtx(tenantID uuid.UUID) context.Context {
	return auth.WithActorContext(context.Background(), &auth.ActorContext{
		UserID:   uuid.New(),
		TenantID: tenantID,
		Roles:    []domain.UserRoleType{domain.RoleAdmin},
	})
}

func TestKpiDefinitionHandler_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)
	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiReachMix, domain.ComputationReachMix)

	h := newDefinitionHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/kpi-definitions", nil)
	req = req.WithContext(adminCtx(tenant.ID))
	w := httptest.NewRecorder()

	h.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var dtos []domain.KpiDefinitionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
	assert.Len(t, dtos, 2)
}

func TestKpiDefinitionHandler_ListSortParams(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)
	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiReachMix, domain.ComputationReachMix)

	h := newDefinitionHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/kpi-definitions?sort=slug&order=desc", nil)
	req = req.WithContext(adminCtx(tenant.ID))
	w := httptest.NewRecorder()

	h.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var dtos []domain.KpiDefinitionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
	require.Len(t, dtos, 2)
	assert.Equal(t, domain.KpiVolume, dtos[0].Slug)
	assert.Equal(t, domain.KpiReachMix, dtos[1].Slug)
}

func TestKpiDefinitionHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")

	h := newDefinitionHandler(db)

	body := `{
		"slug": "volume",
		"label": "Venta del mes",
		"computation_type": "volume",
		"unit": "MXN",
		"display_order": 1
	}`
	req := httptest.NewRequest(http.MethodPost, "/kpi-definitions", strings.NewReader(body))
	req = req.WithContext(adminCtx(tenant.ID))
	w := httptest.NewRecorder()

	h.Create(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var dto domain.KpiDefinitionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, domain.KpiVolume, dto.Slug)
	assert.Equal(t, "MXN", dto.Unit)
	assert.True(t, dto.IsActive)
	assert.NotEqual(t, uuid.Nil, dto.ID)
}

func TestKpiDefinitionHandler_CreateDuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)

	h := newDefinitionHandler(db)

	body := `{"slug":"volume","label":"Venta","computation_type":"volume"}`
	req := httptest.NewRequest(http.MethodPost, "/kpi-definitions", strings.NewReader(body))
	req = req.WithContext(adminCtx(tenant.ID))
	w := httptest.NewRecorder()

	h.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestKpiDefinitionHandler_CreateInvalidComputation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")

	h := newDefinitionHandler(db)

	body := `{"slug":"magic","label":"Magia","computation_type":"magic"}`
	req := httptest.NewRequest(http.MethodPost, "/kpi-definitions", strings.NewReader(body))
	req = req.WithContext(adminCtx(tenant.ID))
	w := httptest.NewRecorder()

	h.Create(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Errors, "computation_type")
}

func TestKpiDefinitionHandler_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	def := testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)

	h := newDefinitionHandler(db)

	body := `{"label":"Venta acumulada","is_active":false}`
	req := httptest.NewRequest(http.MethodPatch, "/kpi-definitions/"+def.ID.String(), strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", def.ID.String())
	req = req.WithContext(context.WithValue(adminCtx(tenant.ID), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	h.Update(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var dto domain.KpiDefinitionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "Venta acumulada", dto.Label)
	assert.False(t, dto.IsActive)
	// Slug and computation type are immutable
	assert.Equal(t, domain.KpiVolume, dto.Slug)
}

func TestKpiDefinitionHandler_UpdateNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")

	h := newDefinitionHandler(db)

	req := httptest.NewRequest(http.MethodPatch, "/kpi-definitions/"+uuid.NewString(), strings.NewReader(`{"label":"x"}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", uuid.NewString())
	req = req.WithContext(context.WithValue(adminCtx(tenant.ID), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	h.Update(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKpiDefinitionHandler_UpdateInvalidID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")

	h := newDefinitionHandler(db)

	req := httptest.NewRequest(http.MethodPatch, "/kpi-definitions/abc", strings.NewReader(`{"label":"x"}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "abc")
	req = req.WithContext(context.WithValue(adminCtx(tenant.ID), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	h.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
