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

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/http/handler"
	"github.com/fermx3/companeros-en-ruta-api/internal/repository"
	"github.com/fermx3/companeros-en-ruta-api/internal/service"
	"github.com/fermx3/companeros-en-ruta-api/tests/testutil"
)

func newTargetHandler(db *gorm.DB) *handler.KpiTargetHandler {
	log := zap.NewNop()
	return handler.NewKpiTargetHandler(
		service.NewKpiTargetService(
			repository.NewKpiTargetRepository(db),
			repository.NewKpiDefinitionRepository(db),
			log,
		),
		log,
	)
}

func TestKpiTargetHandler_UpsertAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", nil)
	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)

	h := newTargetHandler(db)
	ctx := scopedCtx(tenant.ID, brand.ID)

	body := `{"kpi_slug":"volume","month":"2026-07","target_value":500000}`
	req := httptest.NewRequest(http.MethodPut, "/targets", strings.NewReader(body))
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	h.Upsert(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var dto domain.KpiTargetDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, domain.KpiVolume, dto.KpiSlug)
	assert.Equal(t, "2026-07-01", dto.PeriodStart)
	assert.Equal(t, 500000.0, dto.TargetValue)
	assert.Nil(t, dto.ZoneID)

	req = httptest.NewRequest(http.MethodGet, "/targets?month=2026-07", nil)
	req = req.WithContext(ctx)
	w = httptest.NewRecorder()

	h.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var dtos []domain.KpiTargetDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, 500000.0, dtos[0].TargetValue)
}

func TestKpiTargetHandler_ListRequiresMonth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", nil)

	h := newTargetHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/targets", nil)
	req = req.WithContext(scopedCtx(tenant.ID, brand.ID))
	w := httptest.NewRecorder()

	h.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKpiTargetHandler_UpsertUnknownSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", nil)

	h := newTargetHandler(db)

	body := `{"kpi_slug":"customer_smiles","month":"2026-07","target_value":10}`
	req := httptest.NewRequest(http.MethodPut, "/targets", strings.NewReader(body))
	req = req.WithContext(scopedCtx(tenant.ID, brand.ID))
	w := httptest.NewRecorder()

	h.Upsert(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Detail, "customer_smiles")
}

func TestKpiTargetHandler_UpsertInvalidMonth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", nil)
	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)

	h := newTargetHandler(db)

	body := `{"kpi_slug":"volume","month":"07/2026","target_value":10}`
	req := httptest.NewRequest(http.MethodPut, "/targets", strings.NewReader(body))
	req = req.WithContext(scopedCtx(tenant.ID, brand.ID))
	w := httptest.NewRecorder()

	h.Upsert(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKpiTargetHandler_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", nil)

	target := &domain.KpiTarget{
		BrandID:     brand.ID,
		KpiSlug:     domain.KpiVolume,
		PeriodType:  domain.KpiPeriodMonthly,
		PeriodStart: testutil.MonthStart(2026, 7),
		TargetValue: 100,
	}
	require.NoError(t, db.Create(target).Error)

	h := newTargetHandler(db)

	req := httptest.NewRequest(http.MethodDelete, "/targets/"+target.ID.String(), nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", target.ID.String())
	req = req.WithContext(context.WithValue(scopedCtx(tenant.ID, brand.ID), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestKpiTargetHandler_DeleteNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", nil)

	h := newTargetHandler(db)

	req := httptest.NewRequest(http.MethodDelete, "/targets/"+uuid.NewString(), nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", uuid.NewString())
	req = req.WithContext(context.WithValue(scopedCtx(tenant.ID, brand.ID), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	h.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
