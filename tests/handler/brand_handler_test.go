package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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

func newBrandSettingsHandler(db *gorm.DB) *handler.BrandSettingsHandler {
	log := zap.NewNop()
	settingsService := service.NewBrandSettingsService(
		repository.NewBrandRepository(db),
		repository.NewKpiDefinitionRepository(db),
		log,
	)
	return handler.NewBrandSettingsHandler(settingsService, log)
}

func TestBrandSettingsHandler_GetDashboardMetrics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", []string{"volume", "mix"})

	h := newBrandSettingsHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/settings/dashboard-metrics", nil)
	req = req.WithContext(scopedCtx(tenant.ID, brand.ID))
	w := httptest.NewRecorder()

	h.GetDashboardMetrics(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var dto domain.BrandSettingsDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, brand.ID, dto.BrandID)
	assert.Equal(t, []domain.KpiSlug{domain.KpiVolume, domain.KpiMix}, dto.DashboardMetrics)
}

func TestBrandSettingsHandler_UpdateDashboardMetrics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", nil)
	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)
	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiReachMix, domain.ComputationReachMix)

	h := newBrandSettingsHandler(db)

	body := `{"dashboard_metrics":["reach_mix","volume"]}`
	req := httptest.NewRequest(http.MethodPut, "/settings/dashboard-metrics", strings.NewReader(body))
	req = req.WithContext(scopedCtx(tenant.ID, brand.ID))
	w := httptest.NewRecorder()

	h.UpdateDashboardMetrics(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var dto domain.BrandSettingsDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	// Selection order is preserved as sent
	assert.Equal(t, []domain.KpiSlug{domain.KpiReachMix, domain.KpiVolume}, dto.DashboardMetrics)
	assert.NotNil(t, dto.DashboardMetricsUpdatedAt)
}

func TestBrandSettingsHandler_UpdateRejectsUnknownSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", nil)
	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)

	h := newBrandSettingsHandler(db)

	body := `{"dashboard_metrics":["volume","customer_smiles"]}`
	req := httptest.NewRequest(http.MethodPut, "/settings/dashboard-metrics", strings.NewReader(body))
	req = req.WithContext(scopedCtx(tenant.ID, brand.ID))
	w := httptest.NewRecorder()

	h.UpdateDashboardMetrics(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Detail, "customer_smiles")
}

func TestBrandSettingsHandler_UpdateRejectsDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", nil)
	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)

	h := newBrandSettingsHandler(db)

	body := `{"dashboard_metrics":["volume","volume"]}`
	req := httptest.NewRequest(http.MethodPut, "/settings/dashboard-metrics", strings.NewReader(body))
	req = req.WithContext(scopedCtx(tenant.ID, brand.ID))
	w := httptest.NewRecorder()

	h.UpdateDashboardMetrics(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBrandSettingsHandler_UpdateRejectsTooManyMetrics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", nil)

	h := newBrandSettingsHandler(db)

	// Seven slugs against a selection cap of six
	body := `{"dashboard_metrics":["a","b","c","d","e","f","g"]}`
	req := httptest.NewRequest(http.MethodPut, "/settings/dashboard-metrics", strings.NewReader(body))
	req = req.WithContext(scopedCtx(tenant.ID, brand.ID))
	w := httptest.NewRecorder()

	h.UpdateDashboardMetrics(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBrandSettingsHandler_UpdateInvalidBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", nil)

	h := newBrandSettingsHandler(db)

	req := httptest.NewRequest(http.MethodPut, "/settings/dashboard-metrics", strings.NewReader("{not json"))
	req = req.WithContext(scopedCtx(tenant.ID, brand.ID))
	w := httptest.NewRecorder()

	h.UpdateDashboardMetrics(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBrandSettingsHandler_ClearSelection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", []string{"volume"})

	h := newBrandSettingsHandler(db)

	body := `{"dashboard_metrics":[]}`
	req := httptest.NewRequest(http.MethodPut, "/settings/dashboard-metrics", strings.NewReader(body))
	req = req.WithContext(scopedCtx(tenant.ID, brand.ID))
	w := httptest.NewRecorder()

	h.UpdateDashboardMetrics(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var dto domain.BrandSettingsDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Empty(t, dto.DashboardMetrics)
}
