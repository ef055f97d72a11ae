package service_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/repository"
	"github.com/fermx3/companeros-en-ruta-api/internal/service"
	"github.com/fermx3/companeros-en-ruta-api/internal/storage"
	"github.com/fermx3/companeros-en-ruta-api/tests/testutil"
)

func newReportService(t *testing.T, db *gorm.DB, facts service.FactSource) (*service.ReportService, storage.Storage) {
	t.Helper()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	detailService := service.NewKpiDetailService(
		repository.NewBrandRepository(db),
		repository.NewKpiTargetRepository(db),
		facts,
		zap.NewNop(),
	)
	return service.NewReportService(detailService, repository.NewBrandRepository(db), store, zap.NewNop()), store
}

func TestReportService_BuildWorkbook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno",
		[]string{"volume", "reach_mix"})

	facts := &fakeFactSource{
		volume: []domain.VolumeFact{
			{ZoneID: uuid.New(), ZoneName: "Norte", PeriodWeek: 1, Revenue: 1200, WeightTons: 0.6},
		},
	}
	svc, _ := newReportService(t, db, facts)

	buf, err := svc.BuildWorkbook(actorCtx(tenant.ID), brand.ID, "2026-07")
	require.NoError(t, err)
	require.Greater(t, buf.Len(), 0)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "volume")
	assert.Contains(t, sheets, "reach_mix")
	assert.NotContains(t, sheets, "Sheet1")
}

func TestReportService_BuildWorkbook_InvalidMonth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", []string{"volume"})

	svc, _ := newReportService(t, db, &fakeFactSource{})

	_, err := svc.BuildWorkbook(actorCtx(tenant.ID), brand.ID, "next month")
	assert.ErrorIs(t, err, service.ErrInvalidMonth)
}

func TestReportService_Snapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	brand := testutil.CreateTestBrand(t, db, tenant.ID, "Marca Uno", []string{"volume"})

	svc, store := newReportService(t, db, &fakeFactSource{})
	ctx := actorCtx(tenant.ID)

	require.NoError(t, svc.Snapshot(ctx, brand.ID, "2026-07"))

	rc, err := store.Download(ctx, service.ReportKey(brand.ID, "2026-07"))
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestReportKey(t *testing.T) {
	brandID := uuid.MustParse("d5a0c0de-0000-4000-8000-000000000001")
	assert.Equal(t,
		"reports/d5a0c0de-0000-4000-8000-000000000001/2026-07.xlsx",
		service.ReportKey(brandID, "2026-07"))
}
