package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/repository"
	"github.com/fermx3/companeros-en-ruta-api/tests/testutil"
)

func actorCtx(tenantID uuid.UUID) context.Context {
	return auth.WithActorContext(context.Background(), &auth.ActorContext{
		UserID:   uuid.New(),
		TenantID: tenantID,
		Roles:    []domain.UserRoleType{domain.RoleAdmin},
	})
}

func TestKpiDefinitionRepository_ListOrdersByDisplayOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	ctx := actorCtx(tenant.ID)

	repo := repository.NewKpiDefinitionRepository(db)

	second := testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiReachMix, domain.ComputationReachMix)
	second.DisplayOrder = 2
	require.NoError(t, db.Save(second).Error)

	first := testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)
	first.DisplayOrder = 1
	require.NoError(t, db.Save(first).Error)

	defs, err := repo.List(ctx, repository.DefaultSortConfig())
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, domain.KpiVolume, defs[0].Slug)
	assert.Equal(t, domain.KpiReachMix, defs[1].Slug)
}

func TestKpiDefinitionRepository_ListSortedByLabel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	ctx := actorCtx(tenant.ID)

	repo := repository.NewKpiDefinitionRepository(db)

	volume := testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)
	volume.Label = "Ventas"
	volume.DisplayOrder = 1
	require.NoError(t, db.Save(volume).Error)

	reach := testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiReachMix, domain.ComputationReachMix)
	reach.Label = "Alcance"
	reach.DisplayOrder = 2
	require.NoError(t, db.Save(reach).Error)

	defs, err := repo.List(ctx, repository.SortConfig{Field: "label", Order: repository.SortOrderAsc})
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "Alcance", defs[0].Label)
	assert.Equal(t, "Ventas", defs[1].Label)

	// Fields outside the whitelist fall back to display order
	defs, err = repo.List(ctx, repository.SortConfig{Field: "bogus", Order: repository.SortOrderAsc})
	require.NoError(t, err)
	assert.Equal(t, domain.KpiVolume, defs[0].Slug)
}

func TestKpiDefinitionRepository_TenantIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenantA := testutil.CreateTestTenant(t, db, "Tenant A")
	tenantB := testutil.CreateTestTenant(t, db, "Tenant B")
	testutil.CreateTestDefinition(t, db, tenantA.ID, domain.KpiVolume, domain.ComputationVolume)

	repo := repository.NewKpiDefinitionRepository(db)

	defs, err := repo.List(actorCtx(tenantB.ID), repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Empty(t, defs, "Tenant B must not see tenant A's catalog")

	_, err = repo.GetBySlug(actorCtx(tenantB.ID), domain.KpiVolume)
	assert.Error(t, err)
}

func TestKpiDefinitionRepository_ListActiveBySlugs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	tenant := testutil.CreateTestTenant(t, db, "Tenant A")
	ctx := actorCtx(tenant.ID)

	testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiVolume, domain.ComputationVolume)
	inactive := testutil.CreateTestDefinition(t, db, tenant.ID, domain.KpiReachMix, domain.ComputationReachMix)
	inactive.IsActive = false
	require.NoError(t, db.Save(inactive).Error)

	repo := repository.NewKpiDefinitionRepository(db)

	defs, err := repo.ListActiveBySlugs(ctx, []domain.KpiSlug{domain.KpiVolume, domain.KpiReachMix})
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, domain.KpiVolume, defs[0].Slug)

	// Empty slug list short-circuits to an empty slice
	defs, err = repo.ListActiveBySlugs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, defs)
}
