package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
)

func TestActorContext_Roundtrip(t *testing.T) {
	actor := &auth.ActorContext{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Roles:    []domain.UserRoleType{domain.RoleSupervisor},
	}

	ctx := auth.WithActorContext(context.Background(), actor)
	got, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, actor.UserID, got.UserID)

	_, ok = auth.FromContext(context.Background())
	assert.False(t, ok)
}

func TestMustFromContext(t *testing.T) {
	actor := &auth.ActorContext{UserID: uuid.New(), TenantID: uuid.New()}
	ctx := auth.WithActorContext(context.Background(), actor)
	assert.Equal(t, actor, auth.MustFromContext(ctx))

	assert.Panics(t, func() {
		auth.MustFromContext(context.Background())
	})
}

func TestActorContext_HasRole(t *testing.T) {
	actor := &auth.ActorContext{
		Roles: []domain.UserRoleType{domain.RoleSupervisor, domain.RolePromotor},
	}

	assert.True(t, actor.HasRole(domain.RoleSupervisor))
	assert.False(t, actor.HasRole(domain.RoleAdmin))
	assert.True(t, actor.HasAnyRole(domain.RoleAdmin, domain.RolePromotor))
	assert.False(t, actor.HasAnyRole(domain.RoleAdmin, domain.RoleViewer))
	assert.False(t, (&auth.ActorContext{}).HasAnyRole(domain.RoleAdmin))
}

func TestActorContext_CanManageKpis(t *testing.T) {
	cases := []struct {
		role domain.UserRoleType
		want bool
	}{
		{domain.RoleAdmin, true},
		{domain.RoleBrandManager, true},
		{domain.RoleAPIService, true},
		{domain.RoleSupervisor, false},
		{domain.RolePromotor, false},
		{domain.RoleAsesor, false},
		{domain.RoleViewer, false},
	}

	for _, tc := range cases {
		actor := &auth.ActorContext{Roles: []domain.UserRoleType{tc.role}}
		assert.Equal(t, tc.want, actor.CanManageKpis(), "role %s", tc.role)
	}
}

func TestActorContext_CanAccessBrand(t *testing.T) {
	assigned := uuid.New()
	other := uuid.New()

	actor := &auth.ActorContext{
		Roles:    []domain.UserRoleType{domain.RolePromotor},
		BrandIDs: []uuid.UUID{assigned},
	}
	assert.True(t, actor.CanAccessBrand(assigned))
	assert.False(t, actor.CanAccessBrand(other))

	// Admins and service accounts are not limited to assigned brands
	admin := &auth.ActorContext{Roles: []domain.UserRoleType{domain.RoleAdmin}}
	assert.True(t, admin.CanAccessBrand(other))

	svc := &auth.ActorContext{Roles: []domain.UserRoleType{domain.RoleAPIService}}
	assert.True(t, svc.CanAccessBrand(other))
}

func TestGetEffectiveTenantFilter(t *testing.T) {
	actorTenant := uuid.New()
	scopeTenant := uuid.New()

	// No actor, no scope: background jobs run unscoped
	assert.Nil(t, auth.GetEffectiveTenantFilter(context.Background()))

	ctx := auth.WithActorContext(context.Background(), &auth.ActorContext{TenantID: actorTenant})
	got := auth.GetEffectiveTenantFilter(ctx)
	require.NotNil(t, got)
	assert.Equal(t, actorTenant, *got)

	// A resolved brand scope wins over the actor's tenant
	ctx = auth.WithBrandScope(ctx, &auth.BrandScope{BrandID: uuid.New(), TenantID: scopeTenant})
	got = auth.GetEffectiveTenantFilter(ctx)
	require.NotNil(t, got)
	assert.Equal(t, scopeTenant, *got)
}

func TestMustBrandScope_PanicsWithoutScope(t *testing.T) {
	assert.Panics(t, func() {
		auth.MustBrandScope(context.Background())
	})

	scope := &auth.BrandScope{BrandID: uuid.New(), TenantID: uuid.New()}
	ctx := auth.WithBrandScope(context.Background(), scope)
	assert.Equal(t, scope, auth.MustBrandScope(ctx))
}

func TestRolesAsStrings(t *testing.T) {
	actor := &auth.ActorContext{
		Roles: []domain.UserRoleType{domain.RoleAdmin, domain.RoleAsesor},
	}
	assert.Equal(t, []string{"admin", "asesor_ventas"}, actor.RolesAsStrings())
}
