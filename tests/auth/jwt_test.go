package auth_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
)

func TestExtractRoles(t *testing.T) {
	claims := jwt.MapClaims{
		"roles": []interface{}{"admin", "brand_manager"},
	}
	roles := auth.ExtractRoles(claims)
	assert.Equal(t, []domain.UserRoleType{domain.RoleAdmin, domain.RoleBrandManager}, roles)
}

func TestExtractRoles_SingleRoleClaim(t *testing.T) {
	claims := jwt.MapClaims{"role": "promotor"}
	roles := auth.ExtractRoles(claims)
	assert.Equal(t, []domain.UserRoleType{domain.RolePromotor}, roles)
}

func TestExtractRoles_NoClaims(t *testing.T) {
	roles := auth.ExtractRoles(jwt.MapClaims{})
	assert.NotNil(t, roles)
	assert.Empty(t, roles)
}

func TestExtractScopes(t *testing.T) {
	claims := jwt.MapClaims{"scp": "kpi.read kpi.write"}
	assert.Equal(t, []string{"kpi.read", "kpi.write"}, auth.ExtractScopes(claims))

	claims = jwt.MapClaims{"scope": "kpi.read"}
	assert.Equal(t, []string{"kpi.read"}, auth.ExtractScopes(claims))
}

func TestHasRequiredScope(t *testing.T) {
	scopes := []string{"kpi.read", "kpi.write"}

	assert.True(t, auth.HasRequiredScope(scopes, "kpi.read"))
	assert.True(t, auth.HasRequiredScope(scopes, "KPI.READ"), "scope comparison is case insensitive")
	assert.True(t, auth.HasRequiredScope(scopes, "reports.export, kpi.write"), "any of the listed scopes suffices")
	assert.False(t, auth.HasRequiredScope(scopes, "reports.export"))
	assert.True(t, auth.HasRequiredScope(scopes, ""), "empty requirement always passes")
	assert.False(t, auth.HasRequiredScope(nil, "kpi.read"))
}
