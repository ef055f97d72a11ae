package auth

import (
	"context"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
)

// ActorContext holds the authenticated caller's identity and scope
type ActorContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Roles       []domain.UserRoleType
	TenantID    uuid.UUID
	// BrandIDs lists the brands the caller is assigned to. Empty for
	// admins, who can access every brand in their tenant.
	BrandIDs []uuid.UUID
}

type contextKey string

const actorContextKey contextKey = "actorContext"
const brandScopeKey contextKey = "brandScope"

// WithActorContext adds the actor context to the context
func WithActorContext(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// FromContext extracts the actor context from the context
func FromContext(ctx context.Context) (*ActorContext, bool) {
	actor, ok := ctx.Value(actorContextKey).(*ActorContext)
	return actor, ok
}

// MustFromContext extracts the actor context or panics
func MustFromContext(ctx context.Context) *ActorContext {
	actor, ok := FromContext(ctx)
	if !ok {
		panic("actor context not found in context")
	}
	return actor
}

// HasRole checks if the actor has a specific role
func (a *ActorContext) HasRole(role domain.UserRoleType) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if the actor has any of the specified roles
func (a *ActorContext) HasAnyRole(roles ...domain.UserRoleType) bool {
	for _, role := range roles {
		if a.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin checks if the actor is a tenant admin
func (a *ActorContext) IsAdmin() bool {
	return a.HasRole(domain.RoleAdmin)
}

// IsServiceAccount checks if the actor is a machine-to-machine caller
func (a *ActorContext) IsServiceAccount() bool {
	return a.HasRole(domain.RoleAPIService)
}

// CanManageKpis checks if the actor may modify KPI definitions, targets
// or dashboard selections for a brand
func (a *ActorContext) CanManageKpis() bool {
	return a.HasAnyRole(domain.RoleAdmin, domain.RoleBrandManager, domain.RoleAPIService)
}

// CanAccessBrand checks if the actor can read data for a specific brand.
// Admins and service accounts can access every brand in their tenant;
// everyone else is limited to their assigned brands.
func (a *ActorContext) CanAccessBrand(brandID uuid.UUID) bool {
	if a.IsAdmin() || a.IsServiceAccount() {
		return true
	}
	for _, id := range a.BrandIDs {
		if id == brandID {
			return true
		}
	}
	return false
}

// RolesAsStrings returns roles as a slice of strings
func (a *ActorContext) RolesAsStrings() []string {
	result := make([]string, len(a.Roles))
	for i, role := range a.Roles {
		result[i] = string(role)
	}
	return result
}

// BrandScope is the brand resolved from the request path by middleware.
// Repositories and services read it instead of re-parsing URL parameters.
type BrandScope struct {
	BrandID  uuid.UUID
	TenantID uuid.UUID
}

// WithBrandScope adds the resolved brand scope to the context
func WithBrandScope(ctx context.Context, scope *BrandScope) context.Context {
	return context.WithValue(ctx, brandScopeKey, scope)
}

// BrandScopeFromContext extracts the brand scope from the context
func BrandScopeFromContext(ctx context.Context) (*BrandScope, bool) {
	scope, ok := ctx.Value(brandScopeKey).(*BrandScope)
	return scope, ok
}

// MustBrandScope extracts the brand scope from the context, panicking when
// absent. Only call from handlers mounted behind the BrandScope middleware.
func MustBrandScope(ctx context.Context) *BrandScope {
	scope, ok := BrandScopeFromContext(ctx)
	if !ok || scope == nil {
		panic("brand scope not found in context")
	}
	return scope
}

// GetEffectiveTenantFilter returns the tenant ID repositories must filter
// by for the current request, or nil when no actor is present (background
// jobs run unscoped and pass tenant IDs explicitly).
func GetEffectiveTenantFilter(ctx context.Context) *uuid.UUID {
	if scope, ok := BrandScopeFromContext(ctx); ok && scope != nil {
		return &scope.TenantID
	}
	if actor, ok := FromContext(ctx); ok {
		return &actor.TenantID
	}
	return nil
}
