package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/http/middleware"
)

// scopedRequest routes a request through a chi router so {brandId} is a
// real URL parameter, the way the middleware sees it in production.
func scopedRequest(t *testing.T, brandIDParam string, actor *auth.ActorContext) (*httptest.ResponseRecorder, *auth.BrandScope) {
	t.Helper()

	var captured *auth.BrandScope

	r := chi.NewRouter()
	r.Route("/brands/{brandId}", func(r chi.Router) {
		r.Use(middleware.BrandScope(zap.NewNop()))
		r.Get("/kpis", func(w http.ResponseWriter, req *http.Request) {
			scope, ok := auth.BrandScopeFromContext(req.Context())
			require.True(t, ok)
			captured = scope
			w.WriteHeader(http.StatusOK)
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/brands/"+brandIDParam+"/kpis", nil)
	if actor != nil {
		req = req.WithContext(auth.WithActorContext(context.Background(), actor))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w, captured
}

func TestBrandScope_AdminResolvesScope(t *testing.T) {
	brandID := uuid.New()
	tenantID := uuid.New()
	actor := &auth.ActorContext{
		UserID:   uuid.New(),
		TenantID: tenantID,
		Roles:    []domain.UserRoleType{domain.RoleAdmin},
	}

	w, scope := scopedRequest(t, brandID.String(), actor)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, scope)
	assert.Equal(t, brandID, scope.BrandID)
	assert.Equal(t, tenantID, scope.TenantID)
}

func TestBrandScope_AssignedBrandAllowed(t *testing.T) {
	brandID := uuid.New()
	actor := &auth.ActorContext{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Roles:    []domain.UserRoleType{domain.RolePromotor},
		BrandIDs: []uuid.UUID{brandID},
	}

	w, scope := scopedRequest(t, brandID.String(), actor)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, scope)
	assert.Equal(t, brandID, scope.BrandID)
}

func TestBrandScope_UnassignedBrandForbidden(t *testing.T) {
	actor := &auth.ActorContext{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Roles:    []domain.UserRoleType{domain.RolePromotor},
		BrandIDs: []uuid.UUID{uuid.New()},
	}

	w, _ := scopedRequest(t, uuid.New().String(), actor)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBrandScope_NoActorForbidden(t *testing.T) {
	w, _ := scopedRequest(t, uuid.New().String(), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBrandScope_InvalidBrandID(t *testing.T) {
	actor := &auth.ActorContext{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Roles:    []domain.UserRoleType{domain.RoleAdmin},
	}

	w, _ := scopedRequest(t, "not-a-uuid", actor)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
