package middleware

import (
	"net/http"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BrandScope resolves the {brandId} URL parameter, verifies the actor may
// access that brand, and stores the resolved scope in the request context.
// Repositories downstream filter by the scope's tenant instead of
// re-parsing URL parameters.
func BrandScope(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "brandId")
			brandID, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "Bad Request: invalid brand id", http.StatusBadRequest)
				return
			}

			actor, ok := auth.FromContext(r.Context())
			if !ok {
				http.Error(w, "Forbidden: no actor context", http.StatusForbidden)
				return
			}

			if !actor.CanAccessBrand(brandID) {
				logger.Warn("brand access denied",
					zap.String("user_id", actor.UserID.String()),
					zap.String("brand_id", brandID.String()),
				)
				http.Error(w, "Forbidden: no access to brand", http.StatusForbidden)
				return
			}

			ctx := auth.WithBrandScope(r.Context(), &auth.BrandScope{
				BrandID:  brandID,
				TenantID: actor.TenantID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
