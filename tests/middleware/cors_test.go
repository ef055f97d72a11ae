package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/fermx3/companeros-en-ruta-api/internal/config"
	"github.com/fermx3/companeros-en-ruta-api/internal/http/middleware"
)

func corsHandler(cfg *config.CORSConfig, environment string) http.Handler {
	return middleware.CORS(cfg, environment, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORS_ExplicitOriginAllowed(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins: []string{"https://app.companerosenruta.mx"},
		AllowedMethods: []string{"GET", "PUT", "POST", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	handler := corsHandler(cfg, "production")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kpi-definitions", nil)
	req.Header.Set("Origin", "https://app.companerosenruta.mx")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "https://app.companerosenruta.mx", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_UnlistedOriginDenied(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins: []string{"https://app.companerosenruta.mx"},
		AllowedMethods: []string{"GET"},
	}
	handler := corsHandler(cfg, "production")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kpi-definitions", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DevelopmentAllowsAnyOrigin(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedMethods: []string{"GET"},
	}
	handler := corsHandler(cfg, "development")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kpi-definitions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ProductionWithoutOriginsDeniesAll(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedMethods: []string{"GET"},
	}
	handler := corsHandler(cfg, "production")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kpi-definitions", nil)
	req.Header.Set("Origin", "https://app.companerosenruta.mx")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightRequest(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins: []string{"https://app.companerosenruta.mx"},
		AllowedMethods: []string{"GET", "PUT"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}
	handler := corsHandler(cfg, "production")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/kpi-definitions", nil)
	req.Header.Set("Origin", "https://app.companerosenruta.mx")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "https://app.companerosenruta.mx", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	assert.Equal(t, "300", w.Header().Get("Access-Control-Max-Age"))
}
