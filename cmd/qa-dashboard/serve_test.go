package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/qa-dashboard-api/internal/handler"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/service"
	"github.com/noah-isme/qa-dashboard-api/pkg/config"
	appErrors "github.com/noah-isme/qa-dashboard-api/pkg/errors"
)

type rejectAll struct{}

func (rejectAll) ValidateToken(string) (*models.JWTClaims, error) {
	return nil, appErrors.ErrUnauthorized
}

func TestRouterProtectsAPIRoutes(t *testing.T) {
	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api/v1"}
	metrics := service.NewMetricsService()
	r := newRouter(cfg, zap.NewNop(), routes{
		auth:      handler.NewAuthHandler(nil),
		records:   handler.NewRecordHandler(nil, nil, nil),
		dashboard: handler.NewDashboardHandler(nil),
		exports:   handler.NewExportHandler(nil),
		stream:    handler.NewStreamHandler(nil, nil, nil, 0, nil),
		metrics:   handler.NewMetricsHandler(metrics, nil),
		tokens:    rejectAll{},
		policy:    service.NewAccessPolicy(nil, nil),
		observer:  metrics,
	})

	for _, path := range []string{"/api/v1/records", "/api/v1/records/abc", "/api/v1/records/stream", "/api/v1/dashboard", "/api/v1/exports/csv", "/api/v1/catalog"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
