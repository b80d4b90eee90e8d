package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/qa-dashboard-api/internal/dto"
	"github.com/noah-isme/qa-dashboard-api/internal/middleware"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/pkg/response"
)

type dashboardService interface {
	Dashboard(ctx context.Context, viewer models.Identity, filter models.RecordFilter, applied dto.AppliedFilter) (dto.DashboardResponse, bool)
	Results(viewer models.Identity) dto.RecordListResponse
	Catalog() dto.CatalogResponse
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Dashboard godoc
// @Summary Dashboard view
// @Description Filtered records, summary cards, unfiltered charts and recent markdowns
// @Tags Dashboard
// @Produce json
// @Param agent query string false "Agent name substring"
// @Param center query string false "Call center"
// @Param date query string false "Call date (YYYY-MM-DD)"
// @Param qaType query string false "CS or Groups"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	filter, applied, ok := bindFilter(c)
	if !ok {
		return
	}
	resp, cacheHit := h.service.Dashboard(c.Request.Context(), identity, filter, applied)
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetSnapshotVersion(c, resp.SnapshotVersion)
	response.JSON(c, http.StatusOK, resp, nil, middleware.ExtractMeta(c))
}

// Results godoc
// @Summary All results
// @Description Read-only listing of every evaluation
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /results [get]
func (h *DashboardHandler) Results(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	resp := h.service.Results(identity)
	middleware.SetSnapshotVersion(c, resp.SnapshotVersion)
	response.JSON(c, http.StatusOK, resp, nil, middleware.ExtractMeta(c))
}

// Catalog godoc
// @Summary Guideline catalog
// @Description Checklists, pass thresholds and call centers for the evaluation form
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /catalog [get]
func (h *DashboardHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Catalog(), nil)
}
