package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/qa-dashboard-api/internal/analysis"
	"github.com/noah-isme/qa-dashboard-api/internal/dto"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/scoring"
)

// DashboardService builds listings, summaries and charts from the current snapshot.
type DashboardService struct {
	feed        SnapshotSource
	presenter   *RecordPresenter
	model       *scoring.Model
	cache       *CacheService
	cacheTTL    time.Duration
	recentLimit int
	logger      *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(feed SnapshotSource, presenter *RecordPresenter, model *scoring.Model, cache *CacheService, cacheTTL time.Duration, recentLimit int, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recentLimit <= 0 {
		recentLimit = scoring.DefaultRecentLimit
	}
	return &DashboardService{feed: feed, presenter: presenter, model: model, cache: cache, cacheTTL: cacheTTL, recentLimit: recentLimit, logger: logger}
}

// Records returns the filtered table and its summary cards.
func (s *DashboardService) Records(viewer models.Identity, filter models.RecordFilter, applied dto.AppliedFilter) dto.RecordListResponse {
	return s.list(viewer, s.feed.Current(), filter, applied)
}

func (s *DashboardService) list(viewer models.Identity, snapshot models.Snapshot, filter models.RecordFilter, applied dto.AppliedFilter) dto.RecordListResponse {
	filtered := analysis.Filter(snapshot.Records, filter)
	return dto.RecordListResponse{
		Records:         s.presenter.Views(viewer, filtered),
		Summary:         analysis.Summarize(filtered),
		Filter:          applied,
		SnapshotVersion: snapshot.Version,
	}
}

// Results returns every record for the read-only results page.
func (s *DashboardService) Results(viewer models.Identity) dto.RecordListResponse {
	snapshot := s.feed.Current()
	resp := s.list(viewer, snapshot, models.RecordFilter{}, dto.AppliedFilter{})
	for i := range resp.Records {
		resp.Records[i].CanEdit = false
	}
	return resp
}

// Dashboard assembles the full dashboard view. The boolean reports a chart cache hit.
func (s *DashboardService) Dashboard(ctx context.Context, viewer models.Identity, filter models.RecordFilter, applied dto.AppliedFilter) (dto.DashboardResponse, bool) {
	snapshot := s.feed.Current()
	charts, hit := s.charts(ctx, snapshot)

	recent := scoring.RecentWithMarkdowns(snapshot.Records, s.recentLimit)
	entries := make([]dto.RecentEntry, 0, len(recent))
	for _, record := range recent {
		entries = append(entries, s.presenter.Recent(viewer, record))
	}

	return dto.DashboardResponse{
		RecordListResponse: s.list(viewer, snapshot, filter, applied),
		Charts:             charts,
		Recent:             entries,
	}, hit
}

// Charts returns the unfiltered per-agent and per-center tallies.
func (s *DashboardService) Charts(ctx context.Context) (dto.ChartsResponse, bool) {
	return s.charts(ctx, s.feed.Current())
}

func (s *DashboardService) charts(ctx context.Context, snapshot models.Snapshot) (dto.ChartsResponse, bool) {
	key := ChartsKey(snapshot)
	var cached dto.ChartsResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true
	}

	charts := dto.ChartsResponse{
		Agents:  analysis.AgentTally(snapshot.Records),
		Centers: analysis.CenterTally(snapshot.Records),
	}
	if charts.Agents == nil {
		charts.Agents = []analysis.AgentSlice{}
	}
	_ = s.cache.Set(ctx, key, charts, s.cacheTTL)
	return charts, false
}

// Catalog describes the guideline checklists and form choices.
func (s *DashboardService) Catalog() dto.CatalogResponse {
	c := s.model.Catalog()
	resp := dto.CatalogResponse{Version: c.Version(), Centers: models.Centers}
	for _, qaType := range models.QATypes {
		resp.Categories = append(resp.Categories, dto.CatalogCategory{
			QAType:        qaType,
			PassThreshold: c.PassThreshold(qaType),
			Guidelines:    c.GuidelinesFor(qaType),
		})
	}
	return resp
}
