package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/qa-dashboard-api/internal/catalog"
	"github.com/noah-isme/qa-dashboard-api/internal/dto"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/repository"
	"github.com/noah-isme/qa-dashboard-api/internal/scoring"
)

func dashboardRecords() []models.QaRecord {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	return []models.QaRecord{
		{ID: "1", Agent: "Jane", QAType: models.QATypeCS, Date: models.NewDate(2025, 4, 1), Center: models.CenterWNS, Score: 92, CreatedBy: "owner@example.com", Timestamp: base},
		{ID: "2", Agent: "Mark", QAType: models.QATypeGroups, Date: models.NewDate(2025, 4, 2), Center: models.CenterBuwelo, Score: 80, Markdowns: []string{"Uncertain or low-confidence behavior."}, CreatedBy: "other@example.com", Timestamp: base.Add(time.Hour)},
		{ID: "3", Agent: "Jane", QAType: models.QATypeCS, Date: models.NewDate(2025, 4, 3), Center: models.CenterWNS, Score: 70, Markdowns: []string{csDocumentNotes}, CreatedBy: "owner@example.com", Timestamp: base.Add(2 * time.Hour)},
	}
}

func newDashboardFixture(t *testing.T, cache *CacheService) (*DashboardService, *SnapshotFeed) {
	t.Helper()
	feed := NewSnapshotFeed(newMemoryStore(dashboardRecords()...), nil, nil)
	_, err := feed.Refresh(context.Background())
	require.NoError(t, err)

	model := scoring.New(catalog.Default())
	presenter := NewRecordPresenter(model, NewAccessPolicy(nil, nil))
	return NewDashboardService(feed, presenter, model, cache, time.Minute, 0, nil), feed
}

func TestDashboardServiceRecordsFiltersAndSummarizes(t *testing.T) {
	svc, _ := newDashboardFixture(t, nil)

	filter, applied, err := ParseRecordFilter(dto.RecordQuery{Agent: "jane", Center: "WNS"})
	require.NoError(t, err)
	resp := svc.Records(owner, filter, applied)

	require.Len(t, resp.Records, 2)
	assert.Equal(t, "1", resp.Records[0].ID)
	assert.True(t, resp.Records[0].Passing)
	assert.False(t, resp.Records[1].Passing)
	assert.True(t, resp.Records[0].CanEdit)
	assert.Equal(t, 2, resp.Summary.TotalEvaluations)
	assert.Equal(t, 1, resp.Summary.UniqueAgents)
	assert.Equal(t, "2025-04-03", resp.Summary.LatestDate.String())
	assert.Equal(t, "jane", resp.Filter.Agent)
	assert.Equal(t, uint64(1), resp.SnapshotVersion)
}

func TestDashboardServiceResultsAreReadOnly(t *testing.T) {
	svc, _ := newDashboardFixture(t, nil)

	resp := svc.Results(owner)
	require.Len(t, resp.Records, 3)
	for _, view := range resp.Records {
		assert.False(t, view.CanEdit)
	}
}

func TestDashboardServiceDashboard(t *testing.T) {
	svc, _ := newDashboardFixture(t, nil)

	resp, hit := svc.Dashboard(context.Background(), owner, models.RecordFilter{QAType: models.QATypeGroups}, dto.AppliedFilter{QAType: "Groups"})
	assert.False(t, hit)
	require.Len(t, resp.Records, 1)

	// Charts ignore the table filter.
	require.Len(t, resp.Charts.Agents, 2)
	assert.Equal(t, "Jane", resp.Charts.Agents[0].Agent)
	assert.Equal(t, 2, resp.Charts.Agents[0].Count)

	require.Len(t, resp.Recent, 2)
	assert.Equal(t, "3", resp.Recent[0].ID)
	assert.Equal(t, string(scoring.MarkdownOriginal), resp.Recent[0].MarkdownDetails[0].Class)
	assert.Equal(t, string(scoring.MarkdownExtended), resp.Recent[1].MarkdownDetails[0].Class)
}

func TestDashboardServiceCachesChartsPerSnapshot(t *testing.T) {
	client := newTestRedis(t)
	cache := NewCacheService(repository.NewCacheRepository(client, nil), nil, time.Minute, nil, true)
	svc, feed := newDashboardFixture(t, cache)

	_, hit := svc.Charts(context.Background())
	assert.False(t, hit)
	charts, hit := svc.Charts(context.Background())
	assert.True(t, hit)
	assert.Len(t, charts.Agents, 2)

	_, err := feed.Refresh(context.Background())
	require.NoError(t, err)
	_, hit = svc.Charts(context.Background())
	assert.False(t, hit)
}

func TestDashboardServiceCatalog(t *testing.T) {
	svc, _ := newDashboardFixture(t, nil)

	resp := svc.Catalog()
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, models.QATypeCS, resp.Categories[0].QAType)
	assert.Equal(t, 90, resp.Categories[0].PassThreshold)
	assert.Len(t, resp.Categories[0].Guidelines, 9)
	assert.Equal(t, 85, resp.Categories[1].PassThreshold)
	assert.Equal(t, models.Centers, resp.Centers)
}
