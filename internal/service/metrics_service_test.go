package service

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest("GET", "/records", 200, 20*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/records", 200, 40*time.Millisecond)
	m.ObserveSnapshot(models.Snapshot{Version: 4, Records: make([]models.QaRecord, 3)}, nil)
	m.ObserveSnapshot(models.Snapshot{}, errors.New("boom"))
	m.StreamOpened()
	m.StreamOpened()
	m.StreamClosed()
	m.RecordWrite("create", nil)
	m.RecordExport("pdf")

	summary := m.Snapshot()
	assert.Equal(t, uint64(2), summary.RequestsTotal)
	assert.InDelta(t, 30, summary.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(4), summary.SnapshotVersion)
	assert.Equal(t, 3, summary.SnapshotRecords)
	assert.Equal(t, int64(1), summary.StreamSubscribers)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.snapshotRefreshes.WithLabelValues("error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.recordWrites.WithLabelValues("create", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.exportsRendered.WithLabelValues("pdf")))
}

func TestMetricsServiceNilIsSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveSnapshot(models.Snapshot{}, nil)
	m.RecordWrite("delete", nil)
	m.StreamOpened()
	assert.Equal(t, models.SystemMetrics{}, m.Snapshot())
}
