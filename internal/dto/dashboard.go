package dto

import "github.com/noah-isme/qa-dashboard-api/internal/analysis"

// AppliedFilter echoes the filter criteria used to build a response.
type AppliedFilter struct {
	Agent  string `json:"agent,omitempty"`
	Center string `json:"center,omitempty"`
	Date   string `json:"date,omitempty"`
	QAType string `json:"qaType,omitempty"`
}

// RecordListResponse is the filtered table with its summary cards.
type RecordListResponse struct {
	Records         []RecordView     `json:"records"`
	Summary         analysis.Summary `json:"summary"`
	Filter          AppliedFilter    `json:"filter"`
	SnapshotVersion uint64           `json:"snapshotVersion"`
}

// ChartsResponse holds the unfiltered per-agent and per-center tallies.
type ChartsResponse struct {
	Agents  []analysis.AgentSlice  `json:"agents"`
	Centers []analysis.CenterCount `json:"centers"`
}

// DashboardResponse captures the aggregated dashboard payload.
type DashboardResponse struct {
	RecordListResponse
	Charts ChartsResponse `json:"charts"`
	Recent []RecentEntry  `json:"recent"`
}

// StreamEvent is pushed to live listeners whenever the snapshot changes.
type StreamEvent struct {
	Version uint64       `json:"version"`
	Records []RecordView `json:"records"`
}
