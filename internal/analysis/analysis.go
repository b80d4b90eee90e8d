// Package analysis filters snapshots and computes the dashboard aggregates.
package analysis

import (
	"strings"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

// Palette colors pie slices by index, wrapping when there are more agents than colors.
var Palette = []string{
	"#007bff", "#28a745", "#ffc107", "#dc3545", "#6610f2", "#20c997",
	"#fd7e14", "#6f42c1", "#17a2b8", "#e83e8c", "#6c757d", "#343a40",
}

// CenterCount is the number of records attributed to one call center.
type CenterCount struct {
	Center models.Center `json:"center"`
	Count  int           `json:"count"`
}

// AgentSlice is one pie slice in the per-agent chart.
type AgentSlice struct {
	Agent string `json:"agent"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// Summary aggregates a filtered record list.
type Summary struct {
	TotalEvaluations int           `json:"totalEvaluations"`
	UniqueAgents     int           `json:"uniqueAgents"`
	LatestDate       *models.Date  `json:"latestDate"`
	CenterCount      []CenterCount `json:"centerCount"`
}

// Matches reports whether record satisfies every non-empty criterion in f.
func Matches(f models.RecordFilter, record models.QaRecord) bool {
	if f.Agent != "" && !strings.Contains(strings.ToLower(record.Agent), strings.ToLower(f.Agent)) {
		return false
	}
	if f.Center != "" && record.Center != f.Center {
		return false
	}
	if f.Date != nil && !f.Date.IsZero() && !record.Date.Equal(*f.Date) {
		return false
	}
	if f.QAType != "" && record.QAType != f.QAType {
		return false
	}
	return true
}

// Filter returns the records matching f in their original order.
func Filter(records []models.QaRecord, f models.RecordFilter) []models.QaRecord {
	out := make([]models.QaRecord, 0, len(records))
	for _, record := range records {
		if Matches(f, record) {
			out = append(out, record)
		}
	}
	return out
}

// Summarize computes the summary card values. Agent names are compared exactly.
func Summarize(records []models.QaRecord) Summary {
	summary := Summary{TotalEvaluations: len(records), CenterCount: CenterTally(records)}
	agents := make(map[string]struct{}, len(records))
	for i := range records {
		agents[records[i].Agent] = struct{}{}
		date := records[i].Date
		if date.IsZero() {
			continue
		}
		if summary.LatestDate == nil || date.After(*summary.LatestDate) {
			summary.LatestDate = &date
		}
	}
	summary.UniqueAgents = len(agents)
	return summary
}

// CenterTally counts records per center in first-seen order.
func CenterTally(records []models.QaRecord) []CenterCount {
	index := make(map[models.Center]int)
	tally := make([]CenterCount, 0, len(models.Centers))
	for _, record := range records {
		pos, ok := index[record.Center]
		if !ok {
			pos = len(tally)
			index[record.Center] = pos
			tally = append(tally, CenterCount{Center: record.Center})
		}
		tally[pos].Count++
	}
	return tally
}

// AgentTally counts records per agent in first-seen order and assigns palette colors.
func AgentTally(records []models.QaRecord) []AgentSlice {
	index := make(map[string]int)
	var tally []AgentSlice
	for _, record := range records {
		pos, ok := index[record.Agent]
		if !ok {
			pos = len(tally)
			index[record.Agent] = pos
			tally = append(tally, AgentSlice{Agent: record.Agent, Color: Palette[pos%len(Palette)]})
		}
		tally[pos].Count++
	}
	return tally
}
