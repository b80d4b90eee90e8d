package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

func record(id, agent string, center models.Center, qaType models.QAType, date models.Date) models.QaRecord {
	return models.QaRecord{ID: id, Agent: agent, Center: center, QAType: qaType, Date: date}
}

func fixture() []models.QaRecord {
	d1 := models.NewDate(2025, 3, 1)
	d2 := models.NewDate(2025, 3, 2)
	return []models.QaRecord{
		record("1", "Jo", models.CenterWNS, models.QATypeCS, d1),
		record("2", "Amy", models.CenterBuwelo, models.QATypeGroups, d2),
		record("3", "Jo", models.CenterWNS, models.QATypeGroups, d1),
		record("4", "jonah", models.CenterWNS, models.QATypeCS, d2),
	}
}

func ids(records []models.QaRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterCaseInsensitiveAgentSubstring(t *testing.T) {
	got := Filter(fixture(), models.RecordFilter{Agent: "JO"})
	assert.Equal(t, []string{"1", "3", "4"}, ids(got))
}

func TestFilterConjunctive(t *testing.T) {
	d2 := models.NewDate(2025, 3, 2)
	got := Filter(fixture(), models.RecordFilter{Center: models.CenterWNS, Date: &d2, QAType: models.QATypeCS})
	assert.Equal(t, []string{"4"}, ids(got))
}

func TestFilterEmptyMatchesAllAndIsIdempotent(t *testing.T) {
	all := fixture()
	assert.Equal(t, ids(all), ids(Filter(all, models.RecordFilter{})))

	f := models.RecordFilter{Agent: "o", Center: models.CenterWNS}
	once := Filter(all, f)
	twice := Filter(once, f)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("filter not idempotent (-once +twice):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	records := []models.QaRecord{
		record("1", "Jo", models.CenterWNS, models.QATypeCS, models.NewDate(2025, 1, 5)),
		record("2", "Jo", models.CenterWNS, models.QATypeCS, models.NewDate(2025, 2, 1)),
		record("3", "Amy", models.CenterBuwelo, models.QATypeCS, models.NewDate(2024, 12, 31)),
		record("4", "Amy", models.CenterWNS, models.QATypeCS, models.NewDate(2025, 1, 1)),
	}
	summary := Summarize(records)

	assert.Equal(t, 4, summary.TotalEvaluations)
	assert.Equal(t, 2, summary.UniqueAgents)
	require.NotNil(t, summary.LatestDate)
	assert.Equal(t, "2025-02-01", summary.LatestDate.String())
	want := []CenterCount{{Center: models.CenterWNS, Count: 3}, {Center: models.CenterBuwelo, Count: 1}}
	if diff := cmp.Diff(want, summary.CenterCount); diff != "" {
		t.Fatalf("center count mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeUniqueAgentsIsCaseSensitive(t *testing.T) {
	records := []models.QaRecord{{Agent: "Jo"}, {Agent: "Jo"}, {Agent: "Amy"}, {Agent: "jo"}}
	assert.Equal(t, 3, Summarize(records).UniqueAgents)
	assert.Equal(t, 2, Summarize(records[:3]).UniqueAgents)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.TotalEvaluations)
	assert.Nil(t, summary.LatestDate)
	assert.Empty(t, summary.CenterCount)
}

func TestAgentTallyAssignsPaletteColors(t *testing.T) {
	var records []models.QaRecord
	for i := 0; i < 13; i++ {
		records = append(records, models.QaRecord{Agent: string(rune('A' + i))})
	}
	records = append(records, models.QaRecord{Agent: "A"})

	tally := AgentTally(records)
	require.Len(t, tally, 13)
	assert.Equal(t, AgentSlice{Agent: "A", Count: 2, Color: "#007bff"}, tally[0])
	assert.Equal(t, "#343a40", tally[11].Color)
	assert.Equal(t, "#007bff", tally[12].Color)
}
