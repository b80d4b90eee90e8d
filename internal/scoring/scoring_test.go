package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/qa-dashboard-api/internal/catalog"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

func newModel() *Model {
	return New(catalog.Default())
}

func TestIsPassingThresholds(t *testing.T) {
	m := newModel()

	assert.True(t, m.IsPassing(models.QATypeCS, 90))
	assert.False(t, m.IsPassing(models.QATypeCS, 89))
	assert.True(t, m.IsPassing(models.QATypeGroups, 85))
	assert.False(t, m.IsPassing(models.QATypeGroups, 84))
	assert.False(t, m.IsPassing(models.QATypeCS, 85))
	assert.True(t, m.IsPassing("", 90))
}

func TestClassifyMarkdown(t *testing.T) {
	m := newModel()
	assert.Equal(t, MarkdownOriginal, m.ClassifyMarkdown("Must properly document notes."))
	assert.Equal(t, MarkdownExtended, m.ClassifyMarkdown("Process not followed correctly"))
	assert.Equal(t, MarkdownUnknown, m.ClassifyMarkdown("Sang a song"))
}

func TestOrderMarkdownsDeduplicatesInCatalogOrder(t *testing.T) {
	m := newModel()
	cs := m.Catalog().GuidelinesFor(models.QATypeCS)

	got := m.OrderMarkdowns(models.QATypeCS, []string{cs[5], cs[1], cs[5], cs[0]})
	assert.Equal(t, []string{cs[0], cs[1], cs[5]}, got)
}

func TestUnknownMarkdowns(t *testing.T) {
	m := newModel()
	groups := m.Catalog().GuidelinesFor(models.QATypeGroups)
	cs := m.Catalog().GuidelinesFor(models.QATypeCS)

	assert.Empty(t, m.UnknownMarkdowns(models.QATypeGroups, groups[:3]))
	assert.Equal(t, []string{cs[0]}, m.UnknownMarkdowns(models.QATypeGroups, []string{groups[0], cs[0]}))
}

func TestRecentWithMarkdowns(t *testing.T) {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	var records []models.QaRecord
	for i := 0; i < 5; i++ {
		records = append(records, models.QaRecord{
			ID:        string(rune('a' + i)),
			Markdowns: []string{"x"},
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
	}
	records = append(records, models.QaRecord{ID: "clean", Timestamp: base.Add(24 * time.Hour)})

	recent := RecentWithMarkdowns(records, 5)
	require.Len(t, recent, 5)
	ids := make([]string, 0, len(recent))
	for _, r := range recent {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, ids)
}

func TestRecentWithMarkdownsStableAndDefaultLimit(t *testing.T) {
	at := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	var records []models.QaRecord
	for i := 0; i < 7; i++ {
		records = append(records, models.QaRecord{ID: string(rune('a' + i)), Markdowns: []string{"x"}, Timestamp: at})
	}
	recent := RecentWithMarkdowns(records, 0)
	require.Len(t, recent, DefaultRecentLimit)
	assert.Equal(t, "a", recent[0].ID)
	assert.Equal(t, "e", recent[4].ID)
}
