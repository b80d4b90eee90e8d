// Package scoring derives pass/fail, markdown classes and the recent-markdowns view from records.
package scoring

import (
	"sort"

	"github.com/noah-isme/qa-dashboard-api/internal/catalog"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

// DefaultRecentLimit is the number of entries shown in the recent markdowns panel.
const DefaultRecentLimit = 5

// MarkdownClass tells which checklist a marked-down statement came from.
type MarkdownClass string

const (
	MarkdownOriginal MarkdownClass = "original"
	MarkdownExtended MarkdownClass = "extended"
	MarkdownUnknown  MarkdownClass = "unknown"
)

// Model evaluates records against a guideline catalog.
type Model struct {
	catalog *catalog.Catalog
}

// New builds a scoring model over c.
func New(c *catalog.Catalog) *Model {
	return &Model{catalog: c}
}

// Catalog exposes the underlying guideline catalog.
func (m *Model) Catalog() *catalog.Catalog {
	return m.catalog
}

// IsPassing reports whether score meets the threshold for qaType (inclusive).
func (m *Model) IsPassing(qaType models.QAType, score int) bool {
	return score >= m.catalog.PassThreshold(qaType)
}

// ClassifyMarkdown reports which checklist statement belongs to.
// Statements present in both checklists classify as original.
func (m *Model) ClassifyMarkdown(statement string) MarkdownClass {
	switch {
	case m.catalog.Contains(models.QATypeCS, statement):
		return MarkdownOriginal
	case m.catalog.Contains(models.QATypeGroups, statement):
		return MarkdownExtended
	default:
		return MarkdownUnknown
	}
}

// UnknownMarkdowns returns the statements not in the qaType checklist, in input order.
func (m *Model) UnknownMarkdowns(qaType models.QAType, markdowns []string) []string {
	var unknown []string
	for _, statement := range markdowns {
		if !m.catalog.Contains(qaType, statement) {
			unknown = append(unknown, statement)
		}
	}
	return unknown
}

// OrderMarkdowns de-duplicates markdowns and sorts them by catalog position for qaType.
// Statements outside the catalog keep their relative order after the known ones.
func (m *Model) OrderMarkdowns(qaType models.QAType, markdowns []string) []string {
	seen := make(map[string]struct{}, len(markdowns))
	out := make([]string, 0, len(markdowns))
	for _, statement := range markdowns {
		if _, dup := seen[statement]; dup {
			continue
		}
		seen[statement] = struct{}{}
		out = append(out, statement)
	}
	rank := func(statement string) int {
		if pos, ok := m.catalog.Position(qaType, statement); ok {
			return pos
		}
		return len(out) + len(m.catalog.GuidelinesFor(qaType))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i]) < rank(out[j])
	})
	return out
}

// RecentWithMarkdowns returns up to n records that carry markdowns, newest first.
// Equal timestamps keep their input order. A non-positive n uses DefaultRecentLimit.
func RecentWithMarkdowns(records []models.QaRecord, n int) []models.QaRecord {
	if n <= 0 {
		n = DefaultRecentLimit
	}
	withMarkdowns := make([]models.QaRecord, 0, len(records))
	for _, record := range records {
		if record.HasMarkdowns() {
			withMarkdowns = append(withMarkdowns, record)
		}
	}
	sort.SliceStable(withMarkdowns, func(i, j int) bool {
		return withMarkdowns[i].Timestamp.After(withMarkdowns[j].Timestamp)
	})
	if len(withMarkdowns) > n {
		withMarkdowns = withMarkdowns[:n]
	}
	return withMarkdowns
}
