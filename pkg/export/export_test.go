package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset(rows int) Dataset {
	data := Dataset{Headers: []string{"Agent", "Score", "Markdowns"}}
	for i := 0; i < rows; i++ {
		data.Rows = append(data.Rows, []string{"Jo", "95", "Must properly document notes."})
	}
	return data
}

func TestCSVExporterEmptyDatasetWritesHeaderOnly(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset(0))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Agent", "Score", "Markdowns"}, records[0])
}

func TestCSVExporterPadsShortRows(t *testing.T) {
	data := Dataset{Headers: []string{"A", "B"}, Rows: [][]string{{"x"}}}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "A,B\nx,\n", string(out))
}

func TestCSVExporterEscapesFormulas(t *testing.T) {
	data := Dataset{Headers: []string{"Agent", "Notes", "Delta"}, Rows: [][]string{{"=HYPERLINK(\"x\")", "@SUM(A1)", "-5"}}}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{`'=HYPERLINK("x")`, "'@SUM(A1)", "-5"}, records[1])
}

func TestDatasetValidate(t *testing.T) {
	assert.Error(t, Dataset{}.Validate())
	assert.Error(t, Dataset{Headers: []string{"A"}, Rows: [][]string{{"1", "2"}}}.Validate())
	assert.Error(t, Dataset{Headers: []string{"A"}, Widths: []float64{1, 2}}.Validate())
}

func TestXLSXExporterWritesNamedSheet(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset(2), "QA Scores")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("QA Scores")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Agent", "Score", "Markdowns"}, rows[0])
	assert.Equal(t, "Jo", rows[1][0])
}

func TestXLSXExporterEmptyDatasetWritesHeaderOnly(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset(0), "QA Scores")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("QA Scores")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(0), "QA Scores Report")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestPDFExporterBreaksPages(t *testing.T) {
	single, err := NewPDFExporter().build(sampleDataset(3), "QA Scores Report")
	require.NoError(t, err)
	assert.Equal(t, 1, single.PageCount())

	many, err := NewPDFExporter().build(sampleDataset(120), "QA Scores Report")
	require.NoError(t, err)
	assert.Greater(t, many.PageCount(), 1)
}

func TestPDFExporterContinuesTallRowOnNextPage(t *testing.T) {
	headers := []string{"Agent", "QA Type", "Date", "Call Center", "Final Score", "Call ID", "Request ID",
		"Itinerary", "Call Length", "Notes", "Markdowns", "Submitted By"}
	var notes strings.Builder
	var lastWord string
	for i := 1; notes.Len() < 5000; i++ {
		lastWord = fmt.Sprintf("word%04d", i)
		notes.WriteString(lastWord + " ")
	}
	data := Dataset{
		Headers: headers,
		Widths:  []float64{1.3, 0.8, 1, 1.3, 0.7, 1, 1, 1, 0.8, 1.8, 2.6, 1.6},
		Rows: [][]string{
			{"Jo", "CS", "2025-05-01", "WNS", "95", "", "", "", "", notes.String(), "", "jo@example.com"},
			{"Amy", "Groups", "2025-05-02", "Buwelo", "88", "", "", "", "", "short", "", "amy@example.com"},
		},
	}

	pdf, err := NewPDFExporter().build(data, "QA Scores Report")
	require.NoError(t, err)
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	assert.Greater(t, pdf.PageCount(), 1)
	assert.LessOrEqual(t, pdf.GetY(), pageHeight-bottom)

	pdf.SetCompression(false)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	assert.Contains(t, buf.String(), lastWord)
	assert.Contains(t, buf.String(), "amy@example.com")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "ab", Truncate("ab", 3))
	assert.Equal(t, "éé", Truncate("ééé", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
}
