package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders a Dataset as RFC 4180 CSV.
type CSVExporter struct {
	escapeFormulas bool
}

// NewCSVExporter builds a CSV exporter that neutralises spreadsheet formulas in cells.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{escapeFormulas: true}
}

// Render writes the header row followed by every data row, padding short rows.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	line := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i := range line {
			line[i] = e.value(cell(row, i))
		}
		if err := w.Write(line); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// value prefixes free text that a spreadsheet would evaluate as a formula.
func (e *CSVExporter) value(s string) string {
	if !e.escapeFormulas || s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '@', '\t', '\r':
		return "'" + s
	case '-':
		if len(s) > 1 && (s[1] < '0' || s[1] > '9') {
			return "'" + s
		}
	}
	return s
}
