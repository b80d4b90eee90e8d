package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/qa-dashboard-api/internal/analysis"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/qa-dashboard-api/pkg/errors"
	"github.com/noah-isme/qa-dashboard-api/pkg/export"
)

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatCSV  = "csv"
)

const (
	exportSheetName   = "QA Scores"
	exportTitle       = "QA Scores Report"
	pdfMarkdownLimit  = 60
	exportFilePrefix  = "QA-Scores-"
	markdownSeparator = " | "
)

var exportHeaders = []string{
	"Agent", "QA Type", "Date", "Call Center", "Final Score", "Call ID", "Request ID",
	"Itinerary", "Call Length", "Notes", "Markdowns", "Submitted By",
}

// Relative PDF column widths; markdowns and notes get the most room.
var pdfColumnWeights = []float64{1.3, 0.8, 1, 1.3, 0.7, 1, 1, 1, 0.8, 1.8, 2.6, 1.6}

var exportContentTypes = map[string]string{
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
	FormatCSV:  "text/csv; charset=utf-8",
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
	Rows        int
}

// ExportService renders the filtered record table into downloadable documents.
type ExportService struct {
	feed    SnapshotSource
	xlsx    xlsxRenderer
	pdf     pdfRenderer
	csv     csvRenderer
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(feed SnapshotSource, xlsx xlsxRenderer, pdf pdfRenderer, csv csvRenderer, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{feed: feed, xlsx: xlsx, pdf: pdf, csv: csv, metrics: metrics, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Export renders the records matching filter, in table order, as format.
func (s *ExportService) Export(_ context.Context, format string, filter models.RecordFilter) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	records := analysis.Filter(s.feed.Current().Records, filter)
	var (
		payload []byte
		err     error
	)
	switch format {
	case FormatXLSX:
		payload, err = s.xlsx.Render(buildDataset(records, markdownSeparator, 0), exportSheetName)
	case FormatPDF:
		data := buildDataset(records, ", ", pdfMarkdownLimit)
		data.Widths = pdfColumnWeights
		payload, err = s.pdf.Render(data, exportTitle)
	case FormatCSV:
		payload, err = s.csv.Render(buildDataset(records, markdownSeparator, 0))
	}
	if err != nil {
		s.logger.Error("failed to render export", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.metrics.RecordExport(format)

	return &ExportFile{
		Filename:    ExportFilename(format, s.now()),
		ContentType: contentType,
		Payload:     payload,
		Rows:        len(records),
	}, nil
}

// ExportFilename names an export produced at the given moment.
func ExportFilename(format string, at time.Time) string {
	return exportFilePrefix + at.UTC().Format(models.DateLayout) + "." + format
}

func buildDataset(records []models.QaRecord, separator string, markdownLimit int) export.Dataset {
	data := export.Dataset{Headers: exportHeaders, Rows: make([][]string, 0, len(records))}
	for _, r := range records {
		data.Rows = append(data.Rows, []string{
			r.Agent,
			string(r.QAType),
			r.Date.String(),
			string(r.Center),
			strconv.Itoa(r.Score),
			r.CallID,
			r.RequestID,
			r.Itinerary,
			r.CallLength,
			r.Notes,
			export.Truncate(strings.Join(r.Markdowns, separator), markdownLimit),
			r.CreatedBy,
		})
	}
	return data
}
