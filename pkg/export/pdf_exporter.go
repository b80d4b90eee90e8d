package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfLineHeight = 5.0
	pdfCellPad    = 1.0
)

// PDFExporter renders datasets into a ruled landscape table that breaks across pages.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	pdf, err := e.build(data, title)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) build(data Dataset, title string) (*gofpdf.Fpdf, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	// Rows are broken manually so the header can be redrawn on each page.
	pdf.SetAutoPageBreak(false, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	widths := columnWidths(pdf, data)
	pdf.SetFont("Arial", "B", 9)
	header := splitCells(pdf, tr, widths, data.Headers)
	drawHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		drawLines(pdf, widths, header, 0, lineCount(header), true)
		pdf.SetFont("Arial", "", 8)
	}
	drawHeader()

	_, pageHeight := pdf.GetPageSize()
	_, top, _, bottom := pdf.GetMargins()
	linesLeft := func(y float64) int {
		return int((pageHeight - bottom - y - 2*pdfCellPad) / pdfLineHeight)
	}
	// Lines a row can use on a page that holds only the header.
	perPage := linesLeft(top + blockHeight(lineCount(header)))
	if perPage < 1 {
		return nil, fmt.Errorf("pdf: header leaves no room for rows")
	}

	for _, row := range data.Rows {
		cells := make([]string, len(data.Headers))
		for i := range data.Headers {
			cells[i] = cell(row, i)
		}
		lines := splitCells(pdf, tr, widths, cells)
		total := lineCount(lines)
		// A row that fits on one page is kept whole; a taller one continues on the
		// following pages below a repeated header.
		for from := 0; from < total; {
			remaining := total - from
			avail := linesLeft(pdf.GetY())
			if avail < remaining && (avail < 1 || remaining <= perPage) {
				pdf.AddPage()
				drawHeader()
				continue
			}
			n := remaining
			if avail < n {
				n = avail
			}
			drawLines(pdf, widths, lines, from, n, false)
			from += n
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}
	return pdf, nil
}

func columnWidths(pdf *gofpdf.Fpdf, data Dataset) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	weights := data.Widths
	if len(weights) == 0 {
		weights = make([]float64, len(data.Headers))
		for i := range weights {
			weights[i] = 1
		}
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = usable * w / total
	}
	return widths
}

// splitCells wraps every cell to its column width. Lines are already translated.
func splitCells(pdf *gofpdf.Fpdf, tr func(string) string, widths []float64, cells []string) [][]string {
	out := make([][]string, len(cells))
	for i, value := range cells {
		for _, line := range pdf.SplitLines([]byte(tr(value)), widths[i]-2*pdfCellPad) {
			out[i] = append(out[i], string(line))
		}
	}
	return out
}

func lineCount(cells [][]string) int {
	n := 1
	for _, lines := range cells {
		if len(lines) > n {
			n = len(lines)
		}
	}
	return n
}

func blockHeight(lines int) float64 {
	return float64(lines)*pdfLineHeight + 2*pdfCellPad
}

// drawLines draws lines [from, from+count) of every cell as one ruled block and moves
// below it.
func drawLines(pdf *gofpdf.Fpdf, widths []float64, cells [][]string, from, count int, fill bool) {
	height := blockHeight(count)
	x, y := pdf.GetXY()
	style := "D"
	if fill {
		style = "FD"
	}
	for i, lines := range cells {
		pdf.Rect(x, y, widths[i], height, style)
		for k := 0; k < count && from+k < len(lines); k++ {
			pdf.SetXY(x+pdfCellPad, y+pdfCellPad+float64(k)*pdfLineHeight)
			pdf.CellFormat(widths[i]-2*pdfCellPad, pdfLineHeight, lines[from+k], "", 0, "L", false, 0, "")
		}
		x += widths[i]
	}
	left, _, _, _ := pdf.GetMargins()
	pdf.SetXY(left, y+height)
}
