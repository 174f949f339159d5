package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/studiowebux/archibus-connect/internal/result"
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 7.0
)

// PDF writes data.pdf: a landscape A4 table with the header repeated on each page
func (w *Writer) PDF(r result.Result) (string, error) {
	if !r.IsTable() {
		return "", ErrNoTable
	}
	path, err := w.path(FormatPDF)
	if err != nil {
		return "", err
	}

	table := result.ToDisplayRows(r.Rows())

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr("Archibus Connect - "+result.CountHeader(r.RecordCount())), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageW, pageH := pdf.GetPageSize()
	colW := pageW - 2*pdfMargin
	if n := len(table.Columns); n > 0 {
		colW /= float64(n)
	}

	fit := func(s string) string {
		s = tr(s)
		for len(s) > 1 && pdf.GetStringWidth(s) > colW-2 {
			s = s[:len(s)-2] + "~"
		}
		return s
	}

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range table.Columns {
			pdf.CellFormat(colW, pdfLineHeight, fit(col), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}

	header()
	for _, cells := range table.Rows {
		if pdf.GetY()+pdfLineHeight > pageH-pdfMargin {
			pdf.AddPage()
			header()
		}
		for _, text := range cells {
			pdf.CellFormat(colW, pdfLineHeight, fit(text), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to save PDF: %w", err)
	}
	logExport(FormatPDF, path, r)
	return path, nil
}
