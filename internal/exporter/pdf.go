package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"fundflow/internal/report"
)

// DefaultRowsPerPage keeps the landscape table readable; fund names are long
const DefaultRowsPerPage = 18

// column widths in mm for a landscape A4 page (277mm usable)
var pdfWidths = []float64{102, 30, 36, 36, 36, 36}

// WritePDF writes the report rows as a paginated landscape-A4 table. The
// name column gets most of the width; numeric columns are right aligned and
// rounded to two decimals.
func WritePDF(path string, rows []report.Row, rowsPerPage int) error {
	if rowsPerPage <= 0 {
		rowsPerPage = DefaultRowsPerPage
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(false, 10)

	// gofpdf core fonts are cp1252; translate the accented fund names
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 8)
		for i, title := range reportHeader {
			pdf.CellFormat(pdfWidths[i], 7, tr(title), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 7)
	}

	for i, row := range rows {
		if i%rowsPerPage == 0 {
			pdf.AddPage()
			writeHeader()
		}

		cells := []struct {
			text  string
			align string
		}{
			{tr(row.FundName), "L"},
			{formatDate(row.Date), "C"},
			{formatAmount(row.NetFlow), "R"},
			{formatAmount(row.Sum30), "R"},
			{formatAmount(row.Sum90), "R"},
			{formatAmount(row.Sum180), "R"},
		}
		for c, cell := range cells {
			pdf.CellFormat(pdfWidths[c], 6, cell.text, "1", 0, cell.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(rows) == 0 {
		pdf.AddPage()
		writeHeader()
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	return nil
}
