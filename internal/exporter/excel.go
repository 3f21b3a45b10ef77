package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"fundflow/internal/report"
)

const sheetName = "Captacao_Liquida"

// WriteWorkbook writes the report rows to an Excel workbook with a single
// sheet. Amounts are stored as numbers (full precision, display formatting
// is the spreadsheet's concern); dates are stored as DD/MM/YYYY strings to
// match the delivered layout.
func WriteWorkbook(path string, rows []report.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, title := range reportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return fmt.Errorf("write header cell %s: %w", cell, err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.FundName,
			formatDate(row.Date),
			row.NetFlow,
			row.Sum30,
			row.Sum90,
			row.Sum180,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	// wide name column, compact numeric columns
	if err := f.SetColWidth(sheetName, "A", "A", 60); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "F", 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
