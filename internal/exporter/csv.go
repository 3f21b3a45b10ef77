package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"fundflow/internal/report"
)

// WriteCSV writes the report rows to a CSV file. The file starts with a
// UTF-8 BOM so Excel opens the accented fund names correctly.
func WriteCSV(path string, rows []report.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(reportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		record := []string{
			row.FundName,
			formatDate(row.Date),
			formatAmount(row.NetFlow),
			formatAmount(row.Sum30),
			formatAmount(row.Sum90),
			formatAmount(row.Sum180),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	return writer.Error()
}
