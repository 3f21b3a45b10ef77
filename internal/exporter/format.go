package exporter

import (
	"fmt"
	"time"
)

// reportHeader is the column layout shared by every output format
var reportHeader = []string{
	"Nome_Fundo",
	"Data",
	"Captacao_Liquida_Diaria",
	"Captacao_30D",
	"Captacao_90D",
	"Captacao_180D",
}

// formatAmount formats a monetary value with exactly 2 decimal places.
// Rounding happens only here; the pipeline carries full precision.
func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// formatDate renders a report date as DD/MM/YYYY
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
