package cvm

import "time"

// LastMonths returns the n months preceding the month of now, most recent
// first, formatted as YYYYMM. The current month is excluded because CVM only
// publishes a month's informe archive after the month closes.
func LastMonths(n int, now time.Time) []string {
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	months := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		months = append(months, anchor.AddDate(0, -i, 0).Format("200601"))
	}
	return months
}
