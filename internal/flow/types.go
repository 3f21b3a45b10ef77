package flow

import (
	"strings"
	"time"
)

// Window represents a trailing calendar-day window for net-flow sums
type Window int

const (
	// Window30 represents the 30-day trailing window
	Window30 Window = 30
	// Window90 represents the 90-day trailing window
	Window90 Window = 90
	// Window180 represents the 180-day trailing window
	Window180 Window = 180
)

// Windows lists every window size computed for each fund series
var Windows = []Window{Window30, Window90, Window180}

// String returns the string representation of the window
func (w Window) String() string {
	switch w {
	case Window30:
		return "30d"
	case Window90:
		return "90d"
	case Window180:
		return "180d"
	default:
		return "unknown"
	}
}

// Days returns the number of calendar days in the window
func (w Window) Days() int {
	return int(w)
}

// Record is a single raw daily flow row as decoded from a CVM informe file.
// Date is the zero value when the source date was missing or unparseable;
// such records cannot be grouped and are dropped (and counted) by Aggregate.
// FlowValid is false when the source amounts were not numeric; the record
// still claims its (fund, day) key but contributes zero to the sum.
type Record struct {
	FundID    string    `json:"fund_id"`  // normalized CNPJ, digits only
	Date      time.Time `json:"date"`     // competence date, day precision
	NetFlow   float64   `json:"net_flow"` // subscriptions minus redemptions
	FlowValid bool      `json:"flow_valid"`
}

// DailyNetFlow is the deduplicated net flow for one fund on one calendar day.
// Aggregate guarantees at most one DailyNetFlow per (FundID, Date) pair.
type DailyNetFlow struct {
	FundID  string    `json:"fund_id"`
	Date    time.Time `json:"date"`
	NetFlow float64   `json:"net_flow"`
}

// WindowedNetFlow extends DailyNetFlow with the trailing-window sums.
// The three sums are computed independently and are not derivable from
// each other.
type WindowedNetFlow struct {
	DailyNetFlow

	Sum30  float64 `json:"sum_30d"`
	Sum90  float64 `json:"sum_90d"`
	Sum180 float64 `json:"sum_180d"`
}

// NormalizeFundID strips every non-digit character from a fund identifier.
// CVM publishes CNPJs both punctuated ("12.345.678/0001-90") and bare; the
// digits-only form is the join key across the informe and registry datasets.
func NormalizeFundID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// day truncates a timestamp to its calendar day in UTC
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayFromUnix restores a UTC midnight from its unix seconds
func dayFromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
