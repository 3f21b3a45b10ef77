// Package report composes the pipeline stages into the final snapshot
// report: aggregate raw records, compute trailing windows, cut the as-of
// snapshot, and enrich fund ids with registry names.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"fundflow/internal/flow"
	"fundflow/internal/registry"
)

// Row is one line of the final report, in output order
type Row struct {
	FundName string    `json:"fund_name"`
	FundID   string    `json:"fund_id"`
	Date     time.Time `json:"date"`
	NetFlow  float64   `json:"net_flow"`
	Sum30    float64   `json:"sum_30d"`
	Sum90    float64   `json:"sum_90d"`
	Sum180   float64   `json:"sum_180d"`
}

// Stats summarizes one pipeline run for logging and operator reporting
type Stats struct {
	RawRecords     int       `json:"raw_records"`
	DroppedNoDate  int       `json:"dropped_no_date"`
	InvalidFlows   int       `json:"invalid_flows"`
	DailyFlows     int       `json:"daily_flows"`
	SnapshotFunds  int       `json:"snapshot_funds"`
	DroppedUnnamed int       `json:"dropped_unnamed"`
	AsOf           time.Time `json:"as_of"`
}

// Builder runs the report pipeline. It owns no state beyond its logger; a
// single instance is safe for repeated runs.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a report builder
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// Build runs aggregation, windowing, snapshot selection and enrichment over
// the raw records. Funds with no registry name are dropped from the report
// and counted in the stats; that is downstream policy, not a data error.
// Rows come back sorted by fund name, ties broken by fund id.
func (b *Builder) Build(ctx context.Context, records []flow.Record, names *registry.Registry) ([]Row, Stats, error) {
	daily, aggStats := flow.Aggregate(records)
	b.logger.InfoContext(ctx, "aggregated raw records",
		slog.Int("input", aggStats.Input),
		slog.Int("output", aggStats.Output),
		slog.Int("dropped_no_date", aggStats.DroppedNoDate),
		slog.Int("invalid_flows", aggStats.InvalidFlows),
	)

	windowed, err := flow.ComputeWindows(ctx, daily)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("compute windows: %w", err)
	}

	snapshot, asOf := flow.Snapshot(windowed)
	b.logger.InfoContext(ctx, "selected snapshot",
		slog.Time("as_of", asOf),
		slog.Int("funds", len(snapshot)),
	)

	stats := Stats{
		RawRecords:    aggStats.Input,
		DroppedNoDate: aggStats.DroppedNoDate,
		InvalidFlows:  aggStats.InvalidFlows,
		DailyFlows:    aggStats.Output,
		SnapshotFunds: len(snapshot),
		AsOf:          asOf,
	}

	rows := make([]Row, 0, len(snapshot))
	for _, w := range snapshot {
		name, ok := names.Lookup(w.FundID)
		if !ok {
			stats.DroppedUnnamed++
			continue
		}
		rows = append(rows, Row{
			FundName: name,
			FundID:   w.FundID,
			Date:     w.Date,
			NetFlow:  w.NetFlow,
			Sum30:    w.Sum30,
			Sum90:    w.Sum90,
			Sum180:   w.Sum180,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FundName != rows[j].FundName {
			return rows[i].FundName < rows[j].FundName
		}
		return rows[i].FundID < rows[j].FundID
	})

	if stats.DroppedUnnamed > 0 {
		b.logger.WarnContext(ctx, "dropped snapshot rows without registry names",
			slog.Int("dropped", stats.DroppedUnnamed))
	}

	return rows, stats, nil
}
