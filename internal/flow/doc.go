// Package flow implements the net-flow computation core of the pipeline:
// deduplicating aggregation of raw daily records, trailing calendar-day
// window sums, and the as-of snapshot cut.
//
// The package is pure computation. It performs no I/O, holds no state
// between calls, and shares nothing mutable between funds, which keeps the
// three stages independently testable and lets ComputeWindows fan funds out
// across workers.
//
// Pipeline position:
//
//	cvm.ParseInformeArchive -> flow.Aggregate -> flow.ComputeWindows ->
//	flow.Snapshot -> report.Builder (enrichment + layout)
//
// Invariants maintained here:
//
//   - Aggregate output holds exactly one record per (fund, day) key; the
//     map-keyed accumulator makes duplicates unrepresentable.
//   - Window sums use right-closed, left-open calendar windows (d−W, d],
//     evaluated against actual elapsed days, never row counts.
//   - Snapshot selects one global maximum date for the whole population.
package flow
