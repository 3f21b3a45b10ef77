package flow

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrUnsortedSeries indicates a fund series that was not sorted ascending by
// date. Aggregate always emits sorted output, so hitting this is a caller
// bug, not a data condition.
var ErrUnsortedSeries = errors.New("flow: fund series not sorted by date")

// ComputeWindows computes, for every deduplicated record, the trailing
// 30/90/180 calendar-day net-flow sums over that fund's series.
//
// For a record at date d and window width W the sum covers every record of
// the same fund at date t with d−W < t ≤ d: a right-closed, left-open
// calendar window. The window is evaluated against elapsed calendar time,
// never against row counts, so funds with sparse or irregular reporting
// dates (weekends, holidays, fund-specific gaps) are handled correctly.
// A record with no prior history inside its window still gets a sum equal
// to its own value.
//
// The input must be sorted by fund id and then date ascending (Aggregate's
// output order). Funds are independent and are processed data-parallel;
// within one fund the two-pointer pass is strictly sequential.
func ComputeWindows(ctx context.Context, daily []DailyNetFlow) ([]WindowedNetFlow, error) {
	out := make([]WindowedNetFlow, len(daily))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for start := 0; start < len(daily); {
		end := start + 1
		for end < len(daily) && daily[end].FundID == daily[start].FundID {
			end++
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		series := daily[start:end]
		dst := out[start:end]
		g.Go(func() error {
			return windowFund(series, dst)
		})

		start = end
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// windowFund fills dst with the windowed sums for a single fund's series.
// Each window size gets its own pass with its own start pointer; the sizes
// are independent and none is derived from another.
func windowFund(series []DailyNetFlow, dst []WindowedNetFlow) error {
	for i := 1; i < len(series); i++ {
		if series[i].Date.Before(series[i-1].Date) {
			return fmt.Errorf("%w: fund %s at index %d", ErrUnsortedSeries, series[i].FundID, i)
		}
	}

	for i := range series {
		dst[i].DailyNetFlow = series[i]
	}

	for _, w := range Windows {
		slide(series, w, func(i int, sum float64) {
			switch w {
			case Window30:
				dst[i].Sum30 = sum
			case Window90:
				dst[i].Sum90 = sum
			case Window180:
				dst[i].Sum180 = sum
			}
		})
	}

	return nil
}

// slide runs one two-pointer pass over a date-sorted series, maintaining the
// running sum of the window (d−W, d] incrementally: each record is added
// once when the end pointer reaches it and subtracted once when the start
// pointer passes it. Both pointers only move forward, so the pass is linear
// regardless of how dense the series is.
func slide(series []DailyNetFlow, w Window, set func(i int, sum float64)) {
	start := 0
	sum := 0.0
	for end := range series {
		sum += series[end].NetFlow
		cutoff := series[end].Date.AddDate(0, 0, -w.Days())
		// a record at exactly d−W falls outside the left-open boundary
		for !series[start].Date.After(cutoff) {
			sum -= series[start].NetFlow
			start++
		}
		set(end, sum)
	}
}
