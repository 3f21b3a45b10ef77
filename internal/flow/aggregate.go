package flow

import (
	"sort"
)

// aggKey identifies one fund on one calendar day
type aggKey struct {
	fund string
	day  int64 // unix seconds of the UTC midnight
}

// AggregateStats reports what Aggregate did with its input.
// DroppedNoDate counts records excluded because they carried no usable
// competence date; InvalidFlows counts records whose amount was not numeric
// and therefore contributed zero to their key.
type AggregateStats struct {
	Input         int `json:"input"`
	Output        int `json:"output"`
	DroppedNoDate int `json:"dropped_no_date"`
	InvalidFlows  int `json:"invalid_flows"`
}

// Aggregate collapses raw flow records into exactly one DailyNetFlow per
// (fund, calendar day) pair, summing the net flows of every record sharing
// the pair. The accumulator is keyed by the pair itself, so a duplicate key
// in the output is structurally impossible; there is no detect-and-repair
// pass. Records without a date cannot be grouped and are dropped; records
// with an invalid amount claim their key but add nothing to the sum.
//
// The result is sorted by fund id and then by date ascending, which is the
// ordering ComputeWindows requires. Aggregate is a pure function of its
// input and is idempotent: feeding its output back in reproduces it.
func Aggregate(records []Record) ([]DailyNetFlow, AggregateStats) {
	stats := AggregateStats{Input: len(records)}

	acc := make(map[aggKey]float64, len(records))
	for _, r := range records {
		if r.Date.IsZero() {
			stats.DroppedNoDate++
			continue
		}
		k := aggKey{fund: r.FundID, day: day(r.Date).Unix()}
		sum := acc[k] // claims the key even when the flow is invalid
		if r.FlowValid {
			sum += r.NetFlow
		} else {
			stats.InvalidFlows++
		}
		acc[k] = sum
	}

	out := make([]DailyNetFlow, 0, len(acc))
	for k, sum := range acc {
		out = append(out, DailyNetFlow{
			FundID:  k.fund,
			Date:    dayFromUnix(k.day),
			NetFlow: sum,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].FundID != out[j].FundID {
			return out[i].FundID < out[j].FundID
		}
		return out[i].Date.Before(out[j].Date)
	})

	stats.Output = len(out)
	return out, stats
}

// Reaggregate feeds deduplicated flows back through Aggregate. It exists for
// callers that stitch several already-aggregated batches together and need
// the uniqueness invariant restored across batch boundaries.
func Reaggregate(daily []DailyNetFlow) ([]DailyNetFlow, AggregateStats) {
	records := make([]Record, len(daily))
	for i, d := range daily {
		records[i] = Record{FundID: d.FundID, Date: d.Date, NetFlow: d.NetFlow, FlowValid: true}
	}
	return Aggregate(records)
}
