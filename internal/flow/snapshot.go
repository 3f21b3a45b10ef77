package flow

import "time"

// Snapshot filters a windowed collection down to the single most recent date
// present anywhere in it and returns those records together with that as-of
// date. The maximum is global, not per fund: a fund whose latest record
// predates the population's peak date is excluded entirely, even though its
// own window sums remain valid. Callers needing per-fund freshness want a
// different selector.
//
// An empty input yields an empty snapshot and a zero as-of date.
func Snapshot(windowed []WindowedNetFlow) ([]WindowedNetFlow, time.Time) {
	if len(windowed) == 0 {
		return nil, time.Time{}
	}

	asOf := windowed[0].Date
	for _, r := range windowed[1:] {
		if r.Date.After(asOf) {
			asOf = r.Date
		}
	}

	var out []WindowedNetFlow
	for _, r := range windowed {
		if r.Date.Equal(asOf) {
			out = append(out, r)
		}
	}
	return out, asOf
}
