package infrastructure

import "context"

// contextKey is a private type for context keys
type contextKey string

// runIDContextKey stores the pipeline run id in context
const runIDContextKey contextKey = "run_id"

// WithRunID returns a context carrying the run id. Every log record emitted
// under that context is tagged with it, which is what ties a report back to
// the exact fetch and build that produced it.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey, runID)
}

// GetRunID retrieves the run id from context, or "" when absent
func GetRunID(ctx context.Context) string {
	if v, ok := ctx.Value(runIDContextKey).(string); ok {
		return v
	}
	return ""
}
