package feed

import (
	"context"
	"time"
)

type ctxKey string

// ctxCutoffKey carries a time.Time cutoff for created_at filtering.
const ctxCutoffKey ctxKey = "cutoffTime"

// WithCutoff returns a context that makes GetFeed skip posts older than t.
func WithCutoff(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ctxCutoffKey, t)
}

func Cutoff(ctx context.Context) (time.Time, bool) {
	v := ctx.Value(ctxCutoffKey)
	if v == nil {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}
