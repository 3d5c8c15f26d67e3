package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextUserKey       ctxKey = "userID"
	ContextAccessTagsKey ctxKey = "accessProductCategoryTags"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if userID, ok := ctx.Value(ContextUserKey).(string); ok {
		return userID
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

// ContextWithAccessTags stores the aggregated product category tag ids a
// principal may read, for downstream catalogue filtering.
func ContextWithAccessTags(ctx context.Context, tagIDs []int64) context.Context {
	return context.WithValue(ctx, ContextAccessTagsKey, tagIDs)
}

// AccessTagsFromContext returns the aggregated tag ids, or nil when the
// aggregator has not run for this request.
func AccessTagsFromContext(ctx context.Context) []int64 {
	if ctx == nil {
		return nil
	}
	if tags, ok := ctx.Value(ContextAccessTagsKey).([]int64); ok {
		return tags
	}
	return nil
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
