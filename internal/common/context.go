package common

import (
	"context"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRunID  contextKey = "run_id"
	ContextKeySample contextKey = "sample"
)

// WithRunID adds a batch run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the run ID from context
func RunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(ContextKeyRunID).(string); ok {
		return runID
	}
	return ""
}

// WithSample adds the sample being processed to the context
func WithSample(ctx context.Context, sample string) context.Context {
	return context.WithValue(ctx, ContextKeySample, sample)
}

// SampleFromContext extracts the sample name from context
func SampleFromContext(ctx context.Context) string {
	if sample, ok := ctx.Value(ContextKeySample).(string); ok {
		return sample
	}
	return ""
}
