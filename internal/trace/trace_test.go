package trace

import (
	"context"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestStartSpan_Disabled(t *testing.T) {
	err := Init(false, "test")
	assert.Equal(t, nil, err)
	assert.Equal(t, false, Enabled())

	ctx := context.Background()
	got, span := StartSpan(ctx, "noop")
	defer span.End()

	assert.Equal(t, ctx, got)
	assert.Equal(t, false, span.SpanContext().IsValid())
	assert.Equal(t, 0, len(TraceFields(got)))
}

func TestStartSpan_Enabled(t *testing.T) {
	err := Init(true, "test")
	assert.Equal(t, nil, err)
	defer func() {
		Shutdown(context.Background())
		Init(false, "test")
	}()

	ctx, span := StartSpan(context.Background(), "analyze")
	defer span.End()

	assert.Equal(t, true, span.SpanContext().IsValid())
	fields := TraceFields(ctx)
	assert.Equal(t, 4, len(fields))
	assert.Equal(t, "trace_id", fields[0])
}
