package tracex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	got, ok := TraceIDFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "t-1", got)
}

func TestNewTurnContext_保留已有trace_id(t *testing.T) {
	parent := WithTraceID(context.Background(), "keep")
	ctx := NewTurnContext(parent, "city", 42)

	tid, _ := TraceIDFrom(ctx)
	assert.Equal(t, "keep", tid)
	span, _ := SpanIDFrom(ctx)
	assert.Equal(t, "city", span)
	turn, ok := TurnFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, 42, turn)
}

func TestNewTurnContext_缺省时生成trace_id(t *testing.T) {
	ctx := NewTurnContext(nil, "", 1)
	tid, ok := TraceIDFrom(ctx)
	assert.True(t, ok)
	assert.Len(t, tid, 32)
	_, ok = SpanIDFrom(ctx)
	assert.False(t, ok)
}
