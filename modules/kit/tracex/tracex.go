package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type traceIDKey struct{}
type spanIDKey struct{}
type turnKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	v := ctx.Value(traceIDKey{})
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	v := ctx.Value(spanIDKey{})
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// WithTurn 把当前回合号挂到 context，日志会带上 turn 字段。
func WithTurn(ctx context.Context, turn int) context.Context {
	return context.WithValue(ctx, turnKey{}, turn)
}

func TurnFrom(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(turnKey{}).(int)
	return v, ok
}

// NewTraceID 生成 16 字节随机 trace_id（hex）。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}

// NewTurnContext 为一次回合处理创建带 trace_id/span_id/turn 的 context。
func NewTurnContext(parent context.Context, span string, turn int) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	ctx := parent
	if _, ok := TraceIDFrom(ctx); !ok {
		if tid := NewTraceID(); tid != "" {
			ctx = WithTraceID(ctx, tid)
		}
	}
	if span != "" {
		ctx = WithSpanID(ctx, span)
	}
	return WithTurn(ctx, turn)
}
