package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是各模块共用的最小日志接口。
//
// 约束：
// - 只承载结构化字段 + ctx 透传（trace/span/city/turn）
// - 分配器等纯逻辑包只依赖这个接口，不直接依赖全局 logger
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
	With(fields ...zap.Field) Logger
}

// Nop 丢弃所有日志，测试和未注入 logger 时使用。
func Nop() Logger {
	return NewZapLogger(nil)
}
