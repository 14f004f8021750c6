package logs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Civitas/modules/kit/tracex"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger 把 gorm 的 SQL 日志转到全局 zap logger；慢查询 WARN，出错 ERROR。
type GormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	base          func() *zap.Logger
}

func NewGormLogger(level gormlogger.LogLevel, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{
		level:         level,
		slowThreshold: slowThreshold,
		base:          func() *zap.Logger { return logger.Named("gorm") },
	}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *g
	next.level = level
	return &next
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Info {
		g.with(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Warn {
		g.with(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Error {
		g.with(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	l := g.with(ctx)
	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.Error("gorm query failed", append(fields, zap.Error(err))...)
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		l.Warn("gorm slow query", fields...)
	case g.level >= gormlogger.Info:
		l.Debug("gorm query", fields...)
	}
}

func (g *GormLogger) with(ctx context.Context) *zap.Logger {
	l := g.base()
	if ctx == nil {
		return l
	}
	if traceID, ok := tracex.TraceIDFrom(ctx); ok {
		l = l.With(zap.String("trace_id", traceID))
	}
	if turn, ok := tracex.TurnFrom(ctx); ok {
		l = l.With(zap.Int("turn", turn))
	}
	return l
}
