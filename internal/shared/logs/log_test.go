package logs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"Civitas/internal/shared/serverconfig"
	"Civitas/modules/kit/tracex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestInit_写文件并可调级别(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init("citysim-test", serverconfig.LogConfig{
		FileDir: filepath.Join(dir, "citysim.log"),
		Level:   "warn",
	}))
	defer func() { logger = zap.NewNop() }()

	assert.False(t, L().Core().Enabled(zapcore.InfoLevel))
	SetLevel("debug")
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))
	SetLevel("nonsense")
	assert.True(t, L().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, L().Core().Enabled(zapcore.DebugLevel))

	Info("city turn done", zap.Int("city_id", 1))
	Sync()
}

func TestGormLogger_慢查询与错误分级(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	g := NewGormLogger(gormlogger.Warn, 10*time.Millisecond)
	g.base = func() *zap.Logger { return zap.New(core) }

	ctx := tracex.WithTurn(tracex.WithTraceID(context.Background(), "t-1"), 4)
	sql := func() (string, int64) { return "SELECT 1", 1 }

	g.Trace(ctx, time.Now(), sql, nil)
	assert.Equal(t, 0, logs.Len())

	g.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "t-1", entry.ContextMap()["trace_id"])
	assert.EqualValues(t, 4, entry.ContextMap()["turn"])

	g.Trace(ctx, time.Now(), sql, errors.New("boom"))
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)

	silent := g.LogMode(gormlogger.Silent)
	silent.Trace(ctx, time.Now(), sql, errors.New("boom"))
	assert.Equal(t, 2, logs.Len())
}
