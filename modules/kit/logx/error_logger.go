package logx

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// BizLog 业务拒绝：谁（Action）因为什么（Reason 码）被拒，Message 给人看。
type BizLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog 技术错误或程序缺陷。
type SysLog struct {
	Action string
	Err    error
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// ReportAccessWithLoggerContext 访问日志按 biz_code 分级：0 为 INFO，1~499 为 WARN，>=500 为 ERROR。
// HTTP 请求和回合驱动共用。
func ReportAccessWithLoggerContext(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	fs := append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)

	cl := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		cl.Info("access", fs...)
	case bizCode < 500:
		cl.Warn("access", fs...)
	default:
		cl.Error("access", fs...)
	}
}

// ReportBizWithLoggerContext 业务拒绝是预期内的结果，打 INFO，不带栈。
func ReportBizWithLoggerContext(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := orDefault(biz.Action, "biz_reject")
	fs := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}
	if biz.Reason != "" {
		fs = append(fs, zap.String("reason", biz.Reason))
	}
	if biz.Message != "" {
		fs = append(fs, zap.String("biz_message", biz.Message))
	}
	fs = append(fs, fields...)

	l.WithContext(ctx).Info(joinMsg(action, "reason", biz.Reason, "msg", biz.Message), fs...)
}

// ReportSysErrorWithLoggerContext 技术错误和致命错误打 ERROR，带错误码、cause 链和发生处的栈。
func ReportSysErrorWithLoggerContext(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := orDefault(sys.Action, "sys_error")
	meta := BuildErrorLog(sys.Err)

	fs := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	fs = appendNonEmpty(fs, "error_kind", meta.Kind)
	fs = appendNonEmpty(fs, "error_code", meta.Code)
	if len(meta.CauseChain) > 0 {
		fs = append(fs, zap.Strings("cause_chain", meta.CauseChain))
	}
	if len(meta.Data) > 0 {
		fs = append(fs, zap.Any("error_data", meta.Data))
	}
	fs = appendNonEmpty(fs, "origin_caller", meta.Origin)
	fs = appendNonEmpty(fs, "stack_origin", meta.Stack)
	fs = append(fs, fields...)

	msg := joinMsg(action, "reason", meta.Reason, "error", meta.Error)
	if meta.Reason == "" {
		msg = joinMsg(action, "error", meta.Error, "msg", meta.Msg)
	}
	l.WithContext(ctx).Error(msg, fs...)
}

// joinMsg 拼成 "action, k1:v1, k2:v2"，空值跳过。
func joinMsg(action string, kv ...string) string {
	var b strings.Builder
	b.WriteString(action)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		b.WriteString(", ")
		b.WriteString(kv[i])
		b.WriteString(":")
		b.WriteString(kv[i+1])
	}
	return b.String()
}

func appendNonEmpty(fs []zap.Field, key, val string) []zap.Field {
	if val == "" {
		return fs
	}
	return append(fs, zap.String(key, val))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
