package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const (
	maxStackFrames = 32
	maxCauseDepth  = 20
)

// describedError errx.Error 暴露的只读视图；logx 不直接依赖 errx。
type describedError interface {
	CodeText() string
	KindText() string
	Msg() string
	Reason() string
	Data() map[string]any
	Stack() []uintptr
}

// ErrorLog 一条错误日志需要的全部信息。
type ErrorLog struct {
	Error      string
	Kind       string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

// BuildErrorLog 取错误链上最外层的 errx 错误，展开 cause 链和发生处的栈。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error(), CauseChain: causeChain(err)}

	var d describedError
	if !errors.As(err, &d) {
		return out
	}
	out.Kind = d.KindText()
	out.Code = d.CodeText()
	out.Msg = d.Msg()
	out.Reason = d.Reason()
	out.Data = d.Data()
	out.Origin, out.Stack = formatStack(d.Stack())
	return out
}

func causeChain(err error) []string {
	var out []string
	for cur := errors.Unwrap(err); cur != nil && len(out) < maxCauseDepth; cur = errors.Unwrap(cur) {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
	}
	return out
}

// formatStack 第一帧作为 origin，整段栈每帧一行。
func formatStack(pcs []uintptr) (origin string, stack string) {
	if len(pcs) == 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, len(pcs))
	for len(lines) < maxStackFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	return lines[0], strings.Join(lines, "\n")
}
