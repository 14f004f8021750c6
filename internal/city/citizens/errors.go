package citizens

import "Civitas/modules/kit/errx"

// 分配器只有致命错误（快照恢复除外）；容量不足、无地块可用等都是正常结果，用 bool 表达。
const (
	CodeInvariantViolated errx.Code = "CITIZEN_INVARIANT_VIOLATED"
	CodeUnknownPlot       errx.Code = "CITIZEN_UNKNOWN_PLOT"
	CodeNotFounded        errx.Code = "CITIZEN_NOT_FOUNDED"
	CodeCorruptSnapshot   errx.Code = "CITIZEN_CORRUPT_SNAPSHOT"
)

var (
	ErrInvariantViolated = errx.NewFatal(CodeInvariantViolated, "市民计数不守恒")
	ErrUnknownPlot       = errx.NewFatal(CodeUnknownPlot, "地块不在本城工作范围内")
	ErrNotFounded        = errx.NewFatal(CodeNotFounded, "城市市民结构尚未初始化")
	ErrCorruptSnapshot   = errx.NewSys(CodeCorruptSnapshot, "分配快照无法恢复")
)
