package errx

// 这里定义“跨模块统一”的系统类错误码。
//
// 约束：
// - 系统类错误码用于技术错误归一化（存储不可用、超时等）
// - 业务域错误码（例如 CITY_NOT_FOUND）由各业务包自行定义，不在 kit 里集中
// - 致命错误码同样由业务包定义，kit 只提供 NewFatal/Panic

const (
	// CodeInternal 表示内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖不可用（Mongo/MySQL/下游 actor 等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示请求/依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 统一系统类哨兵错误（允许 WithData/WithCause 派生新对象）。
var (
	ErrInternal    = NewSys(CodeInternal, "内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "依赖不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)
