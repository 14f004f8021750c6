package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 响应体 code 字段。0 成功；1~499 业务拒绝；>=500 系统错误。
const (
	OK           = 0
	InvalidParam = 400
	NotFound     = 404
	Rejected     = 409
	SystemError  = 500
	Unavailable  = 503
)

// Response 是 HTTP 接口统一响应体。
type Response struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg,omitempty"`
	Reason string `json:"reason,omitempty"`
	Data   any    `json:"data,omitempty"`
}
