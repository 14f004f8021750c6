package middleware

import (
	nethttp "net/http"

	"Civitas/internal/shared/transport"
	"Civitas/modules/kit/logx"
	"Civitas/modules/kit/tracex"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TraceHeader 调用方可以带上自己的追踪 ID，响应里原样回写，回合日志用同一个 ID 串起来。
const TraceHeader = "X-Trace-Id"

// AccessLog 每个请求一条访问日志。业务码由 handler 通过 transport.SetBizCode 写入，
// 没写的按 HTTP 状态兜底；城市路由额外记录 city_id。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		matched := route != ""
		if !matched {
			route = c.Request.URL.Path
		}

		parent := c.Request.Context()
		if id := c.GetHeader(TraceHeader); id != "" {
			parent = tracex.WithTraceID(parent, id)
		}
		ctx := transport.NewContextWithParent(parent, c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)
		if id, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(TraceHeader, id)
		}
		if cityID := c.Param("id"); cityID != "" {
			transport.AddFields(ctx, zap.String("city_id", cityID))
		}

		c.Next()

		status := c.Writer.Status()
		switch {
		case !matched:
			transport.SetBizCode(ctx, transport.BizCode(transport.NotFound))
			transport.SetErrorReason(ctx, "route_not_found")
		case transport.FromContext(ctx).HasBizCode():
		case status >= nethttp.StatusBadRequest:
			transport.SetBizCode(ctx, transport.BizCode(transport.SystemError))
		default:
			transport.SetBizCode(ctx, transport.BizCode(transport.OK))
		}
		transport.AddFields(ctx, zap.Int("status", status))
		transport.WriteAccessLog(ctx, log)
	}
}
