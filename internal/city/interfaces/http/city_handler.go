package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"strconv"

	cityactor "Civitas/internal/city/actor"
	"Civitas/internal/city/domain"
	"Civitas/internal/city/interfaces/http/dto"
	"Civitas/internal/city/service"
	"Civitas/internal/shared/actor/messages"
	"Civitas/internal/shared/transport"
	"Civitas/modules/kit/errx"
	"Civitas/modules/kit/tracex"

	"github.com/gin-gonic/gin"
)

// CityRuntime 城市 actor 运行时，测试里可替换。
type CityRuntime interface {
	Ask(ctx context.Context, msg messages.CityMessage) (any, error)
	RunTurn(ctx context.Context, turn int, strategies map[domain.PlayerID]domain.Strategy) ([]service.TurnResult, error)
}

type CityHandler struct {
	rt CityRuntime
}

func NewCityHandler(rt CityRuntime) *CityHandler {
	return &CityHandler{rt: rt}
}

func (h *CityHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/turn", h.WorldTurn)

	cities := group.Group("/cities/:id")
	cities.GET("", h.GetCity)
	cities.POST("/turn", h.Turn)
	cities.POST("/plots/force", h.ForcePlot)
	cities.POST("/plots/alter", h.AlterPlot)
	cities.POST("/focus", h.SetFocus)
	cities.POST("/specialists", h.ChangeSpecialist)
	cities.POST("/population", h.ChangePopulation)
	cities.POST("/buildings", h.SetBuilding)
}

func (h *CityHandler) GetCity(c *gin.Context) {
	b, ok := h.base(c)
	if !ok {
		return
	}
	h.ask(c, messages.GetCity{CityBaseMessage: b})
}

func (h *CityHandler) Turn(c *gin.Context) {
	b, ok := h.base(c)
	if !ok {
		return
	}
	var req dto.TurnReq
	if !h.bind(c, &req) {
		return
	}
	h.ask(c, messages.RunTurn{
		CityBaseMessage: b,
		Turn:            req.Turn,
		Strategy:        domain.Strategy{ProductionDeficient: req.ProductionDeficient},
	})
}

func (h *CityHandler) WorldTurn(c *gin.Context) {
	var req dto.WorldTurnReq
	if !h.bind(c, &req) {
		return
	}
	strategies := make(map[domain.PlayerID]domain.Strategy, len(req.Strategies))
	for player, s := range req.Strategies {
		strategies[domain.PlayerID(player)] = domain.Strategy{ProductionDeficient: s.ProductionDeficient}
	}
	results, err := h.rt.RunTurn(c.Request.Context(), req.Turn, strategies)
	if err != nil {
		// 部分城市失败时仍把成功的结果带回去
		h.error(c, err, results)
		return
	}
	h.ok(c, results)
}

func (h *CityHandler) ForcePlot(c *gin.Context) {
	b, ok := h.base(c)
	if !ok {
		return
	}
	var req dto.PlotReq
	if !h.bind(c, &req) {
		return
	}
	force := true
	if req.Force != nil {
		force = *req.Force
	}
	h.ask(c, messages.ForcePlot{
		CityBaseMessage: b,
		Location:        domain.TileCoord{Q: *req.Q, R: *req.R},
		Force:           force,
	})
}

func (h *CityHandler) AlterPlot(c *gin.Context) {
	b, ok := h.base(c)
	if !ok {
		return
	}
	var req dto.PlotReq
	if !h.bind(c, &req) {
		return
	}
	h.ask(c, messages.AlterPlot{CityBaseMessage: b, Location: domain.TileCoord{Q: *req.Q, R: *req.R}})
}

func (h *CityHandler) SetFocus(c *gin.Context) {
	b, ok := h.base(c)
	if !ok {
		return
	}
	var req dto.FocusReq
	if !h.bind(c, &req) {
		return
	}
	focus, err := domain.ParseFocusType(req.Focus)
	if err != nil {
		h.error(c, service.ErrInvalidFocus.WithData("focus", req.Focus), nil)
		return
	}
	h.ask(c, messages.SetFocus{
		CityBaseMessage: b,
		Policy: domain.FocusPolicy{
			Focus:                   focus,
			AvoidGrowth:             req.AvoidGrowth,
			ForceAvoidGrowth:        req.ForceAvoidGrowth,
			NoAutoAssignSpecialists: req.NoAutoAssign,
		},
	})
}

func (h *CityHandler) ChangeSpecialist(c *gin.Context) {
	b, ok := h.base(c)
	if !ok {
		return
	}
	var req dto.SpecialistReq
	if !h.bind(c, &req) {
		return
	}
	building, ok := h.building(c, req.Building)
	if !ok {
		return
	}
	h.ask(c, messages.ChangeSpecialist{CityBaseMessage: b, Building: building, Add: *req.Add, Forced: req.Forced})
}

func (h *CityHandler) ChangePopulation(c *gin.Context) {
	b, ok := h.base(c)
	if !ok {
		return
	}
	var req dto.PopulationReq
	if !h.bind(c, &req) {
		return
	}
	h.ask(c, messages.ChangePopulation{CityBaseMessage: b, Delta: req.Delta})
}

func (h *CityHandler) SetBuilding(c *gin.Context) {
	b, ok := h.base(c)
	if !ok {
		return
	}
	var req dto.BuildingReq
	if !h.bind(c, &req) {
		return
	}
	building, ok := h.building(c, req.Building)
	if !ok {
		return
	}
	h.ask(c, messages.SetBuilding{CityBaseMessage: b, Building: building, Has: *req.Has})
}

// base 解析路径里的城市 ID 并带上本次请求的 trace id。
func (h *CityHandler) base(c *gin.Context) (messages.CityBaseMessage, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.fail(c, transport.InvalidParam, "城市ID有误", string(errx.CodeReqParamError))
		return messages.CityBaseMessage{}, false
	}
	trace, _ := tracex.TraceIDFrom(c.Request.Context())
	return messages.CityBaseMessage{City: domain.CityID(id), Trace: trace}, true
}

func (h *CityHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误", string(errx.CodeReqParamError))
		return false
	}
	return true
}

func (h *CityHandler) building(c *gin.Context, name string) (domain.BuildingType, bool) {
	b, ok := domain.ParseBuildingType(name)
	if !ok {
		h.fail(c, transport.InvalidParam, "未知建筑", string(errx.CodeReqParamError))
		return domain.NoBuilding, false
	}
	return b, true
}

func (h *CityHandler) ask(c *gin.Context, msg messages.CityMessage) {
	data, err := h.rt.Ask(c.Request.Context(), msg)
	if err != nil {
		h.error(c, err, nil)
		return
	}
	h.ok(c, data)
}

func (h *CityHandler) ok(c *gin.Context, data any) {
	transport.SetBizCode(c.Request.Context(), transport.BizCode(transport.OK))
	c.JSON(nethttp.StatusOK, transport.Response{Code: transport.OK, Data: data})
}

func (h *CityHandler) fail(c *gin.Context, code int, msg, reason string) {
	h.record(c, code, reason)
	c.JSON(nethttp.StatusOK, transport.Response{Code: code, Msg: msg, Reason: reason})
}

func (h *CityHandler) error(c *gin.Context, err error, data any) {
	code := cityactor.CodeFromError(err)
	msg, reason := err.Error(), ""
	var e *errx.Error
	if errors.As(err, &e) {
		msg, reason = e.Msg(), e.CodeText()
	}
	h.record(c, code, reason)
	c.JSON(nethttp.StatusOK, transport.Response{Code: code, Msg: msg, Reason: reason, Data: data})
}

// record 把业务码和失败原因写进访问日志。
func (h *CityHandler) record(c *gin.Context, code int, reason string) {
	ctx := c.Request.Context()
	transport.SetBizCode(ctx, transport.BizCode(code))
	transport.SetErrorReason(ctx, reason)
}
