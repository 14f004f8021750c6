package messages

import (
	"Civitas/internal/city/citizens"
	"Civitas/internal/city/domain"
)

// CityMessage 发往城市 actor 的请求，manager 按 CityID 路由。
type CityMessage interface {
	CityID() domain.CityID
	TraceID() string
}

// CityBaseMessage Trace 为发起方的 trace id，actor 内日志沿用。
type CityBaseMessage struct {
	City  domain.CityID
	Trace string
}

func (m CityBaseMessage) CityID() domain.CityID {
	return m.City
}

func (m CityBaseMessage) TraceID() string {
	return m.Trace
}

// Reply 城市 actor 的统一应答；Err 为 errx 错误或 nil。
type Reply struct {
	Data any
	Err  error
}

type GetCity struct {
	CityBaseMessage
}

// RunTurn 推进一回合，Strategy 是本回合开始时玩家 AI 策略的快照。
type RunTurn struct {
	CityBaseMessage
	Turn     int
	Strategy domain.Strategy
}

type ForcePlot struct {
	CityBaseMessage
	Location domain.TileCoord
	Force    bool
}

// AlterPlot 玩家点击地块：已耕作则放下，否则抢一个市民来耕作。
type AlterPlot struct {
	CityBaseMessage
	Location domain.TileCoord
}

type SetFocus struct {
	CityBaseMessage
	Policy domain.FocusPolicy
}

// ChangeSpecialist Add=false 时从建筑撤下一名（Forced 决定撤强制的还是普通的）。
type ChangeSpecialist struct {
	CityBaseMessage
	Building domain.BuildingType
	Add      bool
	Forced   bool
}

type ChangePopulation struct {
	CityBaseMessage
	Delta int
}

// SetBuilding 建成或失去一座建筑。
type SetBuilding struct {
	CityBaseMessage
	Building domain.BuildingType
	Has      bool
}

// UpdateTuning 配置热更新后广播给所有城市，CityID 为 0。
type UpdateTuning struct {
	CityBaseMessage
	Tuning citizens.Tuning
}
