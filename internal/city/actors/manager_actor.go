package actors

import (
	"time"

	"Civitas/internal/city/app/port"
	"Civitas/internal/city/citizens"
	"Civitas/internal/city/domain"
	"Civitas/internal/city/scenario"
	"Civitas/internal/city/service"
	"Civitas/internal/shared/actor/messages"
	"Civitas/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
)

// Deps 城市 actor 共用的依赖。World 在所有城市间共享。
type Deps struct {
	Repo       port.CityRepository
	Scenario   *scenario.Scenario
	Catalog    citizens.Catalog
	Tuning     citizens.Tuning
	FlushEvery time.Duration
	Log        logx.Logger
}

type ManagerActor struct {
	deps   *Deps
	tuning citizens.Tuning
	cities map[domain.CityID]*actor.PID
}

func NewManagerActor(deps Deps) *ManagerActor {
	if deps.Log == nil {
		deps.Log = logx.Nop()
	}
	return &ManagerActor{
		deps:   &deps,
		tuning: deps.Tuning.OrDefault(),
		cities: make(map[domain.CityID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forget(msg.Who)
	case messages.UpdateTuning:
		if msg.CityID() != 0 {
			m.route(ctx, msg)
			return
		}
		m.tuning = msg.Tuning.OrDefault()
		for _, pid := range m.cities {
			ctx.Send(pid, msg)
		}
		ctx.Respond(messages.Reply{Data: len(m.cities)})
	case messages.CityMessage:
		m.route(ctx, msg)
	default:
		return
	}
}

// route 只为剧本里的城市创建 actor，其余 ID 直接回城市不存在。
func (m *ManagerActor) route(ctx actor.Context, msg messages.CityMessage) {
	pid, ok := m.getOrSpawn(ctx, msg.CityID())
	if !ok {
		ctx.Respond(messages.Reply{Err: service.ErrCityNotFound.WithData("city_id", int(msg.CityID()))})
		return
	}
	ctx.Forward(pid)
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, id domain.CityID) (*actor.PID, bool) {
	if pid, ok := m.cities[id]; ok && pid != nil {
		return pid, true
	}
	if m.deps.Scenario == nil {
		return nil, false
	}
	seed, ok := m.deps.Scenario.Seed(id)
	if !ok {
		return nil, false
	}

	tuning := m.tuning
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCityActor(seed, m.deps, tuning)
	})
	// ManagerActor 创建子 actor，子 actor 停止时会收到 Terminated
	pid := ctx.Spawn(props)
	m.cities[id] = pid
	return pid, true
}

func (m *ManagerActor) forget(who *actor.PID) {
	if who == nil {
		return
	}
	for id, pid := range m.cities {
		if pid.Id == who.Id && pid.Address == who.Address {
			delete(m.cities, id)
			return
		}
	}
}
