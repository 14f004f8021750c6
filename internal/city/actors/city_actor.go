package actors

import (
	"context"
	"errors"
	"reflect"
	"time"

	"Civitas/internal/city/citizens"
	"Civitas/internal/city/dc"
	"Civitas/internal/city/domain"
	"Civitas/internal/city/entity"
	"Civitas/internal/city/service"
	"Civitas/internal/shared/actor/messages"
	"Civitas/modules/kit/errx"
	"Civitas/modules/kit/logx"
	"Civitas/modules/kit/tracex"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

const loadTimeout = 3 * time.Second

// CityActor 一座城市一个 actor，邮箱保证同一城市的请求严格串行。
type CityActor struct {
	state      State
	cityID     domain.CityID
	seed       entity.CitySeed
	deps       *Deps
	tuning     citizens.Tuning
	dc         *dc.CityDC
	entity     *entity.City
	dispatcher *Dispatcher
	flushStop  chan struct{}
	log        logx.Logger
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

func NewCityActor(seed entity.CitySeed, deps *Deps, tuning citizens.Tuning) *CityActor {
	log := deps.Log.With(zap.Int("city_id", int(seed.ID)))
	return &CityActor{
		state:      None,
		cityID:     seed.ID,
		seed:       seed,
		deps:       deps,
		tuning:     tuning,
		dc:         dc.NewCityDC(deps.Repo, deps.FlushEvery, log),
		dispatcher: NewDispatcher(),
		log:        log,
	}
}

func (c *CityActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		c.state = Init
		c.init(ctx)
		return
	case *actor.Stopping:
		c.stopFlushLoop()
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.dc.Close(closeCtx); err != nil {
			c.log.Error("city dc close failed", zap.Error(err))
		}
		c.release()
		c.state = Stopping
		return
	case *actor.Stopped:
		c.stopFlushLoop()
		c.state = Offline
		return
	case *actor.Restarting:
		c.stopFlushLoop()
		c.state = Init
		return
	case flushTick:
		if c.state != Online {
			return
		}
		c.flush()
		return
	case messages.CityMessage:
		if c.state != Online {
			respond(ctx, messages.Reply{Err: service.ErrCityLoadFailed.WithData("city_id", int(c.cityID))})
			return
		}
		c.handle(ctx, msg)
	default:
		return
	}
}

func (c *CityActor) init(ctx actor.Context) {
	loadCtx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	e, err := c.load(loadCtx)
	if err != nil {
		logx.ReportSysErrorWithLoggerContext(loadCtx, c.log, logx.NewSysLog("city.load",
			service.ErrCityLoadFailed.WithCause(err).WithData("city_id", int(c.cityID))))
		c.state = Stopping
		ctx.Stop(ctx.Self())
		return
	}
	c.state = Online
	c.entity = e
	c.dc.Attach(e)
	c.startFlushLoop(ctx)
}

// load 有快照按快照恢复，否则按剧本建城。
func (c *CityActor) load(ctx context.Context) (*entity.City, error) {
	opts := []citizens.Option{citizens.WithTuning(c.tuning), citizens.WithLogger(c.deps.Log)}
	snap, ok, err := c.dc.Load(ctx, c.cityID)
	if err != nil {
		return nil, err
	}
	if ok {
		return entity.HydrateCity(snap, c.deps.Scenario.World, c.deps.Catalog, opts...)
	}
	e := entity.NewCity(c.seed, c.deps.Scenario.World, c.deps.Catalog, opts...)
	e.Found()
	c.log.Info("city founded", zap.Int("population", e.Population()))
	return e, nil
}

// handle 分发请求并统一应答。致命错误中止本次请求并停掉 actor，
// 下一次请求会从最近一次落库的快照重新加载。
func (c *CityActor) handle(ctx actor.Context, msg messages.CityMessage) {
	reqCtx := c.requestContext(msg)
	action := "city." + reflect.TypeOf(msg).Name()

	data, err := c.dispatch(ctx, msg)
	switch {
	case err == nil:
	case errx.IsFatal(err):
		logx.ReportSysErrorWithLoggerContext(reqCtx, c.log, logx.NewSysLog(action, err))
		respond(ctx, messages.Reply{Err: errx.ErrInternal.WithCause(err).WithData("city_id", int(c.cityID))})
		// 出错时的内存状态不落库
		c.entity.ClearDirty()
		c.state = Stopping
		ctx.Stop(ctx.Self())
		return
	case errx.IsBiz(err):
		var e *errx.Error
		errors.As(err, &e)
		logx.ReportBizWithLoggerContext(reqCtx, c.log, logx.NewBizLog(action, e.CodeText(), e.Msg()),
			zap.Any("error_data", e.Data()))
	default:
		logx.ReportSysErrorWithLoggerContext(reqCtx, c.log, logx.NewSysLog(action, err))
	}
	respond(ctx, messages.Reply{Data: data, Err: err})
}

func (c *CityActor) dispatch(ctx actor.Context, msg messages.CityMessage) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, errx.Recover(r)
			if !errx.IsFatal(err) {
				err = errx.NewFatal(errx.CodeInternal, "handler panic").WithCause(err)
			}
		}
	}()
	return c.dispatcher.Dispatch(ctx, c, msg)
}

func (c *CityActor) requestContext(msg messages.CityMessage) context.Context {
	ctx := context.Background()
	if id := msg.TraceID(); id != "" {
		ctx = tracex.WithTraceID(ctx, id)
	}
	if c.entity != nil {
		ctx = tracex.WithTurn(ctx, c.entity.Turn())
	}
	return ctx
}

func (c *CityActor) flush() {
	if err := c.dc.Flush(context.TODO()); err != nil {
		c.log.Error("city flush failed", zap.Error(err))
	}
}

// release 交还地图上的耕作标记，下次上线按快照恢复。
func (c *CityActor) release() {
	if c.entity == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("city release failed", zap.Error(errx.Recover(r)))
		}
	}()
	c.entity.Destroy()
}

// respond 广播消息没有 sender，不回。
func respond(ctx actor.Context, reply messages.Reply) {
	if ctx.Sender() == nil {
		return
	}
	ctx.Respond(reply)
}

func (c *CityActor) CityID() domain.CityID {
	return c.cityID
}

func (c *CityActor) Entity() *entity.City {
	return c.entity
}

func (c *CityActor) DC() *dc.CityDC {
	return c.dc
}

func (c *CityActor) startFlushLoop(ctx actor.Context) {
	if c.flushStop != nil {
		return
	}
	interval := c.dc.FlushEvery()
	if interval <= 0 {
		return
	}
	c.flushStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(c.flushStop, interval)
}

func (c *CityActor) stopFlushLoop() {
	if c.flushStop == nil {
		return
	}
	close(c.flushStop)
	c.flushStop = nil
}
