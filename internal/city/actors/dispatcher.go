package actors

import (
	"reflect"

	"Civitas/internal/shared/actor/messages"
	"Civitas/modules/kit/errx"

	"github.com/asynkron/protoactor-go/actor"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, CH.HandleGetCity)
	register(d, CH.HandleRunTurn)
	register(d, CH.HandleForcePlot)
	register(d, CH.HandleAlterPlot)
	register(d, CH.HandleSetFocus)
	register(d, CH.HandleChangeSpecialist)
	register(d, CH.HandleChangePopulation)
	register(d, CH.HandleSetBuilding)
	register(d, CH.HandleUpdateTuning)
}

// register 按请求的具体类型登记，消息以值类型投递。
func register[Req messages.CityMessage](
	d *Dispatcher,
	fn func(ctx actor.Context, c *CityActor, req Req) (any, error),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() == reflect.Ptr {
		panic("dispatcher req type must be a value message")
	}
	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

// Dispatch 调用对应 handler；handler 里的 panic 原样向上抛，由 CityActor 兜底。
func (d *Dispatcher) Dispatch(ctx actor.Context, c *CityActor, req messages.CityMessage) (any, error) {
	if req == nil {
		return nil, errx.ErrReqParamERR.WithData("reason", "nil_request")
	}
	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		return nil, errx.ErrReqParamERR.WithData("reason", "no_handler").WithData("message", bodyType.String())
	}

	out := handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(c),
		reflect.ValueOf(req),
	})
	var err error
	if e := out[1].Interface(); e != nil {
		err = e.(error)
	}
	return out[0].Interface(), err
}
