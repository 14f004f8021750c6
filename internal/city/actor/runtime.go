package actor

import (
	"context"
	"errors"
	"slices"
	"time"

	"Civitas/internal/city/actors"
	"Civitas/internal/city/citizens"
	"Civitas/internal/city/domain"
	"Civitas/internal/city/service"
	"Civitas/internal/shared/actor/messages"
	"Civitas/internal/shared/transport"
	"Civitas/modules/kit/errx"
	"Civitas/modules/kit/logx"
	"Civitas/modules/kit/tracex"

	protoactor "github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 城市 actor 的外部入口：HTTP 和回合驱动都经由它。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
	cityIDs []domain.CityID
	owners  map[domain.CityID]domain.PlayerID
	log     logx.Logger
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}
	if deps.Log == nil {
		deps.Log = logx.Nop()
	}

	var ids []domain.CityID
	owners := make(map[domain.CityID]domain.PlayerID)
	if deps.Scenario != nil {
		for _, c := range deps.Scenario.Cities {
			ids = append(ids, c.ID)
			owners[c.ID] = c.Owner
		}
	}
	slices.Sort(ids)

	system := protoactor.NewActorSystem()
	root := system.Root
	// manager 只做路由和子 actor 管理，不干重活
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
		cityIDs: ids,
		owners:  owners,
		log:     deps.Log,
	}
}

// Shutdown 先处理完邮箱里已有的请求，再停子 actor（子 actor 停止时落库）。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		if err := r.root.PoisonFuture(r.manager).Wait(); err != nil {
			r.log.Warn("city manager stop timeout", zap.Error(err))
		}
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// CityIDs 剧本里的全部城市，按 ID 升序。
func (r *Runtime) CityIDs() []domain.CityID {
	return slices.Clone(r.cityIDs)
}

// Ask 发给对应城市 actor 并等待应答；业务/系统错误原样返回 errx 错误。
func (r *Runtime) Ask(ctx context.Context, msg messages.CityMessage) (any, error) {
	if msg == nil {
		return nil, &RuntimeError{Code: transport.InvalidParam, Message: "city message 不能为空"}
	}
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	reply, ok := res.(messages.Reply)
	if !ok {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor 返回类型非法"}
	}
	return reply.Data, reply.Err
}

// RunTurn 按城市 ID 升序逐个结算；单个城市失败不影响其余城市，错误合并返回。
func (r *Runtime) RunTurn(ctx context.Context, turn int, strategies map[domain.PlayerID]domain.Strategy) ([]service.TurnResult, error) {
	ctx = tracex.NewTurnContext(ctx, "turn", turn)
	trace, _ := tracex.TraceIDFrom(ctx)

	out := make([]service.TurnResult, 0, len(r.cityIDs))
	var errs []error
	for _, id := range r.cityIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		strategy := strategies[r.owners[id]]
		data, err := r.Ask(ctx, messages.RunTurn{
			CityBaseMessage: messages.CityBaseMessage{City: id, Trace: trace},
			Turn:            turn,
			Strategy:        strategy,
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if res, ok := data.(service.TurnResult); ok {
			out = append(out, res)
		}
	}
	return out, errors.Join(errs...)
}

// UpdateTuning 广播新的分配参数，返回收到广播的在线城市数。
func (r *Runtime) UpdateTuning(ctx context.Context, t citizens.Tuning) (int, error) {
	data, err := r.Ask(ctx, messages.UpdateTuning{Tuning: t})
	if err != nil {
		return 0, err
	}
	n, _ := data.(int)
	return n, nil
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if errors.Is(err, protoactor.ErrTimeout) {
		return nil, &RuntimeError{Code: transport.Unavailable, Message: "actor 请求超时", Cause: errx.ErrTimeout.WithCause(err)}
	}
	if err != nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor 请求失败", Cause: err}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// CodeFromError 把 runtime / errx 错误映射成响应体 code。
func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	var e *errx.Error
	if !errors.As(err, &e) {
		return transport.SystemError
	}
	switch e.Code() {
	case service.CodeCityNotFound:
		return transport.NotFound
	case errx.CodeReqParamError, service.CodeInvalidFocus:
		return transport.InvalidParam
	case errx.CodeUnavailable, errx.CodeTimeout, service.CodeCityLoadFailed:
		return transport.Unavailable
	}
	if errx.IsBiz(err) {
		return transport.Rejected
	}
	return transport.SystemError
}
