package citizens

import (
	"Civitas/internal/city/domain"
	"Civitas/modules/kit/errx"
	"Civitas/modules/kit/logx"

	"go.uber.org/zap"
)

const homeIndex = 0

// Allocator 一座城市的市民分配：工作地块表、专家账本、计数器与分配流程。
// 同步、单线程，不做并发保护；同一城市的调用由上层按回合串行。
type Allocator struct {
	city    CityView
	world   MapView
	catalog Catalog
	tuning  Tuning
	log     logx.Logger

	plots     []WorkingPlot
	plotIndex map[domain.TileCoord]int

	numCitizensWorkingPlots     int
	numUnassignedCitizens       int
	numForcedWorkingPlots       int
	numDefaultSpecialists       int
	numForcedDefaultSpecialists int

	specialistsInBuilding       [domain.NumBuildingTypes]int
	forcedSpecialistsInBuilding [domain.NumBuildingTypes]int
	specialistCounts            [domain.NumSpecialistTypes]int
	greatPersonProgress         [domain.NumSpecialistTypes]int

	strategy domain.Strategy
	founded  bool
}

type Option func(*Allocator)

func WithTuning(t Tuning) Option {
	return func(a *Allocator) {
		a.tuning = t.OrDefault()
	}
}

func WithLogger(l logx.Logger) Option {
	return func(a *Allocator) {
		if l != nil {
			a.log = l
		}
	}
}

func New(city CityView, world MapView, catalog Catalog, opts ...Option) *Allocator {
	a := &Allocator{
		city:    city,
		world:   world,
		catalog: catalog,
		tuning:  DefaultTuning(),
		log:     logx.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(zap.Int("city_id", int(city.ID())))
	return a
}

// DoFound 城市建立：登记工作范围内全部地块，城市中心永久耕作，
// 当前人口全部进入待分配池后立即分配。
func (a *Allocator) DoFound() {
	if a.founded {
		a.Clear()
	}
	a.registerPlots()
	a.founded = true
	a.changeUnassigned(a.city.Population())
	a.DoReallocateCitizens()
	a.log.Debug("city citizens founded",
		zap.Int("plots", len(a.plots)),
		zap.Int("population", a.city.Population()),
	)
}

func (a *Allocator) registerPlots() {
	center := a.city.Location()
	if !a.world.Contains(center) {
		errx.Panic(ErrUnknownPlot.WithData("q", center.Q).WithData("r", center.R).WithData("action", "found"))
	}
	area := domain.WorkArea(center, domain.WorkRadius)
	a.plots = make([]WorkingPlot, 0, len(area))
	a.plotIndex = make(map[domain.TileCoord]int, len(area))
	for _, loc := range area {
		if !a.world.Contains(loc) {
			continue
		}
		a.plotIndex[loc] = len(a.plots)
		a.plots = append(a.plots, WorkingPlot{Location: loc})
	}
	a.plots[homeIndex].Worked = true
	a.city.ProcessWorkedPlot(center, 1)
}

// Clear 城市被摧毁或易主：放下所有地块、清空专家、计数归零。
// 每次清除都会走产出缓存回调，保证城市侧缓存同步归零。
func (a *Allocator) Clear() {
	for i := range a.plots {
		if a.plots[i].Worked {
			a.city.ProcessWorkedPlot(a.plots[i].Location, -1)
		}
	}
	for b := domain.BuildingType(0); b < domain.NumBuildingTypes; b++ {
		if n := a.specialistsInBuilding[b]; n > 0 {
			s, _ := a.catalog.SpecialistSlots(b)
			a.city.ProcessSpecialist(s, -n)
		}
	}
	if a.numDefaultSpecialists > 0 {
		a.city.ProcessSpecialist(domain.SpecialistCitizen, -a.numDefaultSpecialists)
	}

	a.plots = nil
	a.plotIndex = nil
	a.numCitizensWorkingPlots = 0
	a.numUnassignedCitizens = 0
	a.numForcedWorkingPlots = 0
	a.numDefaultSpecialists = 0
	a.numForcedDefaultSpecialists = 0
	a.specialistsInBuilding = [domain.NumBuildingTypes]int{}
	a.forcedSpecialistsInBuilding = [domain.NumBuildingTypes]int{}
	a.specialistCounts = [domain.NumSpecialistTypes]int{}
	a.greatPersonProgress = [domain.NumSpecialistTypes]int{}
	a.founded = false
}

// DoTurn 每回合一次：记录本回合策略快照，结算伟人点数，校验地块后全量重分配。
func (a *Allocator) DoTurn(strategy domain.Strategy) {
	a.mustFounded("turn")
	a.strategy = strategy
	a.DoSpecialistGreatPersonProgress()
	if dropped := a.DoVerifyWorkingPlots(); dropped > 0 {
		a.log.Debug("unworkable plots dropped", zap.Int("dropped", dropped))
	}
	a.DoReallocateCitizens()
}

// DoChangePopulation 人口变化后调用（城市已是新人口）：
// 增长的市民进入待分配池并立即安置；减少时先腾出最差市民再移除。
func (a *Allocator) DoChangePopulation(delta int) {
	a.mustFounded("change_population")
	switch {
	case delta > 0:
		a.changeUnassigned(delta)
		for i := 0; i < delta; i++ {
			a.DoAddBestCitizenFromUnassigned()
		}
	case delta < 0:
		for i := 0; i < -delta; i++ {
			if a.numUnassignedCitizens == 0 && !a.DoRemoveWorstCitizen(true, domain.NoSpecialist) {
				errx.Panic(ErrInvariantViolated.WithData("action", "change_population").WithData("delta", delta))
			}
			a.changeUnassigned(-1)
		}
	}
	a.CheckInvariant()
}

func (a *Allocator) SetStrategy(s domain.Strategy) {
	a.strategy = s
}

func (a *Allocator) Strategy() domain.Strategy {
	return a.strategy
}

func (a *Allocator) Founded() bool {
	return a.founded
}

func (a *Allocator) Tuning() Tuning {
	return a.tuning
}

// SetTuning 热更新参数，下一次分配生效。
func (a *Allocator) SetTuning(t Tuning) {
	a.tuning = t.OrDefault()
}

func (a *Allocator) mustFounded(action string) {
	if !a.founded {
		errx.Panic(ErrNotFounded.WithData("action", action).WithData("city_id", int(a.city.ID())))
	}
}

// 计数器

func (a *Allocator) NumCitizensWorkingPlots() int     { return a.numCitizensWorkingPlots }
func (a *Allocator) NumUnassignedCitizens() int       { return a.numUnassignedCitizens }
func (a *Allocator) NumForcedWorkingPlots() int       { return a.numForcedWorkingPlots }
func (a *Allocator) NumDefaultSpecialists() int       { return a.numDefaultSpecialists }
func (a *Allocator) NumForcedDefaultSpecialists() int { return a.numForcedDefaultSpecialists }

func (a *Allocator) changeUnassigned(delta int) {
	a.numUnassignedCitizens += delta
	if a.numUnassignedCitizens < 0 {
		errx.Panic(ErrInvariantViolated.
			WithData("reason", "unassigned_negative").
			WithData("unassigned", a.numUnassignedCitizens))
	}
}

func (a *Allocator) changeDefaultSpecialists(delta int) {
	a.numDefaultSpecialists += delta
	a.specialistCounts[domain.SpecialistCitizen] += delta
	a.city.ProcessSpecialist(domain.SpecialistCitizen, delta)
}
