package citizens

import (
	"Civitas/internal/city/domain"
	"Civitas/modules/kit/errx"
)

// WorkingPlot 工作范围内的一个地块。城市中心永远 Worked，不参与分配。
type WorkingPlot struct {
	Location     domain.TileCoord
	Worked       bool
	WorkedForced bool
}

func (a *Allocator) mustPlotIndex(loc domain.TileCoord, action string) int {
	idx, ok := a.plotIndex[loc]
	if !ok {
		errx.Panic(ErrUnknownPlot.
			WithData("action", action).
			WithData("city_id", int(a.city.ID())).
			WithData("q", loc.Q).
			WithData("r", loc.R))
	}
	return idx
}

// Plots 按规范扫描顺序返回地块表副本。
func (a *Allocator) Plots() []WorkingPlot {
	out := make([]WorkingPlot, len(a.plots))
	copy(out, a.plots)
	return out
}

func (a *Allocator) IsPlotRegistered(loc domain.TileCoord) bool {
	_, ok := a.plotIndex[loc]
	return ok
}

func (a *Allocator) IsHomePlot(loc domain.TileCoord) bool {
	idx, ok := a.plotIndex[loc]
	return ok && idx == homeIndex
}

// CanWorkAt 地块归属本城（或无主）、不被别的城市耕作、有产出、未被海上封锁。
func (a *Allocator) CanWorkAt(loc domain.TileCoord) bool {
	if _, ok := a.plotIndex[loc]; !ok {
		return false
	}
	owner := a.city.Owner()
	if o, ok := a.world.OwnerOf(loc); ok && o != owner {
		return false
	}
	if c, ok := a.world.WorkingCityOf(loc); ok && c != a.city.ID() {
		return false
	}
	if !a.world.YieldsAt(loc, owner).Any() {
		return false
	}
	return !a.IsBlockaded(loc)
}

// IsBlockaded 水域地块周边封锁半径内、同一水体上有本城主人可见的敌方单位。
func (a *Allocator) IsBlockaded(loc domain.TileCoord) bool {
	if !a.world.IsWater(loc) {
		return false
	}
	area := a.world.AreaOf(loc)
	observer := a.city.Owner()
	for _, n := range domain.WorkArea(loc, a.tuning.BlockadeRadius) {
		if !a.world.Contains(n) || !a.world.IsWater(n) || a.world.AreaOf(n) != area {
			continue
		}
		if a.world.HasVisibleEnemyUnit(n, observer) {
			return true
		}
	}
	return false
}

func (a *Allocator) IsWorkedAt(loc domain.TileCoord) bool {
	return a.plots[a.mustPlotIndex(loc, "is_worked")].Worked
}

func (a *Allocator) IsForcedWorkedAt(loc domain.TileCoord) bool {
	return a.plots[a.mustPlotIndex(loc, "is_forced")].WorkedForced
}

// WorkedTileLocations 当前耕作中的地块（含城市中心），按扫描顺序。
func (a *Allocator) WorkedTileLocations() []domain.TileCoord {
	out := make([]domain.TileCoord, 0, a.numCitizensWorkingPlots+1)
	for _, p := range a.plots {
		if p.Worked {
			out = append(out, p.Location)
		}
	}
	return out
}

// SetWorkedAt 切换耕作状态。useUnassignedPool 时市民从待分配池取出/放回。
// 城市中心与状态未变化时什么都不做。
func (a *Allocator) SetWorkedAt(loc domain.TileCoord, worked, useUnassignedPool bool) {
	idx := a.mustPlotIndex(loc, "set_worked")
	if idx == homeIndex {
		return
	}
	p := &a.plots[idx]
	if p.Worked == worked {
		return
	}
	p.Worked = worked
	delta := 1
	if !worked {
		delta = -1
	}
	a.numCitizensWorkingPlots += delta
	if useUnassignedPool {
		a.changeUnassigned(-delta)
	}
	a.city.ProcessWorkedPlot(loc, delta)
}

// ForceWorkingPlotAt 玩家锁定/解锁地块，随后校验锁定数并全量重分配。
// 只能锁定可工作的地块，未耕作的地块先腾出一名市民去耕作。
// 返回锁定状态是否按要求生效。
func (a *Allocator) ForceWorkingPlotAt(loc domain.TileCoord, force bool) bool {
	idx := a.mustPlotIndex(loc, "force_plot")
	if idx == homeIndex {
		return false
	}
	p := &a.plots[idx]
	if p.WorkedForced == force {
		return false
	}
	if force && !p.Worked {
		if !a.CanWorkAt(loc) || !a.workFreedCitizenAt(loc) {
			return false
		}
	}
	a.setForced(idx, force)
	a.DoValidateForcedWorkingPlots()
	a.DoReallocateCitizens()
	return p.WorkedForced == force
}

// workFreedCitizenAt 依次取默认专家、待分配池、最差市民去耕作 loc，腾不出人返回 false。
func (a *Allocator) workFreedCitizenAt(loc domain.TileCoord) bool {
	switch {
	case a.numDefaultSpecialists > 0:
		if a.numForcedDefaultSpecialists > 0 {
			a.numForcedDefaultSpecialists--
		}
		a.changeDefaultSpecialists(-1)
		a.SetWorkedAt(loc, true, false)
	case a.numUnassignedCitizens > 0:
		a.SetWorkedAt(loc, true, true)
	default:
		if !a.DoRemoveWorstCitizen(true, domain.NoSpecialist) {
			return false
		}
		a.SetWorkedAt(loc, true, true)
	}
	return true
}

func (a *Allocator) setForced(idx int, force bool) {
	p := &a.plots[idx]
	if p.WorkedForced == force {
		return
	}
	p.WorkedForced = force
	if force {
		a.numForcedWorkingPlots++
	} else {
		a.numForcedWorkingPlots--
	}
}

// DoValidateForcedWorkingPlots 锁定数多于耕作市民时，逐个解锁估值最低的锁定地块。
func (a *Allocator) DoValidateForcedWorkingPlots() {
	for a.numForcedWorkingPlots > a.numCitizensWorkingPlots {
		worst, worstValue := -1, 0
		for i := homeIndex + 1; i < len(a.plots); i++ {
			if !a.plots[i].WorkedForced {
				continue
			}
			v := a.PlotValueOf(a.plots[i].Location, false)
			if worst < 0 || v < worstValue {
				worst, worstValue = i, v
			}
		}
		if worst < 0 {
			return
		}
		a.setForced(worst, false)
	}
}

// DoAlterWorkingPlot 玩家点击地块：
// 已耕作 → 放下并变成锁定的默认专家；未耕作且可工作 → 锁定耕作，
// 市民依次取自默认专家、待分配池、最差市民。
func (a *Allocator) DoAlterWorkingPlot(loc domain.TileCoord) bool {
	idx := a.mustPlotIndex(loc, "alter_plot")
	if idx == homeIndex {
		return false
	}
	if a.plots[idx].Worked {
		a.setForced(idx, false)
		a.SetWorkedAt(loc, false, false)
		a.changeDefaultSpecialists(1)
		a.numForcedDefaultSpecialists++
		return true
	}
	if !a.CanWorkAt(loc) || !a.workFreedCitizenAt(loc) {
		return false
	}
	a.setForced(idx, true)
	return true
}

// DoVerifyWorkingPlots 放下已不可工作的地块（封锁、易主），市民回到待分配池。
func (a *Allocator) DoVerifyWorkingPlots() int {
	dropped := 0
	for i := homeIndex + 1; i < len(a.plots); i++ {
		p := a.plots[i]
		if !p.Worked || a.CanWorkAt(p.Location) {
			continue
		}
		a.setForced(i, false)
		a.SetWorkedAt(p.Location, false, true)
		dropped++
	}
	return dropped
}

// BestCityPlotWithValue 扫描除城市中心外的地块，按 PlotValueOf(useGrowthFlag=true) 排序。
// wantBest 取最大、否则取最小；wantWorked 决定看耕作中还是空闲的地块。
// 锁定地块加 ForcedPlotBonus：取最大时最先被选，取最小时最后被选。
// 同分时保留扫描顺序中先出现的地块。
func (a *Allocator) BestCityPlotWithValue(wantBest, wantWorked bool) (domain.TileCoord, int, bool) {
	st := a.valuationState()
	owner := a.city.Owner()
	bestIdx, bestValue := -1, 0
	for i := homeIndex + 1; i < len(a.plots); i++ {
		p := a.plots[i]
		if p.Worked != wantWorked {
			continue
		}
		if !wantWorked && !a.CanWorkAt(p.Location) {
			continue
		}
		v := PlotValue(a.world.YieldsAt(p.Location, owner), st, a.tuning, true)
		if p.WorkedForced {
			v += a.tuning.ForcedPlotBonus
		}
		if bestIdx < 0 || (wantBest && v > bestValue) || (!wantBest && v < bestValue) {
			bestIdx, bestValue = i, v
		}
	}
	if bestIdx < 0 {
		return domain.TileCoord{}, 0, false
	}
	return a.plots[bestIdx].Location, bestValue, true
}
