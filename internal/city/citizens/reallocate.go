package citizens

import (
	"Civitas/internal/city/domain"

	"go.uber.org/zap"
)

// DoReallocateCitizens 全量重分配：
//  1. 锁定地块数多于耕作市民时解锁最差的锁定地块
//  2. 放下所有耕作地块（保留锁定标记）
//  3. 移出所有未锁定的建筑专家，失去的建筑连同锁定专家一起清空
//  4. 默认专家削减到锁定数
//  5. 待分配池逐个安置：专家、最佳地块、默认专家
func (a *Allocator) DoReallocateCitizens() {
	a.mustFounded("reallocate")

	a.DoValidateForcedWorkingPlots()

	for n := a.numCitizensWorkingPlots; n > 0; n-- {
		a.DoRemoveWorstCitizen(false, domain.NoSpecialist)
	}

	a.doRemoveSpecialistsFromLostBuildings()
	for b := domain.BuildingType(0); b < domain.NumBuildingTypes; b++ {
		for n := a.specialistsInBuilding[b] - a.forcedSpecialistsInBuilding[b]; n > 0; n-- {
			a.DoRemoveSpecialistFromBuilding(b, false)
		}
	}

	if extra := a.numDefaultSpecialists - a.numForcedDefaultSpecialists; extra > 0 {
		a.changeDefaultSpecialists(-extra)
		a.changeUnassigned(extra)
	}

	for n := a.numUnassignedCitizens; n > 0; n-- {
		a.DoAddBestCitizenFromUnassigned()
	}

	a.CheckInvariant()
	a.log.Debug("citizens reallocated",
		zap.Int("population", a.city.Population()),
		zap.Int("working_plots", a.numCitizensWorkingPlots),
		zap.Int("specialists", a.TotalSpecialistCount()),
		zap.Int("default_specialists", a.numDefaultSpecialists),
		zap.Int("forced_plots", a.numForcedWorkingPlots),
	)
}

// DoAddBestCitizenFromUnassigned 从待分配池安置一名市民，池为空时返回 false。
// 允许自动专家且此刻想要专家、并且最佳建筑的专家估值不低于最佳空闲地块时进建筑；
// 否则耕作最佳空闲地块；都没有就成为默认专家。
func (a *Allocator) DoAddBestCitizenFromUnassigned() bool {
	if a.numUnassignedCitizens == 0 {
		return false
	}

	plot, plotValue, hasPlot := a.BestCityPlotWithValue(true, false)

	if !a.city.FocusPolicy().NoAutoAssignSpecialists {
		if want, _ := a.IsAIWantSpecialistRightNow(); want {
			b, v, ok := a.BestSpecialistBuilding()
			if ok && v > 0 && (!hasPlot || v >= plotValue) && a.DoAddSpecialistToBuilding(b, false) {
				return true
			}
		}
	}

	if hasPlot {
		a.SetWorkedAt(plot, true, true)
		return true
	}
	a.changeUnassigned(-1)
	a.changeDefaultSpecialists(1)
	return true
}

// DoRemoveWorstCitizen 腾出一名市民到待分配池，顺序：
// 未锁定的默认专家、最差耕作地块、最差建筑专家；
// removeForcedStatus 时最后才动锁定的默认专家。什么都腾不出返回 false。
func (a *Allocator) DoRemoveWorstCitizen(removeForcedStatus bool, dontChange domain.SpecialistType) bool {
	if a.numDefaultSpecialists > a.numForcedDefaultSpecialists {
		a.changeDefaultSpecialists(-1)
		a.changeUnassigned(1)
		return true
	}

	if loc, _, ok := a.BestCityPlotWithValue(false, true); ok {
		if removeForcedStatus {
			a.setForced(a.plotIndex[loc], false)
		}
		a.SetWorkedAt(loc, false, true)
		return true
	}

	if a.DoRemoveWorstSpecialist(dontChange, domain.NoBuilding, removeForcedStatus) {
		return true
	}

	if removeForcedStatus && a.numForcedDefaultSpecialists > 0 && dontChange != domain.SpecialistCitizen {
		a.numForcedDefaultSpecialists--
		a.changeDefaultSpecialists(-1)
		a.changeUnassigned(1)
		return true
	}
	return false
}
