package citizens

import "Civitas/internal/city/domain"

func (a *Allocator) TotalSpecialistCount() int {
	total := 0
	for _, n := range a.specialistCounts {
		total += n
	}
	return total
}

func (a *Allocator) SpecialistCount(s domain.SpecialistType) int {
	if s < 0 || s >= domain.NumSpecialistTypes {
		return 0
	}
	return a.specialistCounts[s]
}

func (a *Allocator) NumSpecialistsInBuilding(b domain.BuildingType) int {
	if !b.Valid() {
		return 0
	}
	return a.specialistsInBuilding[b]
}

func (a *Allocator) NumForcedSpecialistsInBuilding(b domain.BuildingType) int {
	if !b.Valid() {
		return 0
	}
	return a.forcedSpecialistsInBuilding[b]
}

// SpecialistCapacity 建筑当前可容纳的专家上限：min(人口, 槽位, 全局硬上限)。
func (a *Allocator) SpecialistCapacity(b domain.BuildingType) int {
	if !b.Valid() || !a.city.HasBuilding(b) {
		return 0
	}
	_, slots := a.catalog.SpecialistSlots(b)
	return min(slots, a.city.Population(), a.tuning.MaxSpecialistsPerBuilding)
}

func (a *Allocator) CanAddSpecialistToBuilding(b domain.BuildingType) bool {
	return a.NumSpecialistsInBuilding(b) < a.SpecialistCapacity(b)
}

// DoAddSpecialistToBuilding 向建筑加一名专家，返回是否成功。
// forced 时先消耗一名锁定的默认专家；待分配池为空时腾出最差市民，
// 但不会腾出同类型专家。找不到市民就什么都不做。
func (a *Allocator) DoAddSpecialistToBuilding(b domain.BuildingType, forced bool) bool {
	if !a.CanAddSpecialistToBuilding(b) {
		return false
	}
	s, _ := a.catalog.SpecialistSlots(b)

	if forced && a.numForcedDefaultSpecialists > 0 {
		a.numForcedDefaultSpecialists--
		a.changeDefaultSpecialists(-1)
		a.changeUnassigned(1)
	}
	if a.numUnassignedCitizens == 0 {
		a.DoRemoveWorstCitizen(true, s)
	}
	if a.numUnassignedCitizens == 0 {
		return false
	}

	a.specialistsInBuilding[b]++
	if forced {
		a.forcedSpecialistsInBuilding[b]++
	}
	a.specialistCounts[s]++
	a.city.ProcessSpecialist(s, 1)
	a.changeUnassigned(-1)
	return true
}

// DoRemoveSpecialistFromBuilding 从建筑移出一名专家回到待分配池。
// forced 时优先扣锁定数；非 forced 时只移除未锁定的专家。
func (a *Allocator) DoRemoveSpecialistFromBuilding(b domain.BuildingType, forced bool) bool {
	if !b.Valid() || a.specialistsInBuilding[b] == 0 {
		return false
	}
	if !forced && a.specialistsInBuilding[b] == a.forcedSpecialistsInBuilding[b] {
		return false
	}
	s, _ := a.catalog.SpecialistSlots(b)

	a.specialistsInBuilding[b]--
	if forced && a.forcedSpecialistsInBuilding[b] > 0 {
		a.forcedSpecialistsInBuilding[b]--
	}
	a.specialistCounts[s]--
	a.city.ProcessSpecialist(s, -1)
	a.changeUnassigned(1)
	return true
}

// DoRemoveWorstSpecialist 移出估值最低的一名专家，先只看未锁定的，
// allowForced 时再考虑锁定的。跳过 dontRemoveFrom 建筑与 dontChange 类型。
func (a *Allocator) DoRemoveWorstSpecialist(dontChange domain.SpecialistType, dontRemoveFrom domain.BuildingType, allowForced bool) bool {
	passes := []bool{false}
	if allowForced {
		passes = append(passes, true)
	}
	for _, forcedPass := range passes {
		worst, worstValue := domain.NoBuilding, 0
		for b := domain.BuildingType(0); b < domain.NumBuildingTypes; b++ {
			if b == dontRemoveFrom || a.specialistsInBuilding[b] == 0 {
				continue
			}
			s, _ := a.catalog.SpecialistSlots(b)
			if s == dontChange {
				continue
			}
			removable := a.specialistsInBuilding[b] - a.forcedSpecialistsInBuilding[b]
			if forcedPass {
				removable = a.specialistsInBuilding[b]
			}
			if removable == 0 {
				continue
			}
			v := a.SpecialistValueFor(s)
			if worst == domain.NoBuilding || v < worstValue {
				worst, worstValue = b, v
			}
		}
		if worst != domain.NoBuilding {
			return a.DoRemoveSpecialistFromBuilding(worst, forcedPass)
		}
	}
	return false
}

// BestSpecialistBuilding 在城市已有且仍有空位的建筑中挑专家估值最高的一座，
// 每多一个总槽位加 ExtraSlotBiasPercent%，让专家集中而不是分散。
// 同分时取枚举顺序靠前的建筑。
func (a *Allocator) BestSpecialistBuilding() (domain.BuildingType, int, bool) {
	best, bestValue := domain.NoBuilding, 0
	for b := domain.BuildingType(0); b < domain.NumBuildingTypes; b++ {
		if !a.CanAddSpecialistToBuilding(b) {
			continue
		}
		s, slots := a.catalog.SpecialistSlots(b)
		if s == domain.NoSpecialist {
			continue
		}
		v := a.SpecialistValueFor(s) * (100 + a.tuning.ExtraSlotBiasPercent*(slots-1)) / 100
		if best == domain.NoBuilding || v > bestValue {
			best, bestValue = b, v
		}
	}
	return best, bestValue, best != domain.NoBuilding
}

// DoSpecialistGreatPersonProgress 每回合按在岗专家累计伟人点数。
func (a *Allocator) DoSpecialistGreatPersonProgress() {
	for s := domain.SpecialistType(0); s < domain.NumSpecialistTypes; s++ {
		if n := a.specialistCounts[s]; n > 0 {
			a.greatPersonProgress[s] += n * a.catalog.GreatPersonPoints(s)
		}
	}
}

func (a *Allocator) GreatPersonProgress(s domain.SpecialistType) int {
	if s < 0 || s >= domain.NumSpecialistTypes {
		return 0
	}
	return a.greatPersonProgress[s]
}

// DoClearForcedSpecialists 解除所有专家锁定（含默认专家），不移动任何人。
func (a *Allocator) DoClearForcedSpecialists() {
	a.numForcedDefaultSpecialists = 0
	a.forcedSpecialistsInBuilding = [domain.NumBuildingTypes]int{}
}

// doRemoveSpecialistsFromLostBuildings 建筑被拆除或易手后，其中的专家全部回到待分配池。
func (a *Allocator) doRemoveSpecialistsFromLostBuildings() {
	for b := domain.BuildingType(0); b < domain.NumBuildingTypes; b++ {
		if a.specialistsInBuilding[b] == 0 || a.city.HasBuilding(b) {
			continue
		}
		for a.specialistsInBuilding[b] > 0 {
			a.DoRemoveSpecialistFromBuilding(b, true)
		}
		a.forcedSpecialistsInBuilding[b] = 0
	}
}
