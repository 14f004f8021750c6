package citizens

import "Civitas/internal/city/domain"

// IsAIWantSpecialistRightNow 此刻是否愿意把市民放进建筑当专家，并返回权重。
// 权重从 WantSpecialistBaseWeight 起算，达到 WantSpecialistThreshold 才要专家。
func (a *Allocator) IsAIWantSpecialistRightNow() (bool, int) {
	t := a.tuning
	policy := a.city.FocusPolicy()
	weight := t.WantSpecialistBaseWeight

	if a.city.Population() < 3 {
		weight /= 2
	}
	// 挨饿时不要专家
	if a.city.FoodSurplus() <= 0 {
		weight /= 2
	}

	switch policy.Focus {
	case domain.FocusNone:
		if policy.IsAvoidGrowth() {
			weight *= 2
		}
	case domain.FocusGreatPeople:
		if policy.IsAvoidGrowth() {
			weight *= 2
		}
		weight *= t.GreatPeopleFocusMultiplier
	case domain.FocusProduction, domain.FocusScience, domain.FocusGold, domain.FocusCulture:
		if primary, _ := policy.Focus.PrimaryYield(); a.hasOpenSpecialistSlotYielding(primary) {
			weight *= t.FocusCapacityMultiplier
		}
	}

	// 缺锤时不再因闲置默认专家加权
	if a.strategy.ProductionDeficient {
		weight /= 2
	} else if a.numDefaultSpecialists > 0 && policy.Focus != domain.FocusProduction {
		weight = weight * 3 / 2
	}

	return weight >= t.WantSpecialistThreshold, weight
}

func (a *Allocator) hasOpenSpecialistSlotYielding(y domain.YieldType) bool {
	for b := domain.BuildingType(0); b < domain.NumBuildingTypes; b++ {
		if !a.CanAddSpecialistToBuilding(b) {
			continue
		}
		s, _ := a.catalog.SpecialistSlots(b)
		if s != domain.NoSpecialist && a.catalog.SpecialistYields(s).Get(y) > 0 {
			return true
		}
	}
	return false
}
