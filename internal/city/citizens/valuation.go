package citizens

import "Civitas/internal/city/domain"

// ValuationState 估值用到的城市策略状态。
type ValuationState struct {
	Policy      domain.FocusPolicy
	FoodSurplus int
	Population  int
}

// HasEnoughFood 余粮达到阈值。
func (s ValuationState) HasEnoughFood(t Tuning) bool {
	return s.FoodSurplus >= t.EnoughFoodSurplus
}

// PlotValue 地块估值，纯函数：相同 (产出, 状态) 必然得到相同分数。
//  1. 基础权重：粮 12、锤 8、金 10、科 6、文 8
//  2. 侧重倍率
//  3. 粮食特判：回避成长时清零；缺粮时翻倍
//  4. 早期成长：人口 < 5 时粮食 ×3
//  5. 求和
func PlotValue(y domain.Yields, st ValuationState, t Tuning, useGrowthFlag bool) int {
	w := focusWeighted(y, st.Policy.Focus, t)

	focus := st.Policy.Focus
	avoid := st.Policy.IsAvoidGrowth()
	switch {
	case useGrowthFlag && st.FoodSurplus >= 0 && avoid:
		w[domain.YieldFood] = 0
	case isNonFoodFocus(focus) && !st.HasEnoughFood(t):
		w[domain.YieldFood] *= 2
	case focus == domain.FocusNone && !avoid && st.FoodSurplus < t.EnoughFoodSurplus:
		w[domain.YieldFood] *= 2
	}

	earlyGrowthFocus := focus == domain.FocusNone ||
		focus == domain.FocusProductionGrowth ||
		focus == domain.FocusGoldGrowth
	if earlyGrowthFocus && !avoid && st.Population < t.EarlyGrowthPopulation {
		w[domain.YieldFood] *= t.EarlyGrowthFoodMultiplier
	}

	total := 0
	for _, v := range w {
		total += v
	}
	return total
}

// focusWeighted 乘基础权重与侧重倍率，不含粮食特判。专家估值也用它。
func focusWeighted(y domain.Yields, focus domain.FocusType, t Tuning) domain.Yields {
	w := domain.Yields{
		y[domain.YieldFood] * t.FoodWeight,
		y[domain.YieldProduction] * t.ProductionWeight,
		y[domain.YieldGold] * t.GoldWeight,
		y[domain.YieldScience] * t.ScienceWeight,
		y[domain.YieldCulture] * t.CultureWeight,
	}
	primary, ok := focus.PrimaryYield()
	if !ok {
		return w
	}
	switch focus {
	case domain.FocusFoodGrowth:
		w[domain.YieldFood] *= t.FoodGrowthFocusMultiplier
	case domain.FocusProductionGrowth, domain.FocusGoldGrowth:
		w[primary] *= t.FocusMultiplier
		w[domain.YieldFood] *= t.GrowthFocusFoodMultiplier
	default:
		w[primary] *= t.FocusMultiplier
	}
	return w
}

// isNonFoodFocus 既不侧重粮食也不侧重成长。
func isNonFoodFocus(f domain.FocusType) bool {
	switch f {
	case domain.FocusProduction, domain.FocusGold, domain.FocusScience,
		domain.FocusCulture, domain.FocusGreatPeople:
		return true
	default:
		return false
	}
}

func (a *Allocator) valuationState() ValuationState {
	return ValuationState{
		Policy:      a.city.FocusPolicy(),
		FoodSurplus: a.city.FoodSurplus(),
		Population:  a.city.Population(),
	}
}

// PlotValueOf 对本城某个地块估值。
func (a *Allocator) PlotValueOf(loc domain.TileCoord, useGrowthFlag bool) int {
	return PlotValue(a.world.YieldsAt(loc, a.city.Owner()), a.valuationState(), a.tuning, useGrowthFlag)
}

// SpecialistValueFor 专家估值：自身产出按侧重加权，再加伟人点数。
func (a *Allocator) SpecialistValueFor(s domain.SpecialistType) int {
	focus := a.city.FocusPolicy().Focus
	w := focusWeighted(a.catalog.SpecialistYields(s), focus, a.tuning)
	total := 0
	for _, v := range w {
		total += v
	}
	gpp := a.catalog.GreatPersonPoints(s) * a.tuning.GreatPersonPointWeight
	if focus == domain.FocusGreatPeople {
		gpp *= a.tuning.GreatPeopleFocusMultiplier
	}
	return total + gpp
}
