package service

import (
	"Civitas/internal/city/citizens"
	"Civitas/internal/city/domain"
	"Civitas/internal/city/entity"
	"Civitas/modules/kit/errx"
)

// CityService 城市用例。分配器的致命错误不在这里处理，由城市 actor 兜底。
type CityService struct{}

var CS = &CityService{}

// TurnResult 回合结算后的城市概况。
type TurnResult struct {
	CityID      domain.CityID  `json:"city_id"`
	Turn        int            `json:"turn"`
	Population  int            `json:"population"`
	Yields      map[string]int `json:"yields"`
	FoodSurplus int            `json:"food_surplus"`
}

func (s *CityService) RunTurn(c *entity.City, turn int, strategy domain.Strategy) TurnResult {
	c.DoTurn(turn, strategy)
	return TurnResult{
		CityID:      c.ID(),
		Turn:        c.Turn(),
		Population:  c.Population(),
		Yields:      yieldsMap(c.Yields()),
		FoodSurplus: c.FoodSurplus(),
	}
}

// ForcePlot 锁定/解锁地块。状态没变返回 false，不算错误。
func (s *CityService) ForcePlot(c *entity.City, loc domain.TileCoord, force bool) (bool, error) {
	alloc := c.Citizens()
	if err := checkPlot(c, loc); err != nil {
		return false, err
	}
	if force && !alloc.CanWorkAt(loc) {
		return false, plotError(c, loc, "not_workable")
	}
	changed := alloc.ForceWorkingPlotAt(loc, force)
	if changed {
		c.MarkDirty()
	}
	return changed, nil
}

// AlterPlot 玩家点击地块。
func (s *CityService) AlterPlot(c *entity.City, loc domain.TileCoord) error {
	alloc := c.Citizens()
	if err := checkPlot(c, loc); err != nil {
		return err
	}
	if !alloc.IsWorkedAt(loc) && !alloc.CanWorkAt(loc) {
		return plotError(c, loc, "not_workable")
	}
	if alloc.DoAlterWorkingPlot(loc) {
		c.MarkDirty()
	}
	return nil
}

// SetFocus 切换侧重与成长策略；交回自动分配专家时清掉玩家锁定的专家。
func (s *CityService) SetFocus(c *entity.City, p domain.FocusPolicy) error {
	if p.Focus < 0 || p.Focus >= domain.NumFocusTypes {
		return ErrInvalidFocus.WithData("focus", int(p.Focus))
	}
	prev := c.FocusPolicy()
	if !c.SetFocusPolicy(p) {
		return nil
	}
	if prev.NoAutoAssignSpecialists && !p.NoAutoAssignSpecialists {
		c.Citizens().DoClearForcedSpecialists()
	}
	c.Citizens().DoReallocateCitizens()
	return nil
}

// ChangeSpecialist 玩家手动增减建筑专家。
func (s *CityService) ChangeSpecialist(c *entity.City, b domain.BuildingType, add, forced bool) error {
	alloc := c.Citizens()
	if !c.HasBuilding(b) {
		return ErrBuildingMissing.WithData("city_id", int(c.ID())).WithData("building", b.String())
	}
	if add {
		if !alloc.CanAddSpecialistToBuilding(b) || !alloc.DoAddSpecialistToBuilding(b, forced) {
			return ErrSpecialistSlotFull.
				WithData("building", b.String()).
				WithData("assigned", alloc.NumSpecialistsInBuilding(b))
		}
		c.MarkDirty()
		return nil
	}
	if !alloc.DoRemoveSpecialistFromBuilding(b, forced) {
		return ErrNoSpecialistToRemove.WithData("building", b.String()).WithData("forced", forced)
	}
	alloc.DoAddBestCitizenFromUnassigned()
	alloc.CheckInvariant()
	c.MarkDirty()
	return nil
}

// ChangePopulation 外部人口结算（成长/饥荒）的入口，返回实际变化量。
func (s *CityService) ChangePopulation(c *entity.City, delta int) (int, error) {
	if delta == 0 {
		return 0, errx.ErrReqParamERR.WithData("delta", delta)
	}
	return c.ChangePopulation(delta), nil
}

// SetBuilding 建成或失去建筑后重新分配，失去的建筑里的专家会被放回。
func (s *CityService) SetBuilding(c *entity.City, b domain.BuildingType, has bool) error {
	if !b.Valid() {
		return errx.ErrReqParamERR.WithData("building", int(b))
	}
	if c.SetBuilding(b, has) {
		c.Citizens().DoReallocateCitizens()
	}
	return nil
}

func (s *CityService) UpdateTuning(c *entity.City, t citizens.Tuning) {
	c.Citizens().SetTuning(t)
}

func checkPlot(c *entity.City, loc domain.TileCoord) error {
	alloc := c.Citizens()
	if !alloc.IsPlotRegistered(loc) {
		return plotError(c, loc, "out_of_range")
	}
	if alloc.IsHomePlot(loc) {
		return plotError(c, loc, "city_center")
	}
	return nil
}

func plotError(c *entity.City, loc domain.TileCoord, why string) error {
	return ErrPlotNotWorkable.WithDataMap(map[string]any{
		"city_id": int(c.ID()),
		"q":       loc.Q,
		"r":       loc.R,
		"why":     why,
	})
}
