package service

import (
	"Civitas/internal/city/domain"
	"Civitas/internal/city/entity"
)

type PlotInfo struct {
	Q      int  `json:"q"`
	R      int  `json:"r"`
	Forced bool `json:"forced"`
	Value  int  `json:"value"`
}

type SpecialistInfo struct {
	Building   string `json:"building"`
	Specialist string `json:"specialist"`
	Count      int    `json:"count"`
	Forced     int    `json:"forced"`
	Capacity   int    `json:"capacity"`
}

// CityInfo 城市分配状态的只读视图，HTTP 直接序列化。
type CityInfo struct {
	ID                       domain.CityID    `json:"id"`
	Name                     string           `json:"name"`
	Owner                    domain.PlayerID  `json:"owner"`
	Q                        int              `json:"q"`
	R                        int              `json:"r"`
	Population               int              `json:"population"`
	Turn                     int              `json:"turn"`
	Focus                    string           `json:"focus"`
	AvoidGrowth              bool             `json:"avoid_growth"`
	NoAutoAssign             bool             `json:"no_auto_assign"`
	Yields                   map[string]int   `json:"yields"`
	FoodSurplus              int              `json:"food_surplus"`
	WorkedPlots              []PlotInfo       `json:"worked_plots"`
	Specialists              []SpecialistInfo `json:"specialists"`
	DefaultSpecialists       int              `json:"default_specialists"`
	ForcedDefaultSpecialists int              `json:"forced_default_specialists"`
	UnassignedCitizens       int              `json:"unassigned_citizens"`
	GreatPersonProgress      map[string]int   `json:"great_person_progress"`
	WantSpecialist           bool             `json:"want_specialist"`
	WantSpecialistWeight     int              `json:"want_specialist_weight"`
}

func (s *CityService) Info(c *entity.City) CityInfo {
	alloc := c.Citizens()
	p := c.FocusPolicy()
	loc := c.Location()
	info := CityInfo{
		ID:                       c.ID(),
		Name:                     c.Name(),
		Owner:                    c.Owner(),
		Q:                        loc.Q,
		R:                        loc.R,
		Population:               c.Population(),
		Turn:                     c.Turn(),
		Focus:                    p.Focus.String(),
		AvoidGrowth:              p.IsAvoidGrowth(),
		NoAutoAssign:             p.NoAutoAssignSpecialists,
		Yields:                   yieldsMap(c.Yields()),
		FoodSurplus:              c.FoodSurplus(),
		DefaultSpecialists:       alloc.NumDefaultSpecialists(),
		ForcedDefaultSpecialists: alloc.NumForcedDefaultSpecialists(),
		UnassignedCitizens:       alloc.NumUnassignedCitizens(),
		GreatPersonProgress:      map[string]int{},
	}
	for _, wp := range alloc.Plots() {
		if !wp.Worked || alloc.IsHomePlot(wp.Location) {
			continue
		}
		info.WorkedPlots = append(info.WorkedPlots, PlotInfo{
			Q:      wp.Location.Q,
			R:      wp.Location.R,
			Forced: wp.WorkedForced,
			Value:  alloc.PlotValueOf(wp.Location, false),
		})
	}
	for _, b := range c.Buildings() {
		capacity := alloc.SpecialistCapacity(b)
		if capacity == 0 {
			continue
		}
		st, _ := catalogSpecialist(c, b)
		info.Specialists = append(info.Specialists, SpecialistInfo{
			Building:   b.String(),
			Specialist: st.String(),
			Count:      alloc.NumSpecialistsInBuilding(b),
			Forced:     alloc.NumForcedSpecialistsInBuilding(b),
			Capacity:   capacity,
		})
	}
	for st := domain.SpecialistType(0); st < domain.NumSpecialistTypes; st++ {
		if n := alloc.GreatPersonProgress(st); n > 0 {
			info.GreatPersonProgress[st.String()] = n
		}
	}
	info.WantSpecialist, info.WantSpecialistWeight = alloc.IsAIWantSpecialistRightNow()
	return info
}

func catalogSpecialist(c *entity.City, b domain.BuildingType) (domain.SpecialistType, int) {
	return c.Catalog().SpecialistSlots(b)
}

func yieldsMap(y domain.Yields) map[string]int {
	out := make(map[string]int, domain.NumYieldTypes)
	for t := domain.YieldType(0); t < domain.NumYieldTypes; t++ {
		out[t.String()] = y.Get(t)
	}
	return out
}
