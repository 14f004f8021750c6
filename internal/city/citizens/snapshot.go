package citizens

import (
	"Civitas/internal/city/domain"
	"Civitas/modules/kit/errx"
)

// PlotState 持久化的地块状态，只记录非城市中心且有标记的地块。
type PlotState struct {
	Location domain.TileCoord `json:"location" bson:"location"`
	Worked   bool             `json:"worked" bson:"worked"`
	Forced   bool             `json:"forced" bson:"forced"`
}

// Allocation 分配结果快照，键用枚举名保证存储可读且与枚举顺序无关。
type Allocation struct {
	Plots                       []PlotState    `json:"plots" bson:"plots"`
	NumUnassignedCitizens       int            `json:"num_unassigned_citizens" bson:"num_unassigned_citizens"`
	NumDefaultSpecialists       int            `json:"num_default_specialists" bson:"num_default_specialists"`
	NumForcedDefaultSpecialists int            `json:"num_forced_default_specialists" bson:"num_forced_default_specialists"`
	SpecialistsInBuilding       map[string]int `json:"specialists_in_building,omitempty" bson:"specialists_in_building,omitempty"`
	ForcedSpecialistsInBuilding map[string]int `json:"forced_specialists_in_building,omitempty" bson:"forced_specialists_in_building,omitempty"`
	GreatPersonProgress         map[string]int `json:"great_person_progress,omitempty" bson:"great_person_progress,omitempty"`
}

func (a *Allocator) Snapshot() Allocation {
	out := Allocation{
		NumUnassignedCitizens:       a.numUnassignedCitizens,
		NumDefaultSpecialists:       a.numDefaultSpecialists,
		NumForcedDefaultSpecialists: a.numForcedDefaultSpecialists,
		SpecialistsInBuilding:       map[string]int{},
		ForcedSpecialistsInBuilding: map[string]int{},
		GreatPersonProgress:         map[string]int{},
	}
	for i := homeIndex + 1; i < len(a.plots); i++ {
		p := a.plots[i]
		if p.Worked || p.WorkedForced {
			out.Plots = append(out.Plots, PlotState{Location: p.Location, Worked: p.Worked, Forced: p.WorkedForced})
		}
	}
	for b := domain.BuildingType(0); b < domain.NumBuildingTypes; b++ {
		if n := a.specialistsInBuilding[b]; n > 0 {
			out.SpecialistsInBuilding[b.String()] = n
		}
		if n := a.forcedSpecialistsInBuilding[b]; n > 0 {
			out.ForcedSpecialistsInBuilding[b.String()] = n
		}
	}
	for s := domain.SpecialistType(0); s < domain.NumSpecialistTypes; s++ {
		if n := a.greatPersonProgress[s]; n > 0 {
			out.GreatPersonProgress[s.String()] = n
		}
	}
	return out
}

// Restore 用快照重建分配状态（城市必须已是快照时的人口与建筑）。
// 产出缓存回调会按恢复的计数重放。快照损坏返回错误，分配器回到未初始化状态。
func (a *Allocator) Restore(snap Allocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errx.Recover(r)
			a.Clear()
		}
	}()

	if a.founded {
		a.Clear()
	}
	a.registerPlots()
	a.founded = true

	for _, p := range snap.Plots {
		idx := a.mustPlotIndex(p.Location, "restore")
		if idx == homeIndex {
			continue
		}
		if p.Worked {
			a.SetWorkedAt(p.Location, true, false)
		}
		a.setForced(idx, p.Forced)
	}
	for name, n := range snap.SpecialistsInBuilding {
		b, ok := domain.ParseBuildingType(name)
		if !ok || n < 0 {
			errx.Panic(ErrCorruptSnapshot.WithData("building", name))
		}
		s, _ := a.catalog.SpecialistSlots(b)
		if s == domain.NoSpecialist {
			errx.Panic(ErrCorruptSnapshot.WithData("building", name))
		}
		a.specialistsInBuilding[b] = n
		a.specialistCounts[s] += n
		a.city.ProcessSpecialist(s, n)
	}
	for name, n := range snap.ForcedSpecialistsInBuilding {
		b, ok := domain.ParseBuildingType(name)
		if !ok || n < 0 {
			errx.Panic(ErrCorruptSnapshot.WithData("building", name))
		}
		a.forcedSpecialistsInBuilding[b] = n
	}
	for name, n := range snap.GreatPersonProgress {
		s, ok := domain.ParseSpecialistType(name)
		if !ok {
			errx.Panic(ErrCorruptSnapshot.WithData("specialist", name))
		}
		if n < 0 {
			errx.Panic(ErrCorruptSnapshot.WithData("specialist", name).WithData("great_person_progress", n))
		}
		a.greatPersonProgress[s] = n
	}
	if snap.NumDefaultSpecialists < 0 || snap.NumForcedDefaultSpecialists < 0 || snap.NumUnassignedCitizens < 0 {
		errx.Panic(ErrCorruptSnapshot.
			WithData("default_specialists", snap.NumDefaultSpecialists).
			WithData("forced_default_specialists", snap.NumForcedDefaultSpecialists).
			WithData("unassigned", snap.NumUnassignedCitizens))
	}
	if snap.NumDefaultSpecialists > 0 {
		a.changeDefaultSpecialists(snap.NumDefaultSpecialists)
	}
	a.numForcedDefaultSpecialists = snap.NumForcedDefaultSpecialists
	a.changeUnassigned(snap.NumUnassignedCitizens)

	a.CheckInvariant()
	return nil
}
