package citizens

import (
	"Civitas/internal/city/domain"
	"Civitas/modules/kit/errx"
)

// CheckInvariant 校验计数守恒与缓存计数和地块表/账本一致，不一致直接 panic。
func (a *Allocator) CheckInvariant() {
	if !a.founded {
		return
	}
	if a.numUnassignedCitizens < 0 || a.numDefaultSpecialists < 0 || a.numForcedDefaultSpecialists < 0 {
		a.violated("negative_counter",
			"unassigned", a.numUnassignedCitizens,
			"defaults", a.numDefaultSpecialists,
			"forced_defaults", a.numForcedDefaultSpecialists)
	}
	for s := domain.SpecialistType(0); s < domain.NumSpecialistTypes; s++ {
		if a.specialistCounts[s] < 0 || a.greatPersonProgress[s] < 0 {
			a.violated("negative_counter", "specialist", s.String())
		}
	}

	pop := a.city.Population()
	specialists := a.TotalSpecialistCount()
	if a.numCitizensWorkingPlots+specialists+a.numUnassignedCitizens != pop {
		a.violated("conservation",
			"population", pop,
			"working_plots", a.numCitizensWorkingPlots,
			"specialists", specialists,
			"unassigned", a.numUnassignedCitizens)
	}

	worked, forced := 0, 0
	for i := homeIndex + 1; i < len(a.plots); i++ {
		if a.plots[i].Worked {
			worked++
		}
		if a.plots[i].WorkedForced {
			forced++
		}
	}
	if worked != a.numCitizensWorkingPlots {
		a.violated("working_plots_cache", "counted", worked, "cached", a.numCitizensWorkingPlots)
	}
	if forced != a.numForcedWorkingPlots {
		a.violated("forced_plots_cache", "counted", forced, "cached", a.numForcedWorkingPlots)
	}

	var byType [domain.NumSpecialistTypes]int
	byType[domain.SpecialistCitizen] = a.numDefaultSpecialists
	for b := domain.BuildingType(0); b < domain.NumBuildingTypes; b++ {
		if a.forcedSpecialistsInBuilding[b] < 0 {
			a.violated("negative_counter", "building", b.String())
		}
		if a.forcedSpecialistsInBuilding[b] > a.specialistsInBuilding[b] {
			a.violated("forced_specialists_exceed", "building", b.String())
		}
		if n := a.specialistsInBuilding[b]; n > 0 {
			s, _ := a.catalog.SpecialistSlots(b)
			byType[s] += n
		}
	}
	if byType != a.specialistCounts {
		a.violated("specialist_ledger")
	}
	if a.numForcedDefaultSpecialists > a.numDefaultSpecialists {
		a.violated("forced_defaults_exceed",
			"forced", a.numForcedDefaultSpecialists,
			"defaults", a.numDefaultSpecialists)
	}
}

func (a *Allocator) violated(reason string, kv ...any) {
	e := ErrInvariantViolated.
		WithData("reason", reason).
		WithData("city_id", int(a.city.ID()))
	for i := 0; i+1 < len(kv); i += 2 {
		e = e.WithData(kv[i].(string), kv[i+1])
	}
	errx.Panic(e)
}
