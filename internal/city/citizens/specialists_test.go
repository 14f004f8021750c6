package citizens

import (
	"testing"

	"Civitas/internal/city/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ringOneGold 第一环六块地各产 1 金。
func ringOneGold(f *fixture) {
	for _, loc := range domain.Ring(domain.TileCoord{}, 1) {
		f.world.set(loc, domain.NewYields(0, 0, 1, 0, 0))
	}
}

func greatPeopleCity(pop int) *fixture {
	f := newFixture(pop)
	ringOneGold(f)
	surplus := 3
	f.city.fixedSurplus = &surplus
	f.city.policy.Focus = domain.FocusGreatPeople
	f.city.buildings[domain.BuildingLibrary] = true
	return f
}

func TestDoAddSpecialistToBuilding_单建筑最多五名专家(t *testing.T) {
	f := newFixture(10)
	spread(f)
	f.city.policy.NoAutoAssignSpecialists = true
	f.city.buildings[domain.BuildingGuild] = true
	f.alloc.DoFound()
	require.Zero(t, f.alloc.TotalSpecialistCount())

	for i := 0; i < 5; i++ {
		require.True(t, f.alloc.DoAddSpecialistToBuilding(domain.BuildingGuild, true), "第 %d 名", i+1)
	}
	assert.False(t, f.alloc.CanAddSpecialistToBuilding(domain.BuildingGuild))

	before := f.alloc.Snapshot()
	calls := f.city.specialistCalls
	assert.False(t, f.alloc.DoAddSpecialistToBuilding(domain.BuildingGuild, true))
	assert.Equal(t, before, f.alloc.Snapshot())
	assert.Equal(t, calls, f.city.specialistCalls)

	assert.Equal(t, 5, f.alloc.NumSpecialistsInBuilding(domain.BuildingGuild))
	assert.Equal(t, 5, f.alloc.SpecialistCount(domain.SpecialistArtist))
	assert.Equal(t, 10, f.accounted())

	// 锁定专家经得起重分配
	f.alloc.DoReallocateCitizens()
	assert.Equal(t, 5, f.alloc.NumForcedSpecialistsInBuilding(domain.BuildingGuild))
	assert.Equal(t, 5, f.alloc.NumCitizensWorkingPlots())
}

func TestCanAddSpecialistToBuilding_受人口与建筑限制(t *testing.T) {
	f := newFixture(1)
	f.city.buildings[domain.BuildingGuild] = true
	f.alloc.DoFound()

	assert.Equal(t, 1, f.alloc.SpecialistCapacity(domain.BuildingGuild))
	assert.False(t, f.alloc.CanAddSpecialistToBuilding(domain.BuildingLibrary))
	assert.False(t, f.alloc.CanAddSpecialistToBuilding(domain.NoBuilding))
	assert.False(t, f.alloc.DoAddSpecialistToBuilding(domain.BuildingLibrary, true))
}

func TestDoAddSpecialistToBuilding_不腾出同类型专家(t *testing.T) {
	f := newFixture(1)
	f.city.policy.NoAutoAssignSpecialists = true
	f.city.buildings[domain.BuildingLibrary] = true
	f.city.buildings[domain.BuildingUniversity] = true
	f.alloc.DoFound()
	require.Equal(t, 1, f.alloc.NumDefaultSpecialists())

	require.True(t, f.alloc.DoAddSpecialistToBuilding(domain.BuildingLibrary, true))
	assert.Zero(t, f.alloc.NumDefaultSpecialists())

	assert.False(t, f.alloc.DoAddSpecialistToBuilding(domain.BuildingUniversity, true))
	assert.Equal(t, 1, f.alloc.NumSpecialistsInBuilding(domain.BuildingLibrary))
	assert.Zero(t, f.alloc.NumSpecialistsInBuilding(domain.BuildingUniversity))
}

func TestDoAddSpecialistToBuilding_锁定时消耗锁定默认专家(t *testing.T) {
	f := newFixture(2)
	a, b := tc(1, 0), tc(0, 1)
	f.world.set(a, domain.NewYields(0, 0, 5, 0, 0))
	f.world.set(b, domain.NewYields(0, 0, 1, 0, 0))
	f.city.buildings[domain.BuildingLibrary] = true
	f.city.policy.NoAutoAssignSpecialists = true
	f.alloc.DoFound()
	require.True(t, f.alloc.DoAlterWorkingPlot(b))
	require.Equal(t, 1, f.alloc.NumForcedDefaultSpecialists())

	require.True(t, f.alloc.DoAddSpecialistToBuilding(domain.BuildingLibrary, true))

	assert.Zero(t, f.alloc.NumForcedDefaultSpecialists())
	assert.Zero(t, f.alloc.NumDefaultSpecialists())
	assert.Equal(t, 1, f.alloc.NumForcedSpecialistsInBuilding(domain.BuildingLibrary))
	assert.True(t, f.alloc.IsWorkedAt(a))
	assert.Equal(t, 2, f.accounted())
}

func TestDoRemoveWorstSpecialist_先移未锁定的(t *testing.T) {
	f := newFixture(4)
	spread(f)
	f.city.policy.NoAutoAssignSpecialists = true
	f.city.buildings[domain.BuildingLibrary] = true
	f.city.buildings[domain.BuildingMarket] = true
	f.alloc.DoFound()
	require.True(t, f.alloc.DoAddSpecialistToBuilding(domain.BuildingLibrary, true))
	require.True(t, f.alloc.DoAddSpecialistToBuilding(domain.BuildingMarket, false))

	require.True(t, f.alloc.DoRemoveWorstSpecialist(domain.NoSpecialist, domain.NoBuilding, false))
	assert.Zero(t, f.alloc.NumSpecialistsInBuilding(domain.BuildingMarket))
	assert.Equal(t, 1, f.alloc.NumSpecialistsInBuilding(domain.BuildingLibrary))

	assert.False(t, f.alloc.DoRemoveWorstSpecialist(domain.NoSpecialist, domain.NoBuilding, false))
	assert.False(t, f.alloc.DoRemoveWorstSpecialist(domain.NoSpecialist, domain.BuildingLibrary, true))
	assert.False(t, f.alloc.DoRemoveWorstSpecialist(domain.SpecialistScientist, domain.NoBuilding, true))

	require.True(t, f.alloc.DoRemoveWorstSpecialist(domain.NoSpecialist, domain.NoBuilding, true))
	assert.Zero(t, f.alloc.TotalSpecialistCount())
	assert.Zero(t, f.alloc.NumForcedSpecialistsInBuilding(domain.BuildingLibrary))
	assert.Equal(t, 2, f.alloc.NumUnassignedCitizens())
}

func TestBestSpecialistBuilding_槽位多的建筑加成(t *testing.T) {
	f := newFixture(4)
	f.city.buildings[domain.BuildingLibrary] = true
	f.city.buildings[domain.BuildingUniversity] = true
	f.alloc.DoFound()

	b, v, ok := f.alloc.BestSpecialistBuilding()
	require.True(t, ok)
	assert.Equal(t, domain.BuildingUniversity, b)
	assert.Equal(t, 30*120/100, v)
}

func TestDoReallocateCitizens_伟人侧重时专家优先(t *testing.T) {
	f := greatPeopleCity(4)

	f.alloc.DoFound()

	assert.Equal(t, 2, f.alloc.NumSpecialistsInBuilding(domain.BuildingLibrary))
	assert.Equal(t, 2, f.alloc.SpecialistCount(domain.SpecialistScientist))
	assert.Equal(t, 2, f.alloc.NumCitizensWorkingPlots())
	assert.Equal(t, domain.NewYields(0, 0, 0, 6, 0), f.city.specialistYields)
}

func TestDoReallocateCitizens_关闭自动专家时不放专家(t *testing.T) {
	f := greatPeopleCity(4)
	f.city.policy.NoAutoAssignSpecialists = true

	f.alloc.DoFound()

	assert.Zero(t, f.alloc.TotalSpecialistCount())
	assert.Equal(t, 4, f.alloc.NumCitizensWorkingPlots())
}

func TestDoReallocateCitizens_失去建筑后专家回到地块(t *testing.T) {
	f := greatPeopleCity(4)
	f.alloc.DoFound()
	require.Equal(t, 2, f.alloc.NumSpecialistsInBuilding(domain.BuildingLibrary))

	delete(f.city.buildings, domain.BuildingLibrary)
	f.alloc.DoReallocateCitizens()

	assert.Zero(t, f.alloc.TotalSpecialistCount())
	assert.Equal(t, 4, f.alloc.NumCitizensWorkingPlots())
	assert.Equal(t, domain.Yields{}, f.city.specialistYields)
}

func TestDoSpecialistGreatPersonProgress_按在岗专家累计(t *testing.T) {
	f := greatPeopleCity(4)
	f.alloc.DoFound()

	f.alloc.DoTurn(domain.Strategy{})
	assert.Equal(t, 6, f.alloc.GreatPersonProgress(domain.SpecialistScientist))
	f.alloc.DoTurn(domain.Strategy{})
	assert.Equal(t, 12, f.alloc.GreatPersonProgress(domain.SpecialistScientist))
	assert.Zero(t, f.alloc.GreatPersonProgress(domain.SpecialistMerchant))
}

func TestDoClearForcedSpecialists_只解除锁定(t *testing.T) {
	f := newFixture(4)
	spread(f)
	f.city.policy.NoAutoAssignSpecialists = true
	f.city.buildings[domain.BuildingLibrary] = true
	f.alloc.DoFound()
	require.True(t, f.alloc.DoAddSpecialistToBuilding(domain.BuildingLibrary, true))

	f.alloc.DoClearForcedSpecialists()

	assert.Zero(t, f.alloc.NumForcedSpecialistsInBuilding(domain.BuildingLibrary))
	assert.Equal(t, 1, f.alloc.NumSpecialistsInBuilding(domain.BuildingLibrary))

	f.alloc.DoReallocateCitizens()
	assert.Zero(t, f.alloc.TotalSpecialistCount())
}
