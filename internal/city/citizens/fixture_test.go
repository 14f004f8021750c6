package citizens

import (
	"Civitas/internal/city/domain"
	"Civitas/modules/kit/errx"
)

type fakeTile struct {
	yields      domain.Yields
	owner       domain.PlayerID
	hasOwner    bool
	workingCity domain.CityID
	hasWorking  bool
	water       bool
	area        int
	enemyOf     map[domain.PlayerID]bool
}

type fakeMap struct {
	tiles map[domain.TileCoord]*fakeTile
}

func newFakeMap() *fakeMap {
	return &fakeMap{tiles: map[domain.TileCoord]*fakeTile{}}
}

// fill 以 center 为中心、半径 r 内全部铺上零产出陆地。
func (m *fakeMap) fill(center domain.TileCoord, r int) *fakeMap {
	for _, loc := range domain.WorkArea(center, r) {
		if _, ok := m.tiles[loc]; !ok {
			m.tiles[loc] = &fakeTile{}
		}
	}
	return m
}

func (m *fakeMap) set(loc domain.TileCoord, y domain.Yields) *fakeTile {
	t, ok := m.tiles[loc]
	if !ok {
		t = &fakeTile{}
		m.tiles[loc] = t
	}
	t.yields = y
	return t
}

func (m *fakeMap) Contains(loc domain.TileCoord) bool {
	_, ok := m.tiles[loc]
	return ok
}

func (m *fakeMap) YieldsAt(loc domain.TileCoord, _ domain.PlayerID) domain.Yields {
	if t, ok := m.tiles[loc]; ok {
		return t.yields
	}
	return domain.Yields{}
}

func (m *fakeMap) OwnerOf(loc domain.TileCoord) (domain.PlayerID, bool) {
	if t, ok := m.tiles[loc]; ok && t.hasOwner {
		return t.owner, true
	}
	return domain.NoPlayer, false
}

func (m *fakeMap) WorkingCityOf(loc domain.TileCoord) (domain.CityID, bool) {
	if t, ok := m.tiles[loc]; ok && t.hasWorking {
		return t.workingCity, true
	}
	return 0, false
}

func (m *fakeMap) IsWater(loc domain.TileCoord) bool {
	t, ok := m.tiles[loc]
	return ok && t.water
}

func (m *fakeMap) AreaOf(loc domain.TileCoord) int {
	if t, ok := m.tiles[loc]; ok {
		return t.area
	}
	return -1
}

func (m *fakeMap) HasVisibleEnemyUnit(loc domain.TileCoord, observer domain.PlayerID) bool {
	t, ok := m.tiles[loc]
	return ok && t.enemyOf[observer]
}

type fakeCity struct {
	id        domain.CityID
	owner     domain.PlayerID
	loc       domain.TileCoord
	pop       int
	policy    domain.FocusPolicy
	buildings map[domain.BuildingType]bool
	world     *fakeMap
	catalog   *fakeCatalog

	// fixedSurplus 非 nil 时 FoodSurplus 直接返回它。
	fixedSurplus *int

	workedYields     domain.Yields
	specialistYields domain.Yields
	plotCalls        int
	specialistCalls  int
}

func newFakeCity(world *fakeMap, catalog *fakeCatalog, pop int) *fakeCity {
	return &fakeCity{
		id:        7,
		owner:     1,
		pop:       pop,
		buildings: map[domain.BuildingType]bool{},
		world:     world,
		catalog:   catalog,
	}
}

func (c *fakeCity) ID() domain.CityID                      { return c.id }
func (c *fakeCity) Owner() domain.PlayerID                 { return c.owner }
func (c *fakeCity) Location() domain.TileCoord             { return c.loc }
func (c *fakeCity) Population() int                        { return c.pop }
func (c *fakeCity) FocusPolicy() domain.FocusPolicy        { return c.policy }
func (c *fakeCity) HasBuilding(b domain.BuildingType) bool { return c.buildings[b] }

func (c *fakeCity) FoodSurplus() int {
	if c.fixedSurplus != nil {
		return *c.fixedSurplus
	}
	food := c.workedYields[domain.YieldFood] + c.specialistYields[domain.YieldFood]
	return food - 2*c.pop
}

func (c *fakeCity) ProcessSpecialist(s domain.SpecialistType, delta int) {
	c.specialistCalls++
	c.specialistYields = c.specialistYields.Add(c.catalog.SpecialistYields(s).Scale(delta))
}

func (c *fakeCity) ProcessWorkedPlot(loc domain.TileCoord, delta int) {
	c.plotCalls++
	c.workedYields = c.workedYields.Add(c.world.YieldsAt(loc, c.owner).Scale(delta))
}

type fakeSlot struct {
	specialist domain.SpecialistType
	slots      int
}

type fakeCatalog struct {
	slots  map[domain.BuildingType]fakeSlot
	yields map[domain.SpecialistType]domain.Yields
	gpp    map[domain.SpecialistType]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		slots: map[domain.BuildingType]fakeSlot{
			domain.BuildingLibrary:    {domain.SpecialistScientist, 2},
			domain.BuildingUniversity: {domain.SpecialistScientist, 3},
			domain.BuildingMarket:     {domain.SpecialistMerchant, 2},
			domain.BuildingWorkshop:   {domain.SpecialistEngineer, 1},
			domain.BuildingGuild:      {domain.SpecialistArtist, 10},
		},
		yields: map[domain.SpecialistType]domain.Yields{
			domain.SpecialistCitizen:   domain.NewYields(0, 1, 0, 0, 0),
			domain.SpecialistScientist: domain.NewYields(0, 0, 0, 3, 0),
			domain.SpecialistMerchant:  domain.NewYields(0, 0, 3, 0, 0),
			domain.SpecialistEngineer:  domain.NewYields(0, 3, 0, 0, 0),
			domain.SpecialistArtist:    domain.NewYields(0, 0, 0, 0, 3),
		},
		gpp: map[domain.SpecialistType]int{
			domain.SpecialistScientist: 3,
			domain.SpecialistMerchant:  3,
			domain.SpecialistEngineer:  3,
			domain.SpecialistArtist:    3,
		},
	}
}

func (c *fakeCatalog) SpecialistSlots(b domain.BuildingType) (domain.SpecialistType, int) {
	if s, ok := c.slots[b]; ok {
		return s.specialist, s.slots
	}
	return domain.NoSpecialist, 0
}

func (c *fakeCatalog) SpecialistYields(s domain.SpecialistType) domain.Yields {
	return c.yields[s]
}

func (c *fakeCatalog) GreatPersonPoints(s domain.SpecialistType) int {
	return c.gpp[s]
}

type fixture struct {
	world   *fakeMap
	city    *fakeCity
	catalog *fakeCatalog
	alloc   *Allocator
}

// newFixture 城市位于原点，工作范围内全是零产出陆地，中心产出 2 粮 1 锤。
func newFixture(pop int) *fixture {
	world := newFakeMap().fill(domain.TileCoord{}, domain.WorkRadius)
	world.set(domain.TileCoord{}, domain.NewYields(2, 1, 0, 0, 0))
	catalog := newFakeCatalog()
	city := newFakeCity(world, catalog, pop)
	return &fixture{
		world:   world,
		city:    city,
		catalog: catalog,
		alloc:   New(city, world, catalog),
	}
}

func (f *fixture) accounted() int {
	a := f.alloc
	return a.NumCitizensWorkingPlots() + a.TotalSpecialistCount() + a.NumUnassignedCitizens()
}

func tc(q, r int) domain.TileCoord {
	return domain.TileCoord{Q: q, R: r}
}

func catchPanic(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errx.Recover(r)
		}
	}()
	fn()
	return nil
}
