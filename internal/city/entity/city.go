package entity

import (
	"Civitas/internal/city/citizens"
	"Civitas/internal/city/domain"
)

// FoodPerCitizen 每个市民每回合吃掉的食物。
const FoodPerCitizen = 2

// CitySeed 剧本里的城市初始数据。
type CitySeed struct {
	ID         domain.CityID
	Name       string
	Owner      domain.PlayerID
	Location   domain.TileCoord
	Population int
	Policy     domain.FocusPolicy
	Buildings  []domain.BuildingType
}

// City 城市聚合根，实现 citizens.CityView；市民分配由内部的 Allocator 负责。
// 只在所属城市 actor 内访问，不做并发保护。
type City struct {
	id         domain.CityID
	name       string
	owner      domain.PlayerID
	location   domain.TileCoord
	population int
	policy     domain.FocusPolicy
	buildings  [domain.NumBuildingTypes]bool
	turn       int

	world   *WorldMap
	catalog citizens.Catalog
	alloc   *citizens.Allocator

	plotYields       domain.Yields
	specialistYields domain.Yields

	dirty bool
}

func NewCity(seed CitySeed, world *WorldMap, catalog citizens.Catalog, opts ...citizens.Option) *City {
	c := &City{
		id:         seed.ID,
		name:       seed.Name,
		owner:      seed.Owner,
		location:   seed.Location,
		population: max(0, seed.Population),
		policy:     seed.Policy,
		world:      world,
		catalog:    catalog,
	}
	for _, b := range seed.Buildings {
		if b.Valid() {
			c.buildings[b] = true
		}
	}
	c.alloc = citizens.New(c, world, catalog, opts...)
	return c
}

// Found 首次建城：登记工作范围并立即分配。
func (c *City) Found() {
	c.alloc.DoFound()
	c.dirty = true
}

func (c *City) ID() domain.CityID               { return c.id }
func (c *City) Name() string                    { return c.name }
func (c *City) Owner() domain.PlayerID          { return c.owner }
func (c *City) Location() domain.TileCoord      { return c.location }
func (c *City) Population() int                 { return c.population }
func (c *City) FocusPolicy() domain.FocusPolicy { return c.policy }
func (c *City) Turn() int                       { return c.turn }
func (c *City) Citizens() *citizens.Allocator   { return c.alloc }
func (c *City) Catalog() citizens.Catalog       { return c.catalog }

func (c *City) HasBuilding(b domain.BuildingType) bool {
	return b.Valid() && c.buildings[b]
}

func (c *City) Buildings() []domain.BuildingType {
	var out []domain.BuildingType
	for b := domain.BuildingType(0); b < domain.NumBuildingTypes; b++ {
		if c.buildings[b] {
			out = append(out, b)
		}
	}
	return out
}

// Yields 耕作地块加专家的产出合计。
func (c *City) Yields() domain.Yields {
	return c.plotYields.Add(c.specialistYields)
}

func (c *City) FoodSurplus() int {
	return c.Yields().Get(domain.YieldFood) - FoodPerCitizen*c.population
}

func (c *City) ProcessSpecialist(s domain.SpecialistType, delta int) {
	c.specialistYields = c.specialistYields.Add(c.catalog.SpecialistYields(s).Scale(delta))
	c.dirty = true
}

func (c *City) ProcessWorkedPlot(loc domain.TileCoord, delta int) {
	c.plotYields = c.plotYields.Add(c.world.YieldsAt(loc, c.owner).Scale(delta))
	// 与 CanWorkAt 不是原子的，争抢同一地块时下回合自愈
	c.world.markWorking(loc, c.id, delta > 0)
	c.dirty = true
}

// DoTurn 推进一回合。
func (c *City) DoTurn(turn int, strategy domain.Strategy) {
	c.alloc.DoTurn(strategy)
	c.turn = turn
	c.dirty = true
}

// ChangePopulation 人口增减，不会低于 1。返回实际变化量。
func (c *City) ChangePopulation(delta int) int {
	next := max(1, c.population+delta)
	delta = next - c.population
	if delta == 0 {
		return 0
	}
	c.population = next
	c.alloc.DoChangePopulation(delta)
	c.dirty = true
	return delta
}

// SetFocusPolicy 策略有变化时返回 true，由调用方决定是否重分配。
func (c *City) SetFocusPolicy(p domain.FocusPolicy) bool {
	if c.policy == p {
		return false
	}
	c.policy = p
	c.dirty = true
	return true
}

func (c *City) SetBuilding(b domain.BuildingType, has bool) bool {
	if !b.Valid() || c.buildings[b] == has {
		return false
	}
	c.buildings[b] = has
	c.dirty = true
	return true
}

// MarkDirty 分配器内部状态变了但没有经过回调（例如只改了强制标记）。
func (c *City) MarkDirty() {
	c.dirty = true
}

func (c *City) Dirty() bool {
	return c != nil && c.dirty
}

func (c *City) ClearDirty() {
	if c != nil {
		c.dirty = false
	}
}

// Destroy 城市被摧毁或易主前调用，放下所有地块。
func (c *City) Destroy() {
	c.alloc.Clear()
	c.dirty = true
}
