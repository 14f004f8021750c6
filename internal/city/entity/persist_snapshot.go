package entity

import (
	"fmt"

	"Civitas/internal/city/citizens"
	"Civitas/internal/city/domain"
)

// CityPersistSnapshot 城市落库快照；Version 由 dc 单调递增，旧版本不会覆盖新版本。
type CityPersistSnapshot struct {
	Version          uint64              `json:"version" bson:"version"`
	CityID           domain.CityID       `json:"city_id" bson:"_id"`
	Name             string              `json:"name" bson:"name"`
	Owner            domain.PlayerID     `json:"owner" bson:"owner"`
	Location         domain.TileCoord    `json:"location" bson:"location"`
	Population       int                 `json:"population" bson:"population"`
	Turn             int                 `json:"turn" bson:"turn"`
	Focus            string              `json:"focus" bson:"focus"`
	AvoidGrowth      bool                `json:"avoid_growth" bson:"avoid_growth"`
	ForceAvoidGrowth bool                `json:"force_avoid_growth" bson:"force_avoid_growth"`
	NoAutoAssign     bool                `json:"no_auto_assign" bson:"no_auto_assign"`
	Buildings        []string            `json:"buildings" bson:"buildings"`
	Allocation       citizens.Allocation `json:"allocation" bson:"allocation"`
}

func (c *City) BuildPersistSnapshot(version uint64) (*CityPersistSnapshot, bool) {
	if c == nil || !c.dirty {
		return nil, false
	}
	s := &CityPersistSnapshot{
		Version:          version,
		CityID:           c.id,
		Name:             c.name,
		Owner:            c.owner,
		Location:         c.location,
		Population:       c.population,
		Turn:             c.turn,
		Focus:            c.policy.Focus.String(),
		AvoidGrowth:      c.policy.AvoidGrowth,
		ForceAvoidGrowth: c.policy.ForceAvoidGrowth,
		NoAutoAssign:     c.policy.NoAutoAssignSpecialists,
		Allocation:       c.alloc.Snapshot(),
	}
	for _, b := range c.Buildings() {
		s.Buildings = append(s.Buildings, b.String())
	}
	return s, true
}

// HydrateCity 从快照重建城市；世界地图上的耕作标记随分配恢复一起写回。
func HydrateCity(s *CityPersistSnapshot, world *WorldMap, catalog citizens.Catalog, opts ...citizens.Option) (*City, error) {
	if s == nil {
		return nil, fmt.Errorf("hydrate city: nil snapshot")
	}
	focus, err := domain.ParseFocusType(s.Focus)
	if err != nil {
		return nil, fmt.Errorf("hydrate city %d: %w", s.CityID, err)
	}
	seed := CitySeed{
		ID:         s.CityID,
		Name:       s.Name,
		Owner:      s.Owner,
		Location:   s.Location,
		Population: s.Population,
		Policy: domain.FocusPolicy{
			Focus:                   focus,
			AvoidGrowth:             s.AvoidGrowth,
			ForceAvoidGrowth:        s.ForceAvoidGrowth,
			NoAutoAssignSpecialists: s.NoAutoAssign,
		},
	}
	for _, name := range s.Buildings {
		b, ok := domain.ParseBuildingType(name)
		if !ok {
			return nil, fmt.Errorf("hydrate city %d: unknown building %q", s.CityID, name)
		}
		seed.Buildings = append(seed.Buildings, b)
	}

	c := NewCity(seed, world, catalog, opts...)
	c.turn = s.Turn
	if err := c.alloc.Restore(s.Allocation); err != nil {
		return nil, err
	}
	c.dirty = false
	return c, nil
}
