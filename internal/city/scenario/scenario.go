package scenario

import (
	"fmt"
	"sort"

	"Civitas/internal/city/domain"
	"Civitas/internal/city/entity"
	"Civitas/internal/shared/config"

	"github.com/go-playground/validator/v10"
)

type yieldRow struct {
	Food       int `mapstructure:"food"`
	Production int `mapstructure:"production"`
	Gold       int `mapstructure:"gold"`
	Science    int `mapstructure:"science"`
	Culture    int `mapstructure:"culture"`
}

func (y yieldRow) yields() domain.Yields {
	return domain.NewYields(y.Food, y.Production, y.Gold, y.Science, y.Culture)
}

type tileRow struct {
	Q          int  `mapstructure:"q"`
	R          int  `mapstructure:"r"`
	Water      bool `mapstructure:"water"`
	Area       int  `mapstructure:"area"`
	Owner      *int `mapstructure:"owner"`
	Food       int  `mapstructure:"food"`
	Production int  `mapstructure:"production"`
	Gold       int  `mapstructure:"gold"`
	Science    int  `mapstructure:"science"`
	Culture    int  `mapstructure:"culture"`
}

func (t tileRow) yields() domain.Yields {
	return domain.NewYields(t.Food, t.Production, t.Gold, t.Science, t.Culture)
}

type unitRow struct {
	Q     int `mapstructure:"q"`
	R     int `mapstructure:"r"`
	Owner int `mapstructure:"owner"`
}

type mapSection struct {
	Radius  int       `mapstructure:"radius" validate:"min=1,max=64"`
	Default yieldRow  `mapstructure:"default"`
	Tiles   []tileRow `mapstructure:"tiles"`
	Units   []unitRow `mapstructure:"units"`
}

type cityRow struct {
	ID           int              `mapstructure:"id" validate:"min=1"`
	Name         string           `mapstructure:"name" validate:"required"`
	Owner        int              `mapstructure:"owner" validate:"min=0"`
	Q            int              `mapstructure:"q"`
	R            int              `mapstructure:"r"`
	Population   int              `mapstructure:"population" validate:"min=1"`
	Focus        domain.FocusType `mapstructure:"focus"`
	AvoidGrowth  bool             `mapstructure:"avoid_growth"`
	NoAutoAssign bool             `mapstructure:"no_auto_assign"`
	Buildings    []string         `mapstructure:"buildings"`
}

type file struct {
	Map    mapSection `mapstructure:"map"`
	Cities []cityRow  `mapstructure:"cities" validate:"dive"`
}

// Scenario 一局的初始地图与城市。
type Scenario struct {
	World  *entity.WorldMap
	Cities []entity.CitySeed
}

// Seed 按 ID 查找城市初始数据。
func (s *Scenario) Seed(id domain.CityID) (entity.CitySeed, bool) {
	for _, c := range s.Cities {
		if c.ID == id {
			return c, true
		}
	}
	return entity.CitySeed{}, false
}

// Load 读取剧本：先铺满半径 radius 的默认地块，再按 tiles 覆盖，城市按建城顺序圈地。
func Load(path string) (*Scenario, error) {
	var f file
	if _, err := config.Load(path, &f); err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	if err := validator.New().Struct(&f); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return build(f)
}

func build(f file) (*Scenario, error) {
	w := entity.NewWorldMap()
	for _, loc := range domain.WorkArea(domain.TileCoord{}, f.Map.Radius) {
		w.SetTile(loc, entity.Tile{Yields: f.Map.Default.yields(), Owner: domain.NoPlayer})
	}
	for _, t := range f.Map.Tiles {
		loc := domain.TileCoord{Q: t.Q, R: t.R}
		if !w.Contains(loc) {
			return nil, fmt.Errorf("tile (%d,%d) outside map radius %d", t.Q, t.R, f.Map.Radius)
		}
		owner := domain.NoPlayer
		if t.Owner != nil {
			owner = domain.PlayerID(*t.Owner)
		}
		w.SetTile(loc, entity.Tile{Yields: t.yields(), Owner: owner, Water: t.Water, Area: t.Area})
	}
	for _, u := range f.Map.Units {
		w.PlaceUnit(domain.TileCoord{Q: u.Q, R: u.R}, entity.Unit{Owner: domain.PlayerID(u.Owner)})
	}

	s := &Scenario{World: w}
	seen := map[domain.CityID]bool{}
	for _, row := range f.Cities {
		seed, err := row.seed()
		if err != nil {
			return nil, err
		}
		if seen[seed.ID] {
			return nil, fmt.Errorf("duplicate city id %d", seed.ID)
		}
		if !w.Contains(seed.Location) {
			return nil, fmt.Errorf("city %d at (%d,%d) outside map", seed.ID, row.Q, row.R)
		}
		seen[seed.ID] = true
		w.Claim(seed.Location, domain.WorkRadius, seed.Owner)
		s.Cities = append(s.Cities, seed)
	}
	sort.Slice(s.Cities, func(i, j int) bool { return s.Cities[i].ID < s.Cities[j].ID })
	return s, nil
}

func (row cityRow) seed() (entity.CitySeed, error) {
	seed := entity.CitySeed{
		ID:         domain.CityID(row.ID),
		Name:       row.Name,
		Owner:      domain.PlayerID(row.Owner),
		Location:   domain.TileCoord{Q: row.Q, R: row.R},
		Population: row.Population,
		Policy: domain.FocusPolicy{
			Focus:                   row.Focus,
			AvoidGrowth:             row.AvoidGrowth,
			NoAutoAssignSpecialists: row.NoAutoAssign,
		},
	}
	for _, name := range row.Buildings {
		b, ok := domain.ParseBuildingType(name)
		if !ok {
			return entity.CitySeed{}, fmt.Errorf("city %d: unknown building %q", row.ID, name)
		}
		seed.Buildings = append(seed.Buildings, b)
	}
	return seed, nil
}
