package specialist

import (
	"fmt"
	"path/filepath"
	"runtime"

	"Civitas/internal/city/domain"
	"Civitas/internal/shared/config"

	"github.com/go-playground/validator/v10"
)

const defaultFile = "specialist.json"

type specialistRow struct {
	Name              string         `mapstructure:"name" validate:"required"`
	Yields            map[string]int `mapstructure:"yields"`
	GreatPersonPoints int            `mapstructure:"great_person_points" validate:"min=0"`
}

type buildingRow struct {
	Name       string `mapstructure:"name" validate:"required"`
	Specialist string `mapstructure:"specialist"`
	Slots      int    `mapstructure:"slots" validate:"min=0"`
}

type file struct {
	Title       string          `mapstructure:"title"`
	Specialists []specialistRow `mapstructure:"specialists" validate:"required,dive"`
	Buildings   []buildingRow   `mapstructure:"buildings" validate:"dive"`
}

type slot struct {
	specialist domain.SpecialistType
	count      int
}

// Catalog 建筑专家槽与专家产出表，加载后只读，可被多个城市共享。
type Catalog struct {
	slots  [domain.NumBuildingTypes]slot
	yields [domain.NumSpecialistTypes]domain.Yields
	gpp    [domain.NumSpecialistTypes]int
}

// Default 读取与本文件同目录的 specialist.json。
func Default() (*Catalog, error) {
	_, self, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("load specialist catalog failed: runtime.Caller(0) error")
	}
	return Load(filepath.Join(filepath.Dir(self), defaultFile))
}

// MustDefault 表坏了进程没法跑，直接 panic。
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load 读取指定表；path 为空时用内置表。
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	var f file
	if _, err := config.Load(path, &f); err != nil {
		return nil, fmt.Errorf("load specialist catalog failed: %w", err)
	}
	if err := validator.New().Struct(&f); err != nil {
		return nil, fmt.Errorf("load specialist catalog failed: %s: %w", path, err)
	}
	return build(f)
}

func build(f file) (*Catalog, error) {
	c := &Catalog{}
	for b := range c.slots {
		c.slots[b] = slot{specialist: domain.NoSpecialist}
	}

	seen := map[domain.SpecialistType]bool{}
	for _, row := range f.Specialists {
		s, ok := domain.ParseSpecialistType(row.Name)
		if !ok {
			return nil, fmt.Errorf("unknown specialist %q", row.Name)
		}
		if seen[s] {
			return nil, fmt.Errorf("duplicate specialist %q", row.Name)
		}
		seen[s] = true
		for name, v := range row.Yields {
			y, ok := parseYieldType(name)
			if !ok {
				return nil, fmt.Errorf("specialist %q: unknown yield %q", row.Name, name)
			}
			c.yields[s][y] = v
		}
		c.gpp[s] = row.GreatPersonPoints
	}

	done := map[domain.BuildingType]bool{}
	for _, row := range f.Buildings {
		b, ok := domain.ParseBuildingType(row.Name)
		if !ok {
			return nil, fmt.Errorf("unknown building %q", row.Name)
		}
		if done[b] {
			return nil, fmt.Errorf("duplicate building %q", row.Name)
		}
		done[b] = true
		if row.Slots == 0 {
			continue
		}
		s, ok := domain.ParseSpecialistType(row.Specialist)
		// 默认专家只做填充，不占建筑槽位
		if !ok || s == domain.SpecialistCitizen {
			return nil, fmt.Errorf("building %q: invalid specialist %q", row.Name, row.Specialist)
		}
		if !seen[s] {
			return nil, fmt.Errorf("building %q: specialist %q has no yields row", row.Name, row.Specialist)
		}
		c.slots[b] = slot{specialist: s, count: row.Slots}
	}
	return c, nil
}

func parseYieldType(name string) (domain.YieldType, bool) {
	for y := domain.YieldType(0); y < domain.NumYieldTypes; y++ {
		if y.String() == name {
			return y, true
		}
	}
	return 0, false
}

func (c *Catalog) SpecialistSlots(b domain.BuildingType) (domain.SpecialistType, int) {
	if !b.Valid() {
		return domain.NoSpecialist, 0
	}
	s := c.slots[b]
	return s.specialist, s.count
}

func (c *Catalog) SpecialistYields(s domain.SpecialistType) domain.Yields {
	if s < 0 || s >= domain.NumSpecialistTypes {
		return domain.Yields{}
	}
	return c.yields[s]
}

func (c *Catalog) GreatPersonPoints(s domain.SpecialistType) int {
	if s < 0 || s >= domain.NumSpecialistTypes {
		return 0
	}
	return c.gpp[s]
}
