package model

import (
	"strings"
	"time"

	"Civitas/internal/city/citizens"
	"Civitas/internal/city/domain"
	"Civitas/internal/city/entity"
)

// CityAllocation 城市分配主表，一城一行；专家账本用 JSON 列。
type CityAllocation struct {
	CityID                      int64          `gorm:"column:city_id;primaryKey;autoIncrement:false;comment:城市ID"`
	Version                     uint64         `gorm:"column:version;not null;comment:快照版本"`
	Name                        string         `gorm:"column:name;type:varchar(64);comment:城市名"`
	Owner                       int            `gorm:"column:owner;not null;index;comment:所属玩家"`
	Q                           int            `gorm:"column:q;not null"`
	R                           int            `gorm:"column:r;not null"`
	Population                  int            `gorm:"column:population;not null"`
	Turn                        int            `gorm:"column:turn;not null"`
	Focus                       string         `gorm:"column:focus;type:varchar(32);not null"`
	AvoidGrowth                 bool           `gorm:"column:avoid_growth;not null"`
	ForceAvoidGrowth            bool           `gorm:"column:force_avoid_growth;not null"`
	NoAutoAssign                bool           `gorm:"column:no_auto_assign;not null"`
	Buildings                   string         `gorm:"column:buildings;type:varchar(255);comment:逗号分隔的建筑名"`
	UnassignedCitizens          int            `gorm:"column:unassigned_citizens;not null"`
	DefaultSpecialists          int            `gorm:"column:default_specialists;not null"`
	ForcedDefaultSpecialists    int            `gorm:"column:forced_default_specialists;not null"`
	SpecialistsInBuilding       map[string]int `gorm:"column:specialists_in_building;type:text;serializer:json"`
	ForcedSpecialistsInBuilding map[string]int `gorm:"column:forced_specialists_in_building;type:text;serializer:json"`
	GreatPersonProgress         map[string]int `gorm:"column:great_person_progress;type:text;serializer:json"`
	UpdatedAt                   time.Time      `gorm:"column:updated_at"`
}

func (CityAllocation) TableName() string {
	return "city_allocation"
}

// CityPlot 非城市中心的耕作/锁定地块，一格一行。
type CityPlot struct {
	CityID int64 `gorm:"column:city_id;primaryKey;autoIncrement:false"`
	Q      int   `gorm:"column:q;primaryKey;autoIncrement:false"`
	R      int   `gorm:"column:r;primaryKey;autoIncrement:false"`
	Worked bool  `gorm:"column:worked;not null"`
	Forced bool  `gorm:"column:forced;not null"`
}

func (CityPlot) TableName() string {
	return "city_plot"
}

func FromSnapshot(s *entity.CityPersistSnapshot) (CityAllocation, []CityPlot) {
	row := CityAllocation{
		CityID:                      int64(s.CityID),
		Version:                     s.Version,
		Name:                        s.Name,
		Owner:                       int(s.Owner),
		Q:                           s.Location.Q,
		R:                           s.Location.R,
		Population:                  s.Population,
		Turn:                        s.Turn,
		Focus:                       s.Focus,
		AvoidGrowth:                 s.AvoidGrowth,
		ForceAvoidGrowth:            s.ForceAvoidGrowth,
		NoAutoAssign:                s.NoAutoAssign,
		Buildings:                   strings.Join(s.Buildings, ","),
		UnassignedCitizens:          s.Allocation.NumUnassignedCitizens,
		DefaultSpecialists:          s.Allocation.NumDefaultSpecialists,
		ForcedDefaultSpecialists:    s.Allocation.NumForcedDefaultSpecialists,
		SpecialistsInBuilding:       s.Allocation.SpecialistsInBuilding,
		ForcedSpecialistsInBuilding: s.Allocation.ForcedSpecialistsInBuilding,
		GreatPersonProgress:         s.Allocation.GreatPersonProgress,
	}
	plots := make([]CityPlot, 0, len(s.Allocation.Plots))
	for _, p := range s.Allocation.Plots {
		plots = append(plots, CityPlot{
			CityID: int64(s.CityID),
			Q:      p.Location.Q,
			R:      p.Location.R,
			Worked: p.Worked,
			Forced: p.Forced,
		})
	}
	return row, plots
}

func ToSnapshot(row CityAllocation, plots []CityPlot) *entity.CityPersistSnapshot {
	s := &entity.CityPersistSnapshot{
		Version:          row.Version,
		CityID:           domain.CityID(row.CityID),
		Name:             row.Name,
		Owner:            domain.PlayerID(row.Owner),
		Location:         domain.TileCoord{Q: row.Q, R: row.R},
		Population:       row.Population,
		Turn:             row.Turn,
		Focus:            row.Focus,
		AvoidGrowth:      row.AvoidGrowth,
		ForceAvoidGrowth: row.ForceAvoidGrowth,
		NoAutoAssign:     row.NoAutoAssign,
		Allocation: citizens.Allocation{
			NumUnassignedCitizens:       row.UnassignedCitizens,
			NumDefaultSpecialists:       row.DefaultSpecialists,
			NumForcedDefaultSpecialists: row.ForcedDefaultSpecialists,
			SpecialistsInBuilding:       orEmpty(row.SpecialistsInBuilding),
			ForcedSpecialistsInBuilding: orEmpty(row.ForcedSpecialistsInBuilding),
			GreatPersonProgress:         orEmpty(row.GreatPersonProgress),
		},
	}
	if row.Buildings != "" {
		s.Buildings = strings.Split(row.Buildings, ",")
	}
	for _, p := range plots {
		s.Allocation.Plots = append(s.Allocation.Plots, citizens.PlotState{
			Location: domain.TileCoord{Q: p.Q, R: p.R},
			Worked:   p.Worked,
			Forced:   p.Forced,
		})
	}
	return s
}

func orEmpty(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
