package citizens

import "Civitas/internal/city/domain"

// MapView 分配器对地图的只读视图，一次调用期间视为快照。
type MapView interface {
	Contains(loc domain.TileCoord) bool
	YieldsAt(loc domain.TileCoord, owner domain.PlayerID) domain.Yields
	OwnerOf(loc domain.TileCoord) (domain.PlayerID, bool)
	WorkingCityOf(loc domain.TileCoord) (domain.CityID, bool)
	IsWater(loc domain.TileCoord) bool
	AreaOf(loc domain.TileCoord) int
	// HasVisibleEnemyUnit 该地块上是否有 observer 可见的敌方单位。
	HasVisibleEnemyUnit(loc domain.TileCoord, observer domain.PlayerID) bool
}

// CityView 分配器读写城市的窄接口。
// ProcessSpecialist / ProcessWorkedPlot 是产出缓存回调，计数每变化一次调用一次。
type CityView interface {
	ID() domain.CityID
	Owner() domain.PlayerID
	Location() domain.TileCoord
	Population() int
	FocusPolicy() domain.FocusPolicy
	FoodSurplus() int
	HasBuilding(b domain.BuildingType) bool
	ProcessSpecialist(s domain.SpecialistType, delta int)
	ProcessWorkedPlot(loc domain.TileCoord, delta int)
}

// Catalog 建筑/专家静态表。
type Catalog interface {
	// SpecialistSlots 建筑提供的专家类型与槽位数；没有专家槽返回 (NoSpecialist, 0)。
	SpecialistSlots(b domain.BuildingType) (domain.SpecialistType, int)
	SpecialistYields(s domain.SpecialistType) domain.Yields
	GreatPersonPoints(s domain.SpecialistType) int
}
