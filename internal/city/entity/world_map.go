package entity

import (
	"sync"

	"Civitas/internal/city/domain"
)

// Tile 地块的静态属性加归属，产出已经是地形和改良结算后的值。
type Tile struct {
	Yields domain.Yields
	Owner  domain.PlayerID
	Water  bool
	Area   int
}

// Unit 地图上的单位，只关心归属。
type Unit struct {
	Owner domain.PlayerID
}

// WorldMap 所有城市共享的地图，实现 citizens.MapView。
// 城市 actor 并发读写耕作标记，内部加读写锁。
type WorldMap struct {
	mu      sync.RWMutex
	tiles   map[domain.TileCoord]*Tile
	working map[domain.TileCoord]domain.CityID
	units   map[domain.TileCoord][]Unit
}

func NewWorldMap() *WorldMap {
	return &WorldMap{
		tiles:   make(map[domain.TileCoord]*Tile),
		working: make(map[domain.TileCoord]domain.CityID),
		units:   make(map[domain.TileCoord][]Unit),
	}
}

// SetTile 新增或覆盖地块，无主地块 Owner 填 domain.NoPlayer。
func (w *WorldMap) SetTile(loc domain.TileCoord, t Tile) {
	w.mu.Lock()
	defer w.mu.Unlock()
	cp := t
	w.tiles[loc] = &cp
}

func (w *WorldMap) Tile(loc domain.TileCoord) (Tile, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.tiles[loc]
	if !ok {
		return Tile{}, false
	}
	return *t, true
}

func (w *WorldMap) SetOwner(loc domain.TileCoord, owner domain.PlayerID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.tiles[loc]
	if !ok {
		return false
	}
	t.Owner = owner
	return true
}

// Claim 把 center 周围 radius 内的无主地块划给 owner，返回新占的格数。
func (w *WorldMap) Claim(center domain.TileCoord, radius int, owner domain.PlayerID) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, loc := range domain.WorkArea(center, radius) {
		if t, ok := w.tiles[loc]; ok && t.Owner == domain.NoPlayer {
			t.Owner = owner
			n++
		}
	}
	return n
}

func (w *WorldMap) PlaceUnit(loc domain.TileCoord, u Unit) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.units[loc] = append(w.units[loc], u)
}

// ClearUnits 移除该地块上的全部单位。
func (w *WorldMap) ClearUnits(loc domain.TileCoord) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.units, loc)
}

func (w *WorldMap) Contains(loc domain.TileCoord) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.tiles[loc]
	return ok
}

func (w *WorldMap) YieldsAt(loc domain.TileCoord, _ domain.PlayerID) domain.Yields {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if t, ok := w.tiles[loc]; ok {
		return t.Yields
	}
	return domain.Yields{}
}

func (w *WorldMap) OwnerOf(loc domain.TileCoord) (domain.PlayerID, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.tiles[loc]
	if !ok || t.Owner == domain.NoPlayer {
		return domain.NoPlayer, false
	}
	return t.Owner, true
}

func (w *WorldMap) WorkingCityOf(loc domain.TileCoord) (domain.CityID, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	id, ok := w.working[loc]
	return id, ok
}

func (w *WorldMap) IsWater(loc domain.TileCoord) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.tiles[loc]
	return ok && t.Water
}

func (w *WorldMap) AreaOf(loc domain.TileCoord) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if t, ok := w.tiles[loc]; ok {
		return t.Area
	}
	return -1
}

// HasVisibleEnemyUnit 没有战争迷雾，任何非 observer 的单位都算可见敌军。
func (w *WorldMap) HasVisibleEnemyUnit(loc domain.TileCoord, observer domain.PlayerID) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, u := range w.units[loc] {
		if u.Owner != observer {
			return true
		}
	}
	return false
}

// markWorking 记录/清除地块的耕作城市；清除时只清自己的标记。
// 调用方先 CanWorkAt 再标记，两步之间不持锁：并行的两座城市可能同时耕作同一地块，
// 后写者覆盖标记，先到者在下回合 DoVerifyWorkingPlots 时放下该地块。
func (w *WorldMap) markWorking(loc domain.TileCoord, city domain.CityID, worked bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if worked {
		w.working[loc] = city
		return
	}
	if cur, ok := w.working[loc]; ok && cur == city {
		delete(w.working, loc)
	}
}
