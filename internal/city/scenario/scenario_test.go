package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"Civitas/internal/city/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
map:
  radius: 5
  default: {food: 1, production: 1}
  tiles:
    - {q: 1, r: 0, food: 3, gold: 1}
    - {q: 0, r: 1, water: true, area: 2, food: 2, gold: 2}
    - {q: 4, r: 0, owner: 9, production: 3}
  units:
    - {q: 0, r: 2, owner: 2}
cities:
  - id: 2
    name: Ostia
    owner: 1
    q: -3
    r: 0
    population: 2
  - id: 1
    name: Roma
    owner: 1
    q: 0
    r: 0
    population: 4
    focus: science
    avoid_growth: true
    buildings: [library, market]
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_地图与城市(t *testing.T) {
	s, err := Load(writeScenario(t, sample))
	require.NoError(t, err)

	require.Len(t, s.Cities, 2)
	assert.Equal(t, domain.CityID(1), s.Cities[0].ID)

	roma, ok := s.Seed(1)
	require.True(t, ok)
	assert.Equal(t, domain.FocusScience, roma.Policy.Focus)
	assert.True(t, roma.Policy.AvoidGrowth)
	assert.Equal(t, []domain.BuildingType{domain.BuildingLibrary, domain.BuildingMarket}, roma.Buildings)

	w := s.World
	assert.True(t, w.Contains(domain.TileCoord{Q: 5, R: -5}))
	assert.False(t, w.Contains(domain.TileCoord{Q: 6}))
	assert.Equal(t, domain.NewYields(3, 0, 1, 0, 0), w.YieldsAt(domain.TileCoord{Q: 1}, 1))
	assert.True(t, w.IsWater(domain.TileCoord{R: 1}))
	assert.Equal(t, 2, w.AreaOf(domain.TileCoord{R: 1}))
	assert.True(t, w.HasVisibleEnemyUnit(domain.TileCoord{R: 2}, 1))

	owner, ok := w.OwnerOf(domain.TileCoord{Q: 2})
	require.True(t, ok)
	assert.Equal(t, domain.PlayerID(1), owner)
	// 已有主的地块不会被城市圈走
	owner, _ = w.OwnerOf(domain.TileCoord{Q: 4})
	assert.Equal(t, domain.PlayerID(9), owner)

	_, ok = s.Seed(42)
	assert.False(t, ok)
}

func TestLoad_非法剧本(t *testing.T) {
	cases := map[string]string{
		"城市出界": "map: {radius: 2}\ncities: [{id: 1, name: a, q: 9, r: 0, population: 1}]\n",
		"重复城市": "map: {radius: 2}\ncities: [{id: 1, name: a, population: 1}, {id: 1, name: b, q: 1, population: 1}]\n",
		"未知建筑": "map: {radius: 2}\ncities: [{id: 1, name: a, population: 1, buildings: [castle]}]\n",
		"未知侧重": "map: {radius: 2}\ncities: [{id: 1, name: a, population: 1, focus: faith}]\n",
		"人口为零": "map: {radius: 2}\ncities: [{id: 1, name: a, population: 0}]\n",
		"地块出界": "map: {radius: 1, tiles: [{q: 3, r: 0}]}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeScenario(t, body))
			assert.Error(t, err)
		})
	}
}
