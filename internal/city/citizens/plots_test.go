package citizens

import (
	"testing"

	"Civitas/internal/city/domain"
	"Civitas/modules/kit/errx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForceWorkingPlotAt_锁定地块优先且余下市民成为默认专家(t *testing.T) {
	f := newFixture(3)
	forced, ten, rival := tc(1, 0), tc(0, 1), tc(-1, 0)
	f.world.set(forced, domain.NewYields(0, 0, 5, 0, 0))
	f.world.set(ten, domain.NewYields(0, 0, 1, 0, 0))
	r := f.world.set(rival, domain.NewYields(0, 0, 0, 1, 0))
	r.workingCity, r.hasWorking = 99, true

	f.alloc.DoFound()
	require.True(t, f.alloc.ForceWorkingPlotAt(forced, true))

	assert.True(t, f.alloc.IsWorkedAt(forced))
	assert.True(t, f.alloc.IsForcedWorkedAt(forced))
	assert.True(t, f.alloc.IsWorkedAt(ten))
	assert.False(t, f.alloc.IsWorkedAt(rival))
	assert.Equal(t, 2, f.alloc.NumCitizensWorkingPlots())
	assert.Equal(t, 1, f.alloc.NumDefaultSpecialists())
	assert.Equal(t, 0, f.alloc.NumUnassignedCitizens())
}

func TestForceWorkingPlotAt_空闲地块足够时三名市民全部耕作(t *testing.T) {
	f := newFixture(3)
	forced, ten, six := tc(1, 0), tc(0, 1), tc(-1, 0)
	f.world.set(forced, domain.NewYields(0, 0, 5, 0, 0))
	f.world.set(ten, domain.NewYields(0, 0, 1, 0, 0))
	f.world.set(six, domain.NewYields(0, 0, 0, 1, 0))

	f.alloc.DoFound()
	require.True(t, f.alloc.ForceWorkingPlotAt(forced, true))

	assert.True(t, f.alloc.IsWorkedAt(six))
	assert.Equal(t, 3, f.alloc.NumCitizensWorkingPlots())
	assert.Zero(t, f.alloc.NumDefaultSpecialists())
}

func TestForceWorkingPlotAt_低分锁定地块压过高分地块(t *testing.T) {
	f := newFixture(1)
	low, high := tc(1, 0), tc(0, 1)
	f.world.set(low, domain.NewYields(0, 0, 1, 0, 0))
	f.world.set(high, domain.NewYields(0, 0, 5, 0, 0))
	f.alloc.DoFound()
	require.True(t, f.alloc.IsWorkedAt(high))

	require.True(t, f.alloc.ForceWorkingPlotAt(low, true))
	assert.True(t, f.alloc.IsWorkedAt(low))
	assert.False(t, f.alloc.IsWorkedAt(high))

	f.alloc.DoTurn(domain.Strategy{})
	assert.True(t, f.alloc.IsForcedWorkedAt(low))
	assert.True(t, f.alloc.IsWorkedAt(low))

	// 重复锁定无变化
	assert.False(t, f.alloc.ForceWorkingPlotAt(low, true))
	require.True(t, f.alloc.ForceWorkingPlotAt(low, false))
	assert.True(t, f.alloc.IsWorkedAt(high))
}

func TestForceWorkingPlotAt_锁定数超过耕作数时解锁最差的(t *testing.T) {
	f := newFixture(1)
	low, high := tc(1, 0), tc(0, 1)
	f.world.set(low, domain.NewYields(0, 0, 1, 0, 0))
	f.world.set(high, domain.NewYields(0, 0, 5, 0, 0))
	f.alloc.DoFound()

	require.True(t, f.alloc.ForceWorkingPlotAt(low, true))
	require.True(t, f.alloc.ForceWorkingPlotAt(high, true))

	assert.Equal(t, 1, f.alloc.NumForcedWorkingPlots())
	assert.True(t, f.alloc.IsForcedWorkedAt(high))
	assert.False(t, f.alloc.IsForcedWorkedAt(low))
	assert.False(t, f.alloc.IsWorkedAt(low))
}

func TestForceWorkingPlotAt_不可工作的地块不能锁定(t *testing.T) {
	f := newFixture(1)
	f.alloc.DoFound()

	// 零产出
	assert.False(t, f.alloc.ForceWorkingPlotAt(tc(1, 0), true))
	// 城市中心
	assert.False(t, f.alloc.ForceWorkingPlotAt(domain.TileCoord{}, true))
	assert.Zero(t, f.alloc.NumForcedWorkingPlots())
}

func TestForceWorkingPlotAt_唯一市民是专家时腾出来耕作(t *testing.T) {
	f := greatPeopleCity(1)
	f.alloc.DoFound()
	require.Equal(t, 1, f.alloc.TotalSpecialistCount())
	require.Zero(t, f.alloc.NumCitizensWorkingPlots())

	loc := tc(1, 0)
	require.True(t, f.alloc.ForceWorkingPlotAt(loc, true))

	assert.True(t, f.alloc.IsWorkedAt(loc))
	assert.True(t, f.alloc.IsForcedWorkedAt(loc))
	assert.Equal(t, 1, f.alloc.NumForcedWorkingPlots())
	assert.Zero(t, f.alloc.TotalSpecialistCount())
	assert.Equal(t, 1, f.accounted())

	// 回合结算后锁定仍在
	f.alloc.DoTurn(domain.Strategy{})
	assert.True(t, f.alloc.IsForcedWorkedAt(loc))
	assert.Zero(t, f.alloc.TotalSpecialistCount())
}

func TestForceWorkingPlotAt_默认专家去耕作锁定地块(t *testing.T) {
	f := newFixture(2)
	a, b := tc(1, 0), tc(0, 1)
	f.world.set(a, domain.NewYields(0, 0, 5, 0, 0))
	f.alloc.DoFound()
	require.Equal(t, 1, f.alloc.NumDefaultSpecialists())

	// b 原本零产出，之后才变得可耕作
	f.world.set(b, domain.NewYields(0, 0, 1, 0, 0))
	require.True(t, f.alloc.ForceWorkingPlotAt(b, true))

	assert.True(t, f.alloc.IsForcedWorkedAt(b))
	assert.True(t, f.alloc.IsWorkedAt(a))
	assert.Zero(t, f.alloc.NumDefaultSpecialists())
	assert.Equal(t, 2, f.accounted())
}

func TestCanWorkAt_归属与耕作城市(t *testing.T) {
	f := newFixture(1)
	loc := tc(1, 0)
	tile := f.world.set(loc, domain.NewYields(1, 0, 0, 0, 0))
	f.alloc.DoFound()

	assert.True(t, f.alloc.CanWorkAt(loc))

	tile.owner, tile.hasOwner = f.city.owner, true
	assert.True(t, f.alloc.CanWorkAt(loc))

	tile.owner = 2
	assert.False(t, f.alloc.CanWorkAt(loc))

	tile.hasOwner = false
	tile.workingCity, tile.hasWorking = f.city.id, true
	assert.True(t, f.alloc.CanWorkAt(loc))

	tile.workingCity = 99
	assert.False(t, f.alloc.CanWorkAt(loc))

	assert.False(t, f.alloc.CanWorkAt(tc(9, 9)))
}

func TestIsBlockaded_同一水域封锁半径内的可见敌军(t *testing.T) {
	f := newFixture(1)
	sea, enemyAt := tc(1, 0), tc(3, 0)
	f.world.set(sea, domain.NewYields(3, 0, 0, 0, 0)).water = true
	f.world.tiles[sea].area = 5
	enemy := f.world.set(enemyAt, domain.Yields{})
	enemy.water, enemy.area = true, 5
	enemy.enemyOf = map[domain.PlayerID]bool{f.city.owner: true}

	f.alloc.DoFound()
	require.True(t, f.alloc.IsBlockaded(sea))
	assert.False(t, f.alloc.CanWorkAt(sea))

	// 另一片水域
	enemy.area = 6
	assert.False(t, f.alloc.IsBlockaded(sea))

	// 陆地上的敌军不封锁
	enemy.area, enemy.water = 5, false
	assert.False(t, f.alloc.IsBlockaded(sea))

	// 超出封锁半径
	enemy.water = true
	far := f.world.set(tc(-3, 0), domain.Yields{})
	far.water, far.area = true, 5
	far.enemyOf = enemy.enemyOf
	enemy.enemyOf = nil
	assert.False(t, f.alloc.IsBlockaded(sea))
}

func TestDoVerifyWorkingPlots_封锁后放下地块(t *testing.T) {
	f := newFixture(1)
	sea := tc(1, 0)
	f.world.set(sea, domain.NewYields(3, 0, 0, 0, 0)).water = true
	f.alloc.DoFound()
	require.True(t, f.alloc.ForceWorkingPlotAt(sea, true))

	f.world.tiles[tc(0, 1)].water = true
	f.world.tiles[tc(0, 1)].enemyOf = map[domain.PlayerID]bool{f.city.owner: true}

	assert.Equal(t, 1, f.alloc.DoVerifyWorkingPlots())
	assert.False(t, f.alloc.IsWorkedAt(sea))
	assert.False(t, f.alloc.IsForcedWorkedAt(sea))
	assert.Equal(t, 1, f.alloc.NumUnassignedCitizens())

	f.alloc.DoReallocateCitizens()
	assert.Equal(t, 1, f.alloc.NumDefaultSpecialists())
	assert.Zero(t, f.alloc.NumUnassignedCitizens())
}

func TestDoAlterWorkingPlot_点击耕作地块变锁定默认专家_再点击锁定耕作(t *testing.T) {
	f := newFixture(2)
	a, b := tc(1, 0), tc(0, 1)
	f.world.set(a, domain.NewYields(0, 0, 5, 0, 0))
	f.world.set(b, domain.NewYields(0, 0, 1, 0, 0))
	f.alloc.DoFound()
	require.True(t, f.alloc.IsWorkedAt(a))
	require.True(t, f.alloc.IsWorkedAt(b))

	require.True(t, f.alloc.DoAlterWorkingPlot(b))
	assert.False(t, f.alloc.IsWorkedAt(b))
	assert.Equal(t, 1, f.alloc.NumDefaultSpecialists())
	assert.Equal(t, 1, f.alloc.NumForcedDefaultSpecialists())
	assert.Equal(t, 2, f.accounted())

	require.True(t, f.alloc.DoAlterWorkingPlot(b))
	assert.True(t, f.alloc.IsForcedWorkedAt(b))
	assert.Zero(t, f.alloc.NumDefaultSpecialists())
	assert.Zero(t, f.alloc.NumForcedDefaultSpecialists())
	assert.Equal(t, 2, f.accounted())

	assert.False(t, f.alloc.DoAlterWorkingPlot(domain.TileCoord{}))
}

func TestDoAlterWorkingPlot_没有空闲市民时腾出最差市民(t *testing.T) {
	f := newFixture(1)
	a, b := tc(1, 0), tc(0, 1)
	f.world.set(a, domain.NewYields(0, 0, 5, 0, 0))
	f.world.set(b, domain.NewYields(0, 0, 1, 0, 0))
	f.alloc.DoFound()

	require.True(t, f.alloc.DoAlterWorkingPlot(b))
	assert.True(t, f.alloc.IsForcedWorkedAt(b))
	assert.False(t, f.alloc.IsWorkedAt(a))
	assert.Equal(t, 1, f.accounted())
}

func TestIsWorkedAt_未登记地块直接中止(t *testing.T) {
	f := newFixture(1)
	f.alloc.DoFound()

	err := catchPanic(func() { f.alloc.IsWorkedAt(tc(10, 10)) })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPlot)
	assert.True(t, errx.IsFatal(err))

	err = catchPanic(func() { f.alloc.ForceWorkingPlotAt(tc(10, 10), true) })
	assert.ErrorIs(t, err, ErrUnknownPlot)
}

func TestBestCityPlotWithValue_锁定地块取最差时最后被选(t *testing.T) {
	f := newFixture(2)
	a, b := tc(1, 0), tc(0, 1)
	f.world.set(a, domain.NewYields(0, 0, 5, 0, 0))
	f.world.set(b, domain.NewYields(0, 0, 1, 0, 0))
	f.alloc.DoFound()

	loc, v, ok := f.alloc.BestCityPlotWithValue(false, true)
	require.True(t, ok)
	assert.Equal(t, b, loc)
	assert.Equal(t, 10, v)

	require.True(t, f.alloc.ForceWorkingPlotAt(b, true))
	loc, v, ok = f.alloc.BestCityPlotWithValue(false, true)
	require.True(t, ok)
	assert.Equal(t, a, loc)
	assert.Equal(t, 50, v)

	_, _, ok = f.alloc.BestCityPlotWithValue(true, false)
	assert.False(t, ok)
}
