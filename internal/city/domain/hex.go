package domain

// WorkRadius 城市可工作地块的最大距离。
const WorkRadius = 3

// TileCoord 六边形轴坐标 (q, r)，第三个立方坐标 s = -q - r。
type TileCoord struct {
	Q int `json:"q" bson:"q"`
	R int `json:"r" bson:"r"`
}

func (c TileCoord) S() int {
	return -c.Q - c.R
}

func (c TileCoord) Add(o TileCoord) TileCoord {
	return TileCoord{Q: c.Q + o.Q, R: c.R + o.R}
}

func (c TileCoord) Scale(k int) TileCoord {
	return TileCoord{Q: c.Q * k, R: c.R * k}
}

// Directions 六个相邻方向，顺序固定，地块扫描顺序依赖它。
var Directions = [6]TileCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

func (c TileCoord) Neighbors() [6]TileCoord {
	var out [6]TileCoord
	for i, d := range Directions {
		out[i] = c.Add(d)
	}
	return out
}

// Distance 六边形距离：立方坐标差的绝对值最大者。
func Distance(a, b TileCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return max(dq, dr, ds)
}

// Ring 返回距 center 恰好 k 的所有坐标。
// 起点为 center + k*Directions[4]，然后依次沿 Directions[0..5] 各走 k 步。
func Ring(center TileCoord, k int) []TileCoord {
	if k <= 0 {
		return []TileCoord{center}
	}
	out := make([]TileCoord, 0, 6*k)
	cur := center.Add(Directions[4].Scale(k))
	for i := 0; i < 6; i++ {
		for j := 0; j < k; j++ {
			out = append(out, cur)
			cur = cur.Add(Directions[i])
		}
	}
	return out
}

// WorkArea 城市工作范围内全部坐标的规范扫描顺序：
// 先是城市中心，再由内向外逐环。选最优/最差地块时同分取先出现者。
func WorkArea(center TileCoord, radius int) []TileCoord {
	out := make([]TileCoord, 0, 1+3*radius*(radius+1))
	out = append(out, center)
	for k := 1; k <= radius; k++ {
		out = append(out, Ring(center, k)...)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
