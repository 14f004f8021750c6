package domain

// YieldType 城市产出类型，闭合枚举，计数统一用定长数组。
type YieldType int8

const (
	YieldFood YieldType = iota
	YieldProduction
	YieldGold
	YieldScience
	YieldCulture

	NumYieldTypes
)

var yieldNames = [NumYieldTypes]string{"food", "production", "gold", "science", "culture"}

func (y YieldType) String() string {
	if y < 0 || y >= NumYieldTypes {
		return "unknown"
	}
	return yieldNames[y]
}

// Yields 按 YieldType 下标存放的产出值。
type Yields [NumYieldTypes]int

func (y Yields) Get(t YieldType) int {
	return y[t]
}

// Any 至少一个产出通道非零。
func (y Yields) Any() bool {
	for _, v := range y {
		if v != 0 {
			return true
		}
	}
	return false
}

func (y Yields) Add(o Yields) Yields {
	for i := range y {
		y[i] += o[i]
	}
	return y
}

func (y Yields) Scale(n int) Yields {
	for i := range y {
		y[i] *= n
	}
	return y
}

func NewYields(food, production, gold, science, culture int) Yields {
	return Yields{food, production, gold, science, culture}
}
