package domain

import (
	"fmt"
	"strings"
)

// FocusType 城市产出侧重，决定估值时对哪种产出加权。
type FocusType int8

const (
	FocusNone FocusType = iota
	FocusFood
	FocusProduction
	FocusGold
	FocusScience
	FocusCulture
	FocusFoodGrowth
	FocusGoldGrowth
	FocusProductionGrowth
	FocusGreatPeople

	NumFocusTypes
)

var focusNames = [NumFocusTypes]string{
	"none", "food", "production", "gold", "science", "culture",
	"food_growth", "gold_growth", "production_growth", "great_people",
}

func (f FocusType) String() string {
	if f < 0 || f >= NumFocusTypes {
		return "unknown"
	}
	return focusNames[f]
}

func ParseFocusType(s string) (FocusType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return FocusNone, nil
	}
	for i, name := range focusNames {
		if name == key {
			return FocusType(i), nil
		}
	}
	return FocusNone, fmt.Errorf("unknown focus type %q", s)
}

// IsGrowth 三种“成长”侧重。
func (f FocusType) IsGrowth() bool {
	return f == FocusFoodGrowth || f == FocusGoldGrowth || f == FocusProductionGrowth
}

// PrimaryYield 侧重直接对应的产出；None/GreatPeople 没有。
func (f FocusType) PrimaryYield() (YieldType, bool) {
	switch f {
	case FocusFood, FocusFoodGrowth:
		return YieldFood, true
	case FocusProduction, FocusProductionGrowth:
		return YieldProduction, true
	case FocusGold, FocusGoldGrowth:
		return YieldGold, true
	case FocusScience:
		return YieldScience, true
	case FocusCulture:
		return YieldCulture, true
	default:
		return 0, false
	}
}

// FocusPolicy 由城市持有，分配器只读。
type FocusPolicy struct {
	Focus                   FocusType
	AvoidGrowth             bool
	ForceAvoidGrowth        bool
	NoAutoAssignSpecialists bool
}

func (p FocusPolicy) IsAvoidGrowth() bool {
	return p.AvoidGrowth || p.ForceAvoidGrowth
}

// Strategy 回合开始时对玩家 AI 策略标记的快照，回合内不再临时查询。
type Strategy struct {
	ProductionDeficient bool
}
