package dto

type TurnReq struct {
	Turn                int  `json:"turn" binding:"min=0"`
	ProductionDeficient bool `json:"production_deficient"`
}

// WorldTurnReq 全部城市推进一回合，Strategies 按玩家 ID 给出本回合的 AI 策略。
type WorldTurnReq struct {
	Turn       int                     `json:"turn" binding:"min=0"`
	Strategies map[int]StrategyPayload `json:"strategies"`
}

type StrategyPayload struct {
	ProductionDeficient bool `json:"production_deficient"`
}

type PlotReq struct {
	Q     *int  `json:"q" binding:"required"`
	R     *int  `json:"r" binding:"required"`
	Force *bool `json:"force"`
}

type FocusReq struct {
	Focus            string `json:"focus" binding:"required"`
	AvoidGrowth      bool   `json:"avoid_growth"`
	ForceAvoidGrowth bool   `json:"force_avoid_growth"`
	NoAutoAssign     bool   `json:"no_auto_assign"`
}

type SpecialistReq struct {
	Building string `json:"building" binding:"required"`
	Add      *bool  `json:"add" binding:"required"`
	Forced   bool   `json:"forced"`
}

type PopulationReq struct {
	Delta int `json:"delta" binding:"required"`
}

type BuildingReq struct {
	Building string `json:"building" binding:"required"`
	Has      *bool  `json:"has" binding:"required"`
}
